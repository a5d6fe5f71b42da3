package field

import "time"

// Timespec is the value of a Timespec field: seconds since the Unix epoch and,
// for the 12-byte form, nanoseconds.
type Timespec struct {
	Sec  int64
	Nsec uint32
}

// TimespecOf converts t to a Timespec.
func TimespecOf(t time.Time) Timespec {
	return Timespec{Sec: t.Unix(), Nsec: uint32(t.Nanosecond())} //nolint:gosec
}

// Time converts ts to a time.Time in UTC.
func (ts Timespec) Time() time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec)).UTC()
}

// Wide reports whether ts needs the 12-byte form to be stored without loss.
func (ts Timespec) Wide() bool {
	return ts.Nsec != 0
}
