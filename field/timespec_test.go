package field

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimespec(t *testing.T) {
	tm := time.Date(2024, 6, 15, 10, 30, 0, 123456789, time.UTC)
	ts := TimespecOf(tm)

	require.Equal(t, tm.Unix(), ts.Sec)
	require.Equal(t, uint32(123456789), ts.Nsec)
	require.True(t, ts.Wide())
	require.True(t, tm.Equal(ts.Time()))

	whole := TimespecOf(time.Unix(1700000000, 0))
	require.False(t, whole.Wide())
	require.Equal(t, int64(1700000000), whole.Time().Unix())
}
