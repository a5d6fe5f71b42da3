package archive

import (
	"io"

	"github.com/arloliu/aarchive/internal/hash"
)

// Fingerprint returns the xxHash64 of a payload.
func Fingerprint(data []byte) uint64 {
	return hash.Sum(data)
}

// FingerprintReader returns the xxHash64 of everything read from r and the number of
// bytes read.
func FingerprintReader(r io.Reader) (uint64, int64, error) {
	d := hash.New()
	n, err := io.Copy(d, r)
	if err != nil {
		return 0, n, err
	}

	return d.Sum64(), n, nil
}

// FormatFingerprint renders a fingerprint as 16 hex digits.
func FormatFingerprint(sum uint64) string {
	return hash.Format(sum)
}
