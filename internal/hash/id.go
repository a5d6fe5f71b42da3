// Package hash provides the 64-bit fingerprints used to track entry paths and to
// summarize blob payloads.
package hash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// New returns a streaming xxHash64 digest.
func New() *xxhash.Digest {
	return xxhash.New()
}

// Format renders a fingerprint as 16 lower-case hex digits.
func Format(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
