package archive

import (
	"bytes"
	"fmt"
	"hash"
	"io"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/field"
	"github.com/arloliu/aarchive/format"
	"github.com/arloliu/aarchive/header"
)

// Digest computes the fn digest of data in the form stored in a Hash field.
func Digest(fn format.HashFunction, data []byte) ([]byte, error) {
	h := fn.New()
	if h == nil {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidHashFunction, fn)
	}
	h.Write(data)

	return h.Sum(nil), nil
}

// VerifyPayload reads the entry's data payload from r and checks it against every
// Hash field of h.
//
// Returns:
//   - int: Number of digests checked
//   - error: errs.ErrDigestMismatch naming the first field that does not match, or
//     a read error from r
func VerifyPayload(h *header.Header, r io.Reader) (int, error) {
	type check struct {
		key    field.Key
		fn     format.HashFunction
		want   []byte
		hasher hash.Hash
	}

	var checks []check
	var writers []io.Writer
	for i, d := range h.Fields() {
		if d.Type != format.FieldTypeHash {
			continue
		}
		fn, want, err := h.Hash(i)
		if err != nil {
			return 0, err
		}
		hasher := fn.New()
		checks = append(checks, check{key: d.Key, fn: fn, want: want, hasher: hasher})
		writers = append(writers, hasher)
	}
	if len(checks) == 0 {
		return 0, nil
	}

	if _, err := io.Copy(io.MultiWriter(writers...), r); err != nil {
		return 0, err
	}

	for _, c := range checks {
		if got := c.hasher.Sum(nil); !bytes.Equal(got, c.want) {
			return 0, fmt.Errorf("%w: %s (%s) is %x, payload hashes to %x", errs.ErrDigestMismatch, c.key, c.fn, c.want, got)
		}
	}

	return len(checks), nil
}
