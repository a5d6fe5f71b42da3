package field

import (
	"fmt"
	"iter"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/internal/pool"
)

// KeySet is an ordered, append-only table of field descriptors.
//
// Backing storage grows by the 1.5x policy starting at 16 entries. Clear resets the
// count but keeps the storage; cleared entries are not readable state.
//
// A KeySet is not safe for concurrent use.
type KeySet struct {
	entries []Descriptor
}

// NewKeySet creates an empty KeySet with zero capacity.
func NewKeySet() *KeySet {
	return &KeySet{}
}

// Len returns the number of descriptors.
func (s *KeySet) Len() int {
	return len(s.entries)
}

// Cap returns the number of descriptors the table can hold without growing.
func (s *KeySet) Cap() int {
	return cap(s.entries)
}

// Reserve ensures the table can hold n descriptors without reallocating.
func (s *KeySet) Reserve(n int) {
	if cap(s.entries) >= n {
		return
	}

	grown := make([]Descriptor, len(s.entries), pool.GrowCapacity(cap(s.entries), n, pool.InitialFieldCapacity))
	copy(grown, s.entries)
	s.entries = grown
}

// Append adds d at the end of the table.
func (s *KeySet) Append(d Descriptor) {
	s.Reserve(len(s.entries) + 1)
	s.entries = append(s.entries, d)
}

// AppendAll adds ds at the end of the table with a single growth step.
func (s *KeySet) AppendAll(ds ...Descriptor) {
	s.Reserve(len(s.entries) + len(ds))
	s.entries = append(s.entries, ds...)
}

// Get returns the descriptor at index i.
//
// Returns:
//   - Descriptor: The descriptor at i
//   - error: ErrIndexOutOfRange if i is negative or not below Len
func (s *KeySet) Get(i int) (Descriptor, error) {
	if i < 0 || i >= len(s.entries) {
		return Descriptor{}, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrIndexOutOfRange, i, len(s.entries))
	}

	return s.entries[i], nil
}

// IndexOf returns the index of the first descriptor with the given key, or -1.
func (s *KeySet) IndexOf(key Key) int {
	for i := range s.entries {
		if s.entries[i].Key == key {
			return i
		}
	}

	return -1
}

// Keys returns the keys of all descriptors in table order.
func (s *KeySet) Keys() []Key {
	keys := make([]Key, len(s.entries))
	for i := range s.entries {
		keys[i] = s.entries[i].Key
	}

	return keys
}

// All iterates over the descriptors in table order.
func (s *KeySet) All() iter.Seq2[int, Descriptor] {
	return func(yield func(int, Descriptor) bool) {
		for i, d := range s.entries {
			if !yield(i, d) {
				return
			}
		}
	}
}

// Clear resets the count to zero and keeps the backing storage.
func (s *KeySet) Clear() {
	s.entries = s.entries[:0]
}

// Release drops the backing storage.
func (s *KeySet) Release() {
	s.entries = nil
}
