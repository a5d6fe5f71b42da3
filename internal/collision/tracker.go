// Package collision tracks archive entry paths so an encoder can detect entries
// written twice.
package collision

import (
	"fmt"

	"github.com/arloliu/aarchive/errs"
	"github.com/arloliu/aarchive/internal/hash"
)

// Tracker records entry paths by their xxHash64 ID.
// Paths whose IDs collide with a different path are kept in a secondary set,
// so duplicates are still reported exactly.
type Tracker struct {
	paths        map[uint64]string   // ID → first path seen with that ID
	overflow     map[string]struct{} // paths whose ID was already taken by another path
	count        int
	hasCollision bool
}

// NewTracker creates a new path tracker.
func NewTracker() *Tracker {
	return &Tracker{
		paths:    make(map[uint64]string),
		overflow: make(map[string]struct{}),
	}
}

// Track records path.
//
// Returns:
//   - error: errs.ErrInvalidPath for an empty path, errs.ErrDuplicatePath when path
//     was already tracked
func (t *Tracker) Track(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", errs.ErrInvalidPath)
	}

	id := hash.ID(path)
	existing, exists := t.paths[id]
	if !exists {
		t.paths[id] = path
		t.count++

		return nil
	}
	if existing == path {
		return fmt.Errorf("%w: %q", errs.ErrDuplicatePath, path)
	}

	// Same ID, different path.
	t.hasCollision = true
	if _, dup := t.overflow[path]; dup {
		return fmt.Errorf("%w: %q", errs.ErrDuplicatePath, path)
	}
	t.overflow[path] = struct{}{}
	t.count++

	return nil
}

// Contains reports whether path was tracked.
func (t *Tracker) Contains(path string) bool {
	if existing, ok := t.paths[hash.ID(path)]; ok && existing == path {
		return true
	}
	_, ok := t.overflow[path]

	return ok
}

// HasCollision returns true if two different paths produced the same ID.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Count returns the number of tracked paths.
func (t *Tracker) Count() int {
	return t.count
}

// Reset clears all tracked paths and collision state.
func (t *Tracker) Reset() {
	clear(t.paths)
	clear(t.overflow)
	t.count = 0
	t.hasCollision = false
}
