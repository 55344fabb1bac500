package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateID is returned when a replacement set repeats an id.
var ErrDuplicateID = errors.New("duplicate id")

// Collection is an in-memory, id-keyed list of records.
//
// All methods are safe for concurrent use. Records are stored by value, and
// List returns a copy, so callers never hold a reference into the
// collection's internal slice.
type Collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	idOf    func(T) int
	withID  func(T, int) T
	prepend bool // insert new records at the front
}

// NewCollection creates an empty collection.
// idOf reads a record's id and withID returns a copy carrying a new id.
func NewCollection[T any](idOf func(T) int, withID func(T, int) T, prepend bool) *Collection[T] {
	return &Collection[T]{
		idOf:    idOf,
		withID:  withID,
		prepend: prepend,
	}
}

// nextID returns max(existing ids, 0) + 1. Caller must hold the lock.
func (c *Collection[T]) nextID() int {
	maxID := 0
	for _, item := range c.items {
		if id := c.idOf(item); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// indexOf returns the slice position of id or -1. Caller must hold the lock.
func (c *Collection[T]) indexOf(id int) int {
	for i, item := range c.items {
		if c.idOf(item) == id {
			return i
		}
	}
	return -1
}

// Create assigns the next id to rec, inserts it and returns the stored record.
func (c *Collection[T]) Create(rec T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec = c.withID(rec, c.nextID())
	if c.prepend {
		c.items = append([]T{rec}, c.items...)
	} else {
		c.items = append(c.items, rec)
	}
	return rec
}

// Append inserts recs with consecutive fresh ids, preserving their order
// at the end of the collection. Returns the stored records.
func (c *Collection[T]) Append(recs []T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID()
	stored := make([]T, len(recs))
	for i, rec := range recs {
		stored[i] = c.withID(rec, id)
		id++
	}
	c.items = append(c.items, stored...)
	return stored
}

// Update replaces the record with the given id.
// Returns false and leaves the collection untouched if id is absent.
func (c *Collection[T]) Update(id int, rec T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items[i] = c.withID(rec, id)
	return true
}

// Modify applies fn to a copy of the record with the given id and stores
// the result. The id is preserved regardless of what fn does.
// Returns the stored record and false if id is absent.
func (c *Collection[T]) Modify(id int, fn func(T) T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	c.items[i] = c.withID(fn(c.items[i]), id)
	return c.items[i], true
}

// Delete removes the record with the given id.
// Deleting an absent id is a no-op and returns false.
func (c *Collection[T]) Delete(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return true
}

// ReplaceAll swaps the whole collection for recs. A set that repeats an
// id is rejected and the collection is left as it was.
func (c *Collection[T]) ReplaceAll(recs []T) error {
	seen := make(map[int]struct{}, len(recs))
	for _, rec := range recs {
		id := c.idOf(rec)
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}

	items := make([]T, len(recs))
	copy(items, recs)

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// List returns a snapshot copy of all records.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Store owns the three entity collections.
type Store struct {
	Loads   *Collection[Load]
	Drivers *Collection[Driver]
	Trucks  *Collection[Truck]
}

// NewStore creates a store with empty collections.
// New loads are listed first; new drivers and trucks are listed last.
func NewStore() *Store {
	return &Store{
		Loads: NewCollection(
			func(l Load) int { return l.ID },
			func(l Load, id int) Load {
				l.ID = id
				return l
			},
			true,
		),
		Drivers: NewCollection(
			func(d Driver) int { return d.ID },
			func(d Driver, id int) Driver {
				d.ID = id
				return d
			},
			false,
		),
		Trucks: NewCollection(
			func(t Truck) int { return t.ID },
			func(t Truck, id int) Truck {
				t.ID = id
				return t
			},
			false,
		),
	}
}
