// Package store provides a concurrency-safe in-memory collection with
// auto-assigned integer ids, the backing state for the demo resources.
package store

import "sync"

// Entity is implemented by anything a Store can hold. WithID returns a copy
// of the entity with the given id so stored values stay immutable from the
// caller's point of view.
type Entity[T any] interface {
	GetID() int
	WithID(id int) T
}

// Store is a mutex-guarded in-memory collection. Ids are assigned from a
// monotonic counter and never reused, even after deletes.
type Store[T Entity[T]] struct {
	mu     sync.RWMutex
	items  []T
	nextID int
}

// New creates an empty Store whose first assigned id is 1.
func New[T Entity[T]]() *Store[T] {
	return &Store[T]{nextID: 1}
}

// NewSeeded creates a Store pre-populated with the given items. The id
// counter continues after the highest seeded id.
func NewSeeded[T Entity[T]](items []T) *Store[T] {
	s := New[T]()
	s.items = append(s.items, items...)
	for _, item := range items {
		if item.GetID() >= s.nextID {
			s.nextID = item.GetID() + 1
		}
	}
	return s
}

// Add assigns the next id to item, stores it, and returns the stored value.
func (s *Store[T]) Add(item T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := item.WithID(s.nextID)
	s.nextID++
	s.items = append(s.items, stored)
	return stored
}

// Get returns the item with the given id.
func (s *Store[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// List returns a copy of all items in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Update replaces the item with the given id, preserving the id, and returns
// the stored value.
func (s *Store[T]) Update(id int, item T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.items {
		if existing.GetID() == id {
			stored := item.WithID(id)
			s.items[i] = stored
			return stored, true
		}
	}
	var zero T
	return zero, false
}

// Delete removes the item with the given id and returns the removed value.
func (s *Store[T]) Delete(id int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.GetID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns all items for which keep returns true, in insertion order.
func (s *Store[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []T
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the first item for which match returns true.
func (s *Store[T]) Find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of stored items.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
