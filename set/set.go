// Package set provides a small generic set used for collecting distinct
// values (catalog categories, seen document IDs).
package set

import (
	"cmp"
	"sort"
)

type Set[T comparable] struct {
	items map[T]struct{}
}

// New creates an empty Set, optionally pre-filled with items.
func New[T comparable](items ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(items))}
	s.Add(items...)
	return s
}

// FromSlice creates a Set from the provided slice. Duplicates collapse.
func FromSlice[T comparable](items []T) *Set[T] {
	return New(items...)
}

// Add inserts items into the Set. Existing items are left alone.
func (s *Set[T]) Add(items ...T) {
	for _, item := range items {
		s.items[item] = struct{}{}
	}
}

// Remove deletes an item from the Set if present.
func (s *Set[T]) Remove(item T) {
	delete(s.items, item)
}

// Contains reports whether the item is in the Set.
func (s *Set[T]) Contains(item T) bool {
	_, exists := s.items[item]
	return exists
}

// Size returns the number of items in the Set.
func (s *Set[T]) Size() int {
	return len(s.items)
}

// ToSlice returns the items in no particular order.
func (s *Set[T]) ToSlice() []T {
	result := make([]T, 0, len(s.items))
	for item := range s.items {
		result = append(result, item)
	}
	return result
}

// Sorted returns the items of an ordered Set in ascending order.
func Sorted[T cmp.Ordered](s *Set[T]) []T {
	result := s.ToSlice()
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
