// Package favorites keeps the set of products a shopper has starred.
package favorites

import "fashionhub/internal/client/catalog"

// Set is an insertion-ordered product list, unique by product id.
// Not safe for concurrent use.
type Set struct {
	items []catalog.Product
}

// New builds a set from persisted products; the first occurrence of an id wins.
func New(items []catalog.Product) *Set {
	s := &Set{items: make([]catalog.Product, 0, len(items))}
	for _, p := range items {
		s.Add(p)
	}
	return s
}

func (s *Set) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add stores p unless a product with the same id is already present.
// It reports whether the set changed.
func (s *Set) Add(p catalog.Product) bool {
	if s.index(p.ID) >= 0 {
		return false
	}
	s.items = append(s.items, p)
	return true
}

// Remove deletes the product with id. It reports whether the set changed.
func (s *Set) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *Set) Contains(id string) bool {
	return s.index(id) >= 0
}

// Items returns a copy in insertion order.
func (s *Set) Items() []catalog.Product {
	out := make([]catalog.Product, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Set) Len() int {
	return len(s.items)
}
