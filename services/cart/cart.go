// Package cart is the in-memory cart shared across screens: an ordered
// list of (product, quantity) pairs uniqued by product ID. Nothing is
// persisted; checkout snapshots the contents elsewhere.
package cart

import (
	"sync"

	"github.com/padec243-alt/Padec-Connect-sub000/services/catalog"
)

// Item is one cart line.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Store holds one session's cart. Create it at app start and inject it;
// there is no package-level instance.
type Store struct {
	mu    sync.Mutex
	items []Item
}

func NewStore() *Store {
	return &Store{}
}

// Add appends the product with quantity 1, or bumps its quantity when it is
// already in the cart.
func (s *Store) Add(product catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, Item{Product: product, Quantity: 1})
}

// UpdateQuantity sets a line's quantity. Anything below 1 removes the line.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		s.Remove(productID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// Remove drops the line for the product, if present.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Total is the sum of price times quantity across all lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
