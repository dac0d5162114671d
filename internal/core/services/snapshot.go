// internal/core/services/snapshot.go
package services

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/estoqueapp/estoque/internal/core/domain"
)

// ProductSnapshot holds the most recent full product list. Every refresh
// replaces the list wholesale; quantities are whatever the store last
// reported and are never decremented locally after a sale. Stock checks
// during sale validation read this snapshot synchronously.
type ProductSnapshot struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[int64]domain.Product
}

// NewProductSnapshot creates an empty snapshot.
func NewProductSnapshot() *ProductSnapshot {
	return &ProductSnapshot{byID: make(map[int64]domain.Product)}
}

// Replace swaps in a freshly fetched product list.
func (s *ProductSnapshot) Replace(products []domain.Product) {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]domain.Product(nil), products...)
	s.byID = byID
}

// FindByID looks a product up by id.
func (s *ProductSnapshot) FindByID(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// All returns a copy of the product list in fetch order.
func (s *ProductSnapshot) All() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

// Search returns the products matching a free-text query.
func (s *ProductSnapshot) Search(query string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Matches(query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// TotalItems sums the stock quantities of all products.
func (s *ProductSnapshot) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, p := range s.products {
		total += p.Quantity
	}
	return total
}

// TotalValue sums quantity times price over all products.
func (s *ProductSnapshot) TotalValue() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, p := range s.products {
		total = total.Add(p.StockValue())
	}
	return total
}

// LowStock returns the products below their configured minimum. Products
// without a positive minimum are never alert candidates.
func (s *ProductSnapshot) LowStock() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var low []domain.Product
	for _, p := range s.products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low
}

// MissingMin returns the products with no alert threshold configured.
func (s *ProductSnapshot) MissingMin() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []domain.Product
	for _, p := range s.products {
		if p.MissingMin() {
			missing = append(missing, p)
		}
	}
	return missing
}
