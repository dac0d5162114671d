// internal/core/domain/product.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/estoqueapp/estoque/internal/pkg/validator"
)

func init() {
	// The store speaks raw JSON numbers for prices, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the local copy of a store product. Quantity is the
// authoritative stock level as last reported by the store; it is replaced
// wholesale on every refresh and never patched locally.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
}

// LowStock reports whether the product has a configured minimum and sits
// below it.
func (p Product) LowStock() bool {
	return p.MinQuantity > 0 && p.Quantity < p.MinQuantity
}

// MissingMin reports whether no alert threshold is configured.
func (p Product) MissingMin() bool {
	return p.MinQuantity <= 0
}

// StockValue returns quantity times unit price.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Matches reports whether the product matches a free-text query against
// name, description, price or quantity.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(p.Price.String(), q) ||
		strings.Contains(fmt.Sprintf("%d", p.Quantity), q)
}

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
}

// Validate mirrors the store's own rules so bad requests fail before the
// network round trip.
func (r *ProductRequest) Validate() error {
	if r.Price.IsNegative() || r.Quantity < 0 || r.MinQuantity < 0 {
		return fmt.Errorf("negative values are not allowed")
	}
	if errs := validator.ValidateStruct(r); len(errs) > 0 {
		return errs[0]
	}
	return nil
}
