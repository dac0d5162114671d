// internal/core/domain/errors.go
package domain

import "fmt"

// UnknownProductError reports a sale or movement line that references a
// product absent from the snapshot.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// InsufficientStockError reports a requested quantity exceeding the
// snapshot's stock level for a product.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: have %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// NonPositiveQuantityError reports a zero or negative quantity on a
// movement or sale line.
type NonPositiveQuantityError struct {
	Quantity int
}

func (e *NonPositiveQuantityError) Error() string {
	return fmt.Sprintf("quantity must be positive, got %d", e.Quantity)
}
