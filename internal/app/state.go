// internal/app/state.go

// Package app holds the presentation-facing application state as an
// explicit value with named transitions. The core services never depend on
// it; front ends apply transitions and render the resulting value.
package app

import "github.com/estoqueapp/estoque/internal/core/domain"

// State is an immutable snapshot of the UI-facing state. Transitions
// return a new value and leave the receiver untouched.
type State struct {
	Query    string
	GridView bool

	ProductOpen     bool
	ProductSelected *domain.Product

	MovementOpen    bool
	MovementProduct *domain.Product

	SaleOpen    bool
	SaleProduct *domain.Product

	QuickAddOpen    bool
	QuickAddProduct *domain.Product

	DetailsOpen     bool
	DetailsMovement *domain.Movement
}

// NewState returns the initial state.
func NewState() State {
	return State{GridView: true}
}

// SetQuery updates the product filter query.
func (s State) SetQuery(query string) State {
	s.Query = query
	return s
}

// ToggleGrid flips between grid and list rendering.
func (s State) ToggleGrid() State {
	s.GridView = !s.GridView
	return s
}

// OpenProduct opens the product editor; a nil product means "create new".
func (s State) OpenProduct(p *domain.Product) State {
	s.ProductOpen = true
	s.ProductSelected = p
	return s
}

// CloseProduct closes the product editor and clears the selection.
func (s State) CloseProduct() State {
	s.ProductOpen = false
	s.ProductSelected = nil
	return s
}

// OpenMovement opens the manual adjustment form for a product.
func (s State) OpenMovement(p *domain.Product) State {
	s.MovementOpen = true
	s.MovementProduct = p
	return s
}

// CloseMovement closes the manual adjustment form.
func (s State) CloseMovement() State {
	s.MovementOpen = false
	s.MovementProduct = nil
	return s
}

// OpenSale opens the sale form, optionally pre-selecting a product.
func (s State) OpenSale(p *domain.Product) State {
	s.SaleOpen = true
	s.SaleProduct = p
	return s
}

// CloseSale closes the sale form.
func (s State) CloseSale() State {
	s.SaleOpen = false
	s.SaleProduct = nil
	return s
}

// OpenQuickAdd opens the stock-in shortcut for a product.
func (s State) OpenQuickAdd(p *domain.Product) State {
	s.QuickAddOpen = true
	s.QuickAddProduct = p
	return s
}

// CloseQuickAdd closes the stock-in shortcut.
func (s State) CloseQuickAdd() State {
	s.QuickAddOpen = false
	s.QuickAddProduct = nil
	return s
}

// OpenMovementDetails opens the detail view for a ledger entry.
func (s State) OpenMovementDetails(m *domain.Movement) State {
	s.DetailsOpen = true
	s.DetailsMovement = m
	return s
}

// CloseMovementDetails closes the detail view.
func (s State) CloseMovementDetails() State {
	s.DetailsOpen = false
	s.DetailsMovement = nil
	return s
}
