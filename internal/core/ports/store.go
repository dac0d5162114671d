// internal/core/ports/store.go
package ports

import (
	"context"

	"github.com/estoqueapp/estoque/internal/core/domain"
)

// StockStore is the remote product/movement store port. The store owns
// ids and timestamps; the client never assigns or mutates them locally.
// Deleting a product also makes the store emit an excluido movement with
// the product's name in its note.
type StockStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, req domain.ProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req domain.ProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListMovements(ctx context.Context) ([]domain.Movement, error)
	CreateMovement(ctx context.Context, req domain.MovementRequest) (*domain.Movement, error)
}
