// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/internal/core/ports"
)

// Catalog orchestrates product reads and writes against the remote store
// and keeps the product snapshot current. Writes go through the store;
// there is no optimistic local patch, the snapshot only changes when a
// refresh brings back the store's view.
type Catalog struct {
	store    ports.StockStore
	snapshot *ProductSnapshot
	logger   *slog.Logger
}

// NewCatalog creates a catalog service.
func NewCatalog(store ports.StockStore, snapshot *ProductSnapshot, logger *slog.Logger) *Catalog {
	return &Catalog{
		store:    store,
		snapshot: snapshot,
		logger:   logger.With(slog.String("service", "catalog")),
	}
}

// Snapshot exposes the product snapshot for stock checks and rendering.
func (c *Catalog) Snapshot() *ProductSnapshot {
	return c.snapshot
}

// Refresh re-fetches the full product list and replaces the snapshot.
func (c *Catalog) Refresh(ctx context.Context) error {
	products, err := c.store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	c.snapshot.Replace(products)
	c.logger.DebugContext(ctx, "product snapshot replaced",
		slog.Int("count", len(products)))
	return nil
}

// Create registers a new product. The store records the initial quantity
// as an entrada movement on its side.
func (c *Catalog) Create(ctx context.Context, req domain.ProductRequest) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := c.store.CreateProduct(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	c.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name))
	return product, nil
}

// Update replaces a product's fields.
func (c *Catalog) Update(ctx context.Context, id int64, req domain.ProductRequest) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := c.store.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	c.logger.InfoContext(ctx, "product updated",
		slog.Int64("product_id", id))
	return product, nil
}

// Delete removes a product. The store emits the excluido ledger entry
// carrying the product's name.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	if err := c.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	c.logger.InfoContext(ctx, "product deleted",
		slog.Int64("product_id", id))
	return nil
}
