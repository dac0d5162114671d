// internal/core/services/writer.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/internal/core/ports"
)

// MovementWriter records single manual stock adjustments (stock-in,
// stock-out, quick add). It is a thin pass-through to the store: the only
// local rule is that quantity must be a positive integer. Callers refresh
// the snapshot and the ledger after a successful write.
type MovementWriter struct {
	store  ports.StockStore
	logger *slog.Logger
}

// NewMovementWriter creates a movement writer.
func NewMovementWriter(store ports.StockStore, logger *slog.Logger) *MovementWriter {
	return &MovementWriter{
		store:  store,
		logger: logger.With(slog.String("service", "movements")),
	}
}

// Record validates and submits one movement. Store failures are surfaced
// as-is; nothing is retried.
func (w *MovementWriter) Record(ctx context.Context, req domain.MovementRequest) (*domain.Movement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	movement, err := w.store.CreateMovement(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to record movement: %w", err)
	}

	w.logger.InfoContext(ctx, "movement recorded",
		slog.Int64("movement_id", movement.ID),
		slog.Int64("product_id", movement.ProductID),
		slog.String("type", string(movement.Type)),
		slog.Int("quantity", movement.Quantity))

	return movement, nil
}
