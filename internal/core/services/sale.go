// internal/core/services/sale.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/internal/core/ports"
)

// SalePhase is the observable state of a sale transaction.
type SalePhase string

const (
	SalePending         SalePhase = "pending"
	SaleCommitting      SalePhase = "committing"
	SaleCommitted       SalePhase = "committed"
	SalePartiallyFailed SalePhase = "partially_failed"
)

// SaleTransaction tracks one sale through validation and commit. Its phase
// moves Pending -> Committing -> Committed, or to PartiallyFailed at the
// line where a movement creation failed; lines before it are already
// durable on the store and are not rolled back.
type SaleTransaction struct {
	Payload domain.SalePayload

	phase     SalePhase
	committed int
	failedAt  int
	err       error
}

// Phase returns the transaction's current phase.
func (t *SaleTransaction) Phase() SalePhase {
	return t.phase
}

// CommittedLines returns how many lines have been durably created.
func (t *SaleTransaction) CommittedLines() int {
	return t.committed
}

// Failure returns the failing line index and error after a partial
// failure, or (-1, nil) otherwise.
func (t *SaleTransaction) Failure() (int, error) {
	if t.phase != SalePartiallyFailed {
		return -1, nil
	}
	return t.failedAt, t.err
}

// SaleProcessor validates a multi-line sale against a product snapshot and
// commits it as a sequence of outgoing movements.
type SaleProcessor struct {
	store  ports.StockStore
	logger *slog.Logger
}

// NewSaleProcessor creates a sale processor.
func NewSaleProcessor(store ports.StockStore, logger *slog.Logger) *SaleProcessor {
	return &SaleProcessor{
		store:  store,
		logger: logger.With(slog.String("service", "sale")),
	}
}

// Process runs a sale end to end.
//
// Pre-flight first: every line is resolved and stock-checked against the
// snapshot as it was before the first line, with no network calls. Each
// line is checked on its own, so two lines for the same product can both
// pass even if together they exceed availability. Any validation failure
// aborts the whole sale with zero movements created and a typed error.
//
// Commit second: one saida movement per line, strictly one at a time in
// input order, each note carrying quantity, unit price, subtotal and the
// sale total. The commit is not atomic: if line k fails, lines 1..k-1 stay
// on the store, no retry and no compensation, and the returned transaction
// reports the failing line. After a fully committed sale the caller must
// refresh the product snapshot and the ledger.
func (p *SaleProcessor) Process(ctx context.Context, lines []domain.SaleLine, snapshot *ProductSnapshot) (*SaleTransaction, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("sale has no lines")
	}

	payload, err := p.price(lines, snapshot)
	if err != nil {
		return nil, err
	}

	tx := &SaleTransaction{Payload: payload, phase: SalePending, failedAt: -1}

	tx.phase = SaleCommitting
	for i, line := range payload.Lines {
		req := domain.MovementRequest{
			ProductID: line.ProductID,
			Type:      domain.MovementOut,
			Quantity:  line.Quantity,
			Note:      domain.SaleNote(line, payload.Total),
		}

		if _, err := p.store.CreateMovement(ctx, req); err != nil {
			tx.phase = SalePartiallyFailed
			tx.failedAt = i
			tx.err = err
			p.logger.ErrorContext(ctx, "sale commit failed mid-flight",
				slog.Int("line", i),
				slog.Int("committed", tx.committed),
				slog.String("error", err.Error()))
			return tx, fmt.Errorf("failed to commit sale line %d: %w", i, err)
		}
		tx.committed++
	}

	tx.phase = SaleCommitted
	p.logger.InfoContext(ctx, "sale committed",
		slog.Int("lines", tx.committed),
		slog.String("total", payload.Total.StringFixed(2)))
	return tx, nil
}

// price validates each line against the snapshot and derives unit prices,
// subtotals and the payload total.
func (p *SaleProcessor) price(lines []domain.SaleLine, snapshot *ProductSnapshot) (domain.SalePayload, error) {
	priced := make([]domain.SaleLine, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		if line.Quantity <= 0 {
			return domain.SalePayload{}, &domain.NonPositiveQuantityError{Quantity: line.Quantity}
		}

		product, ok := snapshot.FindByID(line.ProductID)
		if !ok {
			return domain.SalePayload{}, &domain.UnknownProductError{ProductID: line.ProductID}
		}
		if product.Quantity < line.Quantity {
			return domain.SalePayload{}, &domain.InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   line.Quantity,
			}
		}

		line.Price(product.Price)
		total = total.Add(line.Subtotal)
		priced = append(priced, line)
	}

	return domain.SalePayload{Lines: priced, Total: total}, nil
}
