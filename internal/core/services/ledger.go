// internal/core/services/ledger.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/internal/core/ports"
)

// movementsCacheKey is the single key the whole ledger blob lives under.
const movementsCacheKey = "estoque:movements"

// Ledger maintains the merged movement list. On refresh it fetches the
// remote list, merges the cached one into it and persists the result; the
// cache only bridges the window before the first fetch completes. Cache
// failures of any kind degrade to an empty cached list and are never
// surfaced.
type Ledger struct {
	store  ports.StockStore
	cache  ports.CacheRepository
	logger *slog.Logger

	mu        sync.Mutex
	movements []domain.Movement
}

// NewLedger creates a ledger service.
func NewLedger(store ports.StockStore, cache ports.CacheRepository, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:  store,
		cache:  cache,
		logger: logger.With(slog.String("service", "ledger")),
	}
}

// Cached returns whatever the local cache holds, for rendering before the
// first fetch completes. A missing or corrupt cache yields an empty list.
func (l *Ledger) Cached(ctx context.Context) []domain.Movement {
	cached := l.loadCache(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.movements) == 0 {
		l.movements = cached
	}
	return append([]domain.Movement(nil), cached...)
}

// Refresh fetches the remote movement list, merges the cache into it,
// persists the merged ledger and returns it. Only the remote fetch can
// fail; cache trouble on either side is swallowed.
func (l *Ledger) Refresh(ctx context.Context) ([]domain.Movement, error) {
	fetched, err := l.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movements: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cached := l.loadCache(ctx)
	merged := Merge(fetched, cached)
	l.saveCache(ctx, merged)
	l.movements = merged

	l.logger.DebugContext(ctx, "ledger refreshed",
		slog.Int("fetched", len(fetched)),
		slog.Int("cached", len(cached)),
		slog.Int("merged", len(merged)))

	return append([]domain.Movement(nil), merged...), nil
}

// Movements returns the last merged ledger.
func (l *Ledger) Movements() []domain.Movement {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Movement(nil), l.movements...)
}

func (l *Ledger) loadCache(ctx context.Context) []domain.Movement {
	var cached []domain.Movement
	if err := l.cache.Get(ctx, movementsCacheKey, &cached); err != nil {
		l.logger.DebugContext(ctx, "movement cache unavailable, starting empty",
			slog.String("error", err.Error()))
		return nil
	}
	return cached
}

func (l *Ledger) saveCache(ctx context.Context, movements []domain.Movement) {
	if err := l.cache.Set(ctx, movementsCacheKey, movements); err != nil {
		// The previously persisted ledger stays as-is.
		l.logger.WarnContext(ctx, "failed to persist movement cache",
			slog.String("error", err.Error()))
	}
}
