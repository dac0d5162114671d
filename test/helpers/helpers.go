// test/helpers/helpers.go
package helpers

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	redis_a "github.com/estoqueapp/estoque/internal/adapters/redis_adapter"
	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/internal/core/ports"
)

// TestLogger returns a test logger.
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestCache starts an in-process Redis and returns a cache bound to
// it. The server is torn down with the test.
func SetupTestCache(t *testing.T) (ports.CacheRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return redis_a.NewCache(client, 0, TestLogger()), mr
}

// TestProduct creates a product with sensible defaults, customizable via
// override functions.
func TestProduct(overrides ...func(*domain.Product)) domain.Product {
	p := domain.Product{
		ID:          1,
		Name:        "Caneta Azul",
		Description: "Caneta esferografica azul",
		Price:       decimal.NewFromFloat(2.50),
		Quantity:    100,
		MinQuantity: 10,
	}
	for _, override := range overrides {
		override(&p)
	}
	return p
}

// TestMovement creates a movement with sensible defaults, customizable via
// override functions.
func TestMovement(overrides ...func(*domain.Movement)) domain.Movement {
	m := domain.Movement{
		ID:        1,
		ProductID: 1,
		Type:      domain.MovementIn,
		Quantity:  10,
		Note:      "Cadastro inicial do produto",
		Timestamp: domain.NewTimestamp(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)),
	}
	for _, override := range overrides {
		override(&m)
	}
	return m
}
