// internal/core/domain/sale_test.go
package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoqueapp/estoque/internal/core/domain"
)

func TestSaleLine_Price(t *testing.T) {
	line := domain.SaleLine{ProductID: 1, Quantity: 4}
	line.Price(decimal.NewFromFloat(2.50))

	assert.True(t, line.UnitPrice.Equal(decimal.NewFromFloat(2.50)))
	assert.True(t, line.Subtotal.Equal(decimal.NewFromFloat(10.00)))
}

func TestSaleNote(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		unit     float64
		total    float64
		want     string
	}{
		{
			name:     "whole values padded to two decimals",
			quantity: 4,
			unit:     2.5,
			total:    10,
			want:     "Venda: 4 x R$ 2.50 = R$ 10.00 — Total: R$ 10.00",
		},
		{
			name:     "line subtotal differs from sale total",
			quantity: 1,
			unit:     15.9,
			total:    45.9,
			want:     "Venda: 1 x R$ 15.90 = R$ 15.90 — Total: R$ 45.90",
		},
		{
			name:     "sub-cent unit prices round half up",
			quantity: 3,
			unit:     0.333,
			total:    0.999,
			want:     "Venda: 3 x R$ 0.33 = R$ 1.00 — Total: R$ 1.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := domain.SaleLine{Quantity: tt.quantity}
			line.Price(decimal.NewFromFloat(tt.unit))

			got := domain.SaleNote(line, decimal.NewFromFloat(tt.total))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSalePayload_MarshalsItemsKey(t *testing.T) {
	line := domain.SaleLine{ProductID: 1, Quantity: 2}
	line.Price(decimal.NewFromFloat(2.50))
	payload := domain.SalePayload{Lines: []domain.SaleLine{line}, Total: line.Subtotal}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[`)
	assert.Contains(t, string(raw), `"total":5`)
}
