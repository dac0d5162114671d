// internal/adapters/rest/client_test.go
package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoqueapp/estoque/internal/adapters/rest"
	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/test/helpers"
)

func newTestClient(t *testing.T, handler http.Handler) *rest.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return rest.NewClient(rest.Config{BaseURL: srv.URL + "/"}, helpers.TestLogger())
}

func TestClient_ListProducts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "every request carries a valid request id")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "Caneta Azul", "price": 2.5, "quantity": 100, "min_quantity": 10},
			{"id": 2, "name": "Caderno", "price": 15.9, "quantity": 5, "min_quantity": 2}
		]`))
	}))

	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Caneta Azul", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, 100, products[0].Quantity)
}

func TestClient_CreateMovement(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/movements", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.MovementRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(1), req.ProductID)
		assert.Equal(t, domain.MovementOut, req.Type)
		assert.Equal(t, 4, req.Quantity)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 77, "product_id": 1, "type": "saida", "quantity": 4, "timestamp": "2024-06-01T10:00:00.123456"}`))
	}))

	movement, err := client.CreateMovement(context.Background(), domain.MovementRequest{
		ProductID: 1,
		Type:      domain.MovementOut,
		Quantity:  4,
		Note:      "Venda: 4 x R$ 2.50 = R$ 10.00 — Total: R$ 10.00",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(77), movement.ID)
	assert.False(t, movement.Timestamp.IsZero(), "zoneless store timestamp must decode")
}

func TestClient_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{
			name:       "detail envelope",
			status:     http.StatusBadRequest,
			body:       `{"detail": "Estoque insuficiente"}`,
			wantDetail: "Estoque insuficiente",
		},
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       `{"detail": "Produto não encontrado"}`,
			wantDetail: "Produto não encontrado",
		},
		{
			name:       "non-json body falls back to raw text",
			status:     http.StatusBadGateway,
			body:       "upstream timeout",
			wantDetail: "upstream timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := client.ListMovements(context.Background())

			require.Error(t, err)
			var storeErr *rest.StoreError
			require.ErrorAs(t, err, &storeErr)
			assert.Equal(t, tt.status, storeErr.StatusCode)
			assert.Equal(t, tt.wantDetail, storeErr.Detail)
		})
	}
}

func TestClient_DeleteProduct(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/products/3", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.DeleteProduct(context.Background(), 3))
}

func TestClient_UpdateProduct(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/1", r.URL.Path)

		var req domain.ProductRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Caneta Azul", req.Name)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "name": "Caneta Azul", "price": 3.0, "quantity": 90, "min_quantity": 10}`))
	}))

	product, err := client.UpdateProduct(context.Background(), 1, domain.ProductRequest{
		Name:     "Caneta Azul",
		Price:    decimal.NewFromFloat(3.00),
		Quantity: 90,
	})

	require.NoError(t, err)
	assert.Equal(t, 90, product.Quantity)
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListProducts(ctx)
	require.Error(t, err)
}
