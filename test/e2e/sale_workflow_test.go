//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/estoqueapp/estoque/internal/adapters/rest"
	"github.com/estoqueapp/estoque/internal/core/domain"
	"github.com/estoqueapp/estoque/internal/core/services"
	"github.com/estoqueapp/estoque/test/helpers"
)

// fakeStore is an in-process stand-in for the remote store: products and
// movements in memory, ids and timestamps assigned server-side, errors in
// the store's {"detail": ...} envelope.
type fakeStore struct {
	mu        sync.Mutex
	products  map[int64]*domain.Product
	movements []domain.Movement
	nextID    int64

	// failMovementAfter fails every CreateMovement once this many have
	// succeeded; zero disables the fault.
	failMovementAfter int
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[int64]*domain.Product), nextID: 1}
}

func (f *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", f.handleProducts)
	mux.HandleFunc("/products/", f.handleProduct)
	mux.HandleFunc("/movements", f.handleMovements)
	return mux
}

func (f *fakeStore) handleProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		list := make([]domain.Product, 0, len(f.products))
		for id := int64(1); id < f.nextID; id++ {
			if p, ok := f.products[id]; ok {
				list = append(list, *p)
			}
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var req domain.ProductRequest
		json.NewDecoder(r.Body).Decode(&req)

		p := domain.Product{
			ID:          f.nextID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Quantity:    req.Quantity,
			MinQuantity: req.MinQuantity,
		}
		f.nextID++
		f.products[p.ID] = &p
		f.appendMovement(p.ID, domain.MovementIn, p.Quantity, "Cadastro inicial do produto")
		writeJSON(w, http.StatusCreated, p)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (f *fakeStore) handleProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/products/"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid product id")
		return
	}
	p, ok := f.products[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Produto não encontrado")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req domain.ProductRequest
		json.NewDecoder(r.Body).Decode(&req)
		p.Name = req.Name
		p.Description = req.Description
		p.Price = req.Price
		p.Quantity = req.Quantity
		p.MinQuantity = req.MinQuantity
		writeJSON(w, http.StatusOK, *p)
	case http.MethodDelete:
		f.appendMovement(id, domain.MovementDeleted, p.Quantity, p.Name)
		delete(f.products, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (f *fakeStore) handleMovements(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, f.movements)
	case http.MethodPost:
		var req domain.MovementRequest
		json.NewDecoder(r.Body).Decode(&req)

		if f.failMovementAfter > 0 && f.committedSales() >= f.failMovementAfter {
			writeDetail(w, http.StatusInternalServerError, "Falha ao registrar movimentação")
			return
		}

		p, ok := f.products[req.ProductID]
		if !ok {
			writeDetail(w, http.StatusNotFound, "Produto não encontrado")
			return
		}
		if req.Type == domain.MovementOut {
			if p.Quantity < req.Quantity {
				writeDetail(w, http.StatusBadRequest, "Estoque insuficiente")
				return
			}
			p.Quantity -= req.Quantity
		} else {
			p.Quantity += req.Quantity
		}

		m := f.appendMovement(req.ProductID, req.Type, req.Quantity, req.Note)
		writeJSON(w, http.StatusCreated, m)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (f *fakeStore) appendMovement(productID int64, typ domain.MovementType, qty int, note string) domain.Movement {
	m := domain.Movement{
		ID:        f.nextID,
		ProductID: productID,
		Type:      typ,
		Quantity:  qty,
		Note:      note,
		Timestamp: domain.NewTimestamp(time.Now().UTC()),
	}
	f.nextID++
	f.movements = append(f.movements, m)
	return m
}

func (f *fakeStore) committedSales() int {
	count := 0
	for _, m := range f.movements {
		if m.Type == domain.MovementOut {
			count++
		}
	}
	return count
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type SaleWorkflowE2ESuite struct {
	suite.Suite
	store  *fakeStore
	server *httptest.Server

	client    *rest.Client
	catalog   *services.Catalog
	ledger    *services.Ledger
	processor *services.SaleProcessor
	writer    *services.MovementWriter
}

func (s *SaleWorkflowE2ESuite) SetupTest() {
	s.store = newFakeStore()
	s.server = httptest.NewServer(s.store.handler())
	s.T().Cleanup(s.server.Close)

	logger := helpers.TestLogger()
	cache, _ := helpers.SetupTestCache(s.T())

	s.client = rest.NewClient(rest.Config{BaseURL: s.server.URL}, logger)
	s.catalog = services.NewCatalog(s.client, services.NewProductSnapshot(), logger)
	s.ledger = services.NewLedger(s.client, cache, logger)
	s.processor = services.NewSaleProcessor(s.client, logger)
	s.writer = services.NewMovementWriter(s.client, logger)
}

func (s *SaleWorkflowE2ESuite) TestCompleteSaleWorkflow() {
	ctx := context.Background()

	// 1. Register two products; the store logs an entrada for each.
	caneta, err := s.catalog.Create(ctx, domain.ProductRequest{
		Name: "Caneta Azul", Price: decimal.NewFromFloat(2.50), Quantity: 100, MinQuantity: 10,
	})
	s.Require().NoError(err)

	caderno, err := s.catalog.Create(ctx, domain.ProductRequest{
		Name: "Caderno", Price: decimal.NewFromFloat(15.90), Quantity: 5, MinQuantity: 2,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.catalog.Refresh(ctx))
	s.Len(s.catalog.Snapshot().All(), 2)

	// 2. Sell across both products in one transaction.
	tx, err := s.processor.Process(ctx, []domain.SaleLine{
		{ProductID: caneta.ID, Quantity: 4},
		{ProductID: caderno.ID, Quantity: 1},
	}, s.catalog.Snapshot())
	s.Require().NoError(err)
	s.Equal(services.SaleCommitted, tx.Phase())
	s.Equal(2, tx.CommittedLines())
	s.True(tx.Payload.Total.Equal(decimal.NewFromFloat(25.90)))

	// 3. Refresh: the store has decremented stock and grown the ledger.
	s.Require().NoError(s.catalog.Refresh(ctx))
	p, ok := s.catalog.Snapshot().FindByID(caneta.ID)
	s.Require().True(ok)
	s.Equal(96, p.Quantity)

	movements, err := s.ledger.Refresh(ctx)
	s.Require().NoError(err)
	s.Len(movements, 4, "two entradas plus two saidas")
	s.Equal(domain.MovementOut, movements[0].Type, "newest first")
	s.Contains(movements[0].Note, "Total: R$ 25.90")

	// 4. Manual stock-in, then delete a product; the excluido entry
	// carries the name.
	_, err = s.writer.Record(ctx, domain.MovementRequest{
		ProductID: caderno.ID, Type: domain.MovementIn, Quantity: 10, Note: "Reposicao",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.catalog.Delete(ctx, caderno.ID))

	movements, err = s.ledger.Refresh(ctx)
	s.Require().NoError(err)
	s.Len(movements, 6)
	s.Equal(domain.MovementDeleted, movements[0].Type)
	s.Equal("Caderno", movements[0].Note)
}

func (s *SaleWorkflowE2ESuite) TestSaleValidationNeverTouchesTheStore() {
	ctx := context.Background()

	_, err := s.catalog.Create(ctx, domain.ProductRequest{
		Name: "Borracha", Price: decimal.NewFromFloat(1.20), Quantity: 3,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.catalog.Refresh(ctx))

	before := len(s.store.movements)

	_, err = s.processor.Process(ctx, []domain.SaleLine{
		{ProductID: 1, Quantity: 99},
	}, s.catalog.Snapshot())

	var stockErr *domain.InsufficientStockError
	s.Require().ErrorAs(err, &stockErr)
	s.Equal(3, stockErr.Available)
	s.Len(s.store.movements, before, "pre-flight rejection must not create movements")
}

func (s *SaleWorkflowE2ESuite) TestPartialSaleFailureLeavesCommittedLines() {
	ctx := context.Background()

	caneta, err := s.catalog.Create(ctx, domain.ProductRequest{
		Name: "Caneta Azul", Price: decimal.NewFromFloat(2.50), Quantity: 100,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.catalog.Refresh(ctx))

	// First saida succeeds, every one after that fails.
	s.store.failMovementAfter = 1

	tx, err := s.processor.Process(ctx, []domain.SaleLine{
		{ProductID: caneta.ID, Quantity: 1},
		{ProductID: caneta.ID, Quantity: 2},
		{ProductID: caneta.ID, Quantity: 3},
	}, s.catalog.Snapshot())

	s.Require().Error(err)
	s.Require().NotNil(tx)
	s.Equal(services.SalePartiallyFailed, tx.Phase())
	s.Equal(1, tx.CommittedLines())

	idx, ferr := tx.Failure()
	s.Equal(1, idx)
	var storeErr *rest.StoreError
	s.Require().ErrorAs(ferr, &storeErr)
	s.Equal(http.StatusInternalServerError, storeErr.StatusCode)
	s.Equal("Falha ao registrar movimentação", storeErr.Detail)

	// The committed line is durable on the store; nothing rolled back.
	s.Require().NoError(s.catalog.Refresh(ctx))
	p, ok := s.catalog.Snapshot().FindByID(caneta.ID)
	s.Require().True(ok)
	s.Equal(99, p.Quantity)
}

func (s *SaleWorkflowE2ESuite) TestLedgerSurvivesStoreAmnesia() {
	ctx := context.Background()

	_, err := s.catalog.Create(ctx, domain.ProductRequest{
		Name: "Caneta Azul", Price: decimal.NewFromFloat(2.50), Quantity: 10,
	})
	s.Require().NoError(err)

	movements, err := s.ledger.Refresh(ctx)
	s.Require().NoError(err)
	s.Require().Len(movements, 1)

	// The store forgets everything; the cached copy keeps the entry.
	s.store.mu.Lock()
	s.store.movements = nil
	s.store.mu.Unlock()

	movements, err = s.ledger.Refresh(ctx)
	s.Require().NoError(err)
	s.Len(movements, 1, "cached ledger entry must survive a store wipe")
}

func TestSaleWorkflowE2ESuite(t *testing.T) {
	suite.Run(t, new(SaleWorkflowE2ESuite))
}
