//go:build e2e
// +build e2e

// test/e2e/stock_workflow_test.go
package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shelftrack/shelftrack-be/internal/adapters/db"
	redis_a "github.com/shelftrack/shelftrack-be/internal/adapters/redis_adapter"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
	"github.com/shelftrack/shelftrack-be/internal/core/services"
	"github.com/shelftrack/shelftrack-be/internal/handlers"
	"github.com/shelftrack/shelftrack-be/test/helpers"
)

// recordingEnqueuer stands in for the asynq client; e2e runs have no
// worker, so tasks are just captured.
type recordingEnqueuer struct {
	mu       sync.Mutex
	alerts   []ports.ReorderAlertPayload
	archives []ports.LedgerArchivePayload
}

func (e *recordingEnqueuer) EnqueueReorderAlert(ctx context.Context, payload ports.ReorderAlertPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerts = append(e.alerts, payload)
	return nil
}

func (e *recordingEnqueuer) EnqueueLedgerArchive(ctx context.Context, payload ports.LedgerArchivePayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.archives = append(e.archives, payload)
	return nil
}

type StockWorkflowSuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
	enqueuer  *recordingEnqueuer
}

func (s *StockWorkflowSuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())
	s.enqueuer = &recordingEnqueuer{}

	s.server = s.startTestServer()
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api"
}

func (s *StockWorkflowSuite) TearDownSuite() {
	s.server.Close()
}

func (s *StockWorkflowSuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.testRedis.Server.FlushAll()

	s.enqueuer.mu.Lock()
	s.enqueuer.alerts = nil
	s.enqueuer.archives = nil
	s.enqueuer.mu.Unlock()
}

func (s *StockWorkflowSuite) startTestServer() *httptest.Server {
	slogger := helpers.TestLogger()

	cache := redis_a.NewCache(s.testRedis.Client, time.Hour, slogger)
	storeRepo := db.NewStoreRepository(s.testDB.Database, slogger)
	itemRepo := db.NewItemRepository(s.testDB.Database, slogger)
	ledgerRepo := db.NewLedgerRepository(s.testDB.Database, slogger)

	storeService := services.NewStoreService(storeRepo, slogger)
	itemService := services.NewItemService(itemRepo, storeRepo, cache, slogger)
	ledgerService := services.NewLedgerService(ledgerRepo, itemRepo, storeRepo, cache, s.enqueuer, slogger)

	storeHandler := handlers.NewStoreHandler(storeService, slogger)
	itemHandler := handlers.NewItemHandler(itemService, slogger)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, s.enqueuer, slogger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stores", storeHandler.List)
	mux.HandleFunc("POST /api/stores", storeHandler.Create)
	mux.HandleFunc("GET /api/stores/{id}", storeHandler.Get)
	mux.HandleFunc("PUT /api/stores/{id}", storeHandler.Update)
	mux.HandleFunc("DELETE /api/stores/{id}", storeHandler.Delete)
	mux.HandleFunc("GET /api/stores/{storeId}/items", itemHandler.ListByStore)
	mux.HandleFunc("POST /api/stores/{storeId}/items", itemHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", itemHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemHandler.Delete)
	mux.HandleFunc("GET /api/stores/{storeId}/items/barcode/{barcode}", itemHandler.FindByBarcode)
	mux.HandleFunc("GET /api/stores/{storeId}/reorder-list", itemHandler.ReorderList)
	mux.HandleFunc("POST /api/items/{id}/transactions", ledgerHandler.Adjust)
	mux.HandleFunc("GET /api/items/{id}/transactions", ledgerHandler.HistoryForItem)
	mux.HandleFunc("GET /api/stores/{storeId}/transactions", ledgerHandler.HistoryForStore)
	mux.HandleFunc("POST /api/stores/{storeId}/archive", ledgerHandler.Archive)

	return httptest.NewServer(mux)
}

func (s *StockWorkflowSuite) TestCompleteStockWorkflow() {
	// 1. Register a store
	resp := s.makeRequest("POST", "/stores", map[string]interface{}{
		"name":     "Riverside Market",
		"location": "12 River Rd",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var store map[string]interface{}
	s.decodeResponse(resp, &store)
	storeID := int64(store["id"].(float64))
	s.NotZero(storeID)

	// 2. Add an item to the catalog
	resp = s.makeRequest("POST", fmt.Sprintf("/stores/%d/items", storeID), map[string]interface{}{
		"name":         "Whole Milk 1L",
		"barcode":      "4006381333931",
		"currentStock": 20,
		"reorderLevel": 5,
		"targetStock":  30,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var item map[string]interface{}
	s.decodeResponse(resp, &item)
	itemID := int64(item["id"].(float64))

	// 3. Record a sale
	resp = s.makeRequest("POST", fmt.Sprintf("/items/%d/transactions", itemID), map[string]interface{}{
		"type":     "SALE",
		"quantity": 5,
		"notes":    "morning rush",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var txn map[string]interface{}
	s.decodeResponse(resp, &txn)
	s.Equal(float64(-5), txn["quantity"])
	s.Equal(float64(20), txn["stockBefore"])
	s.Equal(float64(15), txn["stockAfter"])

	// 4. Stock level reflects the movement
	resp = s.makeRequest("GET", fmt.Sprintf("/items/%d", itemID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &item)
	s.Equal(float64(15), item["currentStock"])

	// 5. Resolve the item by barcode
	resp = s.makeRequest("GET", fmt.Sprintf("/stores/%d/items/barcode/4006381333931", storeID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	// 6. Drive the item under its reorder level
	resp = s.makeRequest("POST", fmt.Sprintf("/items/%d/transactions", itemID), map[string]interface{}{
		"type":     "SALE",
		"quantity": 11,
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	// Crossing the threshold queued an alert.
	s.enqueuer.mu.Lock()
	s.Len(s.enqueuer.alerts, 1)
	s.Equal(itemID, s.enqueuer.alerts[0].ItemID)
	s.enqueuer.mu.Unlock()

	// 7. The reorder list suggests refilling to target
	resp = s.makeRequest("GET", fmt.Sprintf("/stores/%d/reorder-list", storeID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	// The list arrives as a bare JSON array the client can map over.
	var reorder []map[string]interface{}
	s.decodeResponse(resp, &reorder)
	s.Require().Len(reorder, 1)
	s.Equal(float64(26), reorder[0]["reorderQuantity"]) // 30 - 4

	// 8. A delivery refills the shelf
	resp = s.makeRequest("POST", fmt.Sprintf("/items/%d/transactions", itemID), map[string]interface{}{
		"type":     "DELIVERY",
		"quantity": 26,
		"notes":    "weekly delivery",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp = s.makeRequest("GET", fmt.Sprintf("/stores/%d/reorder-list", storeID), nil)
	s.decodeResponse(resp, &reorder)
	s.Empty(reorder)

	// 9. History lists movements newest first
	resp = s.makeRequest("GET", fmt.Sprintf("/items/%d/transactions", itemID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var history []map[string]interface{}
	s.decodeResponse(resp, &history)
	s.Require().Len(history, 3)
	s.Equal("DELIVERY", history[0]["type"])

	// 10. Deleting the item keeps its ledger readable
	resp = s.makeRequest("DELETE", fmt.Sprintf("/items/%d", itemID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.makeRequest("GET", fmt.Sprintf("/items/%d/transactions", itemID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &history)
	s.Len(history, 3)

	// 11. The emptied store can now be removed
	resp = s.makeRequest("DELETE", fmt.Sprintf("/stores/%d", storeID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *StockWorkflowSuite) TestStoreDeleteConflict() {
	resp := s.makeRequest("POST", "/stores", map[string]interface{}{"name": "Hilltop Corner Shop"})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var store map[string]interface{}
	s.decodeResponse(resp, &store)
	storeID := int64(store["id"].(float64))

	resp = s.makeRequest("POST", fmt.Sprintf("/stores/%d/items", storeID), map[string]interface{}{
		"name": "Sparkling Water",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp = s.makeRequest("DELETE", fmt.Sprintf("/stores/%d", storeID), nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *StockWorkflowSuite) TestOverdraftRejected() {
	resp := s.makeRequest("POST", "/stores", map[string]interface{}{"name": "Riverside Market"})
	var store map[string]interface{}
	s.decodeResponse(resp, &store)
	storeID := int64(store["id"].(float64))

	resp = s.makeRequest("POST", fmt.Sprintf("/stores/%d/items", storeID), map[string]interface{}{
		"name":         "Eggs",
		"currentStock": 3,
	})
	var item map[string]interface{}
	s.decodeResponse(resp, &item)
	itemID := int64(item["id"].(float64))

	resp = s.makeRequest("POST", fmt.Sprintf("/items/%d/transactions", itemID), map[string]interface{}{
		"type":     "SALE",
		"quantity": 4,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	// Stock is untouched by the rejected movement.
	resp = s.makeRequest("GET", fmt.Sprintf("/items/%d", itemID), nil)
	s.decodeResponse(resp, &item)
	s.Equal(float64(3), item["currentStock"])
}

func (s *StockWorkflowSuite) TestConcurrentSales() {
	resp := s.makeRequest("POST", "/stores", map[string]interface{}{"name": "Riverside Market"})
	var store map[string]interface{}
	s.decodeResponse(resp, &store)
	storeID := int64(store["id"].(float64))

	resp = s.makeRequest("POST", fmt.Sprintf("/stores/%d/items", storeID), map[string]interface{}{
		"name":         "Coffee Beans",
		"currentStock": 100,
	})
	var item map[string]interface{}
	s.decodeResponse(resp, &item)
	itemID := int64(item["id"].(float64))

	const concurrent = 10
	done := make(chan bool, concurrent)
	for i := 0; i < concurrent; i++ {
		go func() {
			defer func() { done <- true }()
			resp := s.makeRequest("POST", fmt.Sprintf("/items/%d/transactions", itemID), map[string]interface{}{
				"type":     "SALE",
				"quantity": 1,
			})
			s.Equal(http.StatusCreated, resp.StatusCode)
		}()
	}
	for i := 0; i < concurrent; i++ {
		<-done
	}

	resp = s.makeRequest("GET", fmt.Sprintf("/items/%d", itemID), nil)
	s.decodeResponse(resp, &item)
	s.Equal(float64(100-concurrent), item["currentStock"])
}

func (s *StockWorkflowSuite) TestArchiveAccepted() {
	resp := s.makeRequest("POST", "/stores", map[string]interface{}{"name": "Riverside Market"})
	var store map[string]interface{}
	s.decodeResponse(resp, &store)
	storeID := int64(store["id"].(float64))

	resp = s.makeRequest("POST", fmt.Sprintf("/stores/%d/archive", storeID), nil)
	s.Equal(http.StatusAccepted, resp.StatusCode)

	var accepted map[string]interface{}
	s.decodeResponse(resp, &accepted)
	s.NotEmpty(accepted["job_id"])

	s.enqueuer.mu.Lock()
	s.Len(s.enqueuer.archives, 1)
	s.Equal(storeID, s.enqueuer.archives[0].StoreID)
	s.enqueuer.mu.Unlock()
}

// Helper methods

func (s *StockWorkflowSuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.NoError(err)

	return resp
}

func (s *StockWorkflowSuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.NoError(json.NewDecoder(resp.Body).Decode(v))
}

func TestStockWorkflowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(StockWorkflowSuite))
}
