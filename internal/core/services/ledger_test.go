// internal/core/services/ledger_test.go
package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
	"github.com/shelftrack/shelftrack-be/internal/core/services"
	"github.com/shelftrack/shelftrack-be/test/helpers"
	"github.com/shelftrack/shelftrack-be/test/mocks"
)

type ledgerServiceMocks struct {
	ledger   *mocks.MockLedgerRepository
	items    *mocks.MockItemRepository
	stores   *mocks.MockStoreRepository
	cache    *mocks.MockCacheRepository
	enqueuer *mocks.MockTaskEnqueuer
}

func newLedgerService(t *testing.T) (*services.LedgerService, ledgerServiceMocks, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := ledgerServiceMocks{
		ledger:   mocks.NewMockLedgerRepository(ctrl),
		items:    mocks.NewMockItemRepository(ctrl),
		stores:   mocks.NewMockStoreRepository(ctrl),
		cache:    mocks.NewMockCacheRepository(ctrl),
		enqueuer: mocks.NewMockTaskEnqueuer(ctrl),
	}
	service := services.NewLedgerService(m.ledger, m.items, m.stores, m.cache, m.enqueuer, helpers.TestLogger())
	return service, m, ctrl
}

func testEntry(override func(*domain.StockTransaction)) *domain.StockTransaction {
	entry := &domain.StockTransaction{
		ID:              10,
		ItemID:          1,
		StoreID:         1,
		Type:            domain.TransactionSale,
		Quantity:        -5,
		StockBefore:     20,
		StockAfter:      15,
		TransactionDate: time.Now().UTC(),
	}
	if override != nil {
		override(entry)
	}
	return entry
}

func TestLedgerService_Adjust(t *testing.T) {
	tests := []struct {
		name          string
		params        ports.AdjustParams
		setupMocks    func(ledgerServiceMocks)
		expectedError error
	}{
		{
			name:   "sale_appends_negative_delta",
			params: ports.AdjustParams{ItemID: 1, Type: domain.TransactionSale, Quantity: 5},
			setupMocks: func(m ledgerServiceMocks) {
				entry := testEntry(nil)
				m.ledger.EXPECT().
					Append(gomock.Any(), int64(1), domain.TransactionSale, int64(-5), "").
					Return(entry, nil)
				m.cache.EXPECT().
					Delete(gomock.Any(), "reorder:1").
					Return(nil)
				// Stock went 20 -> 15 against a reorder level of 5; no alert.
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestItem(), nil)
			},
		},
		{
			name:   "delivery_appends_positive_delta",
			params: ports.AdjustParams{ItemID: 1, Type: domain.TransactionDelivery, Quantity: 12, Notes: "weekly delivery"},
			setupMocks: func(m ledgerServiceMocks) {
				entry := testEntry(func(e *domain.StockTransaction) {
					e.Type = domain.TransactionDelivery
					e.Quantity = 12
					e.StockBefore = 15
					e.StockAfter = 27
					e.Notes = "weekly delivery"
				})
				m.ledger.EXPECT().
					Append(gomock.Any(), int64(1), domain.TransactionDelivery, int64(12), "weekly delivery").
					Return(entry, nil)
				m.cache.EXPECT().
					Delete(gomock.Any(), "reorder:1").
					Return(nil)
			},
		},
		{
			name:   "negative_adjustment_keeps_sign",
			params: ports.AdjustParams{ItemID: 1, Type: domain.TransactionAdjustment, Quantity: -2, Notes: "damaged"},
			setupMocks: func(m ledgerServiceMocks) {
				entry := testEntry(func(e *domain.StockTransaction) {
					e.Type = domain.TransactionAdjustment
					e.Quantity = -2
					e.StockBefore = 20
					e.StockAfter = 18
				})
				m.ledger.EXPECT().
					Append(gomock.Any(), int64(1), domain.TransactionAdjustment, int64(-2), "damaged").
					Return(entry, nil)
				m.cache.EXPECT().
					Delete(gomock.Any(), "reorder:1").
					Return(nil)
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestItem(), nil)
			},
		},
		{
			name:          "missing_item_id_is_rejected",
			params:        ports.AdjustParams{Type: domain.TransactionSale, Quantity: 5},
			setupMocks:    func(m ledgerServiceMocks) {},
			expectedError: domain.ErrInvalidArgument,
		},
		{
			name:          "zero_quantity_is_rejected",
			params:        ports.AdjustParams{ItemID: 1, Type: domain.TransactionAdjustment, Quantity: 0},
			setupMocks:    func(m ledgerServiceMocks) {},
			expectedError: domain.ErrInvalidArgument,
		},
		{
			name:          "negative_sale_is_rejected",
			params:        ports.AdjustParams{ItemID: 1, Type: domain.TransactionSale, Quantity: -5},
			setupMocks:    func(m ledgerServiceMocks) {},
			expectedError: domain.ErrInvalidArgument,
		},
		{
			name:          "unknown_type_is_rejected",
			params:        ports.AdjustParams{ItemID: 1, Type: domain.TransactionType("RETURN"), Quantity: 1},
			setupMocks:    func(m ledgerServiceMocks) {},
			expectedError: domain.ErrInvalidArgument,
		},
		{
			name:   "insufficient_stock_propagates",
			params: ports.AdjustParams{ItemID: 1, Type: domain.TransactionSale, Quantity: 100},
			setupMocks: func(m ledgerServiceMocks) {
				m.ledger.EXPECT().
					Append(gomock.Any(), int64(1), domain.TransactionSale, int64(-100), "").
					Return(nil, domain.ErrInvalidArgument)
			},
			expectedError: domain.ErrInvalidArgument,
		},
		{
			name:   "unknown_item_propagates_not_found",
			params: ports.AdjustParams{ItemID: 404, Type: domain.TransactionSale, Quantity: 1},
			setupMocks: func(m ledgerServiceMocks) {
				m.ledger.EXPECT().
					Append(gomock.Any(), int64(404), domain.TransactionSale, int64(-1), "").
					Return(nil, domain.ErrNotFound)
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m, ctrl := newLedgerService(t)
			defer ctrl.Finish()
			tt.setupMocks(m)

			entry, err := service.Adjust(context.Background(), tt.params)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, entry)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.Equal(t, entry.StockBefore+entry.Quantity, entry.StockAfter)
		})
	}
}

func TestLedgerService_ReorderAlert(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.ReorderLevel = 5
		i.TargetStock = 30
	})

	tests := []struct {
		name       string
		entry      *domain.StockTransaction
		setupMocks func(ledgerServiceMocks)
	}{
		{
			name: "alert_on_downward_crossing",
			entry: testEntry(func(e *domain.StockTransaction) {
				e.StockBefore = 6
				e.StockAfter = 4
				e.Quantity = -2
			}),
			setupMocks: func(m ledgerServiceMocks) {
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(item, nil)
				m.enqueuer.EXPECT().
					EnqueueReorderAlert(gomock.Any(), ports.ReorderAlertPayload{
						ItemID:       1,
						StoreID:      1,
						ItemName:     item.Name,
						CurrentStock: 4,
						ReorderLevel: 5,
						TargetStock:  30,
					}).
					Return(nil)
			},
		},
		{
			name: "alert_on_landing_exactly_at_level",
			entry: testEntry(func(e *domain.StockTransaction) {
				e.StockBefore = 6
				e.StockAfter = 5
				e.Quantity = -1
			}),
			setupMocks: func(m ledgerServiceMocks) {
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(item, nil)
				m.enqueuer.EXPECT().
					EnqueueReorderAlert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "no_alert_when_already_below_level",
			entry: testEntry(func(e *domain.StockTransaction) {
				e.StockBefore = 4
				e.StockAfter = 3
				e.Quantity = -1
			}),
			setupMocks: func(m ledgerServiceMocks) {
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(item, nil)
			},
		},
		{
			name: "no_alert_on_positive_movement",
			entry: testEntry(func(e *domain.StockTransaction) {
				e.Type = domain.TransactionDelivery
				e.StockBefore = 3
				e.StockAfter = 15
				e.Quantity = 12
			}),
			setupMocks: func(m ledgerServiceMocks) {},
		},
		{
			name: "enqueue_failure_does_not_fail_the_adjustment",
			entry: testEntry(func(e *domain.StockTransaction) {
				e.StockBefore = 6
				e.StockAfter = 4
				e.Quantity = -2
			}),
			setupMocks: func(m ledgerServiceMocks) {
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(item, nil)
				m.enqueuer.EXPECT().
					EnqueueReorderAlert(gomock.Any(), gomock.Any()).
					Return(errors.New("queue unavailable"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m, ctrl := newLedgerService(t)
			defer ctrl.Finish()

			params := ports.AdjustParams{ItemID: 1, Type: tt.entry.Type, Quantity: tt.entry.Quantity}
			if params.Quantity < 0 && params.Type != domain.TransactionAdjustment {
				params.Quantity = -params.Quantity
			}

			m.ledger.EXPECT().
				Append(gomock.Any(), int64(1), tt.entry.Type, tt.entry.Quantity, "").
				Return(tt.entry, nil)
			m.cache.EXPECT().
				Delete(gomock.Any(), "reorder:1").
				Return(nil)
			tt.setupMocks(m)

			entry, err := service.Adjust(context.Background(), params)

			require.NoError(t, err)
			require.NotNil(t, entry)
		})
	}
}

func TestLedgerService_NilEnqueuer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedgerRepository(ctrl)
	items := mocks.NewMockItemRepository(ctrl)
	stores := mocks.NewMockStoreRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	entry := testEntry(func(e *domain.StockTransaction) {
		e.StockBefore = 6
		e.StockAfter = 4
		e.Quantity = -2
	})
	ledger.EXPECT().
		Append(gomock.Any(), int64(1), domain.TransactionSale, int64(-2), "").
		Return(entry, nil)
	cache.EXPECT().
		Delete(gomock.Any(), "reorder:1").
		Return(nil)

	service := services.NewLedgerService(ledger, items, stores, cache, nil, helpers.TestLogger())

	got, err := service.Adjust(context.Background(), ports.AdjustParams{
		ItemID: 1, Type: domain.TransactionSale, Quantity: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestLedgerService_HistoryForItem(t *testing.T) {
	entries := []domain.StockTransaction{*testEntry(nil)}

	tests := []struct {
		name          string
		filter        ports.HistoryFilter
		setupMocks    func(ledgerServiceMocks)
		expectedLen   int
		expectedError error
	}{
		{
			name: "returns_entries_newest_first",
			setupMocks: func(m ledgerServiceMocks) {
				m.ledger.EXPECT().
					FindByItem(gomock.Any(), int64(1), gomock.Any()).
					Return(entries, nil)
			},
			expectedLen: 1,
		},
		{
			name: "empty_history_for_existing_item",
			setupMocks: func(m ledgerServiceMocks) {
				m.ledger.EXPECT().
					FindByItem(gomock.Any(), int64(1), gomock.Any()).
					Return([]domain.StockTransaction{}, nil)
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestItem(), nil)
			},
			expectedLen: 0,
		},
		{
			name:   "deleted_item_with_surviving_ledger_is_served",
			filter: ports.HistoryFilter{Limit: 10},
			setupMocks: func(m ledgerServiceMocks) {
				m.ledger.EXPECT().
					FindByItem(gomock.Any(), int64(1), ports.HistoryFilter{Limit: 10}).
					Return([]domain.StockTransaction{}, nil)
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(nil, domain.ErrNotFound)
				m.ledger.EXPECT().
					FindByItem(gomock.Any(), int64(1), ports.HistoryFilter{Limit: 1}).
					Return(entries, nil)
			},
			expectedLen: 0,
		},
		{
			name: "item_without_any_trace_is_not_found",
			setupMocks: func(m ledgerServiceMocks) {
				m.ledger.EXPECT().
					FindByItem(gomock.Any(), int64(1), gomock.Any()).
					Return([]domain.StockTransaction{}, nil)
				m.items.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(nil, domain.ErrNotFound)
				m.ledger.EXPECT().
					FindByItem(gomock.Any(), int64(1), ports.HistoryFilter{Limit: 1}).
					Return([]domain.StockTransaction{}, nil)
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m, ctrl := newLedgerService(t)
			defer ctrl.Finish()
			tt.setupMocks(m)

			got, err := service.HistoryForItem(context.Background(), 1, tt.filter)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.expectedLen)
		})
	}
}

func TestLedgerService_HistoryForStore(t *testing.T) {
	t.Run("returns_store_history", func(t *testing.T) {
		service, m, ctrl := newLedgerService(t)
		defer ctrl.Finish()

		entries := []domain.StockTransaction{*testEntry(nil)}
		m.stores.EXPECT().
			Exists(gomock.Any(), int64(1)).
			Return(true, nil)
		m.ledger.EXPECT().
			FindByStore(gomock.Any(), int64(1), gomock.Any()).
			Return(entries, nil)

		got, err := service.HistoryForStore(context.Background(), 1, ports.HistoryFilter{})

		require.NoError(t, err)
		assert.Equal(t, entries, got)
	})

	t.Run("unknown_store_is_not_found", func(t *testing.T) {
		service, m, ctrl := newLedgerService(t)
		defer ctrl.Finish()

		m.stores.EXPECT().
			Exists(gomock.Any(), int64(42)).
			Return(false, nil)

		_, err := service.HistoryForStore(context.Background(), 42, ports.HistoryFilter{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// memoryLedger is a thread-safe in-memory LedgerRepository used to
// exercise Adjust under concurrency.
type memoryLedger struct {
	mu      sync.Mutex
	stock   int64
	nextID  int64
	entries []domain.StockTransaction
}

func (l *memoryLedger) Append(ctx context.Context, itemID int64, txType domain.TransactionType,
	signedQuantity int64, notes string) (*domain.StockTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stock+signedQuantity < 0 {
		return nil, domain.ErrInvalidArgument
	}

	l.nextID++
	entry := domain.StockTransaction{
		ID:              l.nextID,
		ItemID:          itemID,
		StoreID:         1,
		Type:            txType,
		Quantity:        signedQuantity,
		StockBefore:     l.stock,
		StockAfter:      l.stock + signedQuantity,
		Notes:           notes,
		TransactionDate: time.Now().UTC(),
	}
	l.stock = entry.StockAfter
	l.entries = append(l.entries, entry)
	return &entry, nil
}

func (l *memoryLedger) FindByItem(ctx context.Context, itemID int64, filter ports.HistoryFilter) ([]domain.StockTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.StockTransaction, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func (l *memoryLedger) FindByStore(ctx context.Context, storeID int64, filter ports.HistoryFilter) ([]domain.StockTransaction, error) {
	return l.FindByItem(ctx, 0, filter)
}

// noFailCache discards writes and always misses, keeping the
// concurrency test focused on the ledger.
type noFailCache struct{}

func (noFailCache) Set(ctx context.Context, key string, value interface{}) error { return nil }
func (noFailCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noFailCache) Get(ctx context.Context, key string, dest interface{}) error {
	return domain.ErrNotFound
}
func (noFailCache) Delete(ctx context.Context, keys ...string) error          { return nil }
func (noFailCache) DeletePattern(ctx context.Context, pattern string) error   { return nil }
func (noFailCache) Ping(ctx context.Context) error                            { return nil }
func (noFailCache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {
	return domain.ErrNotFound
}

func TestLedgerService_Adjust_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const (
		workers      = 16
		perWorker    = 25
		initialStock = int64(workers*perWorker) * 2
	)

	ledger := &memoryLedger{stock: initialStock}
	items := mocks.NewMockItemRepository(ctrl)
	stores := mocks.NewMockStoreRepository(ctrl)

	service := services.NewLedgerService(ledger, items, stores, noFailCache{}, nil, helpers.TestLogger())

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := service.Adjust(context.Background(), ports.AdjustParams{
					ItemID: 1, Type: domain.TransactionSale, Quantity: 1,
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, initialStock-int64(workers*perWorker), ledger.stock)

	// Every entry must chain onto its predecessor: snapshots are
	// consistent and no two movements shared a before-value.
	seen := make(map[int64]bool, len(ledger.entries))
	for _, entry := range ledger.entries {
		assert.Equal(t, entry.StockBefore+entry.Quantity, entry.StockAfter)
		assert.False(t, seen[entry.StockBefore], "duplicate stock_before %d", entry.StockBefore)
		seen[entry.StockBefore] = true
	}
}
