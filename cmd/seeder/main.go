// cmd/seeder/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shelftrack/shelftrack-be/internal/adapters/db"
	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
	"github.com/shelftrack/shelftrack-be/internal/core/services"
	"github.com/shelftrack/shelftrack-be/internal/pkg/config"
	"github.com/shelftrack/shelftrack-be/internal/pkg/logger"
)

type seedItem struct {
	name         string
	sku          string
	barcode      string
	unit         string
	currentStock int64
	reorderLevel int64
	targetStock  int64
}

type seedStore struct {
	name     string
	location string
	items    []seedItem
}

type seedMovement struct {
	barcode  string
	txType   domain.TransactionType
	quantity int64
	notes    string
}

var demoStores = []seedStore{
	{
		name:     "Riverside Market",
		location: "14 Quay St",
		items: []seedItem{
			{"Whole Milk 1L", "MLK-001", "4006381333931", "bottle", 24, 10, 40},
			{"Sourdough Loaf", "BRD-002", "4006381333948", "loaf", 8, 6, 20},
			{"Free-Range Eggs 12pk", "EGG-003", "4006381333955", "carton", 5, 8, 24},
			{"Ground Coffee 250g", "COF-004", "4006381333962", "bag", 14, 5, 18},
		},
	},
	{
		name:     "Hilltop Corner Shop",
		location: "82 Summit Ave",
		items: []seedItem{
			{"Sparkling Water 500ml", "WTR-101", "5012345678900", "bottle", 48, 20, 72},
			{"Dark Chocolate Bar", "CHC-102", "5012345678917", "bar", 3, 6, 30},
			{"Paper Towels 2pk", "PPR-103", "", "pack", 12, 4, 16},
		},
	},
}

var demoMovements = []seedMovement{
	{"4006381333931", domain.TransactionSale, 6, "morning rush"},
	{"4006381333948", domain.TransactionSale, 2, ""},
	{"4006381333955", domain.TransactionDelivery, 12, "weekly delivery"},
	{"5012345678917", domain.TransactionSale, 1, ""},
	{"5012345678900", domain.TransactionAdjustment, -2, "damaged in transit"},
}

func main() {
	var (
		dryRun   = flag.Bool("dry-run", false, "Preview without writing to the database")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *dryRun {
		for _, store := range demoStores {
			fmt.Printf("store %q (%s): %d items\n", store.name, store.location, len(store.items))
		}
		fmt.Printf("%d stock movements\n", len(demoMovements))
		fmt.Println("[dry run] no changes were made")
		return
	}

	ctx := context.Background()

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.User,
		Password:       cfg.Database.Password,
		Database:       cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		MaxConnections: 5,
		MinConnections: 1,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	}, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if err := runMigrations(ctx, cfg, slogger); err != nil {
		slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	storeRepo := db.NewStoreRepository(database, slogger)
	itemRepo := db.NewItemRepository(database, slogger)
	ledgerRepo := db.NewLedgerRepository(database, slogger)

	// The seeder runs without Redis or a task queue; cache failures are
	// logged and ignored by the services.
	cache := noopCache{}

	storeService := services.NewStoreService(storeRepo, slogger)
	itemService := services.NewItemService(itemRepo, storeRepo, cache, slogger)
	ledgerService := services.NewLedgerService(ledgerRepo, itemRepo, storeRepo, cache, nil, slogger)

	itemsByBarcode := make(map[string]int64)

	for _, seed := range demoStores {
		store := &domain.Store{Name: seed.name, Location: seed.location, IsActive: true}
		if err := storeService.Create(ctx, store); err != nil {
			slogger.Error("failed to create store",
				slog.String("name", seed.name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		for _, si := range seed.items {
			item := &domain.Item{
				StoreID:      store.ID,
				Name:         si.name,
				SKU:          si.sku,
				Unit:         si.unit,
				CurrentStock: si.currentStock,
				ReorderLevel: si.reorderLevel,
				TargetStock:  si.targetStock,
			}
			if si.barcode != "" {
				barcode := si.barcode
				item.Barcode = &barcode
			}
			if err := itemService.Create(ctx, item); err != nil {
				slogger.Error("failed to create item",
					slog.String("name", si.name),
					slog.String("error", err.Error()))
				os.Exit(1)
			}
			if si.barcode != "" {
				itemsByBarcode[si.barcode] = item.ID
			}
		}

		slogger.Info("store seeded",
			slog.Int64("store_id", store.ID),
			slog.String("name", store.Name),
			slog.Int("items", len(seed.items)))
	}

	for _, m := range demoMovements {
		itemID, ok := itemsByBarcode[m.barcode]
		if !ok {
			continue
		}
		if _, err := ledgerService.Adjust(ctx, ports.AdjustParams{
			ItemID:   itemID,
			Type:     m.txType,
			Quantity: m.quantity,
			Notes:    m.notes,
		}); err != nil {
			slogger.Error("failed to record movement",
				slog.Int64("item_id", itemID),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	slogger.Info("seed completed",
		slog.Int("stores", len(demoStores)),
		slog.Int("movements", len(demoMovements)))
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}, slogger, 3)
}

// noopCache satisfies ports.CacheRepository for offline tools; every
// read misses and writes are discarded.
type noopCache struct{}

func (noopCache) Set(context.Context, string, interface{}) error { return nil }
func (noopCache) SetWithTTL(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (noopCache) Get(context.Context, string, interface{}) error { return errCacheDisabled }
func (noopCache) Delete(context.Context, ...string) error        { return nil }
func (noopCache) DeletePattern(context.Context, string) error    { return nil }
func (noopCache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {
	return errCacheDisabled
}
func (noopCache) Ping(context.Context) error { return nil }

var errCacheDisabled = errors.New("cache disabled")
