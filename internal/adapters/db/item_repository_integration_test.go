//go:build integration
// +build integration

// internal/adapters/db/item_repository_integration_test.go
package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/shelftrack/shelftrack-be/internal/adapters/db"
	"github.com/shelftrack/shelftrack-be/internal/core/domain"
	"github.com/shelftrack/shelftrack-be/internal/core/ports"
	"github.com/shelftrack/shelftrack-be/test/helpers"
)

type ItemRepositorySuite struct {
	suite.Suite
	testDB  *helpers.TestDB
	repo    ports.ItemRepository
	storeID int64
	ctx     context.Context
}

func (s *ItemRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewItemRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *ItemRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.storeID = helpers.SeedStore(s.T(), s.testDB.PgxPool, "Riverside Market")
}

func (s *ItemRepositorySuite) newItem(override func(*domain.Item)) *domain.Item {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.ID = 0
		i.StoreID = s.storeID
	})
	if override != nil {
		override(item)
	}
	return item
}

func (s *ItemRepositorySuite) TestSaveAndFind() {
	item := s.newItem(nil)

	err := s.repo.Save(s.ctx, item)
	s.NoError(err)
	s.NotZero(item.ID)

	saved, err := s.repo.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Equal(item.Name, saved.Name)
	s.Equal(item.CurrentStock, saved.CurrentStock)
	s.Require().NotNil(saved.Barcode)
	s.Equal(*item.Barcode, *saved.Barcode)
}

func (s *ItemRepositorySuite) TestSaveWithoutBarcode() {
	first := s.newItem(func(i *domain.Item) { i.Barcode = nil })
	second := s.newItem(func(i *domain.Item) {
		i.Barcode = nil
		i.Name = "Another Loose Item"
	})

	// Multiple NULL barcodes in one store never collide.
	s.NoError(s.repo.Save(s.ctx, first))
	s.NoError(s.repo.Save(s.ctx, second))
}

func (s *ItemRepositorySuite) TestDuplicateBarcodeInStoreIsConflict() {
	first := s.newItem(nil)
	s.Require().NoError(s.repo.Save(s.ctx, first))

	duplicate := s.newItem(func(i *domain.Item) { i.Name = "Copycat" })
	err := s.repo.Save(s.ctx, duplicate)
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *ItemRepositorySuite) TestSameBarcodeAcrossStores() {
	first := s.newItem(nil)
	s.Require().NoError(s.repo.Save(s.ctx, first))

	otherStore := helpers.SeedStore(s.T(), s.testDB.PgxPool, "Hilltop Corner Shop")
	twin := s.newItem(func(i *domain.Item) { i.StoreID = otherStore })

	s.NoError(s.repo.Save(s.ctx, twin))
}

func (s *ItemRepositorySuite) TestFindByBarcode() {
	item := s.newItem(nil)
	s.Require().NoError(s.repo.Save(s.ctx, item))

	found, err := s.repo.FindByBarcode(s.ctx, s.storeID, *item.Barcode)
	s.NoError(err)
	s.Equal(item.ID, found.ID)

	_, err = s.repo.FindByBarcode(s.ctx, s.storeID, "0000000000000")
	s.ErrorIs(err, domain.ErrNotFound)

	// Barcodes resolve per store, not globally.
	otherStore := helpers.SeedStore(s.T(), s.testDB.PgxPool, "Hilltop Corner Shop")
	_, err = s.repo.FindByBarcode(s.ctx, otherStore, *item.Barcode)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ItemRepositorySuite) TestUpdate() {
	item := s.newItem(nil)
	s.Require().NoError(s.repo.Save(s.ctx, item))

	item.Name = "Renamed Item"
	item.ReorderLevel = 8
	s.NoError(s.repo.Update(s.ctx, item))

	saved, err := s.repo.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Equal("Renamed Item", saved.Name)
	s.Equal(int64(8), saved.ReorderLevel)
}

func (s *ItemRepositorySuite) TestFindByStoreOrdered() {
	for i := 0; i < 3; i++ {
		item := s.newItem(func(it *domain.Item) {
			it.Barcode = nil
			it.Name = "Item"
		})
		s.Require().NoError(s.repo.Save(s.ctx, item))
	}

	items, err := s.repo.FindByStore(s.ctx, s.storeID)
	s.NoError(err)
	s.Require().Len(items, 3)
	s.Less(items[0].ID, items[1].ID)
	s.Less(items[1].ID, items[2].ID)
}

func (s *ItemRepositorySuite) TestDelete() {
	item := s.newItem(nil)
	s.Require().NoError(s.repo.Save(s.ctx, item))

	s.NoError(s.repo.Delete(s.ctx, item.ID))

	_, err := s.repo.FindByID(s.ctx, item.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	s.ErrorIs(s.repo.Delete(s.ctx, item.ID), domain.ErrNotFound)
}

func TestItemRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ItemRepositorySuite))
}
