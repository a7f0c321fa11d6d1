//go:build integration
// +build integration

// internal/adapters/db/store_repository_integration_test.go
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

type StoreRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	repo   ports.StoreRepository
	items  ports.ItemRepository
	ctx    context.Context
}

func (s *StoreRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewStoreRepository(s.testDB.Database, helpers.TestLogger())
	s.items = db.NewItemRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *StoreRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *StoreRepositorySuite) TestSaveAndFind() {
	store := helpers.CreateTestStore(func(st *domain.Store) { st.ID = 0 })

	err := s.repo.Save(s.ctx, store)
	s.NoError(err)
	s.NotZero(store.ID)

	saved, err := s.repo.FindByID(s.ctx, store.ID)
	s.NoError(err)
	s.Equal(store.Name, saved.Name)
	s.Equal(store.Location, saved.Location)
	s.True(saved.IsActive)
}

func (s *StoreRepositorySuite) TestFindMissing() {
	_, err := s.repo.FindByID(s.ctx, 99999)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreRepositorySuite) TestUpdate() {
	store := helpers.CreateTestStore(func(st *domain.Store) { st.ID = 0 })
	s.Require().NoError(s.repo.Save(s.ctx, store))

	store.Name = "Renamed Market"
	store.IsActive = false
	s.NoError(s.repo.Update(s.ctx, store))

	saved, err := s.repo.FindByID(s.ctx, store.ID)
	s.NoError(err)
	s.Equal("Renamed Market", saved.Name)
	s.False(saved.IsActive)
}

func (s *StoreRepositorySuite) TestUpdateMissing() {
	store := helpers.CreateTestStore(func(st *domain.Store) { st.ID = 99999 })
	err := s.repo.Update(s.ctx, store)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreRepositorySuite) TestExists() {
	store := helpers.CreateTestStore(func(st *domain.Store) { st.ID = 0 })
	s.Require().NoError(s.repo.Save(s.ctx, store))

	exists, err := s.repo.Exists(s.ctx, store.ID)
	s.NoError(err)
	s.True(exists)

	exists, err = s.repo.Exists(s.ctx, 99999)
	s.NoError(err)
	s.False(exists)
}

func (s *StoreRepositorySuite) TestDeleteEmptyStore() {
	store := helpers.CreateTestStore(func(st *domain.Store) { st.ID = 0 })
	s.Require().NoError(s.repo.Save(s.ctx, store))

	s.NoError(s.repo.Delete(s.ctx, store.ID))

	_, err := s.repo.FindByID(s.ctx, store.ID)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreRepositorySuite) TestDeleteStoreWithItemsIsConflict() {
	store := helpers.CreateTestStore(func(st *domain.Store) { st.ID = 0 })
	s.Require().NoError(s.repo.Save(s.ctx, store))

	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.ID = 0
		i.StoreID = store.ID
	})
	s.Require().NoError(s.items.Save(s.ctx, item))

	err := s.repo.Delete(s.ctx, store.ID)
	s.ErrorIs(err, domain.ErrConflict)

	// The store survives the rejected delete.
	_, err = s.repo.FindByID(s.ctx, store.ID)
	s.NoError(err)
}

func (s *StoreRepositorySuite) TestDeleteMissing() {
	err := s.repo.Delete(s.ctx, 99999)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreRepositorySuite) TestFindAllOrdered() {
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		store := helpers.CreateTestStore(func(st *domain.Store) {
			st.ID = 0
			st.Name = name
		})
		s.Require().NoError(s.repo.Save(s.ctx, store))
	}

	stores, err := s.repo.FindAll(s.ctx)
	s.NoError(err)
	s.Len(stores, 3)
}

func TestStoreRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreRepositorySuite))
}
