package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.MasterItem{},
		&catalog.SubItem{},
	))
	return db
}

func seedMaster(t *testing.T, db *gorm.DB, code string) *catalog.MasterItem {
	t.Helper()
	master, err := catalog.NewMasterItem(code, "Master "+code)
	require.NoError(t, err)
	require.NoError(t, NewGormMasterItemRepository(db).Save(context.Background(), master))
	return master
}

func seedSub(t *testing.T, db *gorm.DB, master *catalog.MasterItem, seq int) *catalog.SubItem {
	t.Helper()
	sub, err := catalog.NewSubItem(master, seq, "Piece", decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, NewGormSubItemRepository(db).Save(context.Background(), sub))
	return sub
}

func TestGormSubItemRepository_NextSequence(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormSubItemRepository(db)
	ctx := context.Background()

	master := seedMaster(t, db, "SHW01")

	// Empty master starts at 1
	seq, err := repo.NextSequence(ctx, master.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seedSub(t, db, master, 1)
	seedSub(t, db, master, 2)

	seq, err = repo.NextSequence(ctx, master.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, seq)

	// Sequences are per master
	other := seedMaster(t, db, "LHG01")
	seq, err = repo.NextSequence(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestGormSubItemRepository_UpdateStatusBulk(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormSubItemRepository(db)
	ctx := context.Background()

	master := seedMaster(t, db, "SHW01")
	a := seedSub(t, db, master, 1)
	b := seedSub(t, db, master, 2)
	c := seedSub(t, db, master, 3)

	require.NoError(t, repo.UpdateStatusBulk(ctx, []uuid.UUID{a.ID, b.ID}, catalog.ItemStatusRented))

	reloaded, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID, c.ID})
	require.NoError(t, err)

	statuses := map[string]catalog.ItemStatus{}
	for _, item := range reloaded {
		statuses[item.Code] = item.Status
	}
	assert.Equal(t, catalog.ItemStatusRented, statuses[a.Code])
	assert.Equal(t, catalog.ItemStatusRented, statuses[b.Code])
	assert.Equal(t, catalog.ItemStatusAvailable, statuses[c.Code])

	// No-op on empty input, error on bad status
	require.NoError(t, repo.UpdateStatusBulk(ctx, nil, catalog.ItemStatusRented))
	assert.Error(t, repo.UpdateStatusBulk(ctx, []uuid.UUID{a.ID}, "Broken"))
}

func TestGormSubItemRepository_FindByMasterItem(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormSubItemRepository(db)
	ctx := context.Background()

	master := seedMaster(t, db, "SHW01")
	other := seedMaster(t, db, "LHG01")
	seedSub(t, db, master, 1)
	seedSub(t, db, master, 2)
	seedSub(t, db, other, 1)

	items, err := repo.FindByMasterItem(ctx, master.ID, shared.NewFilter())
	require.NoError(t, err)
	assert.Len(t, items, 2)

	count, err := repo.CountByMasterItem(ctx, master.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
