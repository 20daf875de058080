package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaster(t *testing.T) *MasterItem {
	t.Helper()
	master, err := NewMasterItem("SHW01", "Sherwani Classic")
	require.NoError(t, err)
	return master
}

func TestSubItemCode(t *testing.T) {
	assert.Equal(t, "SHW01-001", SubItemCode("SHW01", 1))
	assert.Equal(t, "SHW01-042", SubItemCode("SHW01", 42))
	assert.Equal(t, "LHG-102", SubItemCode("LHG", 102))
}

func TestNewSubItem(t *testing.T) {
	master := newTestMaster(t)

	item, err := NewSubItem(master, 3, "Sherwani Classic 40", decimal.NewFromInt(500))
	require.NoError(t, err)

	assert.Equal(t, "SHW01-003", item.Code)
	assert.Equal(t, master.ID, item.MasterItemID)
	assert.Equal(t, ItemStatusAvailable, item.Status)
	assert.True(t, item.IsAvailable())
}

func TestNewSubItem_Validation(t *testing.T) {
	master := newTestMaster(t)

	_, err := NewSubItem(nil, 1, "Name", decimal.Zero)
	assert.Error(t, err)

	_, err = NewSubItem(master, 0, "Name", decimal.Zero)
	assert.Error(t, err)

	_, err = NewSubItem(master, 1, "", decimal.Zero)
	assert.Error(t, err)

	_, err = NewSubItem(master, 1, "Name", decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestSubItem_SetStatus(t *testing.T) {
	master := newTestMaster(t)
	item, err := NewSubItem(master, 1, "Piece", decimal.NewFromInt(500))
	require.NoError(t, err)

	require.NoError(t, item.SetStatus(ItemStatusRented))
	assert.True(t, item.IsRented())

	require.NoError(t, item.SetStatus(ItemStatusMaintenance))
	assert.Equal(t, "Maintanance", item.Status.String())

	assert.Error(t, item.SetStatus("Broken"))
}

func TestItemStatus_IsValid(t *testing.T) {
	assert.True(t, ItemStatusAvailable.IsValid())
	assert.True(t, ItemStatusRented.IsValid())
	assert.True(t, ItemStatusDamaged.IsValid())
	assert.True(t, ItemStatusMaintenance.IsValid())
	assert.False(t, ItemStatus("Lost").IsValid())
}

func TestMasterItem_Update(t *testing.T) {
	master := newTestMaster(t)

	require.NoError(t, master.Update("Sherwani Royal", "Groom Wear"))
	assert.Equal(t, "Sherwani Royal", master.Name)
	assert.Equal(t, "Groom Wear", master.Category)
	assert.Equal(t, 2, master.GetVersion())

	assert.Error(t, master.Update("", ""))
}
