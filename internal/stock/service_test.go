package stock

import (
	"path/filepath"
	"testing"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concessions/internal/database"
	"concessions/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite3", filepath.Join(t.TempDir(), "stock_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func createStand(t *testing.T, db *gorm.DB, name string) *models.ConcessionStand {
	t.Helper()
	stand := models.ConcessionStand{Name: name, Location: "Test Location", IsActive: true}
	require.NoError(t, db.Create(&stand).Error)
	return &stand
}

func createItem(t *testing.T, db *gorm.DB, standID *uint, name string, quantity, threshold int) *models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		Name:             name,
		ItemType:         models.ItemTypeFood,
		Unit:             models.ItemUnitEach,
		Quantity:         quantity,
		MinimumThreshold: threshold,
		StandID:          standID,
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func createMenuItem(t *testing.T, db *gorm.DB, standID *uint, name string, price float64) *models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: price, IsAvailable: true, StandID: standID}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func link(t *testing.T, db *gorm.DB, menuID, itemID uint) {
	t.Helper()
	row := models.MenuItemInventory{MenuItemID: menuID, InventoryItemID: itemID, QuantityRequired: 1}
	require.NoError(t, db.Create(&row).Error)
}

func menuAvailability(t *testing.T, db *gorm.DB, menuID uint) bool {
	t.Helper()
	var item models.MenuItem
	require.NoError(t, db.First(&item, menuID).Error)
	return item.IsAvailable
}

type recordingListener struct {
	calls [][]uint
}

func (l *recordingListener) MenuAvailabilityChanged(standIDs []uint) {
	l.calls = append(l.calls, standIDs)
}

func TestAdjustInsufficientStock(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	item := createItem(t, db, nil, "Popcorn", 10, 2)

	_, err := svc.Adjust(item.ID, -11)
	require.Error(t, err)
	assert.True(t, IsRejected(err))
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Have)
	assert.Equal(t, 11, insufficient.Want)

	// Quantity unchanged after the rejected adjustment.
	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, 10, reloaded.Quantity)
}

func TestAdjustUnknownItem(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)

	_, err := svc.Adjust(999, 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestAdjustCrossingThresholdPropagates(t *testing.T) {
	db := testDB(t)
	stand := createStand(t, db, "Stand A")
	svc := NewService(db, nil)

	item := createItem(t, db, &stand.ID, "Pretzel", 11, 10)
	menuItem := createMenuItem(t, db, &stand.ID, "Soft Pretzel", 3.00)
	link(t, db, menuItem.ID, item.ID)

	updated, err := svc.Adjust(item.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Quantity)
	assert.False(t, updated.IsAvailable)
	assert.False(t, menuAvailability(t, db, menuItem.ID))

	// Restocking above the threshold flips the menu item back.
	updated, err = svc.Adjust(item.ID, 20)
	require.NoError(t, err)
	assert.True(t, updated.IsAvailable)
	assert.True(t, menuAvailability(t, db, menuItem.ID))
}

func TestAdjustAtThresholdIsUnavailable(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	item := createItem(t, db, nil, "Candy", 12, 10)

	updated, err := svc.Adjust(item.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)
	assert.False(t, updated.IsAvailable, "exactly at threshold counts as unavailable")
}

func TestPropagateConjunctionAcrossLinks(t *testing.T) {
	db := testDB(t)
	stand := createStand(t, db, "Stand A")
	svc := NewService(db, nil)

	dog := createItem(t, db, &stand.ID, "Hot Dog", 50, 5)
	bun := createItem(t, db, &stand.ID, "Bun", 50, 5)
	combo := createMenuItem(t, db, &stand.ID, "Hot Dog Combo", 6.00)
	link(t, db, combo.ID, dog.ID)
	link(t, db, combo.ID, bun.ID)

	// One unavailable ingredient hides the item regardless of the other.
	_, err := svc.Adjust(bun.ID, -46)
	require.NoError(t, err)
	assert.False(t, menuAvailability(t, db, combo.ID))

	// The still-depleted bun keeps the item hidden even after the hot dog
	// side is touched.
	_, err = svc.Adjust(dog.ID, -10)
	require.NoError(t, err)
	assert.False(t, menuAvailability(t, db, combo.ID))

	// Restocking the bun makes every link available again.
	_, err = svc.Adjust(bun.ID, 46)
	require.NoError(t, err)
	assert.True(t, menuAvailability(t, db, combo.ID))
}

func TestUpdateInventoryThresholdChangePropagates(t *testing.T) {
	db := testDB(t)
	stand := createStand(t, db, "Stand A")
	svc := NewService(db, nil)

	item := createItem(t, db, &stand.ID, "Nachos", 20, 5)
	menuItem := createMenuItem(t, db, &stand.ID, "Nachos Grande", 7.50)
	link(t, db, menuItem.ID, item.ID)

	// Raising the threshold above the quantity flips availability without
	// any quantity change.
	threshold := 25
	updated, err := svc.UpdateInventory(item.ID, InventoryUpdate{MinimumThreshold: &threshold})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.False(t, menuAvailability(t, db, menuItem.ID))
}

func TestUpdateInventoryUnknownStand(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	item := createItem(t, db, nil, "Ice", 10, 1)

	badStand := uint(404)
	_, err := svc.UpdateInventory(item.ID, InventoryUpdate{StandID: &badStand})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDeleteInventoryItemReevaluatesMenu(t *testing.T) {
	db := testDB(t)
	stand := createStand(t, db, "Stand A")
	svc := NewService(db, nil)

	depleted := createItem(t, db, &stand.ID, "Cheese", 0, 5)
	stocked := createItem(t, db, &stand.ID, "Chips", 50, 5)
	menuItem := createMenuItem(t, db, &stand.ID, "Nachos", 5.00)
	link(t, db, menuItem.ID, stocked.ID)

	// Linking the depleted ingredient recomputes availability and hides
	// the menu item.
	_, err := svc.Link(menuItem.ID, depleted.ID, 1)
	require.NoError(t, err)
	require.False(t, menuAvailability(t, db, menuItem.ID))

	// Deleting the depleted ingredient removes its link; the remaining link
	// is stocked, so the menu item comes back.
	require.NoError(t, svc.DeleteInventoryItem(depleted.ID))
	assert.True(t, menuAvailability(t, db, menuItem.ID))

	var linkCount int64
	require.NoError(t, db.Model(&models.MenuItemInventory{}).
		Where("inventory_item_id = ?", depleted.ID).Count(&linkCount).Error)
	assert.Zero(t, linkCount)
}

func TestDeleteLastLinkedItemLeavesMenuAvailable(t *testing.T) {
	db := testDB(t)
	stand := createStand(t, db, "Stand A")
	svc := NewService(db, nil)

	item := createItem(t, db, &stand.ID, "Lemonade Mix", 0, 5)
	menuItem := createMenuItem(t, db, &stand.ID, "Lemonade", 3.00)
	link(t, db, menuItem.ID, item.ID)

	require.NoError(t, svc.DeleteInventoryItem(item.ID))

	// No ingredients needed means always available.
	assert.True(t, menuAvailability(t, db, menuItem.ID))
}

func TestLinkAndUnlinkRecompute(t *testing.T) {
	db := testDB(t)
	stand := createStand(t, db, "Stand A")
	svc := NewService(db, nil)

	depleted := createItem(t, db, &stand.ID, "Syrup", 2, 5)
	menuItem := createMenuItem(t, db, &stand.ID, "Snow Cone", 3.50)

	linked, err := svc.Link(menuItem.ID, depleted.ID, 1)
	require.NoError(t, err)
	assert.False(t, linked.IsAvailable, "linking a depleted ingredient hides the item")

	unlinked, err := svc.Unlink(menuItem.ID, depleted.ID)
	require.NoError(t, err)
	assert.True(t, unlinked.IsAvailable, "zero links means available")

	// Unlinking again reports the missing link.
	_, err = svc.Unlink(menuItem.ID, depleted.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestListenerNotifiedOncePerOperation(t *testing.T) {
	db := testDB(t)
	stand := createStand(t, db, "Stand A")
	listener := &recordingListener{}
	svc := NewService(db, listener)

	item := createItem(t, db, &stand.ID, "Pretzel", 11, 10)
	first := createMenuItem(t, db, &stand.ID, "Pretzel", 3.00)
	second := createMenuItem(t, db, &stand.ID, "Pretzel Bites", 4.00)
	link(t, db, first.ID, item.ID)
	link(t, db, second.ID, item.ID)

	_, err := svc.Adjust(item.ID, -2)
	require.NoError(t, err)

	require.Len(t, listener.calls, 1)
	assert.Equal(t, []uint{stand.ID}, listener.calls[0])

	// No flip, no notification.
	_, err = svc.Adjust(item.ID, -1)
	require.NoError(t, err)
	assert.Len(t, listener.calls, 1)
}
