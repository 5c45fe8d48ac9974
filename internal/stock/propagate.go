package stock

import (
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
)

// changeSet accumulates the stands whose menu availability changed during a
// transaction, so listeners are notified once, after commit.
type changeSet struct {
	stands map[uint]bool
}

func newChangeSet() *changeSet {
	return &changeSet{stands: make(map[uint]bool)}
}

func (c *changeSet) add(standID *uint) {
	if standID != nil {
		c.stands[*standID] = true
	}
}

func (c *changeSet) notify(l ChangeListener) {
	if l == nil || len(c.stands) == 0 {
		return
	}
	ids := make([]uint, 0, len(c.stands))
	for id := range c.stands {
		ids = append(ids, id)
	}
	l.MenuAvailabilityChanged(ids)
}

// propagate re-evaluates every menu item linked to the given inventory item.
// Callers invoke it after a mutation flipped the item's availability, or
// after its links changed; it never fails validation itself.
func propagate(tx *gorm.DB, inventoryItemID uint, changes *changeSet) error {
	var links []models.MenuItemInventory
	if err := tx.Where("inventory_item_id = ?", inventoryItemID).Find(&links).Error; err != nil {
		return err
	}
	for _, link := range links {
		if err := recomputeMenuItem(tx, link.MenuItemID, changes); err != nil {
			return err
		}
	}
	return nil
}

// recomputeMenuItem persists the menu item's availability as the conjunction
// of all its currently linked inventory items' availability. A menu item
// with no links is always available.
func recomputeMenuItem(tx *gorm.DB, menuItemID uint, changes *changeSet) error {
	var item models.MenuItem
	if err := tx.First(&item, menuItemID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			// Link to a menu item that no longer exists; nothing to update.
			return nil
		}
		return err
	}

	available, err := linksAvailable(tx, menuItemID)
	if err != nil {
		return err
	}
	if item.IsAvailable == available {
		return nil
	}

	if err := tx.Model(&item).Update("is_available", available).Error; err != nil {
		return err
	}
	changes.add(item.StandID)
	return nil
}

// linksAvailable evaluates the conjunction across every inventory item
// linked to the menu item, short-circuiting on the first unavailable one.
// A link whose inventory row has vanished counts as unavailable.
func linksAvailable(tx *gorm.DB, menuItemID uint) (bool, error) {
	var links []models.MenuItemInventory
	if err := tx.Where("menu_item_id = ?", menuItemID).Find(&links).Error; err != nil {
		return false, err
	}
	for _, link := range links {
		var item models.InventoryItem
		if err := tx.First(&item, link.InventoryItemID).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return false, nil
			}
			return false, err
		}
		if !item.Available() {
			return false, nil
		}
	}
	return true, nil
}
