// Package stock implements the inventory rules that the REST layer exposes:
// availability propagation between inventory and menu items, quantity
// adjustment, inter-stand transfers and sales.
//
// Every operation runs inside one database transaction. Validation failures
// roll back cleanly; the typed errors in errors.go tell the HTTP layer how to
// classify the failure.
package stock

import (
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
)

// ChangeListener is notified after a committed operation changed menu item
// availability, keyed by the stands whose displays need refreshing.
type ChangeListener interface {
	MenuAvailabilityChanged(standIDs []uint)
}

// Service owns the stock-mutation rules. The database handle is injected;
// the service holds no other state.
type Service struct {
	db       *gorm.DB
	listener ChangeListener
}

// NewService creates a stock service. The listener may be nil.
func NewService(db *gorm.DB, listener ChangeListener) *Service {
	return &Service{db: db, listener: listener}
}

// InventoryUpdate carries the mutable fields of an inventory item. Nil
// fields are left unchanged.
type InventoryUpdate struct {
	Name             *string
	Description      *string
	ItemType         *models.ItemType
	Unit             *models.ItemUnit
	Quantity         *int
	MinimumThreshold *int
	UnitCost         *float64
	StandID          *uint
}

// Adjust applies a signed quantity change to an inventory item. A reduction
// larger than the current quantity is rejected with InsufficientStockError
// and leaves the row untouched. If the change crosses the availability
// threshold, linked menu items are re-evaluated before the transaction
// commits.
func (s *Service) Adjust(itemID uint, delta int) (*models.InventoryItem, error) {
	var out models.InventoryItem
	changes := newChangeSet()

	err := s.inTx(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return notFoundOr(err, "inventory item", itemID)
		}

		if delta < 0 && -delta > item.Quantity {
			return &InsufficientStockError{Item: item.Name, Have: item.Quantity, Want: -delta}
		}

		wasAvailable := item.Available()
		item.Quantity += delta
		if err := tx.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
			return err
		}

		if item.Available() != wasAvailable {
			if err := propagate(tx, item.ID, changes); err != nil {
				return err
			}
		}

		item.Refresh()
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.notify(s.listener)
	return &out, nil
}

// UpdateInventory applies a partial update to an inventory item. Changing
// the quantity or threshold can flip availability, which triggers
// propagation to linked menu items.
func (s *Service) UpdateInventory(itemID uint, upd InventoryUpdate) (*models.InventoryItem, error) {
	var out models.InventoryItem
	changes := newChangeSet()

	err := s.inTx(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return notFoundOr(err, "inventory item", itemID)
		}

		if upd.StandID != nil && (item.StandID == nil || *upd.StandID != *item.StandID) {
			var stand models.ConcessionStand
			if err := tx.First(&stand, *upd.StandID).Error; err != nil {
				return notFoundOr(err, "concession stand", *upd.StandID)
			}
		}

		wasAvailable := item.Available()
		applyInventoryUpdate(&item, upd)
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		if item.Available() != wasAvailable {
			if err := propagate(tx, item.ID, changes); err != nil {
				return err
			}
		}

		item.Refresh()
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.notify(s.listener)
	return &out, nil
}

// DeleteInventoryItem removes an inventory item. Its menu links are deleted
// first, then each formerly linked menu item is re-evaluated against its
// remaining links, as if the deleted item was never an ingredient.
func (s *Service) DeleteInventoryItem(itemID uint) error {
	changes := newChangeSet()

	err := s.inTx(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return notFoundOr(err, "inventory item", itemID)
		}

		var links []models.MenuItemInventory
		if err := tx.Where("inventory_item_id = ?", itemID).Find(&links).Error; err != nil {
			return err
		}

		if err := tx.Where("inventory_item_id = ?", itemID).Delete(&models.MenuItemInventory{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}

		for _, link := range links {
			if err := recomputeMenuItem(tx, link.MenuItemID, changes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	changes.notify(s.listener)
	return nil
}

// Link attaches an inventory item to a menu item as an ingredient
// dependency, or updates the required quantity if the link already exists.
// The menu item's availability is recomputed from all of its links.
func (s *Service) Link(menuItemID, inventoryItemID uint, quantityRequired int) (*models.MenuItem, error) {
	return s.relink(menuItemID, inventoryItemID, quantityRequired, true)
}

// Unlink removes an ingredient dependency and recomputes the menu item's
// availability from its remaining links. A menu item left with no links is
// always available.
func (s *Service) Unlink(menuItemID, inventoryItemID uint) (*models.MenuItem, error) {
	return s.relink(menuItemID, inventoryItemID, 0, false)
}

func (s *Service) relink(menuItemID, inventoryItemID uint, quantityRequired int, add bool) (*models.MenuItem, error) {
	var out models.MenuItem
	changes := newChangeSet()

	err := s.inTx(func(tx *gorm.DB) error {
		var menuItem models.MenuItem
		if err := tx.First(&menuItem, menuItemID).Error; err != nil {
			return notFoundOr(err, "menu item", menuItemID)
		}

		var link models.MenuItemInventory
		linkErr := tx.Where("menu_item_id = ? AND inventory_item_id = ?", menuItemID, inventoryItemID).
			First(&link).Error

		if add {
			var item models.InventoryItem
			if err := tx.First(&item, inventoryItemID).Error; err != nil {
				return notFoundOr(err, "inventory item", inventoryItemID)
			}
			switch {
			case gorm.IsRecordNotFoundError(linkErr):
				link = models.MenuItemInventory{
					MenuItemID:       menuItemID,
					InventoryItemID:  inventoryItemID,
					QuantityRequired: quantityRequired,
				}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			case linkErr != nil:
				return linkErr
			default:
				if err := tx.Model(&link).Update("quantity_required", quantityRequired).Error; err != nil {
					return err
				}
			}
		} else {
			if gorm.IsRecordNotFoundError(linkErr) {
				return &NotFoundError{Resource: "menu item inventory link", ID: inventoryItemID}
			}
			if linkErr != nil {
				return linkErr
			}
			if err := tx.Where("menu_item_id = ? AND inventory_item_id = ?", menuItemID, inventoryItemID).
				Delete(&models.MenuItemInventory{}).Error; err != nil {
				return err
			}
		}

		if err := recomputeMenuItem(tx, menuItemID, changes); err != nil {
			return err
		}
		if err := tx.First(&menuItem, menuItemID).Error; err != nil {
			return err
		}
		out = menuItem
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.notify(s.listener)
	return &out, nil
}

// applyInventoryUpdate copies non-nil fields onto the item.
func applyInventoryUpdate(item *models.InventoryItem, upd InventoryUpdate) {
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.ItemType != nil {
		item.ItemType = *upd.ItemType
	}
	if upd.Unit != nil {
		item.Unit = *upd.Unit
	}
	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}
	if upd.MinimumThreshold != nil {
		item.MinimumThreshold = *upd.MinimumThreshold
	}
	if upd.UnitCost != nil {
		item.UnitCost = *upd.UnitCost
	}
	if upd.StandID != nil {
		item.StandID = upd.StandID
	}
}

// inTx runs fn inside a database transaction, rolling back on error.
func (s *Service) inTx(fn func(tx *gorm.DB) error) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// notFoundOr converts gorm's record-not-found into the typed NotFoundError,
// leaving other storage faults untouched.
func notFoundOr(err error, resource string, id uint) error {
	if gorm.IsRecordNotFoundError(err) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}
