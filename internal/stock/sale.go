package stock

import (
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
)

// SaleRequest carries the parameters of a sale.
type SaleRequest struct {
	MenuItemID    uint
	Quantity      int
	PaymentMethod models.PaymentMethod
	ProcessorRef  string
	Notes         string
	WindowID      *uint
}

// Sell records a sale of a menu item and draws down its linked inventory.
//
// The sale is rejected before any mutation when the quantity is not
// positive, the menu item is unavailable, the window is inactive or belongs
// to another stand, or a card payment lacks its processor reference. Once
// the transaction record is
// created the sale always completes: a linked inventory item without enough
// stock is clamped to zero rather than failing the sale. This deliberately
// differs from Adjust and Transfer, which reject insufficient stock; here a
// completed sale already happened at the register and must be recorded.
func (s *Service) Sell(req SaleRequest) (*models.Transaction, error) {
	if req.Quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: req.Quantity}
	}

	var out models.Transaction
	changes := newChangeSet()

	err := s.inTx(func(tx *gorm.DB) error {
		var menuItem models.MenuItem
		if err := tx.First(&menuItem, req.MenuItemID).Error; err != nil {
			return notFoundOr(err, "menu item", req.MenuItemID)
		}
		if !menuItem.IsAvailable {
			return &UnavailableError{MenuItem: menuItem.Name}
		}

		if req.WindowID != nil {
			var window models.Window
			if err := tx.First(&window, *req.WindowID).Error; err != nil {
				return notFoundOr(err, "window", *req.WindowID)
			}
			if !window.IsActive {
				return &InactiveResourceError{Resource: "window", ID: window.ID}
			}
			if menuItem.StandID == nil || window.StandID != *menuItem.StandID {
				return &OwnershipMismatchError{Resource: "window", StandID: window.StandID}
			}
		}

		if req.PaymentMethod == models.PaymentCard && req.ProcessorRef == "" {
			return &MissingReferenceError{Field: "processor reference for card payments"}
		}

		sale := models.NewTransaction(&menuItem, req.Quantity, req.PaymentMethod, req.ProcessorRef, req.Notes, req.WindowID)
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		if err := s.drawDown(tx, menuItem.ID, req.Quantity, changes); err != nil {
			return err
		}

		out = *sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.notify(s.listener)
	return &out, nil
}

// drawDown decrements every inventory item linked to the menu item by the
// sold quantity, clamping at zero, and propagates any availability flips.
func (s *Service) drawDown(tx *gorm.DB, menuItemID uint, quantity int, changes *changeSet) error {
	var links []models.MenuItemInventory
	if err := tx.Where("menu_item_id = ?", menuItemID).Find(&links).Error; err != nil {
		return err
	}

	for _, link := range links {
		var item models.InventoryItem
		if err := tx.First(&item, link.InventoryItemID).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				// Dangling link; propagation treats it as unavailable.
				continue
			}
			return err
		}

		wasAvailable := item.Available()
		if item.Quantity >= quantity {
			item.Quantity -= quantity
		} else {
			item.Quantity = 0
		}
		if err := tx.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
			return err
		}

		if item.Available() != wasAvailable {
			if err := propagate(tx, item.ID, changes); err != nil {
				return err
			}
		}
	}
	return nil
}
