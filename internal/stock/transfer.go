package stock

import (
	"github.com/jinzhu/gorm"

	"concessions/internal/models"
)

// TransferResult reports the outcome of an inter-stand inventory transfer.
// Created is true when the destination stand had no matching item and a new
// one was cloned from the source.
type TransferResult struct {
	Source      models.InventoryItem `json:"source"`
	Destination models.InventoryItem `json:"destination"`
	Created     bool                 `json:"created"`
	Quantity    int                  `json:"quantity"`
}

// Transfer moves quantity units of an inventory item from one stand to
// another. The destination is matched by (name, item_type) within the
// destination stand; when no match exists a new item is created there,
// cloning the source's descriptive attributes. Validation failures leave
// both stands untouched.
func (s *Service) Transfer(fromStandID, toStandID, itemID uint, quantity int) (*TransferResult, error) {
	if quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: quantity}
	}

	var out TransferResult
	changes := newChangeSet()

	err := s.inTx(func(tx *gorm.DB) error {
		var fromStand, toStand models.ConcessionStand
		if err := tx.First(&fromStand, fromStandID).Error; err != nil {
			return notFoundOr(err, "source stand", fromStandID)
		}
		if err := tx.First(&toStand, toStandID).Error; err != nil {
			return notFoundOr(err, "destination stand", toStandID)
		}

		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return notFoundOr(err, "inventory item", itemID)
		}
		if item.StandID == nil || *item.StandID != fromStandID {
			return &OwnershipMismatchError{Resource: "inventory item", StandID: fromStandID}
		}
		if item.Quantity < quantity {
			return &InsufficientStockError{Item: item.Name, Have: item.Quantity, Want: quantity}
		}

		sourceWasAvailable := item.Available()
		item.Quantity -= quantity
		if err := tx.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
			return err
		}
		if item.Available() != sourceWasAvailable {
			if err := propagate(tx, item.ID, changes); err != nil {
				return err
			}
		}

		var dest models.InventoryItem
		err := tx.Where("stand_id = ? AND name = ? AND item_type = ?", toStandID, item.Name, item.ItemType).
			First(&dest).Error
		switch {
		case gorm.IsRecordNotFoundError(err):
			dest = models.InventoryItem{
				Name:             item.Name,
				Description:      item.Description,
				ItemType:         item.ItemType,
				Unit:             item.Unit,
				Quantity:         quantity,
				MinimumThreshold: item.MinimumThreshold,
				UnitCost:         item.UnitCost,
				StandID:          &toStandID,
			}
			if err := tx.Create(&dest).Error; err != nil {
				return err
			}
			out.Created = true
		case err != nil:
			return err
		default:
			destWasAvailable := dest.Available()
			dest.Quantity += quantity
			if err := tx.Model(&dest).Update("quantity", dest.Quantity).Error; err != nil {
				return err
			}
			if dest.Available() != destWasAvailable {
				if err := propagate(tx, dest.ID, changes); err != nil {
					return err
				}
			}
		}

		item.Refresh()
		dest.Refresh()
		out.Source = item
		out.Destination = dest
		out.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.notify(s.listener)
	return &out, nil
}
