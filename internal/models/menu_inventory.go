package models

// MenuItemInventory is the join row between a menu item and an inventory
// item it depends on. QuantityRequired is informational only; availability
// propagation cares about the presence of the link, not the amount.
type MenuItemInventory struct {
	MenuItemID       uint `gorm:"primary_key;auto_increment:false" json:"menu_item_id"`
	InventoryItemID  uint `gorm:"primary_key;auto_increment:false" json:"inventory_item_id"`
	QuantityRequired int  `json:"quantity_required"`
}

// TableName specifies the table name for MenuItemInventory
func (MenuItemInventory) TableName() string {
	return "menu_item_inventory"
}
