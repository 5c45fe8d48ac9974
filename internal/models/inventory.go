package models

import "time"

// ItemType classifies what an inventory item is.
type ItemType string

const (
	ItemTypeFood   ItemType = "food"
	ItemTypeDrink  ItemType = "drink"
	ItemTypeSupply ItemType = "supply"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeFood, ItemTypeDrink, ItemTypeSupply:
		return true
	}
	return false
}

// ItemUnit is the unit of measure an inventory item is counted in.
type ItemUnit string

const (
	ItemUnitEach   ItemUnit = "each"
	ItemUnitBox    ItemUnit = "box"
	ItemUnitCase   ItemUnit = "case"
	ItemUnitPound  ItemUnit = "pound"
	ItemUnitOunce  ItemUnit = "ounce"
	ItemUnitGallon ItemUnit = "gallon"
	ItemUnitLiter  ItemUnit = "liter"
)

// Valid reports whether u is a known unit of measure.
func (u ItemUnit) Valid() bool {
	switch u {
	case ItemUnitEach, ItemUnitBox, ItemUnitCase, ItemUnitPound, ItemUnitOunce, ItemUnitGallon, ItemUnitLiter:
		return true
	}
	return false
}

// InventoryItem represents a stock-keeping unit held by a stand.
//
// Availability is never stored: it is always quantity > minimum_threshold,
// recomputed on read. The exported IsAvailable field only mirrors Available()
// for JSON responses.
type InventoryItem struct {
	ID               uint      `gorm:"primary_key" json:"id"`
	Name             string    `gorm:"index;not null" json:"name"`
	Description      string    `json:"description,omitempty"`
	ItemType         ItemType  `gorm:"type:varchar(16);not null" json:"item_type"`
	Unit             ItemUnit  `gorm:"type:varchar(16);not null" json:"unit"`
	Quantity         int       `json:"quantity"`
	MinimumThreshold int       `json:"minimum_threshold"`
	UnitCost         float64   `json:"unit_cost"`
	StandID          *uint     `gorm:"index" json:"stand_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	IsAvailable bool `gorm:"-" json:"is_available"`
}

// TableName specifies the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// Available reports whether the item has enough stock to back a menu item.
// The comparison is strict: sitting exactly at the threshold is not available.
func (i *InventoryItem) Available() bool {
	return i.Quantity > i.MinimumThreshold
}

// AfterFind refreshes the derived availability flag whenever a row is loaded.
func (i *InventoryItem) AfterFind() error {
	i.IsAvailable = i.Available()
	return nil
}

// Refresh syncs the derived availability flag after an in-memory mutation.
func (i *InventoryItem) Refresh() {
	i.IsAvailable = i.Available()
}
