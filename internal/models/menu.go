package models

import "time"

// MenuItem represents a sellable catalog entry shown on stand displays.
//
// IsAvailable is persisted and defaults to true; the stock layer overwrites
// it whenever the availability of a linked inventory item changes.
type MenuItem struct {
	ID          uint      `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"index;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `gorm:"not null" json:"price"`
	ImagePath   string    `json:"image_path,omitempty"`
	IsAvailable bool      `json:"is_available"`
	IsFeatured  bool      `json:"is_featured"`
	StandID     *uint     `gorm:"index" json:"stand_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for MenuItem
func (MenuItem) TableName() string {
	return "menu_items"
}

// DisplayableWith reports whether the item should appear on a display, given
// the inventory items currently linked to it. The item must be flagged
// available and every linked inventory item must be available; an item with
// no links has no ingredient dependency and displays whenever flagged.
func (m *MenuItem) DisplayableWith(linked []InventoryItem) bool {
	if !m.IsAvailable {
		return false
	}
	for i := range linked {
		if !linked[i].Available() {
			return false
		}
	}
	return true
}
