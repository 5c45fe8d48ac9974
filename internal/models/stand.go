package models

import "time"

// ConcessionStand is a physical point of sale. Inventory items, menu items
// and service windows all hang off a stand; an inactive stand keeps its
// records but stops selling.
type ConcessionStand struct {
	ID          uint      `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"index;not null" json:"name"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for ConcessionStand
func (ConcessionStand) TableName() string {
	return "concession_stands"
}
