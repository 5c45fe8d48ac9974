package models

import "time"

// Window is a named service point under a stand. Sales may be attributed to
// a window; an inactive window cannot take sales.
type Window struct {
	ID          uint      `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"index;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	StandID     uint      `gorm:"index;not null" json:"stand_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Window
func (Window) TableName() string {
	return "windows"
}
