package models

import "time"

// PaymentMethod is how a sale was paid for.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// Transaction is an immutable sale record. UnitPrice and TotalAmount are
// captured at sale time and never recomputed, even if the menu item's price
// changes later. Rows are append-only: nothing updates or deletes them.
type Transaction struct {
	ID            uint          `gorm:"primary_key" json:"id"`
	Quantity      int           `gorm:"not null" json:"quantity"`
	UnitPrice     float64       `gorm:"not null" json:"unit_price"`
	TotalAmount   float64       `gorm:"not null" json:"total_amount"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(8);not null" json:"payment_method"`
	ProcessorRef  string        `json:"processor_ref,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	MenuItemID    uint          `gorm:"index;not null" json:"menu_item_id"`
	StandID       *uint         `gorm:"index" json:"stand_id,omitempty"`
	WindowID      *uint         `gorm:"index" json:"window_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction builds a sale record from a menu item, capturing the price
// at the moment of sale.
func NewTransaction(item *MenuItem, quantity int, method PaymentMethod, processorRef, notes string, windowID *uint) *Transaction {
	return &Transaction{
		Quantity:      quantity,
		UnitPrice:     item.Price,
		TotalAmount:   item.Price * float64(quantity),
		PaymentMethod: method,
		ProcessorRef:  processorRef,
		Notes:         notes,
		MenuItemID:    item.ID,
		StandID:       item.StandID,
		WindowID:      windowID,
	}
}
