package models

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptLine snapshots one cart line at checkout time. Price and attributes
// are frozen copies; later catalog edits never touch them. Refunded is
// one-way: once set it is never cleared.
type ReceiptLine struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReceiptID      uuid.UUID  `gorm:"column:receipt_id;type:uuid;not null;index" json:"receipt_id"`
	Position       int        `gorm:"column:position;not null" json:"position"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid" json:"product_id,omitempty"`
	Name           string     `gorm:"column:name;not null" json:"name"`
	Brand          string     `gorm:"column:brand;not null" json:"brand"`
	Type           string     `gorm:"column:type;not null" json:"type"`
	Size           string     `gorm:"column:size;not null" json:"size"`
	Color          string     `gorm:"column:color;not null" json:"color"`
	UnitPriceCents int        `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	Qty            int        `gorm:"column:qty;not null" json:"qty"`
	Refunded       bool       `gorm:"column:refunded;not null;default:false" json:"refunded"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TotalCents is the line's contribution to the receipt subtotal.
func (l ReceiptLine) TotalCents() int {
	return l.UnitPriceCents * l.Qty
}
