package models

import (
	"time"

	"github.com/google/uuid"
)

// StockItem is one catalog entry. ItemNumber is the human-facing sequential
// id (max existing + 1 on create); the uuid key is the storage identity.
// QuantityOnHand never goes negative: debits are SQL-guarded.
type StockItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ItemNumber     int       `gorm:"column:item_number;not null;uniqueIndex" json:"item_number"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Brand          string    `gorm:"column:brand;not null" json:"brand"`
	Type           string    `gorm:"column:type;not null" json:"type"`
	Size           string    `gorm:"column:size;not null;default:'Std.'" json:"size"`
	Color          string    `gorm:"column:color;not null;default:'N/A'" json:"color"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	QuantityOnHand int       `gorm:"column:quantity_on_hand;not null;default:0" json:"quantity_on_hand"`
	ReorderPoint   int       `gorm:"column:reorder_point;not null;default:0" json:"reorder_point"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
