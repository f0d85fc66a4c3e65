package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tgcretail/pos-backend/pkg/enums"
)

// Receipt is one finalized sale tracked through its lifecycle. Created once
// at checkout, mutated in place by transitions, never deleted.
//
// SubtotalCents always equals the sum of UnitPriceCents*Qty over the
// non-refunded lines. PaymentCents and ChangeCents are historical record
// fields: refunds reduce the payment but never re-derive the change.
type Receipt struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TransactionID string              `gorm:"column:transaction_id;not null;uniqueIndex" json:"transaction_id"`
	CustomerName  string              `gorm:"column:customer_name;not null" json:"customer_name"`
	Status        enums.ReceiptStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	SubtotalCents int                 `gorm:"column:subtotal_cents;not null" json:"subtotal_cents"`
	PaymentCents  int                 `gorm:"column:payment_cents;not null;default:0" json:"payment_cents"`
	ChangeCents   int                 `gorm:"column:change_cents;not null;default:0" json:"change_cents"`
	StaffID       uuid.UUID           `gorm:"column:staff_id;type:uuid;not null" json:"staff_id"`
	StaffName     string              `gorm:"column:staff_name;not null" json:"staff_name"`
	Lines         []ReceiptLine       `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
