package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tgcretail/pos-backend/pkg/enums"
	"github.com/tgcretail/pos-backend/pkg/types"
)

// AuditEntry records one lifecycle transition. Entries are append-only:
// no code path updates or deletes them. Seq gives a total order even when
// two entries share a timestamp.
//
// TransactionID is nil for system events; all engine-written entries carry
// the receipt's transaction id. Lines holds only the lines affected by the
// action (full list for create/pay/cancel, refunded subset for refunds).
// AmountCents is signed: positive for sale/payment, negative for refunds,
// zero for cancellation.
type AuditEntry struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Seq             int64               `gorm:"column:seq;autoIncrement;uniqueIndex" json:"seq"`
	TransactionID   *string             `gorm:"column:transaction_id;index" json:"transaction_id,omitempty"`
	Action          enums.AuditAction   `gorm:"column:action;not null" json:"action"`
	ResultingStatus enums.ReceiptStatus `gorm:"column:resulting_status;not null" json:"resulting_status"`
	StaffID         uuid.UUID           `gorm:"column:staff_id;type:uuid;not null" json:"staff_id"`
	StaffName       string              `gorm:"column:staff_name;not null" json:"staff_name"`
	CustomerName    string              `gorm:"column:customer_name" json:"customer_name"`
	Lines           types.LineSnapshots `gorm:"column:lines;serializer:json" json:"lines"`
	AmountCents     int                 `gorm:"column:amount_cents;not null" json:"amount_cents"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
