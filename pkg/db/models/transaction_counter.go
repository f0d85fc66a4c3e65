package models

import "time"

// TransactionCounterID is the fixed primary key of the single counter row.
const TransactionCounterID = 1

// TransactionCounter is the single-row table backing transaction id
// generation. The counter is read and advanced inside the checkout
// transaction so it survives restarts and never repeats.
type TransactionCounter struct {
	ID        int       `gorm:"column:id;primaryKey" json:"id"`
	Value     int64     `gorm:"column:value;not null;default:0" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
