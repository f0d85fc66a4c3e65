package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff is the identity record the ledger and audit trail reference.
// Credentials live outside this service.
type Staff struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployeeID string    `gorm:"column:employee_id;not null;uniqueIndex" json:"employee_id"`
	Username   string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	FullName   string    `gorm:"column:full_name;not null" json:"full_name"`
	Role       string    `gorm:"column:role;not null;default:'staff'" json:"role"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
