package enums

import "fmt"

// ReceiptStatus tracks the lifecycle of a receipt in the transaction ledger.
type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "pending"
	ReceiptStatusCompleted ReceiptStatus = "completed"
	ReceiptStatusRefunded  ReceiptStatus = "refunded"
	ReceiptStatusCancelled ReceiptStatus = "cancelled"
)

var validReceiptStatuses = []ReceiptStatus{
	ReceiptStatusPending,
	ReceiptStatusCompleted,
	ReceiptStatusRefunded,
	ReceiptStatusCancelled,
}

// String implements fmt.Stringer.
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReceiptStatus.
func (s ReceiptStatus) IsValid() bool {
	for _, candidate := range validReceiptStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave the status.
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusRefunded || s == ReceiptStatusCancelled
}

// ParseReceiptStatus converts raw input into a ReceiptStatus.
func ParseReceiptStatus(value string) (ReceiptStatus, error) {
	status := ReceiptStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid receipt status %q", value)
	}
	return status, nil
}
