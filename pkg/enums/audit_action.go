package enums

// AuditAction labels the lifecycle transition an audit entry records. The
// column is free-form text so historical imports survive, but the engine only
// writes these values.
type AuditAction string

const (
	AuditActionOrderPaid        AuditAction = "Order Processed (Paid)"
	AuditActionOrderToPay       AuditAction = "Order Created (To Pay)"
	AuditActionPendingPaid      AuditAction = "Pending Order Paid"
	AuditActionPendingCancelled AuditAction = "Pending Order Cancelled"
	AuditActionOrderRefunded    AuditAction = "Order Refunded"
	AuditActionPartialRefund    AuditAction = "Partial Refund"
)

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}
