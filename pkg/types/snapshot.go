package types

import "github.com/google/uuid"

// LineSnapshot is the immutable copy of a receipt line captured inside an
// audit entry. Attribute values are frozen at the time of the action and
// never re-read from the catalog.
type LineSnapshot struct {
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	Brand          string     `json:"brand"`
	Type           string     `json:"type"`
	Size           string     `json:"size"`
	Color          string     `json:"color"`
	UnitPriceCents int        `json:"unit_price_cents"`
	Qty            int        `json:"qty"`
}

// LineSnapshots is stored as a JSON column on audit entries.
type LineSnapshots []LineSnapshot
