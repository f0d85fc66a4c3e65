package cart

import (
	"time"

	"github.com/google/uuid"
)

// Line is one product entry in a session cart. Price and descriptive
// attributes are copied from the catalog at add time so the receipt can be
// built even if the item changes later.
type Line struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"`
	Type           string    `json:"type"`
	Size           string    `json:"size"`
	Color          string    `json:"color"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Qty            int       `json:"qty"`
}

// TotalCents returns the line total.
func (l Line) TotalCents() int {
	return l.UnitPriceCents * l.Qty
}

// Cart is the transient working order for one register session. It never
// touches the database; checkout turns it into a receipt and discards it.
type Cart struct {
	SessionID    string    `json:"session_id"`
	CustomerName string    `json:"customer_name"`
	Lines        []Line    `json:"lines"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubtotalCents recomputes the cart total from its lines. Always derived,
// never stored, so a stale snapshot cannot drift from its own contents.
func (c *Cart) SubtotalCents() int {
	total := 0
	for _, line := range c.Lines {
		total += line.TotalCents()
	}
	return total
}

// LineFor returns the index of the line holding productID, or -1.
func (c *Cart) LineFor(productID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
