package cart

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tgcretail/pos-backend/internal/catalog"
	"github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

// View is the cart as returned to callers, with the derived subtotal.
type View struct {
	SessionID     string `json:"session_id"`
	CustomerName  string `json:"customer_name"`
	Lines         []Line `json:"lines"`
	SubtotalCents int    `json:"subtotal_cents"`
}

// IsEmpty reports whether the cart holds no lines.
func (v *View) IsEmpty() bool {
	return v == nil || len(v.Lines) == 0
}

// Service manages session carts against live catalog stock.
type Service interface {
	Fetch(ctx context.Context, sessionID string) (*View, error)
	AddLine(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	SetLineQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	RemoveLine(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error)
	SetCustomerName(ctx context.Context, sessionID, name string) (*View, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store   Store
	catalog catalog.Service
	logg    *logger.Logger
}

// NewService wires the cart service.
func NewService(store Store, catalogSvc catalog.Service, logg *logger.Logger) Service {
	return &service{store: store, catalog: catalogSvc, logg: logg}
}

func (s *service) Fetch(ctx context.Context, sessionID string) (*View, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

// AddLine puts qty units of a product into the cart, merging with an
// existing line for the same product. Quantity is validated against on-hand
// stock at add time; checkout validates again inside its transaction.
func (s *service) AddLine(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	if qty <= 0 {
		return nil, errors.New(errors.CodeValidation, "quantity must be positive")
	}

	item, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if item.QuantityOnHand <= 0 {
		return nil, errors.New(errors.CodeOutOfStock, "item is out of stock").
			WithDetails(map[string]any{"product_id": productID, "name": item.Name})
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	requested := qty
	if idx := cart.LineFor(productID); idx >= 0 {
		requested += cart.Lines[idx].Qty
	}
	if requested > item.QuantityOnHand {
		return nil, errors.New(errors.CodeStockLimit, "requested quantity exceeds available stock").
			WithDetails(map[string]any{
				"product_id": productID,
				"available":  item.QuantityOnHand,
				"requested":  requested,
			})
	}

	if idx := cart.LineFor(productID); idx >= 0 {
		cart.Lines[idx].Qty = requested
	} else {
		cart.Lines = append(cart.Lines, Line{
			ProductID:      item.ID,
			Name:           item.Name,
			Brand:          item.Brand,
			Type:           item.Type,
			Size:           item.Size,
			Color:          item.Color,
			UnitPriceCents: item.UnitPriceCents,
			Qty:            qty,
		})
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

// SetLineQuantity replaces the quantity on an existing line, clamped to
// [0, on-hand]. Zero (or a clamp down to zero) removes the line.
func (s *service) SetLineQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	if qty < 0 {
		qty = 0
	}
	if qty == 0 {
		return s.RemoveLine(ctx, sessionID, productID)
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := cart.LineFor(productID)
	if idx < 0 {
		return nil, errors.New(errors.CodeNotFound, "product not in cart")
	}

	item, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty > item.QuantityOnHand {
		qty = item.QuantityOnHand
	}
	if qty == 0 {
		return s.RemoveLine(ctx, sessionID, productID)
	}

	cart.Lines[idx].Qty = qty
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func (s *service) RemoveLine(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := cart.LineFor(productID)
	if idx < 0 {
		return nil, errors.New(errors.CodeNotFound, "product not in cart")
	}

	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func (s *service) SetCustomerName(ctx context.Context, sessionID, name string) (*View, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.CustomerName = strings.TrimSpace(name)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return viewOf(cart), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	return nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New(errors.CodeValidation, "session id is required")
	}
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &Cart{SessionID: sessionID}
	}
	return cart, nil
}

func (s *service) save(ctx context.Context, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, cart)
}

func viewOf(cart *Cart) *View {
	lines := cart.Lines
	if lines == nil {
		lines = []Line{}
	}
	return &View{
		SessionID:     cart.SessionID,
		CustomerName:  cart.CustomerName,
		Lines:         lines,
		SubtotalCents: cart.SubtotalCents(),
	}
}
