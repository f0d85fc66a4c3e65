package cart

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tgcretail/pos-backend/internal/catalog"
	"github.com/tgcretail/pos-backend/pkg/db/models"
	pkgerrors "github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

type fakeCatalog struct {
	items map[uuid.UUID]*models.StockItem
}

func (f *fakeCatalog) Get(_ context.Context, id uuid.UUID) (*models.StockItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
	}
	return item, nil
}

func (f *fakeCatalog) List(context.Context, catalog.ListFilters) ([]models.StockItem, error) {
	return nil, nil
}

func (f *fakeCatalog) LowStock(context.Context) ([]models.StockItem, error) {
	return nil, nil
}

func (f *fakeCatalog) UpsertByAttributes(context.Context, catalog.UpsertInput) (*models.StockItem, error) {
	return nil, nil
}

func (f *fakeCatalog) Update(context.Context, uuid.UUID, catalog.UpdateInput) (*models.StockItem, error) {
	return nil, nil
}

func (f *fakeCatalog) Delete(context.Context, uuid.UUID) error {
	return nil
}

func newCartService(items ...*models.StockItem) Service {
	indexed := map[uuid.UUID]*models.StockItem{}
	for _, item := range items {
		indexed[item.ID] = item
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewService(NewMemoryStore(time.Hour), &fakeCatalog{items: indexed}, logg)
}

func stockItem(name string, priceCents, qty int) *models.StockItem {
	return &models.StockItem{
		ID:             uuid.New(),
		Name:           name,
		Brand:          "House",
		Type:           "SHIRT",
		Size:           "Std.",
		Color:          "N/A",
		UnitPriceCents: priceCents,
		QuantityOnHand: qty,
	}
}

func TestAddLineMergesAndTotals(t *testing.T) {
	tee := stockItem("Graphic Tee", 1500, 10)
	svc := newCartService(tee)
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, "s1", tee.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.AddLine(ctx, "s1", tee.ID, 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(view.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(view.Lines))
	}
	if view.Lines[0].Qty != 5 {
		t.Fatalf("expected qty 5, got %d", view.Lines[0].Qty)
	}
	if view.SubtotalCents != 7500 {
		t.Fatalf("expected subtotal 7500, got %d", view.SubtotalCents)
	}
}

func TestAddLineOutOfStock(t *testing.T) {
	gone := stockItem("Sold Out Cap", 2500, 0)
	svc := newCartService(gone)

	_, err := svc.AddLine(context.Background(), "s1", gone.ID, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out of stock, got %v", err)
	}
}

func TestAddLineStockLimit(t *testing.T) {
	tee := stockItem("Graphic Tee", 1500, 4)
	svc := newCartService(tee)
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, "s1", tee.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := svc.AddLine(ctx, "s1", tee.ID, 2)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStockLimit {
		t.Fatalf("expected stock limit, got %v", err)
	}

	// The failed add must not change the cart.
	view, err := svc.Fetch(ctx, "s1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if view.Lines[0].Qty != 3 {
		t.Fatalf("expected qty 3 after rejected add, got %d", view.Lines[0].Qty)
	}
}

func TestSetLineQuantity(t *testing.T) {
	tee := stockItem("Graphic Tee", 1500, 10)
	svc := newCartService(tee)
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, "s1", tee.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	view, err := svc.SetLineQuantity(ctx, "s1", tee.ID, 7)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if view.Lines[0].Qty != 7 {
		t.Fatalf("expected qty 7, got %d", view.Lines[0].Qty)
	}

	// Requests beyond on-hand clamp to on-hand.
	view, err = svc.SetLineQuantity(ctx, "s1", tee.ID, 11)
	if err != nil {
		t.Fatalf("set quantity above stock: %v", err)
	}
	if view.Lines[0].Qty != 10 {
		t.Fatalf("expected clamp to 10, got %d", view.Lines[0].Qty)
	}

	// Negative clamps to zero, which removes.
	view, err = svc.SetLineQuantity(ctx, "s1", tee.ID, -2)
	if err != nil {
		t.Fatalf("set negative quantity: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Lines)
	}

	if _, err := svc.AddLine(ctx, "s1", tee.ID, 1); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	// Zero removes the line.
	view, err = svc.SetLineQuantity(ctx, "s1", tee.ID, 0)
	if err != nil {
		t.Fatalf("set quantity zero: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Lines)
	}
}

func TestRemoveLineNotInCart(t *testing.T) {
	tee := stockItem("Graphic Tee", 1500, 10)
	svc := newCartService(tee)

	_, err := svc.RemoveLine(context.Background(), "s1", tee.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCustomerNameAndClear(t *testing.T) {
	tee := stockItem("Graphic Tee", 1500, 10)
	svc := newCartService(tee)
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, "s1", tee.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.SetCustomerName(ctx, "s1", "  Dana  ")
	if err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if view.CustomerName != "Dana" {
		t.Fatalf("expected trimmed name, got %q", view.CustomerName)
	}

	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	view, err = svc.Fetch(ctx, "s1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(view.Lines) != 0 || view.CustomerName != "" {
		t.Fatalf("expected fresh cart after clear, got %+v", view)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	tee := stockItem("Graphic Tee", 1500, 10)
	svc := newCartService(tee)
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, "s1", tee.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.Fetch(ctx, "s2")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatal("sessions must not share carts")
	}
}

func TestMissingSessionID(t *testing.T) {
	svc := newCartService()

	_, err := svc.Fetch(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
