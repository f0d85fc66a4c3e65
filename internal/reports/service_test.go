package reports

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/internal/audit"
	"github.com/tgcretail/pos-backend/internal/catalog"
	"github.com/tgcretail/pos-backend/internal/ledger"
	"github.com/tgcretail/pos-backend/pkg/db"
	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	pkgerrors "github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

func newReportService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := "file:reports_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.StockItem{},
		&models.Receipt{},
		&models.ReceiptLine{},
		&models.AuditEntry{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	catalogSvc := catalog.NewService(catalog.NewRepository(conn), db.NewWithConn(conn), logg)
	svc := NewService(audit.NewRepository(conn), ledger.NewRepository(conn), catalogSvc, logg, time.UTC)
	return svc, conn
}

func seedAuditEntry(t *testing.T, conn *gorm.DB, action enums.AuditAction, amountCents int, at time.Time) {
	t.Helper()
	transactionID := "TGC-20268-1"
	entry := &models.AuditEntry{
		TransactionID:   &transactionID,
		Action:          action,
		ResultingStatus: enums.ReceiptStatusCompleted,
		StaffID:         uuid.New(),
		StaffName:       "Test Clerk",
		AmountCents:     amountCents,
	}
	if err := conn.Create(entry).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	if err := conn.Model(entry).Update("created_at", at).Error; err != nil {
		t.Fatalf("set created_at: %v", err)
	}
}

func seedReceipt(t *testing.T, conn *gorm.DB, transactionID string, status enums.ReceiptStatus, at time.Time) {
	t.Helper()
	receipt := &models.Receipt{
		TransactionID: transactionID,
		CustomerName:  "Walk-in",
		Status:        status,
		SubtotalCents: 1000,
		StaffID:       uuid.New(),
		StaffName:     "Test Clerk",
		Lines: []models.ReceiptLine{
			{
				Position:       1,
				Name:           "Graphic Tee",
				Brand:          "House",
				Type:           "SHIRT",
				Size:           "Std.",
				Color:          "N/A",
				UnitPriceCents: 500,
				Qty:            2,
			},
		},
	}
	if err := conn.Create(receipt).Error; err != nil {
		t.Fatalf("seed receipt: %v", err)
	}
	if err := conn.Model(receipt).Update("created_at", at).Error; err != nil {
		t.Fatalf("set created_at: %v", err)
	}
}

func TestDailySales(t *testing.T) {
	svc, conn := newReportService(t)
	day := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)

	seedAuditEntry(t, conn, enums.AuditActionOrderPaid, 3000, day.Add(9*time.Hour))
	seedAuditEntry(t, conn, enums.AuditActionPendingPaid, 8000, day.Add(11*time.Hour))
	seedAuditEntry(t, conn, enums.AuditActionPartialRefund, -1500, day.Add(15*time.Hour))
	seedAuditEntry(t, conn, enums.AuditActionPendingCancelled, 0, day.Add(16*time.Hour))
	// Yesterday's sale must not count.
	seedAuditEntry(t, conn, enums.AuditActionOrderPaid, 9999, day.Add(-2*time.Hour))

	seedReceipt(t, conn, "TGC-20268-1", enums.ReceiptStatusCompleted, day.Add(9*time.Hour))
	seedReceipt(t, conn, "TGC-20268-2", enums.ReceiptStatusPending, day.Add(10*time.Hour))

	report, err := svc.DailySales(context.Background(), "2026-08-29")
	if err != nil {
		t.Fatalf("daily sales: %v", err)
	}

	if report.GrossSalesCents != 11000 {
		t.Fatalf("expected gross 11000, got %d", report.GrossSalesCents)
	}
	if report.RefundsCents != 1500 {
		t.Fatalf("expected refunds 1500, got %d", report.RefundsCents)
	}
	if report.NetCents != 9500 {
		t.Fatalf("expected net 9500, got %d", report.NetCents)
	}
	if report.RefundEvents != 1 || report.CancelledReceipts != 1 {
		t.Fatalf("unexpected event counts: %+v", report)
	}
	if report.ReceiptsCreated != 2 || report.CompletedReceipts != 1 || report.PendingReceipts != 1 {
		t.Fatalf("unexpected receipt counts: %+v", report)
	}
	// Only the completed receipt's lines count toward items sold.
	if len(report.ItemsSold) != 1 {
		t.Fatalf("expected one aggregated item, got %+v", report.ItemsSold)
	}
	if report.ItemsSold[0].Quantity != 2 || report.ItemsSold[0].TotalValueCents != 1000 {
		t.Fatalf("unexpected item aggregate: %+v", report.ItemsSold[0])
	}
}

func TestDailySalesRejectsBadDate(t *testing.T) {
	svc, _ := newReportService(t)

	_, err := svc.DailySales(context.Background(), "29/08/2026")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLowStockReport(t *testing.T) {
	svc, conn := newReportService(t)

	items := []models.StockItem{
		{ItemNumber: 1, Name: "A", Brand: "House", Type: "SHIRT", Size: "Std.", Color: "N/A", QuantityOnHand: 0, ReorderPoint: 3},
		{ItemNumber: 2, Name: "B", Brand: "House", Type: "SHIRT", Size: "Std.", Color: "N/A", QuantityOnHand: 9, ReorderPoint: 3},
	}
	for i := range items {
		if err := conn.Create(&items[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	low, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 1 || low[0].Name != "A" {
		t.Fatalf("expected only item A, got %+v", low)
	}
}
