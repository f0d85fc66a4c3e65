package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/internal/audit"
	"github.com/tgcretail/pos-backend/internal/cart"
	"github.com/tgcretail/pos-backend/internal/catalog"
	"github.com/tgcretail/pos-backend/internal/ledger"
	"github.com/tgcretail/pos-backend/internal/lifecycle"
	"github.com/tgcretail/pos-backend/internal/reports"
	"github.com/tgcretail/pos-backend/internal/staff"
	"github.com/tgcretail/pos-backend/pkg/config"
	"github.com/tgcretail/pos-backend/pkg/db"
	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.StockItem{},
		&models.Receipt{},
		&models.ReceiptLine{},
		&models.AuditEntry{},
		&models.TransactionCounter{},
		&models.Staff{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := conn.Create(&models.TransactionCounter{ID: models.TransactionCounterID}).Error; err != nil {
		t.Fatalf("seed counter: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client := db.NewWithConn(conn)

	catalogRepo := catalog.NewRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)
	auditRepo := audit.NewRepository(conn)
	staffRepo := staff.NewRepository(conn)

	catalogSvc := catalog.NewService(catalogRepo, client, logg)
	staffSvc := staff.NewService(staffRepo, logg)
	if _, err := staffSvc.Seed(context.Background()); err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	cartSvc := cart.NewService(cart.NewMemoryStore(time.Hour), catalogSvc, logg)
	ledgerSvc := ledger.NewService(ledgerRepo, logg)
	auditSvc := audit.NewService(auditRepo, logg)
	engine := lifecycle.NewEngine(client, cartSvc, catalogRepo, ledgerRepo, auditRepo, nil, logg)
	reportSvc := reports.NewService(auditRepo, ledgerRepo, catalogSvc, logg, time.UTC)

	return NewRouter(Deps{
		Config:    &config.Config{App: config.AppConfig{Env: "dev"}},
		Logger:    logg,
		DB:        client,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Ledger:    ledgerSvc,
		Audit:     auditSvc,
		Lifecycle: engine,
		Reports:   reportSvc,
		Staff:     staffSvc,
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func dataOf(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealthLive(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/health/live", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRegisterFlowOverHTTP(t *testing.T) {
	handler := newTestServer(t)
	session := map[string]string{"X-Session-Id": "reg-1"}

	// Receive a delivery.
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/catalog", map[string]any{
		"name":             "Graphic Tee",
		"brand":            "House",
		"type":             "shirt",
		"unit_price_cents": 1500,
		"quantity":         10,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upsert: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var item models.StockItem
	dataOf(t, rec, &item)

	// Cart it.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/cart/lines", map[string]any{
		"product_id": item.ID,
		"qty":        2,
	}, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("add line: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Pay.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/checkout", map[string]any{
		"customer_name": "Dana",
		"payment_cents": 5000,
		"pay_now":       true,
	}, session)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var result lifecycle.CheckoutResult
	dataOf(t, rec, &result)
	if result.Receipt.ChangeCents != 2000 {
		t.Fatalf("expected change 2000, got %d", result.Receipt.ChangeCents)
	}

	// The receipt and its audit trail are queryable.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/receipts/"+result.Receipt.TransactionID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get receipt: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/audit/"+result.Receipt.TransactionID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("audit timeline: expected 200, got %d", rec.Code)
	}
	var entries []models.AuditEntry
	dataOf(t, rec, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}

	// The sale shows up in today's report.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/reports/daily-sales", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d", rec.Code)
	}
	var report reports.DailySales
	dataOf(t, rec, &report)
	if report.GrossSalesCents != 3000 {
		t.Fatalf("expected gross 3000, got %d", report.GrossSalesCents)
	}
}

func TestCartRequiresSessionHeader(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/cart", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUnknownReceiptIs404(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/receipts/TGC-20268-999", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
