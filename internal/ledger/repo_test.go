package ledger

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	"github.com/tgcretail/pos-backend/pkg/logger"
	"github.com/tgcretail/pos-backend/pkg/pagination"
)

func newTestRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()

	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Receipt{},
		&models.ReceiptLine{},
		&models.TransactionCounter{},
	))
	require.NoError(t, conn.Create(&models.TransactionCounter{ID: models.TransactionCounterID}).Error)

	return NewRepository(conn), conn
}

func seedReceipt(t *testing.T, conn *gorm.DB, transactionID string, status enums.ReceiptStatus, createdAt time.Time) *models.Receipt {
	t.Helper()
	receipt := &models.Receipt{
		TransactionID: transactionID,
		CustomerName:  "N/A",
		Status:        status,
		SubtotalCents: 1500,
		StaffID:       uuid.New(),
		StaffName:     "Test Clerk",
		Lines: []models.ReceiptLine{{
			Position:       1,
			Name:           "Graphic Tee",
			Brand:          "House",
			Type:           "SHIRT",
			Size:           "Std.",
			Color:          "N/A",
			UnitPriceCents: 1500,
			Qty:            1,
		}},
	}
	require.NoError(t, conn.Create(receipt).Error)
	require.NoError(t, conn.Model(receipt).Update("created_at", createdAt).Error)
	receipt.CreatedAt = createdAt
	return receipt
}

func TestNextTransactionNumberIncrements(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.NextTransactionNumber(ctx)
	require.NoError(t, err)
	second, err := repo.NextTransactionNumber(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestFormatTransactionID(t *testing.T) {
	at := time.Date(2026, time.August, 29, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "TGC-20268-7", FormatTransactionID(at, 7))

	// Months never carry a leading zero.
	december := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "TGC-202612-1", FormatTransactionID(december, 1))
}

func TestFindByTransactionIDPreloadsLines(t *testing.T) {
	repo, conn := newTestRepo(t)
	seedReceipt(t, conn, "TGC-20268-1", enums.ReceiptStatusCompleted, time.Now().UTC())

	receipt, err := repo.FindByTransactionID(context.Background(), "TGC-20268-1")
	require.NoError(t, err)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "Graphic Tee", receipt.Lines[0].Name)
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo, conn := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)

	seedReceipt(t, conn, "TGC-20268-1", enums.ReceiptStatusCompleted, base)
	seedReceipt(t, conn, "TGC-20268-2", enums.ReceiptStatusPending, base.Add(time.Minute))
	newest := seedReceipt(t, conn, "TGC-20268-3", enums.ReceiptStatusCompleted, base.Add(2*time.Minute))

	pending := enums.ReceiptStatusPending
	receipts, err := repo.List(ctx, ListFilters{Status: &pending}, 10, nil)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "TGC-20268-2", receipts[0].TransactionID)

	// Newest first, cursor walks backwards.
	page, err := repo.List(ctx, ListFilters{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, newest.TransactionID, page[0].TransactionID)

	cursor := &pagination.Cursor{CreatedAt: page[1].CreatedAt, ID: page[1].ID}
	rest, err := repo.List(ctx, ListFilters{}, 2, cursor)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "TGC-20268-1", rest[0].TransactionID)
}

func TestMarkLinesRefunded(t *testing.T) {
	repo, conn := newTestRepo(t)
	ctx := context.Background()
	receipt := seedReceipt(t, conn, "TGC-20268-1", enums.ReceiptStatusCompleted, time.Now().UTC())

	require.NoError(t, repo.MarkLinesRefunded(ctx, receipt.ID, []uuid.UUID{receipt.Lines[0].ID}))

	reloaded, err := repo.FindByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Lines[0].Refunded)

	// Marking nothing is a no-op, not an error.
	require.NoError(t, repo.MarkLinesRefunded(ctx, receipt.ID, nil))
}

func TestServiceListRejectsBadStatus(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewService(repo, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))

	_, err := svc.List(context.Background(), ListInput{Status: "shipped"})
	assert.Error(t, err)
}
