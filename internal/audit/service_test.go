package audit

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	pkgerrors "github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

type fakeRepository struct {
	entries []models.AuditEntry
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Append(_ context.Context, entry *models.AuditEntry) error {
	entry.Seq = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRepository) ListByTransaction(_ context.Context, transactionID string) ([]models.AuditEntry, error) {
	var out []models.AuditEntry
	for _, entry := range f.entries {
		if entry.TransactionID != nil && *entry.TransactionID == transactionID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListRecent(_ context.Context, limit int, beforeSeq *int64) ([]models.AuditEntry, error) {
	var out []models.AuditEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		entry := f.entries[i]
		if beforeSeq != nil && entry.Seq >= *beforeSeq {
			continue
		}
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepository) ListBetween(context.Context, time.Time, time.Time) ([]models.AuditEntry, error) {
	return nil, nil
}

func (f *fakeRepository) ListAll(context.Context) ([]models.AuditEntry, error) {
	out := make([]models.AuditEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func appendEntry(t *testing.T, repo *fakeRepository, transactionID string, status enums.ReceiptStatus) {
	t.Helper()
	err := repo.Append(context.Background(), &models.AuditEntry{
		TransactionID:   &transactionID,
		Action:          enums.AuditActionOrderToPay,
		ResultingStatus: status,
		StaffID:         uuid.New(),
		StaffName:       "Test Clerk",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
}

func newTestService(repo Repository) Service {
	return NewService(repo, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
}

func TestLatestStatusFoldsTimeline(t *testing.T) {
	repo := &fakeRepository{}
	appendEntry(t, repo, "TGC-20268-1", enums.ReceiptStatusPending)
	appendEntry(t, repo, "TGC-20268-1", enums.ReceiptStatusCompleted)
	appendEntry(t, repo, "TGC-20268-1", enums.ReceiptStatusRefunded)
	appendEntry(t, repo, "TGC-20268-2", enums.ReceiptStatusPending)

	svc := newTestService(repo)

	status, err := svc.LatestStatus(context.Background(), "TGC-20268-1")
	if err != nil {
		t.Fatalf("latest status: %v", err)
	}
	if status != enums.ReceiptStatusRefunded {
		t.Fatalf("expected refunded, got %s", status)
	}

	status, err = svc.LatestStatus(context.Background(), "TGC-20268-2")
	if err != nil {
		t.Fatalf("latest status: %v", err)
	}
	if status != enums.ReceiptStatusPending {
		t.Fatalf("expected pending, got %s", status)
	}
}

func TestLatestByTransaction(t *testing.T) {
	repo := &fakeRepository{}
	appendEntry(t, repo, "TGC-20268-1", enums.ReceiptStatusPending)
	appendEntry(t, repo, "TGC-20268-2", enums.ReceiptStatusCompleted)
	appendEntry(t, repo, "TGC-20268-1", enums.ReceiptStatusCancelled)

	svc := newTestService(repo)

	latest, err := svc.LatestByTransaction(context.Background())
	if err != nil {
		t.Fatalf("latest by transaction: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected one entry per transaction, got %d", len(latest))
	}
	if *latest[0].TransactionID != "TGC-20268-2" {
		t.Fatalf("expected newest transaction first, got %s", *latest[0].TransactionID)
	}
	if *latest[1].TransactionID != "TGC-20268-1" || latest[1].ResultingStatus != enums.ReceiptStatusCancelled {
		t.Fatalf("last entry must win the fold: %+v", latest[1])
	}
}

func TestTimelineUnknownTransaction(t *testing.T) {
	svc := newTestService(&fakeRepository{})

	_, err := svc.TimelineFor(context.Background(), "TGC-20268-404")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecentPagesBySeq(t *testing.T) {
	repo := &fakeRepository{}
	for i := 0; i < 5; i++ {
		appendEntry(t, repo, "TGC-20268-1", enums.ReceiptStatusPending)
	}

	svc := newTestService(repo)

	page, err := svc.Recent(context.Background(), RecentInput{Limit: 2})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Items[0].Seq != 5 || page.Items[1].Seq != 4 {
		t.Fatalf("expected newest first, got %+v", page.Items)
	}
	if page.NextCursor == nil {
		t.Fatal("expected next cursor")
	}

	next, err := svc.Recent(context.Background(), RecentInput{Limit: 2, Cursor: *page.NextCursor})
	if err != nil {
		t.Fatalf("recent page 2: %v", err)
	}
	if len(next.Items) != 2 || next.Items[0].Seq != 3 {
		t.Fatalf("unexpected second page: %+v", next.Items)
	}
}

func TestRecentRejectsBadCursor(t *testing.T) {
	svc := newTestService(&fakeRepository{})

	_, err := svc.Recent(context.Background(), RecentInput{Cursor: "not-a-seq"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
