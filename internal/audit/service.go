package audit

import (
	"context"
	"strconv"
	"strings"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	"github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
	"github.com/tgcretail/pos-backend/pkg/pagination"
)

// RecentInput carries paging parameters for the global trail.
type RecentInput struct {
	Limit  int
	Cursor string
}

// Service exposes the audit trail. Entries are written by the lifecycle
// engine inside its transactions; this service only reads.
type Service interface {
	TimelineFor(ctx context.Context, transactionID string) ([]models.AuditEntry, error)
	LatestStatus(ctx context.Context, transactionID string) (enums.ReceiptStatus, error)
	LatestByTransaction(ctx context.Context) ([]models.AuditEntry, error)
	Recent(ctx context.Context, input RecentInput) (*pagination.Page[models.AuditEntry], error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the audit query service.
func NewService(repo Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) TimelineFor(ctx context.Context, transactionID string) ([]models.AuditEntry, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, errors.New(errors.CodeValidation, "transaction id is required")
	}
	entries, err := s.repo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "reading audit timeline")
	}
	if len(entries) == 0 {
		return nil, errors.New(errors.CodeNotFound, "no audit entries for transaction")
	}
	return entries, nil
}

// LatestStatus folds the timeline down to the status after the last entry.
// The receipt row carries the same value; this derivation exists so the
// trail alone can answer the question.
func (s *service) LatestStatus(ctx context.Context, transactionID string) (enums.ReceiptStatus, error) {
	entries, err := s.TimelineFor(ctx, transactionID)
	if err != nil {
		return "", err
	}
	status := entries[0].ResultingStatus
	for _, entry := range entries[1:] {
		status = entry.ResultingStatus
	}
	return status, nil
}

// LatestByTransaction folds the whole trail down to the chronologically-last
// entry per transaction, newest transaction first. Entries without a
// transaction id are system events and excluded. Recomputed per call; the
// trail is the source of truth, not a cache.
func (s *service) LatestByTransaction(ctx context.Context) ([]models.AuditEntry, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "reading audit trail")
	}

	index := make(map[string]int)
	latest := make([]models.AuditEntry, 0)
	for _, entry := range entries {
		if entry.TransactionID == nil {
			continue
		}
		if at, ok := index[*entry.TransactionID]; ok {
			latest[at] = entry
			continue
		}
		index[*entry.TransactionID] = len(latest)
		latest = append(latest, entry)
	}

	// Newest transaction first.
	for i, j := 0, len(latest)-1; i < j; i, j = i+1, j-1 {
		latest[i], latest[j] = latest[j], latest[i]
	}
	return latest, nil
}

func (s *service) Recent(ctx context.Context, input RecentInput) (*pagination.Page[models.AuditEntry], error) {
	var beforeSeq *int64
	if trimmed := strings.TrimSpace(input.Cursor); trimmed != "" {
		seq, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil || seq <= 0 {
			return nil, errors.New(errors.CodeValidation, "invalid pagination cursor")
		}
		beforeSeq = &seq
	}

	limit := pagination.NormalizeLimit(input.Limit)
	entries, err := s.repo.ListRecent(ctx, pagination.LimitWithBuffer(input.Limit), beforeSeq)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing audit entries")
	}

	page := &pagination.Page[models.AuditEntry]{Items: entries}
	if len(entries) > limit {
		page.Items = entries[:limit]
		next := strconv.FormatInt(page.Items[len(page.Items)-1].Seq, 10)
		page.NextCursor = &next
	}
	return page, nil
}
