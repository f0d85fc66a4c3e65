package ledger

import (
	"context"
	"strings"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	"github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
	"github.com/tgcretail/pos-backend/pkg/pagination"
)

// ListInput carries receipt listing parameters from controllers.
type ListInput struct {
	Status       string
	CustomerName string
	Pagination   pagination.Params
}

// Service exposes read access to the receipt ledger. Writes go through the
// lifecycle engine only.
type Service interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Receipt, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[models.Receipt], error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the ledger query service.
func NewService(repo Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) GetByTransactionID(ctx context.Context, transactionID string) (*models.Receipt, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, errors.New(errors.CodeValidation, "transaction id is required")
	}
	receipt, err := s.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, errors.New(errors.CodeNotFound, "receipt not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching receipt")
	}
	return receipt, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[models.Receipt], error) {
	filters := ListFilters{CustomerName: strings.TrimSpace(input.CustomerName)}
	if trimmed := strings.TrimSpace(input.Status); trimmed != "" {
		status, err := enums.ParseReceiptStatus(trimmed)
		if err != nil {
			return nil, errors.New(errors.CodeValidation, "invalid receipt status").
				WithDetails(map[string]any{"status": trimmed})
		}
		filters.Status = &status
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, errors.New(errors.CodeValidation, "invalid pagination cursor")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	receipts, err := s.repo.List(ctx, filters, pagination.LimitWithBuffer(input.Pagination.Limit), cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing receipts")
	}

	page := &pagination.Page[models.Receipt]{Items: receipts}
	if len(receipts) > limit {
		page.Items = receipts[:limit]
		last := page.Items[len(page.Items)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	return page, nil
}
