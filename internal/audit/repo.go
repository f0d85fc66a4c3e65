package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/pagination"
)

// Repository appends and reads audit entries. There is deliberately no
// update or delete surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListByTransaction(ctx context.Context, transactionID string) ([]models.AuditEntry, error)
	ListRecent(ctx context.Context, limit int, beforeSeq *int64) ([]models.AuditEntry, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.AuditEntry, error)
	ListAll(ctx context.Context) ([]models.AuditEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an audit repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Append(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByTransaction(ctx context.Context, transactionID string) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRecent pages newest-first over the whole trail using seq as the cursor.
func (r *repository) ListRecent(ctx context.Context, limit int, beforeSeq *int64) ([]models.AuditEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditEntry{})
	if beforeSeq != nil {
		query = query.Where("seq < ?", *beforeSeq)
	}
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}

	var entries []models.AuditEntry
	err := query.
		Order("seq DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListBetween(ctx context.Context, from, to time.Time) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
