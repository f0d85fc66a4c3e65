package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	"github.com/tgcretail/pos-backend/pkg/pagination"
)

// ListFilters narrows receipt listings.
type ListFilters struct {
	Status       *enums.ReceiptStatus
	CustomerName string
}

// Repository manages persistence for receipts and the transaction counter.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, receipt *models.Receipt) error
	Save(ctx context.Context, receipt *models.Receipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Receipt, error)
	List(ctx context.Context, filters ListFilters, limit int, cursor *pagination.Cursor) ([]models.Receipt, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Receipt, error)
	MarkLinesRefunded(ctx context.Context, receiptID uuid.UUID, lineIDs []uuid.UUID) error
	NextTransactionNumber(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// Save persists the receipt row only. Line mutations go through
// MarkLinesRefunded so the association is never rewritten wholesale.
func (r *repository) Save(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(receipt).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&receipt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *repository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&receipt, "transaction_id = ?", transactionID).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, limit int, cursor *pagination.Cursor) ([]models.Receipt, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CustomerName != "" {
		query = query.Where("customer_name = ?", filters.CustomerName)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var receipts []models.Receipt
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *repository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *repository) MarkLinesRefunded(ctx context.Context, receiptID uuid.UUID, lineIDs []uuid.UUID) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ReceiptLine{}).
		Where("receipt_id = ? AND id IN ?", receiptID, lineIDs).
		Updates(map[string]any{
			"refunded":   true,
			"updated_at": time.Now().UTC(),
		}).Error
}

// NextTransactionNumber increments and reads the global counter. Callers run
// it inside the checkout transaction so the increment and the receipt insert
// commit together.
func (r *repository) NextTransactionNumber(ctx context.Context) (int64, error) {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE transaction_counters
		SET value = value + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.TransactionCounterID).Error
	if err != nil {
		return 0, err
	}

	var value int64
	err = r.db.WithContext(ctx).
		Raw(`SELECT value FROM transaction_counters WHERE id = ?`, models.TransactionCounterID).
		Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// FormatTransactionID renders the receipt's public identifier. Month is not
// zero padded, matching identifiers already issued to customers.
func FormatTransactionID(at time.Time, number int64) string {
	return fmt.Sprintf("TGC-%d%d-%d", at.Year(), int(at.Month()), number)
}
