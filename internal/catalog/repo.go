package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/pkg/db/models"
)

// ListFilters narrows catalog listings by descriptive attributes. Empty
// fields match everything.
type ListFilters struct {
	Name  string
	Brand string
	Type  string
	Size  string
	Color string
}

// Repository manages persistence for stock items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	FindByAttributes(ctx context.Context, name, brand, itemType, size, color string) (*models.StockItem, error)
	List(ctx context.Context, filters ListFilters) ([]models.StockItem, error)
	ListLowStock(ctx context.Context) ([]models.StockItem, error)
	MaxItemNumber(ctx context.Context) (int, error)
	Create(ctx context.Context, item *models.StockItem) error
	Save(ctx context.Context, item *models.StockItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Debit(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	Credit(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByAttributes(ctx context.Context, name, brand, itemType, size, color string) (*models.StockItem, error) {
	var item models.StockItem
	err := r.db.WithContext(ctx).
		Where("name = ? AND brand = ? AND type = ? AND size = ? AND color = ?",
			name, brand, itemType, size, color).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.StockItem, error) {
	query := r.db.WithContext(ctx).Model(&models.StockItem{})
	if filters.Name != "" {
		query = query.Where("name = ?", filters.Name)
	}
	if filters.Brand != "" {
		query = query.Where("brand = ?", filters.Brand)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Size != "" {
		query = query.Where("size = ?", filters.Size)
	}
	if filters.Color != "" {
		query = query.Where("color = ?", filters.Color)
	}

	var items []models.StockItem
	if err := query.Order("brand ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListLowStock(ctx context.Context) ([]models.StockItem, error) {
	var items []models.StockItem
	err := r.db.WithContext(ctx).
		Where("quantity_on_hand <= reorder_point").
		Order("quantity_on_hand ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) MaxItemNumber(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Select("MAX(item_number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *repository) Create(ctx context.Context, item *models.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Save(ctx context.Context, item *models.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.StockItem{}, "id = ?", id).Error
}

// Debit subtracts qty from on-hand stock. The WHERE guard keeps the quantity
// from ever going negative; a missing id or an over-debit leaves the row
// untouched and reports applied=false so the caller can decide what that
// means for the operation in flight.
func (r *repository) Debit(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, errors.New("debit quantity must be positive")
	}
	res := r.db.WithContext(ctx).Exec(`
		UPDATE stock_items
		SET quantity_on_hand = quantity_on_hand - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity_on_hand >= ?
	`, qty, id, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Credit returns qty to on-hand stock. A missing id is a silent no-op: the
// item may have been deleted from the catalog after the sale.
func (r *repository) Credit(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, errors.New("credit quantity must be positive")
	}
	res := r.db.WithContext(ctx).Exec(`
		UPDATE stock_items
		SET quantity_on_hand = quantity_on_hand + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
