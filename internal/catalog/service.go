package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/pkg/db"
	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

const (
	defaultSize  = "Std."
	defaultColor = "N/A"
)

// UpsertInput carries the attributes and quantities for a catalog upsert.
type UpsertInput struct {
	Name           string
	Brand          string
	Type           string
	Size           string
	Color          string
	UnitPriceCents int
	Quantity       int
	ReorderPoint   int
}

// UpdateInput carries editable fields for an existing item. Nil pointers
// leave the field unchanged.
type UpdateInput struct {
	Name           *string
	Brand          *string
	Type           *string
	Size           *string
	Color          *string
	UnitPriceCents *int
	Quantity       *int
	ReorderPoint   *int
}

// Service exposes catalog management operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	List(ctx context.Context, filters ListFilters) ([]models.StockItem, error)
	LowStock(ctx context.Context) ([]models.StockItem, error)
	UpsertByAttributes(ctx context.Context, input UpsertInput) (*models.StockItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.StockItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   *db.Client
	logg *logger.Logger
}

// NewService wires the catalog service.
func NewService(repo Repository, tx *db.Client, logg *logger.Logger) Service {
	return &service{repo: repo, tx: tx, logg: logg}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, errors.New(errors.CodeNotFound, "stock item not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching stock item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.StockItem, error) {
	items, err := s.repo.List(ctx, NormalizeFilters(filters))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing stock items")
	}
	return items, nil
}

func (s *service) LowStock(ctx context.Context) ([]models.StockItem, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing low stock items")
	}
	return items, nil
}

// UpsertByAttributes merges a delivery into the item whose five descriptive
// attributes all match. When no item matches, a new one is created with the
// next item number. The whole decision runs in one transaction so two
// concurrent deliveries cannot both allocate the same number.
func (s *service) UpsertByAttributes(ctx context.Context, input UpsertInput) (*models.StockItem, error) {
	normalized, err := normalizeUpsert(input)
	if err != nil {
		return nil, err
	}

	var result *models.StockItem
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByAttributes(ctx,
			normalized.Name, normalized.Brand, normalized.Type, normalized.Size, normalized.Color)
		if err != nil && !errors.IsRecordNotFound(err) {
			return errors.Wrap(errors.CodeInternal, err, "matching stock item attributes")
		}

		if existing != nil {
			existing.QuantityOnHand += normalized.Quantity
			existing.UnitPriceCents = normalized.UnitPriceCents
			if normalized.ReorderPoint > 0 {
				existing.ReorderPoint = normalized.ReorderPoint
			}
			if err := repo.Save(ctx, existing); err != nil {
				return errors.Wrap(errors.CodeInternal, err, "updating stock item")
			}
			result = existing
			return nil
		}

		maxNumber, err := repo.MaxItemNumber(ctx)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "allocating item number")
		}
		item := &models.StockItem{
			ItemNumber:     maxNumber + 1,
			Name:           normalized.Name,
			Brand:          normalized.Brand,
			Type:           normalized.Type,
			Size:           normalized.Size,
			Color:          normalized.Color,
			UnitPriceCents: normalized.UnitPriceCents,
			QuantityOnHand: normalized.Quantity,
			ReorderPoint:   normalized.ReorderPoint,
		}
		if err := repo.Create(ctx, item); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "creating stock item")
		}
		result = item
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	ctx = s.logg.WithField(ctx, "item_number", result.ItemNumber)
	s.logg.Info(ctx, "catalog upsert applied")
	return result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.StockItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		item.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Type != nil {
		item.Type = strings.ToUpper(strings.TrimSpace(*input.Type))
	}
	if input.Size != nil {
		item.Size = sizeOrDefault(*input.Size)
	}
	if input.Color != nil {
		item.Color = colorOrDefault(*input.Color)
	}
	if input.UnitPriceCents != nil {
		if *input.UnitPriceCents < 0 {
			return nil, errors.New(errors.CodeValidation, "unit price cannot be negative")
		}
		item.UnitPriceCents = *input.UnitPriceCents
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, errors.New(errors.CodeValidation, "quantity cannot be negative")
		}
		item.QuantityOnHand = *input.Quantity
	}
	if input.ReorderPoint != nil {
		if *input.ReorderPoint < 0 {
			return nil, errors.New(errors.CodeValidation, "reorder point cannot be negative")
		}
		item.ReorderPoint = *input.ReorderPoint
	}

	if item.Name == "" || item.Brand == "" {
		return nil, errors.New(errors.CodeValidation, "name and brand are required")
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "saving stock item")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting stock item")
	}
	return nil
}

// NormalizeFilters applies the same attribute normalization the upsert path
// uses so lookups match stored rows.
func NormalizeFilters(filters ListFilters) ListFilters {
	return ListFilters{
		Name:  strings.TrimSpace(filters.Name),
		Brand: strings.TrimSpace(filters.Brand),
		Type:  strings.ToUpper(strings.TrimSpace(filters.Type)),
		Size:  strings.TrimSpace(filters.Size),
		Color: normalizeColorFilter(filters.Color),
	}
}

func normalizeColorFilter(color string) string {
	color = strings.TrimSpace(color)
	if color == "" {
		return ""
	}
	return strings.ToUpper(color)
}

func normalizeUpsert(input UpsertInput) (UpsertInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Brand = strings.TrimSpace(input.Brand)
	input.Type = strings.ToUpper(strings.TrimSpace(input.Type))
	input.Size = sizeOrDefault(input.Size)
	input.Color = colorOrDefault(input.Color)

	if input.Name == "" || input.Brand == "" || input.Type == "" {
		return input, errors.New(errors.CodeValidation, "name, brand, and type are required")
	}
	if input.UnitPriceCents < 0 {
		return input, errors.New(errors.CodeValidation, "unit price cannot be negative")
	}
	if input.Quantity <= 0 {
		return input, errors.New(errors.CodeValidation, "quantity must be positive")
	}
	if input.ReorderPoint < 0 {
		return input, errors.New(errors.CodeValidation, "reorder point cannot be negative")
	}
	return input, nil
}

func sizeOrDefault(size string) string {
	size = strings.TrimSpace(size)
	if size == "" {
		return defaultSize
	}
	return size
}

func colorOrDefault(color string) string {
	color = strings.TrimSpace(color)
	if color == "" {
		return defaultColor
	}
	return strings.ToUpper(color)
}
