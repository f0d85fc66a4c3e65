package staff

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/pkg/db/models"
)

// Repository manages persistence for staff records.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	FindByUsername(ctx context.Context, username string) (*models.Staff, error)
	List(ctx context.Context) ([]models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
	FirstOrCreate(ctx context.Context, staff *models.Staff) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a staff repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).First(&staff, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) List(ctx context.Context) ([]models.Staff, error) {
	var staffs []models.Staff
	if err := r.db.WithContext(ctx).Order("employee_id ASC").Find(&staffs).Error; err != nil {
		return nil, err
	}
	return staffs, nil
}

func (r *repository) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *repository) FirstOrCreate(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).
		Where("username = ?", staff.Username).
		FirstOrCreate(staff).Error
}
