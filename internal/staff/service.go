package staff

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

// DefaultUsername is the register account seeded on first boot so the
// terminal can operate before any staff management happens.
const DefaultUsername = "register"

// CreateInput carries fields for a new staff record.
type CreateInput struct {
	EmployeeID string
	Username   string
	FullName   string
	Role       string
}

// Service exposes staff lookups and management.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	GetByUsername(ctx context.Context, username string) (*models.Staff, error)
	List(ctx context.Context) ([]models.Staff, error)
	Create(ctx context.Context, input CreateInput) (*models.Staff, error)
	Seed(ctx context.Context) (*models.Staff, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the staff service.
func NewService(repo Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, errors.New(errors.CodeNotFound, "staff member not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching staff member")
	}
	return staff, nil
}

func (s *service) GetByUsername(ctx context.Context, username string) (*models.Staff, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New(errors.CodeValidation, "username is required")
	}
	staff, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, errors.New(errors.CodeNotFound, "staff member not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching staff member")
	}
	return staff, nil
}

func (s *service) List(ctx context.Context) ([]models.Staff, error) {
	staffs, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing staff")
	}
	return staffs, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Staff, error) {
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)
	if input.EmployeeID == "" || input.Username == "" || input.FullName == "" {
		return nil, errors.New(errors.CodeValidation, "employee id, username, and full name are required")
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = "staff"
	}

	record := &models.Staff{
		EmployeeID: input.EmployeeID,
		Username:   input.Username,
		FullName:   input.FullName,
		Role:       role,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, errors.Wrap(errors.CodeConflict, err, "creating staff member")
	}
	return record, nil
}

// Seed ensures the default register account exists.
func (s *service) Seed(ctx context.Context) (*models.Staff, error) {
	record := &models.Staff{
		EmployeeID: "EMP-0001",
		Username:   DefaultUsername,
		FullName:   "Front Register",
		Role:       "staff",
	}
	if err := s.repo.FirstOrCreate(ctx, record); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "seeding staff")
	}
	s.logg.Info(ctx, "default staff account ready")
	return record, nil
}
