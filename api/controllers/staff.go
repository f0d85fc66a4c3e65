package controllers

import (
	"net/http"

	"github.com/tgcretail/pos-backend/api/responses"
	"github.com/tgcretail/pos-backend/api/validators"
	staffsvc "github.com/tgcretail/pos-backend/internal/staff"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

// ListStaff returns every staff record.
func ListStaff(svc staffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffs, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, staffs)
	}
}

type createStaffRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,max=40"`
	Username   string `json:"username" validate:"required,max=60"`
	FullName   string `json:"full_name" validate:"required,max=120"`
	Role       string `json:"role" validate:"omitempty,max=40"`
}

// CreateStaff registers a new staff member.
func CreateStaff(svc staffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createStaffRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), staffsvc.CreateInput{
			EmployeeID: payload.EmployeeID,
			Username:   payload.Username,
			FullName:   payload.FullName,
			Role:       payload.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}
