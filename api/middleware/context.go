package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tgcretail/pos-backend/api/responses"
	"github.com/tgcretail/pos-backend/internal/staff"
	pkgerrors "github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

type contextKey string

const (
	ctxStaffID   contextKey = "staff_id"
	ctxStaffName contextKey = "staff_name"
	ctxSessionID contextKey = "session_id"
)

const (
	staffIDHeader   = "X-Staff-Id"
	sessionIDHeader = "X-Session-Id"
)

// StaffContext resolves the acting staff member from the X-Staff-Id header
// and falls back to the seeded register account. Every request downstream
// of this middleware has an actor.
func StaffContext(logg *logger.Logger, staffSvc staff.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var (
				staffID   uuid.UUID
				staffName string
			)
			if raw := r.Header.Get(staffIDHeader); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "staff id header must be a uuid"))
					return
				}
				member, err := staffSvc.Get(ctx, id)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				staffID = member.ID
				staffName = member.FullName
			} else {
				member, err := staffSvc.GetByUsername(ctx, staff.DefaultUsername)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				staffID = member.ID
				staffName = member.FullName
			}

			ctx = context.WithValue(ctx, ctxStaffID, staffID)
			ctx = context.WithValue(ctx, ctxStaffName, staffName)
			if logg != nil {
				ctx = logg.WithStaffID(ctx, staffID.String())
			}

			if sessionID := r.Header.Get(sessionIDHeader); sessionID != "" {
				ctx = context.WithValue(ctx, ctxSessionID, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func StaffIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxStaffID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func StaffNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStaffName).(string); ok {
		return v
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}
