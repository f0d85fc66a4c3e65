package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tgcretail/pos-backend/api/responses"
	"github.com/tgcretail/pos-backend/api/validators"
	auditsvc "github.com/tgcretail/pos-backend/internal/audit"
	"github.com/tgcretail/pos-backend/pkg/logger"
	"github.com/tgcretail/pos-backend/pkg/pagination"
)

// RecentAuditEntries pages the global audit trail newest-first.
func RecentAuditEntries(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Recent(r.Context(), auditsvc.RecentInput{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// LatestAuditStates returns the last entry per transaction, the view history
// screens render as "current state".
func LatestAuditStates(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.LatestByTransaction(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// AuditTimeline returns every entry for one transaction in order.
func AuditTimeline(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.TimelineFor(r.Context(), chi.URLParam(r, "transactionID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
