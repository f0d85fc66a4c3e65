package controllers

import (
	"net/http"

	"github.com/tgcretail/pos-backend/api/responses"
	reportsvc "github.com/tgcretail/pos-backend/internal/reports"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

// DailySalesReport summarizes one day of register activity.
func DailySalesReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.DailySales(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// LowStockReport lists items at or below their reorder point.
func LowStockReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
