package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tgcretail/pos-backend/api/responses"
	"github.com/tgcretail/pos-backend/api/validators"
	ledgersvc "github.com/tgcretail/pos-backend/internal/ledger"
	"github.com/tgcretail/pos-backend/internal/lifecycle"
	"github.com/tgcretail/pos-backend/pkg/logger"
	"github.com/tgcretail/pos-backend/pkg/pagination"
)

// ListReceipts pages through the ledger newest-first.
func ListReceipts(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), ledgersvc.ListInput{
			Status:       r.URL.Query().Get("status"),
			CustomerName: r.URL.Query().Get("customer"),
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetReceipt returns one receipt by its public transaction id.
func GetReceipt(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receipt, err := svc.GetByTransactionID(r.Context(), chi.URLParam(r, "transactionID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}

type payPendingRequest struct {
	PaymentCents int `json:"payment_cents" validate:"required,min=1"`
}

// PayReceipt settles a pending receipt.
func PayReceipt(eng lifecycle.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload payPendingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := eng.PayPending(r.Context(), chi.URLParam(r, "transactionID"), actorFrom(r), payload.PaymentCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}

// CancelReceipt voids a pending receipt and restocks its goods.
func CancelReceipt(eng lifecycle.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receipt, err := eng.CancelPending(r.Context(), chi.URLParam(r, "transactionID"), actorFrom(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}

type refundRequest struct {
	LineIDs []uuid.UUID `json:"line_ids"`
}

// RefundReceipt refunds the selected lines; an empty or absent selection
// refunds every line not yet refunded.
func RefundReceipt(eng lifecycle.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload refundRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := eng.RefundLines(r.Context(), chi.URLParam(r, "transactionID"), actorFrom(r), payload.LineIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}
