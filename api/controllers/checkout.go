package controllers

import (
	"net/http"

	"github.com/tgcretail/pos-backend/api/middleware"
	"github.com/tgcretail/pos-backend/api/responses"
	"github.com/tgcretail/pos-backend/api/validators"
	"github.com/tgcretail/pos-backend/internal/lifecycle"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName string `json:"customer_name" validate:"max=120"`
	PaymentCents int    `json:"payment_cents" validate:"min=0"`
	PayNow       bool   `json:"pay_now"`
}

// Checkout converts the session cart into a receipt. pay_now=true settles
// immediately; false parks the order as pending with its stock held.
func Checkout(eng lifecycle.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := eng.Checkout(r.Context(), lifecycle.CheckoutInput{
			SessionID:    sid,
			CustomerName: validators.SanitizeString(payload.CustomerName, 120),
			PaymentCents: payload.PaymentCents,
			PayNow:       payload.PayNow,
			Actor:        actorFrom(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func actorFrom(r *http.Request) lifecycle.Actor {
	return lifecycle.Actor{
		ID:   middleware.StaffIDFromContext(r.Context()),
		Name: middleware.StaffNameFromContext(r.Context()),
	}
}
