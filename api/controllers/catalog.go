package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tgcretail/pos-backend/api/responses"
	"github.com/tgcretail/pos-backend/api/validators"
	catalogsvc "github.com/tgcretail/pos-backend/internal/catalog"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

// ListCatalog returns stock items, optionally filtered by attributes.
func ListCatalog(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		items, err := svc.List(r.Context(), catalogsvc.ListFilters{
			Name:  query.Get("name"),
			Brand: query.Get("brand"),
			Type:  query.Get("type"),
			Size:  query.Get("size"),
			Color: query.Get("color"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetCatalogItem returns one stock item by id.
func GetCatalogItem(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

type upsertStockRequest struct {
	Name           string `json:"name" validate:"required,max=120"`
	Brand          string `json:"brand" validate:"required,max=120"`
	Type           string `json:"type" validate:"required,max=60"`
	Size           string `json:"size" validate:"omitempty,max=40"`
	Color          string `json:"color" validate:"omitempty,max=40"`
	UnitPriceCents int    `json:"unit_price_cents" validate:"min=0"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	ReorderPoint   int    `json:"reorder_point" validate:"omitempty,min=0"`
}

// UpsertStock merges a delivery into the catalog by attribute match.
func UpsertStock(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload upsertStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpsertByAttributes(r.Context(), catalogsvc.UpsertInput{
			Name:           validators.SanitizeString(payload.Name, 120),
			Brand:          validators.SanitizeString(payload.Brand, 120),
			Type:           validators.SanitizeString(payload.Type, 60),
			Size:           validators.SanitizeString(payload.Size, 40),
			Color:          validators.SanitizeString(payload.Color, 40),
			UnitPriceCents: payload.UnitPriceCents,
			Quantity:       payload.Quantity,
			ReorderPoint:   payload.ReorderPoint,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateStockRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Brand          *string `json:"brand,omitempty" validate:"omitempty,max=120"`
	Type           *string `json:"type,omitempty" validate:"omitempty,max=60"`
	Size           *string `json:"size,omitempty" validate:"omitempty,max=40"`
	Color          *string `json:"color,omitempty" validate:"omitempty,max=40"`
	UnitPriceCents *int    `json:"unit_price_cents,omitempty" validate:"omitempty,min=0"`
	Quantity       *int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
	ReorderPoint   *int    `json:"reorder_point,omitempty" validate:"omitempty,min=0"`
}

// UpdateStock edits one stock item in place.
func UpdateStock(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, catalogsvc.UpdateInput{
			Name:           payload.Name,
			Brand:          payload.Brand,
			Type:           payload.Type,
			Size:           payload.Size,
			Color:          payload.Color,
			UnitPriceCents: payload.UnitPriceCents,
			Quantity:       payload.Quantity,
			ReorderPoint:   payload.ReorderPoint,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteStock removes one stock item from the catalog. Receipts keep their
// frozen line copies, so history is unaffected.
func DeleteStock(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
