package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/middleware"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/responses"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/validators"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/internal/catalog"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/logger"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/pagination"
)

type tierRequest struct {
	Name        string          `json:"name" validate:"required"`
	MinQuantity int             `json:"min_quantity" validate:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func (t tierRequest) toInput() catalog.TierInput {
	active := true
	if t.IsActive != nil {
		active = *t.IsActive
	}
	return catalog.TierInput{
		Name:        t.Name,
		MinQuantity: t.MinQuantity,
		Price:       t.Price,
		IsActive:    active,
	}
}

type createProductRequest struct {
	SKU       string          `json:"sku"`
	Title     string          `json:"title" validate:"required"`
	Subtitle  *string         `json:"subtitle,omitempty"`
	BasePrice decimal.Decimal `json:"base_price"`
	Colors    []string        `json:"colors,omitempty"`
	Sizes     []string        `json:"sizes,omitempty"`
	Materials []string        `json:"materials,omitempty"`
	IsActive  *bool           `json:"is_active,omitempty"`
	Tiers     []tierRequest   `json:"tiers,omitempty"`
}

func (r createProductRequest) toInput() catalog.CreateProductInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	tiers := make([]catalog.TierInput, 0, len(r.Tiers))
	for _, tier := range r.Tiers {
		tiers = append(tiers, tier.toInput())
	}
	return catalog.CreateProductInput{
		SKU:       r.SKU,
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		BasePrice: r.BasePrice,
		Colors:    r.Colors,
		Sizes:     r.Sizes,
		Materials: r.Materials,
		IsActive:  active,
		Tiers:     tiers,
	}
}

type updateProductRequest struct {
	SKU       *string          `json:"sku,omitempty"`
	Title     *string          `json:"title,omitempty"`
	Subtitle  *string          `json:"subtitle,omitempty"`
	BasePrice *decimal.Decimal `json:"base_price,omitempty"`
	Colors    *[]string        `json:"colors,omitempty"`
	Sizes     *[]string        `json:"sizes,omitempty"`
	Materials *[]string        `json:"materials,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
	Tiers     *[]tierRequest   `json:"tiers,omitempty"`
}

func (r updateProductRequest) toInput() catalog.UpdateProductInput {
	input := catalog.UpdateProductInput{
		SKU:       r.SKU,
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		BasePrice: r.BasePrice,
		Colors:    r.Colors,
		Sizes:     r.Sizes,
		Materials: r.Materials,
		IsActive:  r.IsActive,
	}
	if r.Tiers != nil {
		tiers := make([]catalog.TierInput, 0, len(*r.Tiers))
		for _, tier := range *r.Tiers {
			tiers = append(tiers, tier.toInput())
		}
		input.Tiers = &tiers
	}
	return input
}

func storeFromContext(r *http.Request) (uuid.UUID, error) {
	storeID := middleware.StoreIDFromContext(r.Context())
	if storeID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	return storeID, nil
}

// CreateProduct handles product creation for the caller's store.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), storeID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ListProducts pages through the caller's catalog.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive, err := validators.ParseQueryBool(r, "is_active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			StoreID:  storeID,
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 120),
			IsActive: isActive,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct returns one product with its tiers and variations.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if product.StoreID != storeID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// UpdateProduct applies a partial update to an owned product.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), storeID, productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes an owned product and its dependent rows.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), storeID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type replaceTiersRequest struct {
	Tiers []tierRequest `json:"tiers" validate:"required,dive"`
}

// ReplaceTiers swaps the product's whole tier table in one call.
func ReplaceTiers(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceTiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tiers := make([]catalog.TierInput, 0, len(payload.Tiers))
		for _, tier := range payload.Tiers {
			tiers = append(tiers, tier.toInput())
		}

		saved, err := svc.ReplaceTiers(r.Context(), storeID, productID, tiers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"tiers": saved})
	}
}
