package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/responses"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/validators"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/internal/variations"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/logger"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/metrics"
)

func sessionRefFromPath(r *http.Request) (variations.SessionRef, error) {
	productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
	if err != nil {
		return variations.SessionRef{}, err
	}
	sessionID := validators.SanitizeString(chi.URLParam(r, "sessionID"), 64)
	if sessionID == "" {
		return variations.SessionRef{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return variations.SessionRef{ProductID: productID, SessionID: sessionID}, nil
}

// OpenVariationSession starts a draft editing session seeded from the
// persisted rows.
func OpenVariationSession(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.OpenSession(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, state)
	}
}

type combinationRequest struct {
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	Material string `json:"material,omitempty"`

	SKU             *string          `json:"sku,omitempty"`
	Stock           *int             `json:"stock,omitempty"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment,omitempty"`
	IsGrade         *bool            `json:"is_grade,omitempty"`
}

func (c combinationRequest) tuple() variations.Tuple {
	return variations.NormalizeTuple(c.Color, c.Size, c.Material)
}

func (c combinationRequest) overrides() *variations.Patch {
	if c.SKU == nil && c.Stock == nil && c.PriceAdjustment == nil && c.IsGrade == nil {
		return nil
	}
	return &variations.Patch{
		SKU:             c.SKU,
		Stock:           c.Stock,
		PriceAdjustment: c.PriceAdjustment,
		IsGrade:         c.IsGrade,
	}
}

// AddCombination adds one combination to the draft. Duplicate tuples come
// back as a failure signal, not an error status.
func AddCombination(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload combinationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), ref, payload.tuple(), payload.overrides())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNotify(w, string(result.Signal), result.Signal.OK(), result)
	}
}

// RemoveCombination drops the combination matching the tuple from the draft.
func RemoveCombination(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload combinationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Remove(r.Context(), ref, payload.tuple())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNotify(w, string(result.Signal), result.Signal.OK(), result)
	}
}

// ToggleCombination flips a combination between present and absent.
func ToggleCombination(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload combinationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Toggle(r.Context(), ref, payload.tuple())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNotify(w, string(result.Signal), result.Signal.OK(), result)
	}
}

type updateCombinationRequest struct {
	SKU             *string          `json:"sku,omitempty"`
	Stock           *int             `json:"stock,omitempty"`
	PriceAdjustment *decimal.Decimal `json:"price_adjustment,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
	IsGrade         *bool            `json:"is_grade,omitempty"`
}

// UpdateCombination patches one draft row by its identifier.
func UpdateCombination(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variationID, err := validators.ParsePathUUID(chi.URLParam(r, "variationID"), "variationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCombinationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), ref, variationID, variations.Patch{
			SKU:             payload.SKU,
			Stock:           payload.Stock,
			PriceAdjustment: payload.PriceAdjustment,
			IsActive:        payload.IsActive,
			IsGrade:         payload.IsGrade,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNotify(w, string(result.Signal), result.Signal.OK(), result)
	}
}

type generateRequest struct {
	Colors    []string `json:"colors,omitempty"`
	Sizes     []string `json:"sizes,omitempty"`
	Materials []string `json:"materials,omitempty"`
}

// GenerateCombinations creates the Cartesian product of the given attribute
// lists, falling back to the product's own attributes when all are empty.
func GenerateCombinations(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload generateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GenerateAll(r.Context(), ref, payload.Colors, payload.Sizes, payload.Materials)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BulkEditCombinations applies one bulk action across the draft.
func BulkEditCombinations(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload variations.BulkInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ApplyBulk(r.Context(), ref, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNotify(w, string(result.Signal), result.Signal.OK(), result)
	}
}

// CombinationStatistics summarizes the draft working set.
func CombinationStatistics(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Statistics(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// CommitVariationSession persists the draft, replacing the product's rows.
func CommitVariationSession(svc variations.Service, qm *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		count, err := svc.Commit(r.Context(), ref)
		if err != nil {
			qm.IncCommitFailure()
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qm.AddCommittedRows(count)

		responses.WriteSuccess(w, map[string]any{"saved": count})
	}
}

// DiscardVariationSession abandons the draft without persisting anything.
func DiscardVariationSession(svc variations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := sessionRefFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Discard(r.Context(), ref); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "discarded"})
	}
}
