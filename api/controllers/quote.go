package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/responses"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/api/validators"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/internal/pricing"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/enums"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/logger"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/metrics"
)

type quoteRequest struct {
	VariationID    string `json:"variation_id" validate:"required,uuid"`
	Mode           string `json:"mode" validate:"required,oneof=full half custom"`
	SelectionPairs *int   `json:"selection_pairs,omitempty" validate:"omitempty,min=0"`
}

// QuoteProduct prices one variation under the requested sale mode.
func QuoteProduct(svc pricing.Service, qm *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variationID, err := uuid.Parse(payload.VariationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variation id"))
			return
		}

		mode, err := enums.ParseSaleMode(strings.TrimSpace(payload.Mode))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sale mode"))
			return
		}

		start := time.Now()
		quote, err := svc.QuoteForProduct(r.Context(), productID, pricing.QuoteRequest{
			VariationID:    variationID,
			Mode:           mode,
			SelectionPairs: payload.SelectionPairs,
		})
		qm.ObserveDuration(string(mode), time.Since(start))
		if err != nil {
			qm.IncFailure(string(mode))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qm.IncSuccess(string(mode))

		responses.WriteSuccess(w, quote)
	}
}
