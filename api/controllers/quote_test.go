package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/internal/pricing"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/enums"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/metrics"
)

type stubQuoteService struct {
	lastProduct uuid.UUID
	lastRequest pricing.QuoteRequest
}

func (s *stubQuoteService) QuoteForProduct(ctx context.Context, productID uuid.UUID, req pricing.QuoteRequest) (*pricing.Quote, error) {
	s.lastProduct = productID
	s.lastRequest = req
	return &pricing.Quote{
		UnitPrice:  decimal.RequireFromString("8"),
		TotalPrice: decimal.RequireFromString("96"),
		TotalPairs: 12,
	}, nil
}

func TestQuoteProduct(t *testing.T) {
	logg := testLogger()
	qm := metrics.NewQuoteMetrics(nil)
	productID := uuid.New()
	variationID := uuid.New()

	makeRequest := func(body string) (*stubQuoteService, *httptest.ResponseRecorder) {
		ctx := withRouteParam(context.Background(), "productID", productID.String())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/quote", strings.NewReader(body))
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		stub := &stubQuoteService{}
		QuoteProduct(stub, qm, logg).ServeHTTP(rec, req)
		return stub, rec
	}

	t.Run("success", func(t *testing.T) {
		stub, rec := makeRequest(`{"variation_id":"` + variationID.String() + `","mode":"full"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lastProduct != productID {
			t.Fatal("product id not forwarded")
		}
		if stub.lastRequest.Mode != enums.SaleModeFull {
			t.Fatalf("unexpected mode %s", stub.lastRequest.Mode)
		}
		var payload struct {
			Data struct {
				TotalPairs int `json:"total_pairs"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Data.TotalPairs != 12 {
			t.Fatalf("unexpected pairs %d", payload.Data.TotalPairs)
		}
	})

	t.Run("custom mode forwards selection", func(t *testing.T) {
		stub, _ := makeRequest(`{"variation_id":"` + variationID.String() + `","mode":"custom","selection_pairs":9}`)
		if stub.lastRequest.SelectionPairs == nil || *stub.lastRequest.SelectionPairs != 9 {
			t.Fatalf("selection pairs not forwarded: %+v", stub.lastRequest.SelectionPairs)
		}
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		_, rec := makeRequest(`{"variation_id":"` + variationID.String() + `","mode":"wholesale"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed variation id", func(t *testing.T) {
		_, rec := makeRequest(`{"variation_id":"nope","mode":"full"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
