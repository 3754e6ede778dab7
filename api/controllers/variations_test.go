package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/internal/variations"
	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/metrics"
)

func withSessionParams(ctx context.Context, productID, sessionID string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productID", productID)
	routeCtx.URLParams.Add("sessionID", sessionID)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

type stubVariationService struct {
	variations.Service

	openProduct uuid.UUID
	createTuple *variations.Tuple
	signal      variations.Signal
	committed   bool
	commitErr   error
}

func (s *stubVariationService) OpenSession(ctx context.Context, productID uuid.UUID) (*variations.DraftState, error) {
	s.openProduct = productID
	return &variations.DraftState{SessionID: "sess-1", ProductID: productID}, nil
}

func (s *stubVariationService) Create(ctx context.Context, ref variations.SessionRef, tuple variations.Tuple, overrides *variations.Patch) (*variations.MutationResult, error) {
	s.createTuple = &tuple
	return &variations.MutationResult{Signal: s.signal, Version: 1}, nil
}

func (s *stubVariationService) Commit(ctx context.Context, ref variations.SessionRef) (int, error) {
	s.committed = true
	if s.commitErr != nil {
		return 0, s.commitErr
	}
	return 4, nil
}

func TestOpenVariationSession(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	ctx := withRouteParam(context.Background(), "productID", productID.String())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/variations/session", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	stub := &stubVariationService{}
	OpenVariationSession(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.openProduct != productID {
		t.Fatal("product id not forwarded")
	}
}

func TestAddCombination(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	makeRequest := func(signal variations.Signal, body string) (*stubVariationService, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/variations/session/sess-1/combinations", strings.NewReader(body))
		req = req.WithContext(withSessionParams(context.Background(), productID.String(), "sess-1"))
		rec := httptest.NewRecorder()
		stub := &stubVariationService{signal: signal}
		AddCombination(stub, logg).ServeHTTP(rec, req)
		return stub, rec
	}

	t.Run("created", func(t *testing.T) {
		stub, rec := makeRequest(variations.SignalCreated, `{"color":"black","size":"34"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var payload struct {
			Signal string `json:"signal"`
			OK     bool   `json:"ok"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Signal != "created" || !payload.OK {
			t.Fatalf("unexpected envelope %+v", payload)
		}
		if stub.createTuple == nil || stub.createTuple.Color == nil || *stub.createTuple.Color != "black" {
			t.Fatalf("tuple not normalized: %+v", stub.createTuple)
		}
		if stub.createTuple.Material != nil {
			t.Fatal("blank attributes must map to nil")
		}
	})

	t.Run("duplicate stays 200", func(t *testing.T) {
		_, rec := makeRequest(variations.SignalDuplicate, `{"color":"black","size":"34"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("duplicates are signals, not errors, got %d", rec.Code)
		}
		var payload struct {
			Signal string `json:"signal"`
			OK     bool   `json:"ok"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Signal != "duplicate_combination" || payload.OK {
			t.Fatalf("unexpected envelope %+v", payload)
		}
	})

	t.Run("missing session id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/combinations", strings.NewReader(`{"color":"black"}`))
		req = req.WithContext(withSessionParams(context.Background(), productID.String(), ""))
		rec := httptest.NewRecorder()
		AddCombination(&stubVariationService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCommitVariationSession(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/commit", nil)
	req = req.WithContext(withSessionParams(context.Background(), productID.String(), "sess-1"))
	rec := httptest.NewRecorder()

	stub := &stubVariationService{}
	CommitVariationSession(stub, metrics.NewQuoteMetrics(nil), logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !stub.committed {
		t.Fatal("expected Commit to be invoked")
	}
	var payload struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Data["saved"] != 4 {
		t.Fatalf("unexpected payload %v", payload.Data)
	}
}

func TestCommitVariationSession_FailureCountsNoRows(t *testing.T) {
	logg := testLogger()
	reg := prometheus.NewRegistry()
	qm := metrics.NewQuoteMetrics(reg)

	req := httptest.NewRequest(http.MethodPost, "/commit", nil)
	req = req.WithContext(withSessionParams(context.Background(), uuid.NewString(), "sess-1"))
	rec := httptest.NewRecorder()

	stub := &stubVariationService{commitErr: pkgerrors.New(pkgerrors.CodeDependency, "commit variation set")}
	CommitVariationSession(stub, qm, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if got := gatherCounter(t, reg, "variation_commit_rows"); got != 0 {
		t.Fatalf("failed commit must not count rows, got %f", got)
	}
	if got := gatherCounter(t, reg, "variation_commit_failure"); got != 1 {
		t.Fatalf("expected one commit failure, got %f", got)
	}
}

func gatherCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}
