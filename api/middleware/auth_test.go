package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/auth"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopflow-console",
		ExpirationMinutes: 30,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID, role string, storeID uuid.UUID) string {
	t.Helper()

	token, err := auth.MintAccessToken(cfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID:  userID,
		StoreID: storeID,
		Role:    role,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return token
}

func TestStoreScope_RejectsMissingCredentials(t *testing.T) {
	handler := StoreScope(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestStoreScope_RejectsMalformedToken(t *testing.T) {
	handler := StoreScope(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestStoreScope_RejectsUnsignedClaims(t *testing.T) {
	handler := StoreScope(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer attacker|admin|"+uuid.NewString())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for an unsigned credential, got %d", rec.Code)
	}
}

func TestStoreScope_RejectsForeignSignature(t *testing.T) {
	attackerCfg := testJWTConfig()
	attackerCfg.Secret = "attacker-secret"
	forged := mintTestToken(t, attackerCfg, "attacker", "admin", uuid.New())

	handler := StoreScope(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a foreign signature, got %d", rec.Code)
	}
}

func TestStoreScope_SeedsContext(t *testing.T) {
	cfg := testJWTConfig()
	storeID := uuid.New()
	var seenStore uuid.UUID
	var seenUser, seenRole string

	handler := StoreScope(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenStore = StoreIDFromContext(r.Context())
		seenUser = UserIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, "user-1", "merchant", storeID))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seenStore != storeID {
		t.Fatalf("store id not propagated, got %s", seenStore)
	}
	if seenUser != "user-1" || seenRole != "merchant" {
		t.Fatalf("claims not propagated: %s %s", seenUser, seenRole)
	}
}
