package jwtverify

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpress/inkpress/backend/internal/common/logger"
)

const testSecret = "test-secret-test-secret-test-secret-1234"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func newProtectedHandler(t *testing.T) (http.Handler, *Identity) {
	t.Helper()
	log, _ := logger.New("", "test", "info")

	var seen Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := FromContext(r.Context())
		if !ok {
			t.Error("expected identity in context on a verified request")
		}
		seen = identity
		w.WriteHeader(http.StatusOK)
	})

	return Middleware(testSecret, log)(inner), &seen
}

func TestMiddleware_MissingHeader(t *testing.T) {
	handler, _ := newProtectedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/bulk", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestMiddleware_MalformedToken(t *testing.T) {
	handler, _ := newProtectedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/bulk", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	handler, _ := newProtectedHandler(t)

	token := signToken(t, "another-secret-another-secret-12345678", jwt.MapClaims{"userId": "u1"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/bulk", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestMiddleware_MissingUserIDClaim(t *testing.T) {
	handler, _ := newProtectedHandler(t)

	token := signToken(t, testSecret, jwt.MapClaims{"sub": "u1"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/bulk", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	handler, _ := newProtectedHandler(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"userId": "u1",
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/bulk", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	handler, seen := newProtectedHandler(t)

	token := signToken(t, testSecret, jwt.MapClaims{"userId": "user-42"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/bulk", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if seen.UserID != "user-42" {
		t.Errorf("expected identity user-42, got %q", seen.UserID)
	}
}

func TestVerifyToken_NoExpiryClaimStillAccepted(t *testing.T) {
	// The original clients hold tokens without an exp claim; those stay
	// valid.
	token := signToken(t, testSecret, jwt.MapClaims{"userId": "u1"})

	identity, err := VerifyToken(token, []byte(testSecret))
	if err != nil {
		t.Fatalf("expected token without exp to verify, got %v", err)
	}
	if identity.UserID != "u1" {
		t.Errorf("expected user id u1, got %s", identity.UserID)
	}
}
