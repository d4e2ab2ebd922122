package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"peopledesk/internal/domain/auth"
)

const testSecret = "test-secret"

func authChain(t *testing.T) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetEmployeeID(r.Context())
		if !ok {
			t.Fatal("handler reached without an employee id")
		}
		if id != 42 {
			t.Fatalf("employee id = %d", id)
		}
		w.WriteHeader(http.StatusOK)
	})
	return Auth(testSecret)(RequireAuth(inner))
}

func TestAuthMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	authChain(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Authorization required") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAuthMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		authChain(t).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("header %q: status = %d, want 422", header, rec.Code)
		}
	}
}

func TestAuthGarbageToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	authChain(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAuthExpiredToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, 42, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	authChain(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Token expired") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAuthValidToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, 42, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	authChain(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}
