package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS_OpenModeAllowsAny(t *testing.T) {
	handler := CORS(nil)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anything.example.com")

	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_ConfiguredOriginReflected(t *testing.T) {
	handler := CORS([]string{"https://shop.example.com"})(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")

	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "https://shop.example.com" {
		t.Errorf("Expected configured origin reflected, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_UnknownOriginNotReflected(t *testing.T) {
	handler := CORS([]string{"https://shop.example.com"})(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("Unknown origin must not be allowed, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	called := false
	handler := CORS(nil)(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 on preflight, got %d", rec.Code)
	}
	if called {
		t.Error("Preflight must not reach the wrapped handler")
	}
}
