// ABOUTME: Test helpers for e2e tests
// ABOUTME: Spins up fake upstreams and the full handler stack

package e2e

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/skolesnik/shinshop/backend/cache"
	"github.com/skolesnik/shinshop/backend/config"
	"github.com/skolesnik/shinshop/backend/handlers"
	"github.com/skolesnik/shinshop/backend/middleware"
)

// fakeBackOffice serves the login endpoint and the given feed bodies
// keyed by feed path (e.g. "/api/feeds/2").
func fakeBackOffice(t *testing.T, feeds map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token":"e2e-token","refresh_token":"r"}`))
			return
		}
		if r.Header.Get("Authorization") != "Bearer e2e-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := feeds[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

// newAPIServer wires config, cache, handlers, and middleware the same way
// main does, on top of the given upstream URLs.
func newAPIServer(t *testing.T, backOfficeURL, tireURL string) *httptest.Server {
	t.Helper()

	t.Setenv("BACKOFFICE_URL", backOfficeURL)
	t.Setenv("BACKOFFICE_LOGIN", "shop")
	t.Setenv("BACKOFFICE_PASSWORD", "secret")
	t.Setenv("TIRE_CATALOG_URL", tireURL)
	t.Setenv("TIRE_CATALOG_TOKEN", "static-token")
	os.Unsetenv("BACKOFFICE_ALL_PROXY")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	c := cache.New(time.Duration(cfg.CatalogCacheTTL) * time.Second)
	h := handlers.NewHandler(cfg, c, nil)

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Path, middleware.Chain(route.Handler,
			middleware.LogRequest,
			middleware.CORS(cfg.CORSAllowedOrigins),
		))
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
