// ABOUTME: Entry point for the storefront catalog integration backend
// ABOUTME: Serves normalized product feeds with synthetic fallback over HTTP

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/skolesnik/shinshop/backend/cache"
	"github.com/skolesnik/shinshop/backend/config"
	"github.com/skolesnik/shinshop/backend/handlers"
	"github.com/skolesnik/shinshop/backend/logger"
	"github.com/skolesnik/shinshop/backend/metrics"
	"github.com/skolesnik/shinshop/backend/middleware"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting catalog integration backend")
	slog.Info("Back-office configured", "url", cfg.BackOfficeURL)
	slog.Info("Tire catalog configured", "url", cfg.TireCatalogURL)

	// Initialize cache and metrics
	cacheTTL := time.Duration(cfg.CatalogCacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	collector := metrics.NewCollector()

	// Initialize handlers
	h := handlers.NewHandler(cfg, c, collector)

	// Per-IP rate limiter, shared across all routes
	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
	}

	common := []func(http.HandlerFunc) http.HandlerFunc{
		middleware.LogRequest,
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(limiter, middleware.ClientIP),
	}

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Path, middleware.Chain(route.Handler, common...))
	}
	mux.Handle("/metrics", collector.Handler())

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
