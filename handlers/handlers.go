// ABOUTME: HTTP handlers for the catalog API endpoints
// ABOUTME: Parses filters, checks the response cache, and serves normalized product lists

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/skolesnik/shinshop/backend/cache"
	"github.com/skolesnik/shinshop/backend/config"
	"github.com/skolesnik/shinshop/backend/metrics"
	"github.com/skolesnik/shinshop/backend/models"
	"github.com/skolesnik/shinshop/backend/services"
)

type Handler struct {
	cfg       *config.Config
	cache     *cache.Cache
	catalog   *services.Catalog
	collector *metrics.Collector
	cacheTTL  time.Duration
}

// NewHandler wires the catalog pipeline from config. A nil config leaves
// the catalog unset, which is only useful for route-table tests.
func NewHandler(cfg *config.Config, c *cache.Cache, collector *metrics.Collector) *Handler {
	h := &Handler{
		cfg:       cfg,
		cache:     c,
		collector: collector,
	}

	if cfg != nil {
		var recorder metrics.Recorder
		if collector != nil {
			recorder = collector
		}

		backOffice := services.NewBackOfficeClient(cfg.BackOfficeURL, cfg.BackOfficeLogin, cfg.BackOfficePassword)
		tireFeed := services.NewTireCatalogClient(cfg.TireCatalogURL, cfg.TireCatalogToken)

		h.catalog = services.NewCatalog(
			backOffice,
			tireFeed,
			services.NewNormalizer(cfg.AssetBaseURL),
			services.NewGenerator(nil),
			services.FeedIDs{
				Fasteners:   cfg.FastenersFeedID,
				Sensors:     cfg.SensorsFeedID,
				SpareWheels: cfg.SpareWheelsFeedID,
			},
			recorder,
		)
		h.cacheTTL = time.Duration(cfg.CatalogCacheTTL) * time.Second
	}

	return h
}

type fetchFunc func(r *http.Request, f models.Filters) ([]models.Product, bool, error)

// CatalogTires serves the tire feed.
func (h *Handler) CatalogTires(w http.ResponseWriter, r *http.Request) {
	h.serveCatalog(w, r, "tires", func(r *http.Request, f models.Filters) ([]models.Product, bool, error) {
		return h.catalog.Tires(r.Context(), f)
	})
}

// CatalogFasteners serves the wheel-fastener feed.
func (h *Handler) CatalogFasteners(w http.ResponseWriter, r *http.Request) {
	h.serveCatalog(w, r, "fasteners", func(r *http.Request, f models.Filters) ([]models.Product, bool, error) {
		return h.catalog.Fasteners(r.Context(), f)
	})
}

// CatalogSensors serves the pressure-sensor feed.
func (h *Handler) CatalogSensors(w http.ResponseWriter, r *http.Request) {
	h.serveCatalog(w, r, "sensors", func(r *http.Request, f models.Filters) ([]models.Product, bool, error) {
		return h.catalog.Sensors(r.Context(), f)
	})
}

// CatalogSpareWheels serves the spare-wheel feed.
func (h *Handler) CatalogSpareWheels(w http.ResponseWriter, r *http.Request) {
	h.serveCatalog(w, r, "spares", func(r *http.Request, f models.Filters) ([]models.Product, bool, error) {
		return h.catalog.SpareWheels(r.Context(), f)
	})
}

func (h *Handler) serveCatalog(w http.ResponseWriter, r *http.Request, feed string, fetch fetchFunc) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.catalog == nil {
		writeError(w, "Catalog not configured", http.StatusServiceUnavailable)
		return
	}

	filters := filtersFromQuery(r.URL.Query())
	key := cacheKey(feed, filters)

	if h.cache != nil {
		if cached, found := h.cache.Get(key); found {
			resp := cached.(models.CatalogResponse)
			resp.Metadata.Cached = true
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	products, synthetic, err := fetch(r, filters)
	if err != nil {
		if errors.Is(err, models.ErrAuthUnavailable) {
			writeError(w, "Back-office authentication unavailable", http.StatusBadGateway)
			return
		}
		slog.Error("Catalog fetch failed", "feed", feed, "error", err)
		writeError(w, "Failed to fetch catalog", http.StatusInternalServerError)
		return
	}

	resp := models.CatalogResponse{
		Products:  products,
		Synthetic: synthetic,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Total:     len(products),
		},
	}

	// Synthetic responses are not cached: they are cheap to regenerate and
	// the next request should retry the real upstream.
	if h.cache != nil && !synthetic {
		h.cache.SetWithTTL(key, resp, h.cacheTTL)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Delivery classifies a single item for detail views: a concrete warehouse
// name plus the provider holding the stock.
func (h *Handler) Delivery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	provider := r.URL.Query().Get("provider")
	warehouse := r.URL.Query().Get("warehouse")

	writeJSON(w, http.StatusOK, services.ClassifyDetail(provider, warehouse))
}

// filtersFromQuery maps query parameters to the filter set. Both "spike"
// and "studded" are accepted for the stud filter; the storefront sends the
// former, older bookmarked URLs the latter.
func filtersFromQuery(q url.Values) models.Filters {
	return models.Filters{
		Season:   q.Get("season"),
		Width:    q.Get("width"),
		Height:   q.Get("height"),
		Diameter: q.Get("diameter"),
		Brand:    q.Get("brand"),
		Model:    q.Get("model"),
		Category: q.Get("category"),
		RunFlat:  boolParam(q, "runflat"),
		Studded:  boolParam(q, "spike") || boolParam(q, "studded"),
		Cargo:    boolParam(q, "cargo"),
	}
}

func boolParam(q url.Values, key string) bool {
	switch strings.ToLower(q.Get(key)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// cacheKey builds a deterministic cache key from the feed and filter set.
func cacheKey(feed string, f models.Filters) string {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("season", f.Season)
	set("width", f.Width)
	set("height", f.Height)
	set("diameter", f.Diameter)
	set("brand", f.Brand)
	set("model", f.Model)
	set("category", f.Category)
	if f.RunFlat {
		v.Set("runflat", "1")
	}
	if f.Studded {
		v.Set("spike", "1")
	}
	if f.Cargo {
		v.Set("cargo", "1")
	}
	return "catalog:" + feed + ":" + v.Encode()
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
