// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// Catalog feeds
		{Method: http.MethodGet, Path: "/api/v1/catalog/tires", Handler: h.CatalogTires},
		{Method: http.MethodGet, Path: "/api/v1/catalog/fasteners", Handler: h.CatalogFasteners},
		{Method: http.MethodGet, Path: "/api/v1/catalog/sensors", Handler: h.CatalogSensors},
		{Method: http.MethodGet, Path: "/api/v1/catalog/spares", Handler: h.CatalogSpareWheels},

		// Item-detail delivery classification
		{Method: http.MethodGet, Path: "/api/v1/delivery", Handler: h.Delivery},
	}
}
