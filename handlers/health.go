// ABOUTME: Health endpoint reporting upstream configuration status
// ABOUTME: Used by the storefront and deployment probes

package handlers

import "net/http"

// Health returns API health status including upstream configuration.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":       "ok",
		"back_office":  "not_configured",
		"tire_catalog": "not_configured",
	}

	if h.cfg != nil {
		if h.cfg.BackOfficeURL != "" {
			resp["back_office"] = "configured"
		}
		if h.cfg.TireCatalogURL != "" {
			resp["tire_catalog"] = "configured"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
