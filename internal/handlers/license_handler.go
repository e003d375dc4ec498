package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// licenseChecker is the interface for pharmacist license verification.
type licenseChecker interface {
	IsRegistered(ctx context.Context, licenseNumber string) bool
	Stats() map[string]interface{}
}

// LicenseHandler handles HTTP requests for license verification.
type LicenseHandler struct {
	registry licenseChecker
}

// NewLicenseHandler creates a new LicenseHandler.
func NewLicenseHandler(registry licenseChecker) *LicenseHandler {
	return &LicenseHandler{
		registry: registry,
	}
}

// CheckLicense handles GET /api/license/{licenseNumber}
// Reports whether the license number appears in a loaded chamber export.
func (h *LicenseHandler) CheckLicense(w http.ResponseWriter, r *http.Request) {
	licenseNumber := chi.URLParam(r, "licenseNumber")

	registered := h.registry.IsRegistered(r.Context(), licenseNumber)

	if registered {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"registered": true,
			"license":    licenseNumber,
		})
	} else {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"registered": false,
			"license":    licenseNumber,
			"message":    "License number not found in any chamber export",
		})
	}
}

// GetStats handles GET /api/license/stats (for debugging/monitoring)
func (h *LicenseHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.registry.Stats()
	writeJSON(w, http.StatusOK, stats)
}
