package handlers

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/greenleaf-pharma/portal-api/internal/registry"
)

// HealthHandler reports whether the portal can actually take checkouts:
// which backends orders and carts run on, and how many pharmacist licenses
// are loaded. Zero licenses means every checkout gets rejected, so that
// state is surfaced as degraded rather than healthy.
type HealthHandler struct {
	registry   *registry.Registry
	orderStore string
	cartStore  string
}

func NewHealthHandler(reg *registry.Registry, orderStore, cartStore string) *HealthHandler {
	return &HealthHandler{
		registry:   reg,
		orderStore: orderStore,
		cartStore:  cartStore,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	OrderStore     string    `json:"order_store"`
	CartStore      string    `json:"cart_store"`
	LicensesLoaded int       `json:"licenses_loaded"`
	LicenseExports int       `json:"license_exports"`
}

// ServeHTTP handles health check requests.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats := h.registry.Stats()
	licenses, _ := stats["total_licenses"].(int)
	exports, _ := stats["total_files"].(int)

	status := "healthy"
	if licenses == 0 {
		status = "degraded"
	}

	response := HealthResponse{
		Status:         status,
		Timestamp:      time.Now().UTC(),
		Version:        buildVersion(),
		OrderStore:     h.orderStore,
		CartStore:      h.cartStore,
		LicensesLoaded: licenses,
		LicenseExports: exports,
	}

	writeJSON(w, http.StatusOK, response)
}

// buildVersion reads the module version stamped by the build; "devel" builds
// and unstamped binaries report "dev".
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
