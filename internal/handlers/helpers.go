package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON writes a JSON response. The status line is already on the wire
// when encoding runs, so a failure can only be logged, not reported.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// Identity headers set by the authenticating proxy in front of the API.
const (
	headerUserID  = "X-User-Id"
	headerLicense = "X-Pharmacist-License"
	headerRole    = "X-Role"

	rolePharmacist = "pharmacist"
)
