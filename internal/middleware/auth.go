package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/greenleaf-pharma/portal-api/internal/config"
)

// APIKeyAuth rejects requests whose "api_key" header does not match one of
// the configured keys. Keys are compared in constant time.
func APIKeyAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("api_key")
			if key == "" {
				authError(w, http.StatusUnauthorized, "API key required")
				return
			}
			if !keyAllowed(cfg.APIKeys, key) {
				authError(w, http.StatusForbidden, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func keyAllowed(allowed []string, key string) bool {
	for _, candidate := range allowed {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// authError mirrors the handlers' error shape so clients parse one format.
func authError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
