package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/greenleaf-pharma/portal-api/internal/config"
)

func TestAPIKeyAuth(t *testing.T) {
	cfg := config.AuthConfig{APIKeys: []string{"valid-key", "another-key"}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := APIKeyAuth(cfg)(next)

	tests := []struct {
		name       string
		apiKey     string
		wantStatus int
	}{
		{name: "missing key", apiKey: "", wantStatus: http.StatusUnauthorized},
		{name: "invalid key", apiKey: "wrong", wantStatus: http.StatusForbidden},
		{name: "prefix of a valid key", apiKey: "valid", wantStatus: http.StatusForbidden},
		{name: "valid key", apiKey: "valid-key", wantStatus: http.StatusOK},
		{name: "second valid key", apiKey: "another-key", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
			if tt.apiKey != "" {
				req.Header.Set("api_key", tt.apiKey)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				if ct := w.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
				if !strings.Contains(w.Body.String(), `"error"`) {
					t.Errorf("body = %q, want an error field", w.Body.String())
				}
			}
		})
	}
}
