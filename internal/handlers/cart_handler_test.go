package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/greenleaf-pharma/portal-api/internal/cart"
	"github.com/greenleaf-pharma/portal-api/internal/kvstore"
	"github.com/greenleaf-pharma/portal-api/internal/models"
	"github.com/greenleaf-pharma/portal-api/pkg/logger"
)

func setupCartRouter(t *testing.T) *chi.Mux {
	t.Helper()

	handler := NewCartHandler(cart.NewStore(kvstore.NewMemoryStore()), logger.New("error"))

	r := chi.NewRouter()
	r.Get("/api/cart", handler.GetCart)
	r.Post("/api/cart", handler.AddItem)
	r.Delete("/api/cart", handler.ClearCart)
	r.Delete("/api/cart/{productId}", handler.RemoveItem)
	return r
}

func cartDo(t *testing.T, r http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(headerUserID, "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartHandler_Flow(t *testing.T) {
	r := setupCartRouter(t)

	// Empty cart to start.
	w := cartDo(t, r, http.MethodGet, "/api/cart", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}
	var items []models.CartLineItem
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("fresh cart has %d items", len(items))
	}

	// Add two lines.
	if w := cartDo(t, r, http.MethodPost, "/api/cart", models.CartLineItem{ProductID: "1", Quantity: 2}); w.Code != http.StatusNoContent {
		t.Fatalf("POST status = %d, want 204", w.Code)
	}
	if w := cartDo(t, r, http.MethodPost, "/api/cart", models.CartLineItem{ProductID: "2", Quantity: 1}); w.Code != http.StatusNoContent {
		t.Fatalf("POST status = %d, want 204", w.Code)
	}

	w = cartDo(t, r, http.MethodGet, "/api/cart", nil)
	items = nil
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("cart has %d items, want 2", len(items))
	}

	// Remove one, clear the rest.
	if w := cartDo(t, r, http.MethodDelete, "/api/cart/1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", w.Code)
	}
	if w := cartDo(t, r, http.MethodDelete, "/api/cart", nil); w.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d, want 204", w.Code)
	}

	w = cartDo(t, r, http.MethodGet, "/api/cart", nil)
	items = nil
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("cleared cart has %d items", len(items))
	}
}

func TestCartHandler_RejectsBadLine(t *testing.T) {
	r := setupCartRouter(t)

	w := cartDo(t, r, http.MethodPost, "/api/cart", models.CartLineItem{ProductID: "1", Quantity: 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST status = %d, want 400", w.Code)
	}
}

func TestCartHandler_RequiresIdentity(t *testing.T) {
	r := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
