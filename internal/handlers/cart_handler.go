package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenleaf-pharma/portal-api/internal/cart"
	"github.com/greenleaf-pharma/portal-api/internal/models"
)

// CartHandler handles the server-side cart endpoints.
type CartHandler struct {
	carts *cart.Store
	log   *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Store, log *slog.Logger) *CartHandler {
	return &CartHandler{
		carts: carts,
		log:   log,
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User identity missing")
		return
	}

	items, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to load cart", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if items == nil {
		items = []models.CartLineItem{}
	}

	writeJSON(w, http.StatusOK, items)
}

// AddItem handles POST /api/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User identity missing")
		return
	}

	var line models.CartLineItem
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.carts.Add(r.Context(), userID, line); err != nil {
		if errors.Is(err, cart.ErrInvalidProductID) || errors.Is(err, cart.ErrInvalidQuantity) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("failed to add cart item", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/cart/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User identity missing")
		return
	}

	productID := chi.URLParam(r, "productId")
	if err := h.carts.Remove(r.Context(), userID, productID); err != nil {
		h.log.Error("failed to remove cart item", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User identity missing")
		return
	}

	if err := h.carts.Clear(r.Context(), userID); err != nil {
		h.log.Error("failed to clear cart", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
