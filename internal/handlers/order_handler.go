package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenleaf-pharma/portal-api/internal/cart"
	"github.com/greenleaf-pharma/portal-api/internal/checkout"
	"github.com/greenleaf-pharma/portal-api/internal/models"
	"github.com/greenleaf-pharma/portal-api/internal/repository"
	"github.com/greenleaf-pharma/portal-api/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	checkoutService *service.CheckoutService
	carts           *cart.Store
	log             *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *service.CheckoutService, carts *cart.Store, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		carts:           carts,
		log:             log,
	}
}

// CreateOrder handles POST /api/order. Items may come inline with the
// request; with none given, the server-side cart is used. A successful
// checkout clears that cart.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User identity missing")
		return
	}

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := req.Items
	fromStoredCart := false
	if len(items) == 0 {
		stored, err := h.carts.Get(r.Context(), userID)
		if err != nil {
			h.log.Error("failed to load cart", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		items = stored
		fromStoredCart = true
	}

	order, err := h.checkoutService.PlaceOrder(r.Context(), service.PlaceOrderInput{
		UserID:        userID,
		LicenseNumber: r.Header.Get(headerLicense),
		IsPharmacist:  r.Header.Get(headerRole) == rolePharmacist,
		Items:         items,
		Form:          req.Form,
	})
	if err != nil {
		h.log.Error("failed to place order", "user_id", userID, "error", err)

		switch {
		case errors.Is(err, service.ErrInvalidCart):
			writeError(w, http.StatusBadRequest, "Cart is empty or contains invalid items")
		case errors.Is(err, service.ErrInvalidForm):
			writeError(w, http.StatusBadRequest, "Order form is incomplete or invalid")
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "Only verified pharmacists may place orders")
		case errors.Is(err, checkout.ErrMissingProductData):
			writeError(w, http.StatusConflict, checkout.ErrMissingProductData.Error())
		case errors.Is(err, checkout.ErrAddressFieldMissing),
			errors.Is(err, checkout.ErrInvalidPostalCode):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if fromStoredCart {
		if err := h.carts.Clear(r.Context(), userID); err != nil {
			h.log.Error("failed to clear cart after checkout", "user_id", userID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, order)
	h.log.Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"items_count", len(order.Items),
		"total", order.Total,
	)
}

// GetOrder handles GET /api/order/{orderId}, restricted to the order's owner.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User identity missing")
		return
	}

	orderID := chi.URLParam(r, "orderId")
	order, err := h.checkoutService.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.log.Error("failed to get order", "order_id", orderID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListOrders handles GET /api/order, the pharmacy's order history.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User identity missing")
		return
	}

	orders, err := h.checkoutService.ListOrders(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to list orders", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}
