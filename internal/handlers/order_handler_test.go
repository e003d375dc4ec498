package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/greenleaf-pharma/portal-api/internal/cart"
	"github.com/greenleaf-pharma/portal-api/internal/checkout"
	"github.com/greenleaf-pharma/portal-api/internal/kvstore"
	"github.com/greenleaf-pharma/portal-api/internal/models"
	"github.com/greenleaf-pharma/portal-api/internal/publisher"
	"github.com/greenleaf-pharma/portal-api/internal/repository"
	"github.com/greenleaf-pharma/portal-api/internal/service"
	"github.com/greenleaf-pharma/portal-api/pkg/logger"
)

// allowLicenses accepts a fixed set of license numbers.
type allowLicenses map[string]bool

func (a allowLicenses) IsRegistered(ctx context.Context, licenseNumber string) bool {
	return a[licenseNumber]
}

func setupOrderHandler(t *testing.T) (*OrderHandler, *cart.Store) {
	t.Helper()

	log := logger.New("error")
	carts := cart.NewStore(kvstore.NewMemoryStore())
	svc := service.NewCheckoutService(
		repository.NewInMemoryProductRepository(),
		repository.NewInMemoryOrderRepository(),
		allowLicenses{"BAK-12345": true},
		publisher.NewNoopPublisher(log),
		checkout.NewOrderNumberGenerator(nil),
		log,
	)
	return NewOrderHandler(svc, carts, log), carts
}

func orderRequestBody(t *testing.T, req models.OrderRequest) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func completeForm() models.OrderForm {
	form := models.NewOrderForm()
	form.ShippingName = "Apotheke Nord"
	form.ShippingStreet = "Hauptstraße 1"
	form.ShippingCity = "Berlin"
	form.ShippingPostalCode = "10115"
	form.CopyShippingToBilling()
	return form
}

func asPharmacist(req *http.Request) {
	req.Header.Set(headerUserID, "user123456")
	req.Header.Set(headerLicense, "BAK-12345")
	req.Header.Set(headerRole, rolePharmacist)
}

func TestCreateOrder_Success(t *testing.T) {
	handler, _ := setupOrderHandler(t)

	body := orderRequestBody(t, models.OrderRequest{
		Items: []models.CartLineItem{
			{ProductID: "1", Quantity: 2},
		},
		Form: completeForm(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/order", body)
	asPharmacist(req)
	w := httptest.NewRecorder()

	handler.CreateOrder(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var order models.Order
	if err := json.NewDecoder(w.Body).Decode(&order); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if order.OrderNumber == "" {
		t.Error("order number is empty")
	}
	if len(order.Items) != 1 {
		t.Errorf("items count = %d, want 1", len(order.Items))
	}
	if order.Items[0].Name != "Bedrocan 22/1" {
		t.Errorf("snapshot name = %q", order.Items[0].Name)
	}
	if order.Subtotal != 19.00 {
		t.Errorf("subtotal = %v, want 19.00", order.Subtotal)
	}
}

func TestCreateOrder_UsesStoredCartAndClearsIt(t *testing.T) {
	handler, carts := setupOrderHandler(t)
	ctx := context.Background()

	if err := carts.Add(ctx, "user123456", models.CartLineItem{ProductID: "2", Quantity: 3}); err != nil {
		t.Fatalf("failed to seed cart: %v", err)
	}

	body := orderRequestBody(t, models.OrderRequest{Form: completeForm()})
	req := httptest.NewRequest(http.MethodPost, "/api/order", body)
	asPharmacist(req)
	w := httptest.NewRecorder()

	handler.CreateOrder(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	items, err := carts.Get(ctx, "user123456")
	if err != nil {
		t.Fatalf("failed to read cart: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("cart not cleared after checkout: %+v", items)
	}
}

func TestCreateOrder_Failures(t *testing.T) {
	tests := []struct {
		name       string
		request    models.OrderRequest
		prepare    func(req *http.Request)
		wantStatus int
	}{
		{
			name: "missing user identity",
			request: models.OrderRequest{
				Items: []models.CartLineItem{{ProductID: "1", Quantity: 1}},
				Form:  completeForm(),
			},
			prepare: func(req *http.Request) {
				req.Header.Set(headerLicense, "BAK-12345")
				req.Header.Set(headerRole, rolePharmacist)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty cart",
			request:    models.OrderRequest{Form: completeForm()},
			prepare:    asPharmacist,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "incomplete form",
			request: models.OrderRequest{
				Items: []models.CartLineItem{{ProductID: "1", Quantity: 1}},
				Form:  models.OrderForm{},
			},
			prepare:    asPharmacist,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "not a verified pharmacist",
			request: models.OrderRequest{
				Items: []models.CartLineItem{{ProductID: "1", Quantity: 1}},
				Form:  completeForm(),
			},
			prepare: func(req *http.Request) {
				req.Header.Set(headerUserID, "user123456")
				req.Header.Set(headerLicense, "BAK-99999")
				req.Header.Set(headerRole, rolePharmacist)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "unknown product in cart",
			request: models.OrderRequest{
				Items: []models.CartLineItem{{ProductID: "no-such-product", Quantity: 1}},
				Form:  completeForm(),
			},
			prepare:    asPharmacist,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupOrderHandler(t)

			req := httptest.NewRequest(http.MethodPost, "/api/order", orderRequestBody(t, tt.request))
			tt.prepare(req)
			w := httptest.NewRecorder()

			handler.CreateOrder(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestGetOrder(t *testing.T) {
	handler, _ := setupOrderHandler(t)

	// Place an order first.
	body := orderRequestBody(t, models.OrderRequest{
		Items: []models.CartLineItem{{ProductID: "1", Quantity: 1}},
		Form:  completeForm(),
	})
	createReq := httptest.NewRequest(http.MethodPost, "/api/order", body)
	asPharmacist(createReq)
	createW := httptest.NewRecorder()
	handler.CreateOrder(createW, createReq)

	var created models.Order
	if err := json.NewDecoder(createW.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode created order: %v", err)
	}

	r := chi.NewRouter()
	r.Get("/api/order/{orderId}", handler.GetOrder)

	t.Run("owner fetches the order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/order/"+created.ID, nil)
		asPharmacist(req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("other user gets not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/order/"+created.ID, nil)
		req.Header.Set(headerUserID, "intruder")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
