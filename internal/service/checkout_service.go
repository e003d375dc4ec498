package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/greenleaf-pharma/portal-api/internal/checkout"
	"github.com/greenleaf-pharma/portal-api/internal/models"
	"github.com/greenleaf-pharma/portal-api/internal/publisher"
	"github.com/greenleaf-pharma/portal-api/internal/repository"
	"github.com/greenleaf-pharma/portal-api/internal/sanitize"
)

var (
	ErrInvalidCart   = errors.New("cart is empty or contains invalid lines")
	ErrInvalidForm   = errors.New("order form is incomplete or invalid")
	ErrNotAuthorized = errors.New("only verified pharmacists may place orders")
)

// orderNumberAttempts bounds the regenerate-and-retry loop on an
// order_number collision. The suffix carries 16 bits of randomness, so a
// second collision in a row is already remarkable.
const orderNumberAttempts = 3

// LicenseChecker verifies pharmacist license numbers.
type LicenseChecker interface {
	IsRegistered(ctx context.Context, licenseNumber string) bool
}

// PlaceOrderInput carries everything the checkout pipeline needs: the
// account, its cart lines and the submitted form.
type PlaceOrderInput struct {
	UserID        string
	LicenseNumber string
	IsPharmacist  bool
	Items         []models.CartLineItem
	Form          models.OrderForm
}

// CheckoutService assembles and persists orders. The heavy lifting is in the
// pure functions of the checkout package; this type supplies the sequencing
// and the collaborators.
type CheckoutService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	licenses    LicenseChecker
	dispatch    publisher.OrderPublisher
	numbers     *checkout.OrderNumberGenerator
	log         *slog.Logger
	now         func() time.Time
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	licenses LicenseChecker,
	dispatch publisher.OrderPublisher,
	numbers *checkout.OrderNumberGenerator,
	log *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		licenses:    licenses,
		dispatch:    dispatch,
		numbers:     numbers,
		log:         log,
		now:         time.Now,
	}
}

// PlaceOrder runs the checkout pipeline: gate the submission, join the cart
// with the catalog, snapshot the lines, price the order, build the
// addresses, stamp an order number and persist. Dispatch to fulfillment
// happens last and never fails the order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if !checkout.ValidateCartHasProducts(in.Items) {
		return nil, ErrInvalidCart
	}
	if !checkout.ValidateOrderFormFields(in.Form) {
		return nil, ErrInvalidForm
	}

	verified := s.licenses.IsRegistered(ctx, in.LicenseNumber)
	if !checkout.ValidateUserCanCheckout(in.IsPharmacist, verified) {
		return nil, ErrNotAuthorized
	}

	enriched := s.enrich(ctx, in.Items)

	snapshots, err := checkout.PrepareOrderItems(enriched)
	if err != nil {
		return nil, err
	}

	totals := checkout.CalculateOrderTotal(enriched)

	shipping, err := checkout.NewSanitizedAddress(
		in.Form.ShippingName,
		in.Form.ShippingStreet,
		in.Form.ShippingCity,
		in.Form.ShippingPostalCode,
		in.Form.ShippingCountry,
	)
	if err != nil {
		return nil, fmt.Errorf("shipping address: %w", err)
	}

	billing, err := checkout.NewSanitizedAddress(
		in.Form.BillingName,
		in.Form.BillingStreet,
		in.Form.BillingCity,
		in.Form.BillingPostalCode,
		in.Form.BillingCountry,
	)
	if err != nil {
		return nil, fmt.Errorf("billing address: %w", err)
	}

	paymentMethod := in.Form.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentInvoice
	}

	createdAt := s.now().UTC()
	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          in.UserID,
		Items:           snapshots,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		PaymentMethod:   paymentMethod,
		Notes:           sanitize.Input(in.Form.Notes),
		Status:          models.StatusPending,
		CreatedAt:       createdAt,
	}

	if err := s.persistWithFreshNumber(ctx, order, in.UserID, createdAt); err != nil {
		return nil, err
	}

	if err := s.dispatch.PublishOrder(ctx, order); err != nil {
		// The order is persisted; fulfillment can be resent.
		s.log.Error("failed to dispatch order to fulfillment",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
	}

	return order, nil
}

// persistWithFreshNumber stamps an order number and inserts, regenerating on
// a uniqueness collision.
func (s *CheckoutService) persistWithFreshNumber(ctx context.Context, order *models.Order, userID string, createdAt time.Time) error {
	millis := createdAt.UnixMilli()

	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = s.numbers.Generate(userID, millis)
		err = s.orderRepo.CreateOrder(ctx, order)
		if !errors.Is(err, repository.ErrDuplicateOrderNumber) {
			return err
		}
		s.log.Warn("order number collision, regenerating",
			"order_number", order.OrderNumber,
			"attempt", attempt+1,
		)
	}
	return err
}

// GetOrder loads an order, restricted to its owner.
func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns the pharmacy's order history, newest first.
func (s *CheckoutService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.ListOrdersByUser(ctx, userID)
}

// enrich joins cart lines with their catalog records. A failed lookup leaves
// Product nil; the pricing and normalization functions decide what that
// means.
func (s *CheckoutService) enrich(ctx context.Context, items []models.CartLineItem) []models.EnrichedCartItem {
	enriched := make([]models.EnrichedCartItem, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			s.log.Warn("catalog lookup failed during checkout",
				"product_id", item.ProductID,
				"error", err,
			)
			product = nil
		}
		enriched = append(enriched, models.EnrichedCartItem{
			CartLineItem: item,
			Product:      product,
		})
	}
	return enriched
}
