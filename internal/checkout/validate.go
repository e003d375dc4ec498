package checkout

import (
	"github.com/greenleaf-pharma/portal-api/internal/models"
	"github.com/greenleaf-pharma/portal-api/internal/sanitize"
)

// validPaymentMethods are the payment options a pharmacy may select.
var validPaymentMethods = map[string]bool{
	models.PaymentInvoice:      true,
	models.PaymentBankTransfer: true,
	models.PaymentCreditCard:   true,
}

// ValidateCartHasProducts reports whether the cart is submittable: non-empty,
// every line carrying a product id and a positive quantity. It never panics;
// a nil slice is simply an empty cart.
func ValidateCartHasProducts(items []models.CartLineItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return false
		}
	}
	return true
}

// ValidateOrderFormFields reports whether the checkout form is complete: all
// eight address fields non-empty after sanitization, and the payment method,
// when set, one of the accepted options.
func ValidateOrderFormFields(form models.OrderForm) bool {
	required := []string{
		form.ShippingName,
		form.ShippingStreet,
		form.ShippingCity,
		form.ShippingPostalCode,
		form.BillingName,
		form.BillingStreet,
		form.BillingCity,
		form.BillingPostalCode,
	}
	for _, field := range required {
		if sanitize.Input(field) == "" {
			return false
		}
	}

	if form.PaymentMethod != "" && !validPaymentMethods[form.PaymentMethod] {
		return false
	}

	return true
}

// ValidateUserCanCheckout reports whether the account may place orders.
// Only verified pharmacists purchase; both flags must hold.
func ValidateUserCanCheckout(isPharmacist, isVerified bool) bool {
	return isPharmacist && isVerified
}
