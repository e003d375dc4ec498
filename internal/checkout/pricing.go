// Package checkout holds the pure calculation and validation functions the
// order pipeline is built from: pricing, line-item normalization, address
// construction, order-number generation and the pre-submission gates. Nothing
// in here does I/O or holds state; every function is a plain transformation
// of its inputs.
package checkout

import "github.com/greenleaf-pharma/portal-api/internal/models"

// VATRate is the fixed German VAT applied to all orders. The portal sells
// into a single jurisdiction; there is no per-country lookup.
const VATRate = 0.19

// OrderTotal is the pricing breakdown for an order.
type OrderTotal struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// CalculateSubtotal sums price*quantity over items whose catalog record is
// present. Items with a missing product contribute nothing; a stale cart
// must not break price display. An empty list yields 0.
func CalculateSubtotal(items []models.EnrichedCartItem) float64 {
	var subtotal float64
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		subtotal += item.Product.Price * float64(item.Quantity)
	}
	return subtotal
}

// CalculateTax returns the VAT due on a subtotal.
func CalculateTax(subtotal float64) float64 {
	return subtotal * VATRate
}

// CalculateOrderTotal computes the full breakdown for a cart.
func CalculateOrderTotal(items []models.EnrichedCartItem) OrderTotal {
	subtotal := CalculateSubtotal(items)
	tax := CalculateTax(subtotal)
	return OrderTotal{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
