package checkout

import (
	"math"
	"testing"

	"github.com/greenleaf-pharma/portal-api/internal/models"
)

func enriched(productID string, quantity int, product *models.Product) models.EnrichedCartItem {
	return models.EnrichedCartItem{
		CartLineItem: models.CartLineItem{ProductID: productID, Quantity: quantity},
		Product:      product,
	}
}

func TestCalculateSubtotal(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.EnrichedCartItem
		expected float64
	}{
		{
			name:     "empty cart",
			items:    []models.EnrichedCartItem{},
			expected: 0,
		},
		{
			name:     "nil cart",
			items:    nil,
			expected: 0,
		},
		{
			name: "single item",
			items: []models.EnrichedCartItem{
				enriched("1", 2, &models.Product{ID: "1", Price: 10}),
			},
			expected: 20,
		},
		{
			name: "multiple items",
			items: []models.EnrichedCartItem{
				enriched("1", 2, &models.Product{ID: "1", Price: 10}),
				enriched("2", 1, &models.Product{ID: "2", Price: 20}),
			},
			expected: 40,
		},
		{
			name: "missing product is skipped",
			items: []models.EnrichedCartItem{
				enriched("1", 2, &models.Product{ID: "1", Price: 10}),
				enriched("gone", 5, nil),
			},
			expected: 20,
		},
		{
			name: "all products missing",
			items: []models.EnrichedCartItem{
				enriched("a", 1, nil),
				enriched("b", 3, nil),
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateSubtotal(tt.items)
			if got != tt.expected {
				t.Errorf("CalculateSubtotal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateTax(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		expected float64
	}{
		{name: "zero subtotal", subtotal: 0, expected: 0},
		{name: "round subtotal", subtotal: 100, expected: 19},
		{name: "cart subtotal", subtotal: 40, expected: 7.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTax(tt.subtotal)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CalculateTax(%v) = %v, want %v", tt.subtotal, got, tt.expected)
			}
		})
	}
}

func TestCalculateOrderTotal(t *testing.T) {
	items := []models.EnrichedCartItem{
		enriched("1", 2, &models.Product{ID: "1", Price: 10}),
		enriched("2", 1, &models.Product{ID: "2", Price: 20}),
	}

	total := CalculateOrderTotal(items)

	if total.Subtotal != 40 {
		t.Errorf("Subtotal = %v, want 40", total.Subtotal)
	}
	if math.Abs(total.Tax-7.6) > 1e-9 {
		t.Errorf("Tax = %v, want 7.6", total.Tax)
	}
	if math.Abs(total.Total-47.6) > 1e-9 {
		t.Errorf("Total = %v, want 47.6", total.Total)
	}
}
