package checkout

import (
	"errors"

	"github.com/greenleaf-pharma/portal-api/internal/models"
)

// ErrMissingProductData aborts order preparation when any cart line lacks its
// catalog record. The message is shown to the pharmacist as-is; a reload
// refreshes the catalog join.
var ErrMissingProductData = errors.New("Produktdaten fehlen. Bitte laden Sie die Seite neu.")

// unnamedProduct stands in for an empty product name in a snapshot.
const unnamedProduct = "Unbenanntes Produkt"

// PrepareOrderItems copies cart lines into order-line snapshots, freezing
// product name and price at order time.
//
// A missing product fails the whole batch, unlike CalculateSubtotal which
// skips such lines. Display may tolerate a stale cart; an order must not.
func PrepareOrderItems(items []models.EnrichedCartItem) ([]models.OrderLineSnapshot, error) {
	snapshots := make([]models.OrderLineSnapshot, 0, len(items))

	for _, item := range items {
		if item.Product == nil {
			return nil, ErrMissingProductData
		}

		name := item.Product.Name
		if name == "" {
			name = unnamedProduct
		}

		snapshots = append(snapshots, models.OrderLineSnapshot{
			ProductID: item.ProductID,
			Name:      name,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}

	return snapshots, nil
}
