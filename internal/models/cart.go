package models

// CartLineItem is a single cart position: a product reference and a quantity.
// The cart store owns these; checkout only reads them.
type CartLineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// EnrichedCartItem joins a cart line with its catalog record. Product is nil
// when the catalog lookup failed; callers decide whether that is fatal.
// Transient, built per calculation call.
type EnrichedCartItem struct {
	CartLineItem
	Product *Product `json:"product,omitempty"`
}
