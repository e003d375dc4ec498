package models

// Product represents a catalog item available to pharmacies.
// Price is the net wholesale price per unit in EUR.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}
