package models

// Address is a canonical shipping or billing address. Fields are always
// sanitized before an Address is constructed; build one through
// checkout.NewSanitizedAddress rather than by hand.
type Address struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}
