package models

import "time"

// Payment methods accepted at checkout.
const (
	PaymentInvoice      = "invoice"
	PaymentBankTransfer = "bank_transfer"
	PaymentCreditCard   = "credit_card"
)

// Order statuses.
const (
	StatusPending = "pending"
)

// OrderLineSnapshot is an immutable copy of product identity and price taken
// at order time, decoupled from later catalog changes.
type OrderLineSnapshot struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderForm is the full checkout form as submitted by the pharmacy.
type OrderForm struct {
	ShippingName       string `json:"shippingName"`
	ShippingStreet     string `json:"shippingStreet"`
	ShippingCity       string `json:"shippingCity"`
	ShippingPostalCode string `json:"shippingPostalCode"`
	ShippingCountry    string `json:"shippingCountry"`
	BillingName        string `json:"billingName"`
	BillingStreet      string `json:"billingStreet"`
	BillingCity        string `json:"billingCity"`
	BillingPostalCode  string `json:"billingPostalCode"`
	BillingCountry     string `json:"billingCountry"`
	PaymentMethod      string `json:"paymentMethod"`
	Notes              string `json:"notes"`
}

// NewOrderForm returns a form with the portal defaults applied.
func NewOrderForm() OrderForm {
	return OrderForm{
		ShippingCountry: "Germany",
		BillingCountry:  "Germany",
		PaymentMethod:   PaymentInvoice,
	}
}

// CopyShippingToBilling overwrites the billing address with the shipping
// address, for the "billing same as shipping" checkbox.
func (f *OrderForm) CopyShippingToBilling() {
	f.BillingName = f.ShippingName
	f.BillingStreet = f.ShippingStreet
	f.BillingCity = f.ShippingCity
	f.BillingPostalCode = f.ShippingPostalCode
	f.BillingCountry = f.ShippingCountry
}

// OrderRequest is an incoming checkout request.
type OrderRequest struct {
	Items []CartLineItem `json:"items"`
	Form  OrderForm      `json:"form"`
}

// Order is the assembled order payload handed to persistence and dispatch.
type Order struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	UserID          string              `json:"userId"`
	Items           []OrderLineSnapshot `json:"items"`
	Subtotal        float64             `json:"subtotal"`
	Tax             float64             `json:"tax"`
	Total           float64             `json:"total"`
	ShippingAddress Address             `json:"shippingAddress"`
	BillingAddress  Address             `json:"billingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Notes           string              `json:"notes"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
}
