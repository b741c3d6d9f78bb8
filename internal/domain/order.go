package domain

import "time"

// AddressInfo is the delivery payload attached to an order at checkout.
// Treated as opaque beyond presence checks in the client-facing layer.
type AddressInfo struct {
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Apartment string `json:"apartment,omitempty"`
	Comment   string `json:"comment,omitempty"`
	Payment   string `json:"payment"`
}

// Order is a finalized checkout. Immutable once created; UserID is nil for
// orders placed by the anonymous caller.
type Order struct {
	ID         string       `json:"id"`
	UserID     *string      `json:"userId"`
	Items      []CartItem   `json:"items"`
	TotalPrice float64      `json:"totalPrice"`
	Customer   *AddressInfo `json:"customer"`
	CreatedAt  time.Time    `json:"createdAt"`
}
