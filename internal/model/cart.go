package model

import (
	"time"

	"github.com/google/uuid"
)

// CartLine represents a customer's pending intent to buy N units of one
// offer. Lines are merged per (customer, offer): adding an offer already in
// the cart increments the quantity instead of creating a second line.
type CartLine struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID string    `json:"customerId" db:"customer_id"`
	OfferID    string    `json:"offerId" db:"offer_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLineWithOffer is a cart line joined with the fields of its offer that
// checkout revalidation needs: the persisted vendor flag, the vendor's
// schedule descriptor and the price to capture at purchase time.
type CartLineWithOffer struct {
	Line  CartLine
	Offer Offer
}

// CartLineRequest is the payload for adding an offer to the cart or setting
// a line's quantity.
type CartLineRequest struct {
	OfferID  string `json:"offerId"`
	Quantity int    `json:"quantity"`
}

// CartResponse is the customer-facing cart: lines joined with their offers
// and each offer's derived availability at read time.
type CartResponse struct {
	Lines []CartLineView `json:"lines"`
}

// CartLineView is one cart line decorated with its offer for display.
type CartLineView struct {
	CartLine
	Offer     OfferView `json:"offer"`
	LineTotal string    `json:"lineTotal"`
}
