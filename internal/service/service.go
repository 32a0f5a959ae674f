package service

import (
	"context"

	"lastcall/internal/availability"
	"lastcall/internal/model"
)

// OfferService defines the business logic for browsing offers, watching one
// offer's availability during a view session, and the vendor-side edits
// that invalidate watchers.
type OfferService interface {
	// List retrieves offers with their derived availability.
	List(ctx context.Context, limit, offset int) ([]model.OfferView, error)

	// GetByID retrieves one offer with its derived availability, or nil
	// when absent.
	GetByID(ctx context.Context, id string) (*model.OfferView, error)

	// Watch starts an availability monitor for a view session of the given
	// offer. The caller owns the returned monitor and must Stop it when the
	// session ends.
	Watch(ctx context.Context, id string) (*availability.Monitor, error)

	// SetAvailability updates the offer's persisted vendor flag and pushes
	// the new value to watchers.
	SetAvailability(ctx context.Context, id string, available bool) (*model.OfferView, error)

	// UpdateVendorSchedule replaces a vendor's pickup-window descriptor and
	// nudges watchers of every affected offer to re-resolve.
	UpdateVendorSchedule(ctx context.Context, vendorID, descriptor string) error
}

// CartService defines the business logic for the customer's cart.
type CartService interface {
	// GetCart retrieves the customer's cart with offers and derived
	// availability joined in.
	GetCart(ctx context.Context, customerID string) (*model.CartResponse, error)

	// AddLine adds an offer to the cart, merging with an existing line for
	// the same offer.
	AddLine(ctx context.Context, customerID string, req *model.CartLineRequest) (*model.CartLine, error)

	// SetQuantity overwrites a line's quantity.
	SetQuantity(ctx context.Context, customerID, offerID string, quantity int) (*model.CartLine, error)

	// RemoveLine removes one line from the cart.
	RemoveLine(ctx context.Context, customerID, offerID string) error
}

// CheckoutService defines the two-phase validate-then-commit checkout.
type CheckoutService interface {
	// Checkout revalidates every cart line and either removes the stale
	// ones (outcome invalidated) or commits order records and clears the
	// cart (outcome committed).
	Checkout(ctx context.Context, customerID string) (*model.CheckoutResult, error)

	// ListOrders retrieves the customer's order records for the
	// confirmation view.
	ListOrders(ctx context.Context, customerID string) ([]model.OrderRecord, error)
}
