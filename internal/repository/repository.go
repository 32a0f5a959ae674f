package repository

import (
	"context"

	"lastcall/internal/model"

	"github.com/jackc/pgx/v5"
)

// OfferRepository defines the interface for offer and vendor data access.
// Offers are always read together with their vendor's schedule descriptor,
// since derived availability needs both.
type OfferRepository interface {
	// GetAll retrieves all offers with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Offer, error)

	// GetByID retrieves a single offer by its ID, or nil when absent.
	GetByID(ctx context.Context, id string) (*model.Offer, error)

	// SetAvailability updates the offer's persisted vendor flag and returns
	// the updated offer, or nil when the offer does not exist.
	SetAvailability(ctx context.Context, id string, available bool) (*model.Offer, error)

	// UpdateVendorSchedule replaces a vendor's schedule descriptor and
	// returns all of the vendor's offers, so callers can notify watchers
	// of each one.
	UpdateVendorSchedule(ctx context.Context, vendorID, descriptor string) ([]model.Offer, error)
}

// CartRepository defines the interface for cart line data access. Lines are
// keyed by (customer, offer).
type CartRepository interface {
	// ListLines retrieves a customer's cart lines.
	ListLines(ctx context.Context, customerID string) ([]model.CartLine, error)

	// ListLinesWithOffers retrieves a customer's cart lines joined with each
	// line's offer flag, vendor schedule and prices in a single batched read.
	ListLinesWithOffers(ctx context.Context, customerID string) ([]model.CartLineWithOffer, error)

	// UpsertLine adds an offer to the cart, merging with an existing line
	// for the same offer by incrementing its quantity.
	UpsertLine(ctx context.Context, line *model.CartLine) (*model.CartLine, error)

	// SetQuantity overwrites a line's quantity. Returns nil when no line
	// exists for the (customer, offer) pair.
	SetQuantity(ctx context.Context, customerID, offerID string, quantity int) (*model.CartLine, error)

	// DeleteLine removes one line from the cart.
	DeleteLine(ctx context.Context, customerID, offerID string) error

	// DeleteLinesByOffers removes exactly the lines for the given offers,
	// leaving all other lines untouched.
	DeleteLinesByOffers(ctx context.Context, customerID string, offerIDs []string) error

	// ClearTx removes all of a customer's lines within the provided
	// transaction, so checkout can commit order records and the cart clear
	// as one unit.
	ClearTx(ctx context.Context, tx pgx.Tx, customerID string) error

	// CountLines returns the number of lines in a customer's cart.
	CountLines(ctx context.Context, customerID string) (int, error)
}

// OrderRepository defines the interface for order record data access.
// Records are write-once.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateRecords inserts order records within the provided transaction.
	CreateRecords(ctx context.Context, tx pgx.Tx, records []model.OrderRecord) error

	// ListByCustomer retrieves a customer's order records, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]model.OrderRecord, error)
}
