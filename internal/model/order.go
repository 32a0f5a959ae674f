package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus describes the lifecycle stage of a purchased unit.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderRecord represents one purchased unit of an offer. A cart line with
// quantity N materialises into N records at checkout. Records are immutable
// once created: UnitPricePaid and PurchasedAt are captured at commit time and
// never recomputed.
type OrderRecord struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CustomerID    string          `json:"customerId" db:"customer_id"`
	OfferID       string          `json:"offerId" db:"offer_id"`
	UnitPricePaid decimal.Decimal `json:"unitPricePaid" db:"unit_price_paid"`
	Status        OrderStatus     `json:"status" db:"status"`
	Fulfilled     bool            `json:"fulfilled" db:"fulfilled"`
	PurchasedAt   time.Time       `json:"purchasedAt" db:"purchased_at"`
}

// CheckoutOutcome is the first-class result category of a checkout attempt.
type CheckoutOutcome string

const (
	// CheckoutCommitted: every line passed revalidation, order records were
	// created and the cart was cleared.
	CheckoutCommitted CheckoutOutcome = "committed"

	// CheckoutInvalidated: at least one line's offer failed the availability
	// re-check; exactly those lines were removed and nothing was committed.
	CheckoutInvalidated CheckoutOutcome = "invalidated"

	// CheckoutEmpty: the customer had no cart lines.
	CheckoutEmpty CheckoutOutcome = "empty"
)

// CheckoutResult is the response payload of a checkout attempt.
type CheckoutResult struct {
	Outcome         CheckoutOutcome `json:"outcome"`
	RemovedOfferIDs []string        `json:"removedOfferIds,omitempty"`
	Orders          []OrderRecord   `json:"orders,omitempty"`
}
