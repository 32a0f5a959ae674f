// Package notify carries the out-of-band change notifications the
// availability engine depends on: vendor-flag updates pushed to open view
// sessions, and cart-changed broadcasts consumed by badge counters.
//
// Delivery is best effort. A missed push is recovered by the next poll cycle
// on the subscriber side, so publish failures are logged and absorbed rather
// than failing the write that triggered them.
package notify

import "context"

// FlagUpdate is the payload pushed when an offer's persisted vendor
// availability flag changes.
type FlagUpdate struct {
	OfferID   string `json:"offerId"`
	Available bool   `json:"available"`
}

// CartChange is broadcast whenever a customer's cart is mutated.
type CartChange struct {
	CustomerID string `json:"customerId"`
	LineCount  int    `json:"lineCount"`
}

// Publisher emits change notifications.
type Publisher interface {
	// PublishFlag announces the offer's current persisted vendor flag.
	PublishFlag(ctx context.Context, update FlagUpdate) error

	// PublishCartChange announces that a customer's cart was mutated.
	PublishCartChange(ctx context.Context, change CartChange) error
}

// Subscriber delivers change notifications for a single key.
type Subscriber interface {
	// SubscribeFlag subscribes to vendor-flag updates for one offer.
	// The returned cancel func releases the subscription and must be called
	// exactly once; after cancel the channel is closed.
	SubscribeFlag(ctx context.Context, offerID string) (<-chan FlagUpdate, func(), error)
}

// Broker is the combined publish/subscribe surface wired through the app.
type Broker interface {
	Publisher
	Subscriber
}
