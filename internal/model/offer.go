package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor represents a food vendor listing surplus offers.
type Vendor struct {
	ID                 string    `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	ScheduleDescriptor string    `json:"scheduleDescriptor" db:"schedule_descriptor"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

// Offer represents one purchasable surplus-food bundle listed by a vendor.
//
// Available is tri-state: nil or true means the vendor has not withdrawn the
// offer; only an explicit false withdraws it. ScheduleDescriptor is the
// vendor's free-text daily pickup window, joined in on read.
type Offer struct {
	ID                 string          `json:"id" db:"id"`
	VendorID           string          `json:"vendorId" db:"vendor_id"`
	Name               string          `json:"name" db:"name"`
	Price              decimal.Decimal `json:"price" db:"price"`
	DiscountPrice      decimal.Decimal `json:"discountPrice" db:"discount_price"`
	Available          *bool           `json:"available,omitempty" db:"available"`
	ScheduleDescriptor string          `json:"scheduleDescriptor" db:"-"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
}

// VendorEligible reports whether the vendor has withdrawn the offer.
// Absence of the flag counts as eligible.
func (o Offer) VendorEligible() bool {
	return o.Available == nil || *o.Available
}

// OfferView is an offer decorated with its derived availability, as returned
// to browsing clients.
type OfferView struct {
	Offer
	DerivedAvailable   bool   `json:"derivedAvailable"`
	AvailabilityReason string `json:"availabilityReason,omitempty"`
}
