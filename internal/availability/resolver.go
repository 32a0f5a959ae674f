// Package availability derives whether an offer can be purchased right now
// and keeps that verdict fresh for open view sessions.
//
// Derived availability is never persisted or cached: it is the persisted
// vendor flag ANDed with the vendor's pickup window evaluated at the moment
// of asking. Both the per-view monitor and checkout revalidation go through
// the same resolution, so their verdicts agree.
package availability

import (
	"time"

	"lastcall/internal/model"
	"lastcall/internal/schedule"
)

// Resolve reports whether the offer is purchasable at the given instant.
// Only an explicit false vendor flag withdraws the offer; an absent flag
// counts as eligible, and an unparseable schedule counts as open.
func Resolve(offer model.Offer, now time.Time) bool {
	ok, _ := Check(offer, now)
	return ok
}

// Check is Resolve with the diagnostic reason attached.
func Check(offer model.Offer, now time.Time) (bool, string) {
	if !offer.VendorEligible() {
		return false, "withdrawn by vendor"
	}

	v := schedule.Evaluate(offer.ScheduleDescriptor, now)
	return v.Available, v.Reason
}
