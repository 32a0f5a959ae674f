package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffer_VendorEligible(t *testing.T) {
	available := true
	withdrawn := false

	tests := []struct {
		name     string
		flag     *bool
		expected bool
	}{
		{
			name:     "Flag unset counts as eligible",
			flag:     nil,
			expected: true,
		},
		{
			name:     "Flag true is eligible",
			flag:     &available,
			expected: true,
		},
		{
			name:     "Explicit false withdraws",
			flag:     &withdrawn,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := Offer{ID: "OF001", Available: tt.flag}
			assert.Equal(t, tt.expected, offer.VendorEligible())
		})
	}
}

func TestOffer_VendorEligibleOnMapValue(t *testing.T) {
	// Callers index query results by offer ID and ask the predicate on the
	// map value directly, so it must not require an addressable receiver.
	withdrawn := false
	byID := map[string]Offer{
		"OF001": {ID: "OF001"},
		"OF002": {ID: "OF002", Available: &withdrawn},
	}

	assert.True(t, byID["OF001"].VendorEligible())
	assert.False(t, byID["OF002"].VendorEligible())
}
