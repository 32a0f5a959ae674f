package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lastcall/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestVendorHandler_SetAvailability(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		path           string
		body           string
		mockReturn     *model.OfferView
		mockError      error
		expectedStatus int
		expectService  bool
		available      bool
	}{
		{
			name:           "Withdraw offer",
			path:           "/api/vendor/offers/OF001/availability",
			body:           `{"available": false}`,
			mockReturn:     &model.OfferView{},
			expectedStatus: http.StatusOK,
			expectService:  true,
			available:      false,
		},
		{
			name:           "Restore offer",
			path:           "/api/vendor/offers/OF001/availability",
			body:           `{"available": true}`,
			mockReturn:     &model.OfferView{},
			expectedStatus: http.StatusOK,
			expectService:  true,
			available:      true,
		},
		{
			name:           "Missing available field",
			path:           "/api/vendor/offers/OF001/availability",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid body",
			path:           "/api/vendor/offers/OF001/availability",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Offer not found",
			path:           "/api/vendor/offers/NOPE/availability",
			body:           `{"available": false}`,
			mockError:      model.ErrOfferNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
			available:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOfferService)
			if tt.expectService {
				offerID := vendorOfferIDFromPath(tt.path)
				mockService.On("SetAvailability", mock.Anything, offerID, tt.available).
					Return(tt.mockReturn, tt.mockError)
			}

			h := NewVendorHandler(mockService, logger)

			req := httptest.NewRequest(http.MethodPatch, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.SetAvailability(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestVendorHandler_UpdateSchedule(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOfferService)
		mockService.On("UpdateVendorSchedule", mock.Anything, "V001", "6:00 PM - 9:00 PM").Return(nil)

		h := NewVendorHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPut, "/api/vendor/V001/schedule",
			strings.NewReader(`{"scheduleDescriptor": "6:00 PM - 9:00 PM"}`))
		rec := httptest.NewRecorder()

		h.UpdateSchedule(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Unparseable descriptor is accepted", func(t *testing.T) {
		// Descriptor syntax is not validated at the boundary; an unparseable
		// window fails open at evaluation time instead.
		mockService := new(MockOfferService)
		mockService.On("UpdateVendorSchedule", mock.Anything, "V001", "whenever we feel like it").Return(nil)

		h := NewVendorHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPut, "/api/vendor/V001/schedule",
			strings.NewReader(`{"scheduleDescriptor": "whenever we feel like it"}`))
		rec := httptest.NewRecorder()

		h.UpdateSchedule(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Vendor not found", func(t *testing.T) {
		mockService := new(MockOfferService)
		mockService.On("UpdateVendorSchedule", mock.Anything, "NOPE", mock.Anything).
			Return(model.ErrVendorNotFound)

		h := NewVendorHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPut, "/api/vendor/NOPE/schedule",
			strings.NewReader(`{"scheduleDescriptor": "9:00 AM - 5:00 PM"}`))
		rec := httptest.NewRecorder()

		h.UpdateSchedule(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
