package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lastcall/internal/availability"
	"lastcall/internal/model"
	"lastcall/internal/notify"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func offerView(id string, available bool) model.OfferView {
	return model.OfferView{
		Offer: model.Offer{
			ID:                 id,
			VendorID:           "V001",
			Name:               "Pastry surprise bag",
			Price:              decimal.RequireFromString("12.00"),
			DiscountPrice:      decimal.RequireFromString("4.50"),
			ScheduleDescriptor: "9:00 AM - 5:00 PM",
		},
		DerivedAvailable: available,
	}
}

func TestOfferHandler_GetAll(t *testing.T) {
	logger := zerolog.Nop()

	testOffers := []model.OfferView{offerView("OF001", true), offerView("OF002", false)}

	tests := []struct {
		name           string
		method         string
		queryParams    string
		mockReturn     []model.OfferView
		mockError      error
		expectedStatus int
		expectService  bool
		limit          int
		offset         int
	}{
		{
			name:           "Success with default pagination",
			method:         http.MethodGet,
			mockReturn:     testOffers,
			expectedStatus: http.StatusOK,
			expectService:  true,
			limit:          10,
			offset:         0,
		},
		{
			name:           "Success with custom pagination",
			method:         http.MethodGet,
			queryParams:    "?limit=5&offset=10",
			mockReturn:     testOffers,
			expectedStatus: http.StatusOK,
			expectService:  true,
			limit:          5,
			offset:         10,
		},
		{
			name:           "Invalid limit parameter",
			method:         http.MethodGet,
			queryParams:    "?limit=invalid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			method:         http.MethodGet,
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
			limit:          10,
			offset:         0,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOfferService)
			if tt.expectService {
				mockService.On("List", mock.Anything, tt.limit, tt.offset).Return(tt.mockReturn, tt.mockError)
			}

			h := NewOfferHandler(mockService, logger)

			req := httptest.NewRequest(tt.method, "/api/offers"+tt.queryParams, nil)
			rec := httptest.NewRecorder()

			h.GetAll(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOfferHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOfferService)
		view := offerView("OF001", true)
		mockService.On("GetByID", mock.Anything, "OF001").Return(&view, nil)

		h := NewOfferHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/offers/OF001", nil)
		rec := httptest.NewRecorder()

		h.GetByID(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "OF001")
	})

	t.Run("Not found", func(t *testing.T) {
		mockService := new(MockOfferService)
		mockService.On("GetByID", mock.Anything, "NOPE").Return(nil, nil)

		h := NewOfferHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/offers/NOPE", nil)
		rec := httptest.NewRecorder()

		h.GetByID(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Missing ID", func(t *testing.T) {
		mockService := new(MockOfferService)
		h := NewOfferHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/offers/", nil)
		rec := httptest.NewRecorder()

		h.GetByID(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GetByID")
	})
}

func TestOfferHandler_Watch(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Streams initial availability event", func(t *testing.T) {
		sub := &stubSubscriber{updates: make(chan notify.FlagUpdate)}
		offer := model.Offer{
			ID:                 "OF001",
			VendorID:           "V001",
			ScheduleDescriptor: "", // no descriptor fails open to available
		}
		monitor := availability.NewMonitor(offer, sub, availability.MonitorConfig{Interval: time.Hour}, logger)
		require.NoError(t, monitor.Start(context.Background()))

		mockService := new(MockOfferService)
		mockService.On("Watch", mock.Anything, "OF001").Return(monitor, nil)

		h := NewOfferHandler(mockService, logger)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(100*time.Millisecond, cancel)

		req := httptest.NewRequest(http.MethodGet, "/api/offers/OF001/watch", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		h.Watch(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "event: availability")
		assert.Contains(t, rec.Body.String(), `"available":true`)
	})

	t.Run("Offer not found", func(t *testing.T) {
		mockService := new(MockOfferService)
		mockService.On("Watch", mock.Anything, "NOPE").Return(nil, model.ErrOfferNotFound)

		h := NewOfferHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/offers/NOPE/watch", nil)
		rec := httptest.NewRecorder()

		h.Watch(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
