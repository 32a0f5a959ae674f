package handler

import (
	"context"

	"lastcall/internal/availability"
	"lastcall/internal/model"
	"lastcall/internal/notify"

	"github.com/stretchr/testify/mock"
)

// MockOfferService is a mock implementation of OfferService.
type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) List(ctx context.Context, limit, offset int) ([]model.OfferView, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OfferView), args.Error(1)
}

func (m *MockOfferService) GetByID(ctx context.Context, id string) (*model.OfferView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OfferView), args.Error(1)
}

func (m *MockOfferService) Watch(ctx context.Context, id string) (*availability.Monitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.Monitor), args.Error(1)
}

func (m *MockOfferService) SetAvailability(ctx context.Context, id string, available bool) (*model.OfferView, error) {
	args := m.Called(ctx, id, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OfferView), args.Error(1)
}

func (m *MockOfferService) UpdateVendorSchedule(ctx context.Context, vendorID, descriptor string) error {
	args := m.Called(ctx, vendorID, descriptor)
	return args.Error(0)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, customerID string) (*model.CartResponse, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartResponse), args.Error(1)
}

func (m *MockCartService) AddLine(ctx context.Context, customerID string, req *model.CartLineRequest) (*model.CartLine, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, customerID, offerID string, quantity int) (*model.CartLine, error) {
	args := m.Called(ctx, customerID, offerID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartService) RemoveLine(ctx context.Context, customerID, offerID string) error {
	args := m.Called(ctx, customerID, offerID)
	return args.Error(0)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, customerID string) (*model.CheckoutResult, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

func (m *MockCheckoutService) ListOrders(ctx context.Context, customerID string) ([]model.OrderRecord, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderRecord), args.Error(1)
}

// stubSubscriber backs a real availability monitor in streaming tests.
type stubSubscriber struct {
	updates chan notify.FlagUpdate
}

func (s *stubSubscriber) SubscribeFlag(ctx context.Context, offerID string) (<-chan notify.FlagUpdate, func(), error) {
	return s.updates, func() {}, nil
}
