package service

import (
	"context"

	"lastcall/internal/model"
	"lastcall/internal/notify"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Offer, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepository) SetAvailability(ctx context.Context, id string, available bool) (*model.Offer, error) {
	args := m.Called(ctx, id, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepository) UpdateVendorSchedule(ctx context.Context, vendorID, descriptor string) ([]model.Offer, error) {
	args := m.Called(ctx, vendorID, descriptor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListLines(ctx context.Context, customerID string) ([]model.CartLine, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockCartRepository) ListLinesWithOffers(ctx context.Context, customerID string) ([]model.CartLineWithOffer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLineWithOffer), args.Error(1)
}

func (m *MockCartRepository) UpsertLine(ctx context.Context, line *model.CartLine) (*model.CartLine, error) {
	args := m.Called(ctx, line)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, customerID, offerID string, quantity int) (*model.CartLine, error) {
	args := m.Called(ctx, customerID, offerID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockCartRepository) DeleteLine(ctx context.Context, customerID, offerID string) error {
	args := m.Called(ctx, customerID, offerID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteLinesByOffers(ctx context.Context, customerID string, offerIDs []string) error {
	args := m.Called(ctx, customerID, offerIDs)
	return args.Error(0)
}

func (m *MockCartRepository) ClearTx(ctx context.Context, tx pgx.Tx, customerID string) error {
	args := m.Called(ctx, tx, customerID)
	return args.Error(0)
}

func (m *MockCartRepository) CountLines(ctx context.Context, customerID string) (int, error) {
	args := m.Called(ctx, customerID)
	return args.Int(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateRecords(ctx context.Context, tx pgx.Tx, records []model.OrderRecord) error {
	args := m.Called(ctx, tx, records)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.OrderRecord, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderRecord), args.Error(1)
}

// MockBroker is a mock implementation of notify.Broker.
type MockBroker struct {
	mock.Mock
}

func (m *MockBroker) PublishFlag(ctx context.Context, update notify.FlagUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockBroker) PublishCartChange(ctx context.Context, change notify.CartChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockBroker) SubscribeFlag(ctx context.Context, offerID string) (<-chan notify.FlagUpdate, func(), error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(chan notify.FlagUpdate), args.Get(1).(func()), args.Error(2)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
