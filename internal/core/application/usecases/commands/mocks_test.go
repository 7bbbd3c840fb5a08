package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) NextNumber(ctx context.Context, year int) (order.Number, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(order.Number), args.Error(1)
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Append(ctx context.Context, entry order.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.HistoryEntry, error) {
	args := m.Called(ctx, orderID)
	entries, _ := args.Get(0).([]order.HistoryEntry)
	return entries, args.Error(1)
}

type MockReservationRepository struct{ mock.Mock }

func (m *MockReservationRepository) Add(ctx context.Context, rs ...*reservation.Reservation) error {
	args := m.Called(ctx, rs)
	return args.Error(0)
}

func (m *MockReservationRepository) Update(ctx context.Context, rs ...*reservation.Reservation) error {
	args := m.Called(ctx, rs)
	return args.Error(0)
}

func (m *MockReservationRepository) ListByOrder(
	ctx context.Context,
	orderID kernel.UUID,
	status reservation.Status,
) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, orderID, status)
	rs, _ := args.Get(0).([]*reservation.Reservation)
	return rs, args.Error(1)
}

func (m *MockReservationRepository) SumActive(
	ctx context.Context,
	assignmentID kernel.UUID,
	item inventory.ItemRef,
) (int, error) {
	args := m.Called(ctx, assignmentID, item)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) ExpireStale(ctx context.Context, heldBefore, now time.Time) (int64, error) {
	args := m.Called(ctx, heldBefore, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockLedgerRepository struct{ mock.Mock }

func (m *MockLedgerRepository) ResolveLocation(ctx context.Context, locationID kernel.UUID) (inventory.Pointer, error) {
	args := m.Called(ctx, locationID)
	return args.Get(0).(inventory.Pointer), args.Error(1)
}

func (m *MockLedgerRepository) Pointer(ctx context.Context, assignmentID kernel.UUID) (inventory.Pointer, error) {
	args := m.Called(ctx, assignmentID)
	return args.Get(0).(inventory.Pointer), args.Error(1)
}

func (m *MockLedgerRepository) SwitchSnapshot(ctx context.Context, pointer inventory.Pointer) error {
	args := m.Called(ctx, pointer)
	return args.Error(0)
}

func (m *MockLedgerRepository) Balance(
	ctx context.Context,
	assignmentID kernel.UUID,
	item inventory.ItemRef,
	forUpdate bool,
) (inventory.Balance, error) {
	args := m.Called(ctx, assignmentID, item, forUpdate)
	return args.Get(0).(inventory.Balance), args.Error(1)
}

func (m *MockLedgerRepository) Lock(ctx context.Context, item inventory.ItemRef, assignmentIDs ...kernel.UUID) error {
	args := m.Called(ctx, item, assignmentIDs)
	return args.Error(0)
}

func (m *MockLedgerRepository) Post(
	ctx context.Context,
	assignmentID kernel.UUID,
	item inventory.ItemRef,
	posting inventory.Posting,
	entry inventory.LogEntry,
) (inventory.Balance, error) {
	args := m.Called(ctx, assignmentID, item, posting, entry)
	return args.Get(0).(inventory.Balance), args.Error(1)
}

// MockUoW serves every repository, so it satisfies each unit of work interface.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) HistoryRepository() ports.HistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.HistoryRepository)
}

func (m *MockUoW) ReservationRepository() ports.ReservationRepository {
	args := m.Called()
	return args.Get(0).(ports.ReservationRepository)
}

func (m *MockUoW) LedgerRepository() ports.LedgerRepository {
	args := m.Called()
	return args.Get(0).(ports.LedgerRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockReservationUoWFactory struct{ mock.Mock }

func (m *MockReservationUoWFactory) Create() commands.ReservationUoW {
	args := m.Called()
	return args.Get(0).(commands.ReservationUoW)
}

type MockLedgerUoWFactory struct{ mock.Mock }

func (m *MockLedgerUoWFactory) Create() commands.LedgerUoW {
	args := m.Called()
	return args.Get(0).(commands.LedgerUoW)
}

// fixture holds one mocked unit of work with all of its repositories wired.
type fixture struct {
	uow          *MockUoW
	orders       *MockOrderRepository
	history      *MockHistoryRepository
	reservations *MockReservationRepository
	ledger       *MockLedgerRepository
}

func newFixture() *fixture {
	f := &fixture{
		uow:          new(MockUoW),
		orders:       new(MockOrderRepository),
		history:      new(MockHistoryRepository),
		reservations: new(MockReservationRepository),
		ledger:       new(MockLedgerRepository),
	}
	f.uow.On("OrderRepository").Return(f.orders).Maybe()
	f.uow.On("HistoryRepository").Return(f.history).Maybe()
	f.uow.On("ReservationRepository").Return(f.reservations).Maybe()
	f.uow.On("LedgerRepository").Return(f.ledger).Maybe()
	return f
}

func (f *fixture) assert(t mock.TestingT) {
	f.uow.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.history.AssertExpectations(t)
	f.reservations.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}
