package commands_test

import (
	"errors"
	"slices"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type denyPolicy struct{}

func (denyPolicy) CanTransition(kernel.Actor, order.Status, order.Status) error {
	return errs.NewValueIsInvalidError("actor")
}

func transitionHandler(f *fixture) (commands.PerformTransitionCommandHandler, *MockUoWFactory) {
	factory := new(MockUoWFactory)
	factory.On("Create").Return(f.uow).Once()
	return commands.NewPerformTransitionCommandHandler(factory, services.NewAnyRolePolicy(), services.NewStrategyRegistry()), factory
}

func transition(t *testing.T, o *order.Order, from, to order.Status) commands.PerformTransitionCommand {
	t.Helper()
	cmd, err := commands.NewPerformTransitionCommand(o.ID(), from, to, operator(t), "test")
	require.NoError(t, err)
	return cmd
}

func TestPerformTransitionCommandHandler_Confirm(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, order.Pending, nil, nil, tankLine(t, tankRef(t), 1))

	f := newFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
		f.history.On("Append", ctx, mock.MatchedBy(func(e order.HistoryEntry) bool {
			return *e.FromStatus() == order.Pending && e.ToStatus() == order.Confirmed && e.Reason() == "test"
		})).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	h, factory := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Pending, order.Confirmed))

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, o.Status())
	require.Len(t, o.DomainEvents(), 1)
	f.assert(t)
	factory.AssertExpectations(t)
}

func TestPerformTransitionCommandHandler_StaleFromStatus(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, order.Confirmed, nil, nil, tankLine(t, tankRef(t), 1))

	f := newFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Pending, order.Confirmed))

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.assert(t)
}

func TestPerformTransitionCommandHandler_InvalidEdge(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, order.Pending, nil, nil, tankLine(t, tankRef(t), 1))

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Pending, order.Delivered))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
	assert.Equal(t, order.Pending, o.Status())
}

func TestPerformTransitionCommandHandler_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, id).Return(nil, errs.NewObjectNotFoundError("orderId", id)).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	cmd, _ := commands.NewPerformTransitionCommand(id, order.Pending, order.Confirmed, operator(t), "")
	err := h.Handle(ctx, cmd)

	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestPerformTransitionCommandHandler_PolicyDenied(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, order.Pending, nil, nil, tankLine(t, tankRef(t), 1))

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(f.uow).Once()
	h := commands.NewPerformTransitionCommandHandler(factory, denyPolicy{}, services.NewStrategyRegistry())

	err := h.Handle(ctx, transition(t, o, order.Pending, order.Confirmed))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, order.Pending, o.Status())
}

func TestPerformTransitionCommandHandler_ReserveHoldsEveryLine(t *testing.T) {
	ctx := t.Context()
	location := kernel.NewUUID()
	ref := tankRef(t)
	o := orderIn(t, order.Confirmed, &location, nil, tankLine(t, ref, 3))
	p := pointerFor(location)

	f := newFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		f.reservations.On("ListByOrder", ctx, o.ID(), reservation.Active).Return([]*reservation.Reservation{}, nil).Once(),
		f.ledger.On("ResolveLocation", ctx, location).Return(p, nil).Once(),
		f.ledger.On("Balance", ctx, p.AssignmentID, ref, true).
			Return(inventory.Balance{Kind: inventory.Tank, Full: 10, Empty: 2}, nil).Once(),
		f.reservations.On("SumActive", ctx, p.AssignmentID, ref).Return(7, nil).Once(),
		f.reservations.On("Add", ctx, mock.MatchedBy(func(rs []*reservation.Reservation) bool {
			return len(rs) == 1 && rs[0].Quantity() == 3 && rs[0].SnapshotID().IsEqual(p.SnapshotID) &&
				rs[0].Status() == reservation.Active
		})).Return(nil).Once(),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
		f.history.On("Append", ctx, mock.MatchedBy(func(e order.HistoryEntry) bool {
			ids, ok := e.Metadata()["reservationIds"].([]string)
			return ok && len(ids) == 1 && e.Metadata()["assignmentId"] == p.AssignmentID.String()
		})).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Confirmed, order.Reserved))

	require.NoError(t, err)
	assert.Equal(t, order.Reserved, o.Status())
	require.NotNil(t, o.AssignmentID())
	assert.True(t, o.AssignmentID().IsEqual(p.AssignmentID))
	f.assert(t)
}

func TestPerformTransitionCommandHandler_ReserveKeepsExistingHolds(t *testing.T) {
	ctx := t.Context()
	location := kernel.NewUUID()
	ref := tankRef(t)
	o := orderIn(t, order.Confirmed, &location, nil, tankLine(t, ref, 3))
	p := pointerFor(location)
	hold := activeHold(t, o.ID(), p, ref, 3)

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.reservations.On("ListByOrder", ctx, o.ID(), reservation.Active).Return([]*reservation.Reservation{hold}, nil).Once()
	f.orders.On("Update", ctx, o).Return(nil).Once()
	f.history.On("Append", ctx, mock.MatchedBy(func(e order.HistoryEntry) bool {
		ids, _ := e.Metadata()["reservationIds"].([]string)
		return slices.Equal(ids, []string{hold.ID().String()})
	})).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Confirmed, order.Reserved))

	require.NoError(t, err)
	require.NotNil(t, o.AssignmentID())
	assert.True(t, o.AssignmentID().IsEqual(p.AssignmentID))
	f.ledger.AssertNotCalled(t, "ResolveLocation", mock.Anything, mock.Anything)
	f.reservations.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.assert(t)
}

func TestPerformTransitionCommandHandler_ReserveInsufficientStock(t *testing.T) {
	ctx := t.Context()
	location := kernel.NewUUID()
	ref := tankRef(t)
	o := orderIn(t, order.Confirmed, &location, nil, tankLine(t, ref, 1))
	p := pointerFor(location)

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.reservations.On("ListByOrder", ctx, o.ID(), reservation.Active).Return([]*reservation.Reservation{}, nil).Once()
	f.ledger.On("ResolveLocation", ctx, location).Return(p, nil).Once()
	f.ledger.On("Balance", ctx, p.AssignmentID, ref, true).
		Return(inventory.Balance{Kind: inventory.Tank, Full: 10}, nil).Once()
	f.reservations.On("SumActive", ctx, p.AssignmentID, ref).Return(10, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Confirmed, order.Reserved))

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Contains(t, err.Error(), "available 0")
	f.reservations.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestPerformTransitionCommandHandler_ReserveWithoutLocation(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, order.Confirmed, nil, nil, tankLine(t, tankRef(t), 1))

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Confirmed, order.Reserved))

	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
}

func TestPerformTransitionCommandHandler_DeliverSellsAndFulfills(t *testing.T) {
	ctx := t.Context()
	location := kernel.NewUUID()
	ref := tankRef(t)
	p := pointerFor(location)
	o := orderIn(t, order.InTransit, &location, &p.AssignmentID, tankLine(t, ref, 2))
	hold := activeHold(t, o.ID(), p, ref, 2)

	f := newFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		f.ledger.On("Lock", ctx, ref, []kernel.UUID{p.AssignmentID}).Return(nil).Once(),
		f.ledger.On("Post", ctx, p.AssignmentID, ref, inventory.Posting{Bucket: inventory.Full, Delta: -2}, mock.Anything).
			Return(inventory.Balance{Kind: inventory.Tank, Full: 3, Empty: 1}, nil).Once(),
		f.ledger.On("Post", ctx, p.AssignmentID, ref, inventory.Posting{Bucket: inventory.Empty, Delta: 2}, mock.Anything).
			Return(inventory.Balance{Kind: inventory.Tank, Full: 3, Empty: 3}, nil).Once(),
		f.reservations.On("ListByOrder", ctx, o.ID(), reservation.Active).
			Return([]*reservation.Reservation{hold}, nil).Once(),
		f.reservations.On("Update", ctx, mock.Anything).Return(nil).Once(),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
		f.history.On("Append", ctx, mock.MatchedBy(func(e order.HistoryEntry) bool {
			ids, _ := e.Metadata()["fulfilledReservationIds"].([]string)
			return slices.Equal(ids, []string{hold.ID().String()})
		})).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.InTransit, order.Delivered))

	require.NoError(t, err)
	assert.Equal(t, reservation.Fulfilled, hold.Status())
	f.assert(t)
}

func TestPerformTransitionCommandHandler_DeliverLocksLinesInItemOrder(t *testing.T) {
	ctx := t.Context()
	location := kernel.NewUUID()
	p := pointerFor(location)
	low, high := tankRef(t), tankRef(t)
	if low.Compare(high) > 0 {
		low, high = high, low
	}
	o := orderIn(t, order.InTransit, &location, &p.AssignmentID, tankLine(t, high, 1), tankLine(t, low, 2))

	var locked []inventory.ItemRef
	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.ledger.On("Lock", ctx, mock.Anything, []kernel.UUID{p.AssignmentID}).
		Run(func(args mock.Arguments) { locked = append(locked, args.Get(1).(inventory.ItemRef)) }).
		Return(nil).Twice()
	f.ledger.On("Post", ctx, p.AssignmentID, mock.Anything, mock.Anything, mock.Anything).
		Return(inventory.Balance{Kind: inventory.Tank, Full: 5, Empty: 5}, nil).Times(4)
	f.reservations.On("ListByOrder", ctx, o.ID(), reservation.Active).Return([]*reservation.Reservation{}, nil).Once()
	f.orders.On("Update", ctx, o).Return(nil).Once()
	f.history.On("Append", ctx, mock.Anything).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.InTransit, order.Delivered))

	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.True(t, locked[0].IsEqual(low))
	assert.True(t, locked[1].IsEqual(high))
	f.assert(t)
}

func TestPerformTransitionCommandHandler_DeliverSaleFailsRollsBack(t *testing.T) {
	ctx := t.Context()
	location := kernel.NewUUID()
	ref := tankRef(t)
	p := pointerFor(location)
	o := orderIn(t, order.InTransit, &location, &p.AssignmentID, tankLine(t, ref, 2))

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.ledger.On("Lock", ctx, ref, mock.Anything).Return(nil).Once()
	f.ledger.On("Post", ctx, p.AssignmentID, ref, mock.Anything, mock.Anything).
		Return(inventory.Balance{}, errs.NewConflictError("insufficient stock")).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.InTransit, order.Delivered))

	require.ErrorIs(t, err, errs.ErrConflict)
	f.reservations.AssertNotCalled(t, "ListByOrder", mock.Anything, mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestPerformTransitionCommandHandler_CancelReleasesHolds(t *testing.T) {
	ctx := t.Context()
	location := kernel.NewUUID()
	ref := tankRef(t)
	p := pointerFor(location)
	o := orderIn(t, order.Reserved, &location, &p.AssignmentID, tankLine(t, ref, 1))
	hold := activeHold(t, o.ID(), p, ref, 1)

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.reservations.On("ListByOrder", ctx, o.ID(), reservation.Active).Return([]*reservation.Reservation{hold}, nil).Once()
	f.reservations.On("Update", ctx, []*reservation.Reservation{hold}).Return(nil).Once()
	f.orders.On("Update", ctx, o).Return(nil).Once()
	f.history.On("Append", ctx, mock.Anything).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Reserved, order.Cancelled))

	require.NoError(t, err)
	assert.Equal(t, reservation.Cancelled, hold.Status())
	f.assert(t)
}

func TestPerformTransitionCommandHandler_RetryRestoresExpiredHolds(t *testing.T) {
	ctx := t.Context()
	location := kernel.NewUUID()
	ref := tankRef(t)
	p := pointerFor(location)
	o := orderIn(t, order.Failed, &location, &p.AssignmentID, tankLine(t, ref, 2))
	hold := expiredHold(t, o.ID(), p, ref, 2)

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.reservations.On("ListByOrder", ctx, o.ID(), reservation.Expired).Return([]*reservation.Reservation{hold}, nil).Once()
	f.ledger.On("Balance", ctx, p.AssignmentID, ref, true).Return(inventory.Balance{Kind: inventory.Tank, Full: 2}, nil).Once()
	f.reservations.On("SumActive", ctx, p.AssignmentID, ref).Return(0, nil).Once()
	f.reservations.On("Update", ctx, mock.Anything).Return(nil).Once()
	f.orders.On("Update", ctx, o).Return(nil).Once()
	f.history.On("Append", ctx, mock.Anything).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Failed, order.InTransit))

	require.NoError(t, err)
	assert.Equal(t, reservation.Active, hold.Status())
	assert.Equal(t, order.InTransit, o.Status())
	f.assert(t)
}

func TestPerformTransitionCommandHandler_UpdateErrorSkipsHistory(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, order.Pending, nil, nil, tankLine(t, tankRef(t), 1))

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.orders.On("Update", ctx, o).Return(errors.New("update error")).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	h, _ := transitionHandler(f)

	err := h.Handle(ctx, transition(t, o, order.Pending, order.Confirmed))

	require.EqualError(t, err, "update error")
	f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}
