package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelReservationsCommandHandler_IsIdempotent(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	hold := activeHold(t, orderID, pointerFor(kernel.NewUUID()), tankRef(t), 2)

	first := newFixture()
	first.uow.On("Begin", ctx).Return(nil).Once()
	first.reservations.On("ListByOrder", ctx, orderID, reservation.Active).Return([]*reservation.Reservation{hold}, nil).Once()
	first.reservations.On("Update", ctx, mock.Anything).Return(nil).Once()
	first.uow.On("Commit", ctx).Return(nil).Once()
	first.uow.On("Rollback", ctx).Return(nil).Once()

	second := newFixture()
	second.uow.On("Begin", ctx).Return(nil).Once()
	second.reservations.On("ListByOrder", ctx, orderID, reservation.Active).Return([]*reservation.Reservation{}, nil).Once()
	second.uow.On("Commit", ctx).Return(nil).Once()
	second.uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockReservationUoWFactory)
	factory.On("Create").Return(first.uow).Once()
	factory.On("Create").Return(second.uow).Once()
	h := commands.NewCancelReservationsCommandHandler(factory)
	cmd, _ := commands.NewCancelReservationsCommand(orderID)

	released, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, reservation.Cancelled, hold.Status())

	released, err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Zero(t, released)
	second.reservations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	first.assert(t)
	second.assert(t)
}

func TestFulfillReservationsCommandHandler(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	holds := []*reservation.Reservation{
		activeHold(t, orderID, pointerFor(kernel.NewUUID()), tankRef(t), 1),
		activeHold(t, orderID, pointerFor(kernel.NewUUID()), tankRef(t), 4),
	}

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.reservations.On("ListByOrder", ctx, orderID, reservation.Active).Return(holds, nil).Once()
	f.reservations.On("Update", ctx, holds).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockReservationUoWFactory)
	factory.On("Create").Return(f.uow).Once()
	cmd, _ := commands.NewFulfillReservationsCommand(orderID)

	n, err := commands.NewFulfillReservationsCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for _, h := range holds {
		assert.Equal(t, reservation.Fulfilled, h.Status())
	}
	f.assert(t)
}

func TestBulkCancelReservationsCommandHandler(t *testing.T) {
	ctx := t.Context()
	good, bad := kernel.NewUUID(), kernel.NewUUID()

	ok := newFixture()
	ok.uow.On("Begin", ctx).Return(nil).Once()
	ok.reservations.On("ListByOrder", ctx, good, reservation.Active).Return([]*reservation.Reservation{}, nil).Once()
	ok.uow.On("Commit", ctx).Return(nil).Once()
	ok.uow.On("Rollback", ctx).Return(nil).Once()

	failing := newFixture()
	failing.uow.On("Begin", ctx).Return(errors.New("connection refused")).Once()

	factory := new(MockReservationUoWFactory)
	factory.On("Create").Return(ok.uow).Once()
	factory.On("Create").Return(failing.uow).Once()
	h := commands.NewBulkCancelReservationsCommandHandler(commands.NewCancelReservationsCommandHandler(factory))

	first, _ := commands.NewCancelReservationsCommand(good)
	second, _ := commands.NewCancelReservationsCommand(bad)
	result := h.Handle(ctx, []commands.CancelReservationsCommand{first, second})

	assert.Len(t, result.Successful, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, errs.KindInternal, result.Failed[0].Kind)
	assert.Equal(t, "connection refused", result.Failed[0].Error)
}

func TestRestoreExpiredReservationsCommandHandler_ConflictWhenStockGone(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	p := pointerFor(kernel.NewUUID())
	ref := tankRef(t)
	hold := expiredHold(t, orderID, p, ref, 3)

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.reservations.On("ListByOrder", ctx, orderID, reservation.Expired).Return([]*reservation.Reservation{hold}, nil).Once()
	f.ledger.On("Balance", ctx, p.AssignmentID, ref, true).Return(inventory.Balance{Kind: inventory.Tank, Full: 4}, nil).Once()
	f.reservations.On("SumActive", ctx, p.AssignmentID, ref).Return(2, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockReservationUoWFactory)
	factory.On("Create").Return(f.uow).Once()
	cmd, _ := commands.NewRestoreExpiredReservationsCommand(orderID)

	_, err := commands.NewRestoreExpiredReservationsCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, reservation.Expired, hold.Status())
	f.reservations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestExpireReservationsCommandHandler(t *testing.T) {
	ctx := t.Context()

	f := newFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.reservations.On("ExpireStale", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		age := time.Since(cutoff)
		return age > 23*time.Hour+59*time.Minute && age < 24*time.Hour+time.Minute
	}), mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockReservationUoWFactory)
	factory.On("Create").Return(f.uow).Once()
	cmd, err := commands.NewExpireReservationsCommand(24)
	require.NoError(t, err)

	n, err := commands.NewExpireReservationsCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	f.assert(t)

	_, err = commands.NewExpireReservationsCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
