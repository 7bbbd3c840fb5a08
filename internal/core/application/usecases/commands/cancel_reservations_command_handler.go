package commands

import (
	"context"
	"time"
)

// CancelReservationsCommandHandler returns held stock to the pool. Cancelling an order
// that holds nothing succeeds with zero.
type CancelReservationsCommandHandler struct {
	uowFactory ReservationUoWFactory
}

func NewCancelReservationsCommandHandler(uowFactory ReservationUoWFactory) CancelReservationsCommandHandler {
	return CancelReservationsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the number of holds released.
func (h CancelReservationsCommandHandler) Handle(ctx context.Context, cmd CancelReservationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	released, err := cancelActive(ctx, uow.ReservationRepository(), cmd.OrderID(), time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(released), nil
}
