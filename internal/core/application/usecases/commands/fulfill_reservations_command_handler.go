package commands

import (
	"context"
	"time"
)

// FulfillReservationsCommandHandler settles the holds of an order. It is idempotent.
type FulfillReservationsCommandHandler struct {
	uowFactory ReservationUoWFactory
}

func NewFulfillReservationsCommandHandler(uowFactory ReservationUoWFactory) FulfillReservationsCommandHandler {
	return FulfillReservationsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the number of holds fulfilled.
func (h FulfillReservationsCommandHandler) Handle(ctx context.Context, cmd FulfillReservationsCommand) (int, error) {
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

	fulfilled, err := fulfillActive(ctx, uow.ReservationRepository(), cmd.OrderID(), time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(fulfilled), nil
}
