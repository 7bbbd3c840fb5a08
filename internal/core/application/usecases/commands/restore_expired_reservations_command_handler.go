package commands

import (
	"context"
	"time"
)

type RestoreExpiredReservationsCommandHandler struct {
	uowFactory ReservationUoWFactory
}

func NewRestoreExpiredReservationsCommandHandler(
	uowFactory ReservationUoWFactory,
) RestoreExpiredReservationsCommandHandler {
	return RestoreExpiredReservationsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the number of holds restored. Restoring fails with a conflict when the
// stock an expired hold needs has been taken meanwhile.
func (h RestoreExpiredReservationsCommandHandler) Handle(
	ctx context.Context,
	cmd RestoreExpiredReservationsCommand,
) (int, error) {
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

	restored, err := restoreExpired(ctx, uow.LedgerRepository(), uow.ReservationRepository(), cmd.OrderID(), time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(restored), nil
}
