package commands

import (
	"context"
	"time"
)

// ExpireReservationsCommandHandler is run by the periodic sweep. Expired holds stop counting
// against availability at commit.
type ExpireReservationsCommandHandler struct {
	uowFactory ReservationUoWFactory
}

func NewExpireReservationsCommandHandler(uowFactory ReservationUoWFactory) ExpireReservationsCommandHandler {
	return ExpireReservationsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the number of holds expired.
func (h ExpireReservationsCommandHandler) Handle(ctx context.Context, cmd ExpireReservationsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expired, err := uow.ReservationRepository().ExpireStale(ctx, now.Add(-cmd.Threshold()), now)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return expired, nil
}
