package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRestoreExpiredReservationsCommandIsNotConstructed = errors.New(
	"RestoreExpiredReservationsCommand must be created via NewRestoreExpiredReservationsCommand constructor",
)

// RestoreExpiredReservationsCommand reactivates the EXPIRED holds of an order, for manual intervention.
type RestoreExpiredReservationsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRestoreExpiredReservationsCommand(orderID kernel.UUID) (RestoreExpiredReservationsCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RestoreExpiredReservationsCommand{}, err
	}

	return RestoreExpiredReservationsCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RestoreExpiredReservationsCommand) Validate() error {
	return c.guard.Validate(ErrRestoreExpiredReservationsCommandIsNotConstructed)
}

func (c RestoreExpiredReservationsCommand) OrderID() kernel.UUID {
	return c.orderID
}
