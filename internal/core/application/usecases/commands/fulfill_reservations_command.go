package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrFulfillReservationsCommandIsNotConstructed = errors.New(
	"FulfillReservationsCommand must be created via NewFulfillReservationsCommand constructor",
)

// FulfillReservationsCommand marks every ACTIVE hold of an order as fulfilled.
type FulfillReservationsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewFulfillReservationsCommand(orderID kernel.UUID) (FulfillReservationsCommand, error) {
	if err := orderID.Validate(); err != nil {
		return FulfillReservationsCommand{}, err
	}

	return FulfillReservationsCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c FulfillReservationsCommand) Validate() error {
	return c.guard.Validate(ErrFulfillReservationsCommandIsNotConstructed)
}

func (c FulfillReservationsCommand) OrderID() kernel.UUID {
	return c.orderID
}
