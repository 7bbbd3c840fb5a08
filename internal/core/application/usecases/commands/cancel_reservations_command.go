package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelReservationsCommandIsNotConstructed = errors.New(
	"CancelReservationsCommand must be created via NewCancelReservationsCommand constructor",
)

// CancelReservationsCommand releases every ACTIVE hold of an order.
type CancelReservationsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelReservationsCommand(orderID kernel.UUID) (CancelReservationsCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelReservationsCommand{}, err
	}

	return CancelReservationsCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelReservationsCommand) Validate() error {
	return c.guard.Validate(ErrCancelReservationsCommandIsNotConstructed)
}

func (c CancelReservationsCommand) OrderID() kernel.UUID {
	return c.orderID
}
