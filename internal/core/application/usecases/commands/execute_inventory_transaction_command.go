package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/guard"
)

var ErrExecuteInventoryTransactionCommandIsNotConstructed = errors.New(
	"ExecuteInventoryTransactionCommand must be created via NewExecuteInventoryTransactionCommand constructor",
)

// ExecuteInventoryTransactionCommand posts one ledger transaction. Type-specific validation is
// left to the strategy so the rules live in one place.
type ExecuteInventoryTransactionCommand struct { //nolint:recvcheck //using for validation
	request inventory.TransactionRequest

	guard guard.ConstructorGuard
}

func NewExecuteInventoryTransactionCommand(
	request inventory.TransactionRequest,
) (ExecuteInventoryTransactionCommand, error) {
	if err := errors.Join(
		request.Type.Validate(),
		request.Item.Validate(),
		request.AssignmentID.Validate(),
		request.Actor.Validate(),
	); err != nil {
		return ExecuteInventoryTransactionCommand{}, err
	}

	return ExecuteInventoryTransactionCommand{
		request: request,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ExecuteInventoryTransactionCommand) Validate() error {
	return c.guard.Validate(ErrExecuteInventoryTransactionCommandIsNotConstructed)
}

func (c ExecuteInventoryTransactionCommand) Request() inventory.TransactionRequest {
	return c.request
}
