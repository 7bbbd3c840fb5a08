package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/services"
)

// ExecuteInventoryTransactionCommandHandler runs a ledger transaction through the strategy
// registered for its (type, kind) pair. All legs commit together.
type ExecuteInventoryTransactionCommandHandler struct {
	uowFactory LedgerUoWFactory
	strategies *services.StrategyRegistry
}

func NewExecuteInventoryTransactionCommandHandler(
	uowFactory LedgerUoWFactory,
	strategies *services.StrategyRegistry,
) ExecuteInventoryTransactionCommandHandler {
	return ExecuteInventoryTransactionCommandHandler{
		uowFactory: uowFactory,
		strategies: strategies,
	}
}

// Handle returns the balances after the transaction.
func (h ExecuteInventoryTransactionCommandHandler) Handle(
	ctx context.Context,
	cmd ExecuteInventoryTransactionCommand,
) (inventory.Result, error) {
	if err := cmd.Validate(); err != nil {
		return inventory.Result{}, err
	}

	strategy, err := h.strategies.Resolve(cmd.Request().Type, cmd.Request().Kind())
	if err != nil {
		return inventory.Result{}, err
	}

	if err = strategy.Validate(cmd.Request()); err != nil {
		return inventory.Result{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return inventory.Result{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	result, err := h.strategies.Execute(ctx, uow.LedgerRepository(), cmd.Request())
	if err != nil {
		return inventory.Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return inventory.Result{}, err
	}

	return result, nil
}
