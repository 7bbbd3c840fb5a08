package commands

import "context"

// BulkStatusTransitionCommandHandler runs each transition in its own transaction.
type BulkStatusTransitionCommandHandler struct {
	single PerformTransitionCommandHandler
}

func NewBulkStatusTransitionCommandHandler(single PerformTransitionCommandHandler) BulkStatusTransitionCommandHandler {
	return BulkStatusTransitionCommandHandler{single: single}
}

func (h BulkStatusTransitionCommandHandler) Handle(ctx context.Context, cmds []PerformTransitionCommand) BulkResult {
	return runBulk(ctx, cmds, PerformTransitionCommand.OrderID, h.single.Handle)
}

// BulkReserveItemsCommandHandler reserves for each order independently.
type BulkReserveItemsCommandHandler struct {
	single ReserveInventoryCommandHandler
}

func NewBulkReserveItemsCommandHandler(single ReserveInventoryCommandHandler) BulkReserveItemsCommandHandler {
	return BulkReserveItemsCommandHandler{single: single}
}

func (h BulkReserveItemsCommandHandler) Handle(ctx context.Context, cmds []ReserveInventoryCommand) BulkResult {
	return runBulk(ctx, cmds, ReserveInventoryCommand.OrderID, func(ctx context.Context, cmd ReserveInventoryCommand) error {
		_, err := h.single.Handle(ctx, cmd)
		return err
	})
}

// BulkCancelReservationsCommandHandler releases the holds of each order independently.
type BulkCancelReservationsCommandHandler struct {
	single CancelReservationsCommandHandler
}

func NewBulkCancelReservationsCommandHandler(single CancelReservationsCommandHandler) BulkCancelReservationsCommandHandler {
	return BulkCancelReservationsCommandHandler{single: single}
}

func (h BulkCancelReservationsCommandHandler) Handle(ctx context.Context, cmds []CancelReservationsCommand) BulkResult {
	return runBulk(ctx, cmds, CancelReservationsCommand.OrderID, func(ctx context.Context, cmd CancelReservationsCommand) error {
		_, err := h.single.Handle(ctx, cmd)
		return err
	})
}

