package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler creates an order with a freshly allocated number and writes its
// creation history entry in the same transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the number allocated to the new order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (order.Number, error) {
	if err := cmd.Validate(); err != nil {
		return order.Number{}, err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Number{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	number, err := orderRepo.NextNumber(ctx, now.Year())
	if err != nil {
		return order.Number{}, err
	}

	o, err := order.NewOrder(cmd.OrderID(), number, cmd.LocationID(), cmd.Lines(), cmd.Priority(), cmd.Actor(), now)
	if err != nil {
		return order.Number{}, err
	}

	created, err := o.CreationEntry(cmd.Actor())
	if err != nil {
		return order.Number{}, err
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return order.Number{}, err
	}

	if err = uow.HistoryRepository().Append(ctx, created); err != nil {
		return order.Number{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Number{}, err
	}

	return number, nil
}
