package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ReserveInventoryCommandHandler places holds for an existing order against the current
// snapshot of a location. All items are reserved or none is. An order that already holds
// stock is rejected with a conflict; cancel its holds first.
type ReserveInventoryCommandHandler struct {
	uowFactory ReservationUoWFactory
}

func NewReserveInventoryCommandHandler(uowFactory ReservationUoWFactory) ReserveInventoryCommandHandler {
	return ReserveInventoryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the ids of the created reservations.
func (h ReserveInventoryCommandHandler) Handle(ctx context.Context, cmd ReserveInventoryCommand) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.OrderRepository().Get(ctx, cmd.OrderID()); err != nil {
		return nil, err
	}
	if err := rejectActiveHolds(ctx, uow.ReservationRepository(), cmd.OrderID()); err != nil {
		return nil, err
	}

	ledger := uow.LedgerRepository()
	pointer, err := ledger.ResolveLocation(ctx, cmd.LocationID())
	if err != nil {
		return nil, err
	}

	created, err := reserveItems(ctx, ledger, uow.ReservationRepository(), cmd.OrderID(), pointer,
		cmd.Items(), cmd.ExpiresAt(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(created))
	for _, r := range created {
		ids = append(ids, r.ID())
	}
	return ids, nil
}
