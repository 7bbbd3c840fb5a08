package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// PerformTransitionCommandHandler runs an order transition and its side effects in one
// transaction:
//   - into RESERVED: the location's current assignment is attached and every line is reserved,
//     unless the order already holds stock, whose holds are then kept
//   - into DELIVERED: every line is sold from the assignment's ledger and active holds are fulfilled
//   - into CANCELLED: active holds are released
//   - FAILED to IN_TRANSIT: expired holds are restored
//
// The status update and the history entry are written together or not at all. The order's
// StatusChanged event is published by the unit of work after commit.
type PerformTransitionCommandHandler struct {
	uowFactory UoWFactory
	policy     ports.TransitionPolicy
	strategies *services.StrategyRegistry
}

func NewPerformTransitionCommandHandler(
	uowFactory UoWFactory,
	policy ports.TransitionPolicy,
	strategies *services.StrategyRegistry,
) PerformTransitionCommandHandler {
	return PerformTransitionCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		strategies: strategies,
	}
}

func (h PerformTransitionCommandHandler) Handle(ctx context.Context, cmd PerformTransitionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.policy.CanTransition(cmd.Actor(), cmd.From(), cmd.To()); err != nil {
		return err
	}

	entry, err := o.Transition(cmd.From(), cmd.To(), cmd.Actor(), cmd.Reason(), now)
	if err != nil {
		return err
	}

	entry, err = h.applySideEffects(ctx, uow, o, cmd, entry, now)
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.HistoryRepository().Append(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h PerformTransitionCommandHandler) applySideEffects(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	cmd PerformTransitionCommand,
	entry order.HistoryEntry,
	now time.Time,
) (order.HistoryEntry, error) {
	switch {
	case cmd.To() == order.Reserved:
		return h.reserve(ctx, uow, o, cmd, entry, now)

	case cmd.To() == order.Delivered:
		return h.deliver(ctx, uow, o, cmd, entry, now)

	case cmd.To() == order.Cancelled:
		released, err := cancelActive(ctx, uow.ReservationRepository(), o.ID(), now)
		if err != nil {
			return entry, err
		}
		if len(released) > 0 {
			entry = entry.WithMetadata("releasedReservationIds", reservationIDs(released))
		}
		return entry, nil

	case cmd.From() == order.Failed && cmd.To() == order.InTransit:
		restored, err := restoreExpired(ctx, uow.LedgerRepository(), uow.ReservationRepository(), o.ID(), now)
		if err != nil {
			return entry, err
		}
		if len(restored) > 0 {
			entry = entry.WithMetadata("restoredReservationIds", reservationIDs(restored))
		}
		return entry, nil
	}

	return entry, nil
}

func (h PerformTransitionCommandHandler) reserve(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	cmd PerformTransitionCommand,
	entry order.HistoryEntry,
	now time.Time,
) (order.HistoryEntry, error) {
	if o.LocationID() == nil {
		return entry, errs.NewValueIsRequiredErrorWithCause("locationId",
			fmt.Errorf("order %s has no location to reserve from", o.Number()))
	}

	// Holds placed directly before the transition are kept instead of doubled.
	existing, err := uow.ReservationRepository().ListByOrder(ctx, o.ID(), reservation.Active)
	if err != nil {
		return entry, err
	}
	if len(existing) > 0 {
		held := existing[0]
		if err = o.AttachAssignment(held.AssignmentID()); err != nil {
			return entry, err
		}
		return entry.
			WithMetadata("assignmentId", held.AssignmentID().String()).
			WithMetadata("snapshotId", held.SnapshotID().String()).
			WithMetadata("reservationIds", reservationIDs(existing)), nil
	}

	ledger := uow.LedgerRepository()
	pointer, err := ledger.ResolveLocation(ctx, *o.LocationID())
	if err != nil {
		return entry, err
	}

	created, err := reserveItems(ctx, ledger, uow.ReservationRepository(), o.ID(), pointer,
		o.Requirements(), cmd.ReservationExpiresAt(), now)
	if err != nil {
		return entry, err
	}

	if err = o.AttachAssignment(pointer.AssignmentID); err != nil {
		return entry, err
	}

	return entry.
		WithMetadata("assignmentId", pointer.AssignmentID.String()).
		WithMetadata("snapshotId", pointer.SnapshotID.String()).
		WithMetadata("reservationIds", reservationIDs(created)), nil
}

// deliver posts one SALE per ordered item and fulfills the holds placed for them. The sale and
// the fulfilment share the transaction, so availability never counts delivered stock twice.
// Items are posted in ItemRef order, the order reserveItems locks the same lines in.
func (h PerformTransitionCommandHandler) deliver(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	cmd PerformTransitionCommand,
	entry order.HistoryEntry,
	now time.Time,
) (order.HistoryEntry, error) {
	if o.AssignmentID() == nil {
		return entry, errs.NewValueIsRequiredErrorWithCause("assignmentId",
			fmt.Errorf("order %s was never reserved", o.Number()))
	}

	orderID := o.ID()
	ledger := uow.LedgerRepository()
	sales := inventory.MergeRequirements(o.Requirements())
	transactions := make([]string, 0, len(sales))
	for _, sale := range sales {
		result, err := h.strategies.Execute(ctx, ledger, inventory.TransactionRequest{
			Type:         inventory.Sale,
			Item:         sale.Item,
			AssignmentID: *o.AssignmentID(),
			Quantity:     sale.Quantity,
			Actor:        cmd.Actor(),
			Reason:       fmt.Sprintf("delivery of %s", o.Number()),
			OrderID:      &orderID,
		})
		if err != nil {
			return entry, err
		}
		transactions = append(transactions, result.TransactionID.String())
	}

	fulfilled, err := fulfillActive(ctx, uow.ReservationRepository(), o.ID(), now)
	if err != nil {
		return entry, err
	}

	return entry.
		WithMetadata("transactionIds", transactions).
		WithMetadata("fulfilledReservationIds", reservationIDs(fulfilled)), nil
}
