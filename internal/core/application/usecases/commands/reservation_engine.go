package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// reserveItems places one ACTIVE hold per merged requirement on the pointer's ledger.
//
// Every ledger line is locked before its holds are summed, so a concurrent reservation of the
// same line waits until this transaction ends and then sees the new holds. Lines are locked in
// ItemRef order. Either every hold is inserted or none is.
func reserveItems(
	ctx context.Context,
	ledger ports.LedgerRepository,
	holds ports.ReservationRepository,
	orderID kernel.UUID,
	pointer inventory.Pointer,
	reqs []inventory.Requirement,
	expiresAt *time.Time,
	now time.Time,
) ([]*reservation.Reservation, error) {
	if len(reqs) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	merged := inventory.MergeRequirements(reqs)
	created := make([]*reservation.Reservation, 0, len(merged))
	for _, req := range merged {
		if err := checkAvailable(ctx, ledger, holds, pointer.AssignmentID, req); err != nil {
			return nil, err
		}

		r, err := reservation.NewReservation(kernel.NewUUID(), orderID, pointer, req.Item, req.Quantity, expiresAt, now)
		if err != nil {
			return nil, err
		}
		created = append(created, r)
	}

	if err := holds.Add(ctx, created...); err != nil {
		return nil, err
	}
	return created, nil
}

// rejectActiveHolds fails with a conflict when the order already holds stock, so a second
// reservation call cannot count the same order twice against availability.
func rejectActiveHolds(ctx context.Context, holds ports.ReservationRepository, orderID kernel.UUID) error {
	active, err := holds.ListByOrder(ctx, orderID, reservation.Active)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return errs.NewConflictErrorWithCause("orderId",
			fmt.Errorf("order %s already holds %d active reservations", orderID, len(active)))
	}
	return nil
}

func checkAvailable(
	ctx context.Context,
	ledger ports.LedgerRepository,
	holds ports.ReservationRepository,
	assignmentID kernel.UUID,
	req inventory.Requirement,
) error {
	if req.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", req.Quantity))
	}

	balance, err := ledger.Balance(ctx, assignmentID, req.Item, true)
	if err != nil {
		return err
	}

	reserved, err := holds.SumActive(ctx, assignmentID, req.Item)
	if err != nil {
		return err
	}

	return inventory.NewAvailability(req.Item, req.Quantity, balance.OnHand(), reserved).Err()
}

// settleActive moves every ACTIVE hold of the order with move. An order without active
// holds is not an error.
func settleActive(
	ctx context.Context,
	holds ports.ReservationRepository,
	orderID kernel.UUID,
	move func(*reservation.Reservation) error,
) ([]*reservation.Reservation, error) {
	active, err := holds.ListByOrder(ctx, orderID, reservation.Active)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}

	for _, r := range active {
		if err = move(r); err != nil {
			return nil, err
		}
	}

	if err = holds.Update(ctx, active...); err != nil {
		return nil, err
	}
	return active, nil
}

func fulfillActive(
	ctx context.Context,
	holds ports.ReservationRepository,
	orderID kernel.UUID,
	now time.Time,
) ([]*reservation.Reservation, error) {
	return settleActive(ctx, holds, orderID, func(r *reservation.Reservation) error { return r.Fulfill(now) })
}

func cancelActive(
	ctx context.Context,
	holds ports.ReservationRepository,
	orderID kernel.UUID,
	now time.Time,
) ([]*reservation.Reservation, error) {
	return settleActive(ctx, holds, orderID, func(r *reservation.Reservation) error { return r.Cancel(now) })
}

// restoreExpired reactivates the order's EXPIRED holds after checking that the stock they
// need is still free. Fails with a conflict, restoring nothing, when any line falls short.
func restoreExpired(
	ctx context.Context,
	ledger ports.LedgerRepository,
	holds ports.ReservationRepository,
	orderID kernel.UUID,
	now time.Time,
) ([]*reservation.Reservation, error) {
	expired, err := holds.ListByOrder(ctx, orderID, reservation.Expired)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	type line struct {
		assignmentID kernel.UUID
		item         inventory.ItemRef
	}
	needed := make(map[line]int)
	keys := make([]line, 0, len(expired))
	for _, r := range expired {
		key := line{assignmentID: r.AssignmentID(), item: r.Item()}
		if _, seen := needed[key]; !seen {
			keys = append(keys, key)
		}
		needed[key] += r.Quantity()
	}

	for _, key := range sortLines(keys, func(l line) (kernel.UUID, inventory.ItemRef) { return l.assignmentID, l.item }) {
		req := inventory.Requirement{Item: key.item, Quantity: needed[key]}
		if err = checkAvailable(ctx, ledger, holds, key.assignmentID, req); err != nil {
			return nil, err
		}
	}

	for _, r := range expired {
		if err = r.Restore(now); err != nil {
			return nil, err
		}
	}

	if err = holds.Update(ctx, expired...); err != nil {
		return nil, err
	}
	return expired, nil
}

func reservationIDs(rs []*reservation.Reservation) []string {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID().String())
	}
	return ids
}
