package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/reservation"
)

// ReservationRepository defines the persistence contract for reservations.
type ReservationRepository interface {
	Add(ctx context.Context, reservations ...*reservation.Reservation) error

	// Update persists status changes.
	Update(ctx context.Context, reservations ...*reservation.Reservation) error

	// ListByOrder returns the order's reservations in the given status, oldest first, locking
	// the returned rows.
	ListByOrder(ctx context.Context, orderID kernel.UUID, status reservation.Status) ([]*reservation.Reservation, error)

	// SumActive returns the quantity held by ACTIVE reservations on one ledger line.
	SumActive(ctx context.Context, assignmentID kernel.UUID, item inventory.ItemRef) (int, error)

	// ExpireStale moves ACTIVE reservations held since before heldBefore, or whose expiresAt
	// is before now, to EXPIRED. Returns the number of rows changed.
	ExpireStale(ctx context.Context, heldBefore, now time.Time) (int64, error)
}
