package reservation

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrReservationIsNotConstructed = errors.New("Reservation must be created via NewReservation constructor")

// Reservation is a hold of one item line for one order against the ledger of an assignment.
// It pins the snapshot that was current when it was made. The age sweep measures from heldSince,
// which starts at creation and restarts on restore. After creation only the status moves:
//
//	ACTIVE ──> FULFILLED | CANCELLED
//	ACTIVE ──> EXPIRED (storage sweep)
//	EXPIRED ──> ACTIVE (restore)
type Reservation struct {
	id           kernel.UUID
	orderID      kernel.UUID
	assignmentID kernel.UUID
	snapshotID   kernel.UUID
	item         inventory.ItemRef
	quantity     int
	status       Status
	expiresAt    *time.Time
	heldSince    time.Time
	createdAt    time.Time
	updatedAt    time.Time

	isConstructed bool
}

func NewReservation(
	id kernel.UUID,
	orderID kernel.UUID,
	pointer inventory.Pointer,
	item inventory.ItemRef,
	quantity int,
	expiresAt *time.Time,
	now time.Time,
) (*Reservation, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		pointer.Validate(),
		item.Validate(),
	); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("reservedQuantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if expiresAt != nil {
		if !expiresAt.After(now) {
			return nil, errs.NewValueIsInvalidErrorWithCause("expiresAt", fmt.Errorf("%s is not in the future", expiresAt.UTC()))
		}
		at := expiresAt.UTC()
		expiresAt = &at
	}

	return &Reservation{
		id:            id,
		orderID:       orderID,
		assignmentID:  pointer.AssignmentID,
		snapshotID:    pointer.SnapshotID,
		item:          item,
		quantity:      quantity,
		status:        Active,
		expiresAt:     expiresAt,
		heldSince:     now.UTC(),
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}, nil
}

type State struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	AssignmentID kernel.UUID
	SnapshotID   kernel.UUID
	Item         inventory.ItemRef
	Quantity     int
	Status       Status
	ExpiresAt    *time.Time
	HeldSince    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func RestoreReservation(s State) (*Reservation, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.AssignmentID.Validate(),
		s.Item.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	heldSince := s.HeldSince
	if heldSince.IsZero() {
		heldSince = s.CreatedAt
	}

	return &Reservation{
		id:            s.ID,
		orderID:       s.OrderID,
		assignmentID:  s.AssignmentID,
		snapshotID:    s.SnapshotID,
		item:          s.Item,
		quantity:      s.Quantity,
		status:        s.Status,
		expiresAt:     s.ExpiresAt,
		heldSince:     heldSince,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		isConstructed: true,
	}, nil
}

func (r *Reservation) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReservationIsNotConstructed
	}
	return nil
}

func (r *Reservation) ID() kernel.UUID           { return r.id }
func (r *Reservation) OrderID() kernel.UUID      { return r.orderID }
func (r *Reservation) AssignmentID() kernel.UUID { return r.assignmentID }
func (r *Reservation) SnapshotID() kernel.UUID   { return r.snapshotID }
func (r *Reservation) Item() inventory.ItemRef   { return r.item }
func (r *Reservation) Quantity() int             { return r.quantity }
func (r *Reservation) Status() Status            { return r.status }
func (r *Reservation) HeldSince() time.Time      { return r.heldSince }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time      { return r.updatedAt }

// ExpiresAt is nil for holds that only expire through the age threshold.
func (r *Reservation) ExpiresAt() *time.Time {
	if r.expiresAt == nil {
		return nil
	}
	at := *r.expiresAt
	return &at
}

func (r *Reservation) IsActive() bool {
	return r.status == Active
}

func (r *Reservation) Fulfill(now time.Time) error {
	return r.moveFrom(Active, Fulfilled, now)
}

func (r *Reservation) Cancel(now time.Time) error {
	return r.moveFrom(Active, Cancelled, now)
}

// Restore reactivates an expired hold. The explicit expiry is dropped and heldSince restarts at
// now, so the hold ages from the restore rather than from its creation.
func (r *Reservation) Restore(now time.Time) error {
	if err := r.moveFrom(Expired, Active, now); err != nil {
		return err
	}
	r.expiresAt = nil
	r.heldSince = now.UTC()
	return nil
}

func (r *Reservation) moveFrom(from, to Status, now time.Time) error {
	if r.status != from {
		return errs.NewConflictErrorWithCause("reservation status",
			fmt.Errorf("reservation %s is %s, cannot become %s", r.id, r.status, to))
	}
	r.status = to
	r.updatedAt = now.UTC()
	return nil
}
