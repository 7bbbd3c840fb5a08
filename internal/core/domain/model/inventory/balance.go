package inventory

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Balance is the on-hand state of one ledger line. Tank lines use Full and Empty,
// item lines use Quantity.
type Balance struct {
	Kind     EntityKind
	Full     int
	Empty    int
	Quantity int
}

// OnHand is the quantity a reservation can hold: full tanks for tank lines,
// the unit count for item lines.
func (b Balance) OnHand() int {
	if b.Kind == Tank {
		return b.Full
	}
	return b.Quantity
}

// In returns the quantity held in bucket.
func (b Balance) In(bucket Bucket) int {
	switch bucket {
	case Full:
		return b.Full
	case Empty:
		return b.Empty
	default:
		return b.Quantity
	}
}

// Apply returns the balance after posting. A posting that would take a bucket below zero
// fails with a conflict and leaves b untouched.
func (b Balance) Apply(p Posting) (Balance, error) {
	if err := p.Bucket.ValidateFor(b.Kind); err != nil {
		return b, err
	}

	next := b
	switch p.Bucket {
	case Full:
		next.Full += p.Delta
	case Empty:
		next.Empty += p.Delta
	default:
		next.Quantity += p.Delta
	}

	if next.In(p.Bucket) < 0 {
		return b, errs.NewConflictErrorWithCause("insufficient stock", fmt.Errorf(
			"%s stock is %d, cannot remove %d", bucketLabel(b.Kind, p.Bucket), b.In(p.Bucket), -p.Delta))
	}
	return next, nil
}

func bucketLabel(kind EntityKind, bucket Bucket) string {
	if kind == Tank {
		return bucket.String() + "-tank"
	}
	return "item"
}

// Posting is one signed delta applied to one bucket of a ledger line.
type Posting struct {
	Bucket Bucket
	Delta  int
}

// Leg is a posting bound to the assignment whose ledger it changes.
type Leg struct {
	AssignmentID kernel.UUID
	Posting      Posting
}

// Result is returned by a ledger transaction so callers can reconcile availability without
// reading the ledger again. Target is set for transfers only.
type Result struct {
	TransactionID kernel.UUID
	Type          TransactionType
	Item          ItemRef
	AssignmentID  kernel.UUID
	Balance       Balance
	Target        *TargetBalance
}

type TargetBalance struct {
	AssignmentID kernel.UUID
	Balance      Balance
}

// Pointer is the current snapshot of an assignment's ledger. Location management swaps
// SnapshotID; reservations keep the snapshot they were made against.
type Pointer struct {
	AssignmentID kernel.UUID
	LocationID   kernel.UUID
	SnapshotID   kernel.UUID
}

func (p Pointer) Validate() error {
	if err := p.AssignmentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("assignmentId", err)
	}
	if err := p.LocationID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("locationId", err)
	}
	if err := p.SnapshotID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("snapshotId", err)
	}
	return nil
}
