package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrFindConflictingReservationsQueryIsNotConstructed = errors.New(
	"FindConflictingReservationsQuery must be created via NewFindConflictingReservationsQuery constructor",
)

// FindConflictingReservationsQuery scans ACTIVE reservations for ledger lines whose holds exceed
// on-hand stock. A nil locationID scans every location.
type FindConflictingReservationsQuery struct {
	locationID *kernel.UUID
	guard      guard.ConstructorGuard
}

func NewFindConflictingReservationsQuery(locationID *kernel.UUID) (FindConflictingReservationsQuery, error) {
	if locationID != nil {
		if err := locationID.Validate(); err != nil {
			return FindConflictingReservationsQuery{}, err
		}
	}
	return FindConflictingReservationsQuery{locationID: locationID, guard: guard.NewConstructorGuard()}, nil
}

func (q FindConflictingReservationsQuery) Validate() error {
	return q.guard.Validate(ErrFindConflictingReservationsQueryIsNotConstructed)
}

func (q FindConflictingReservationsQuery) LocationID() *kernel.UUID {
	return q.locationID
}

// FindConflictingReservationsQueryResponse lists conflicts by shortfall, largest first.
// Holds within a conflict are oldest first.
type FindConflictingReservationsQueryResponse struct {
	Conflicts []services.Conflict
}
