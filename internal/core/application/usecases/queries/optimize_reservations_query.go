package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrOptimizeReservationsQueryIsNotConstructed = errors.New(
	"OptimizeReservationsQuery must be created via NewOptimizeReservationsQuery constructor",
)

// OptimizeReservationsQuery suggests which holds to release so every over-reserved line fits
// its on-hand stock again. Nothing is released; operators act on the suggestions.
type OptimizeReservationsQuery struct {
	locationID *kernel.UUID
	guard      guard.ConstructorGuard
}

func NewOptimizeReservationsQuery(locationID *kernel.UUID) (OptimizeReservationsQuery, error) {
	if locationID != nil {
		if err := locationID.Validate(); err != nil {
			return OptimizeReservationsQuery{}, err
		}
	}
	return OptimizeReservationsQuery{locationID: locationID, guard: guard.NewConstructorGuard()}, nil
}

func (q OptimizeReservationsQuery) Validate() error {
	return q.guard.Validate(ErrOptimizeReservationsQueryIsNotConstructed)
}

func (q OptimizeReservationsQuery) LocationID() *kernel.UUID {
	return q.locationID
}

type OptimizeReservationsQueryResponse struct {
	Suggestions      []services.Suggestion
	ReleasableTotal  int
	AffectedOrderIDs []kernel.UUID
}
