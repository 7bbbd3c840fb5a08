package queries

import (
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCheckAvailabilityQueryIsNotConstructed = errors.New(
	"CheckAvailabilityQuery must be created via NewCheckAvailabilityQuery constructor",
)

// CheckAvailabilityQuery asks whether a location can serve the given items right now.
//
// Example:
//
//	query, err := NewCheckAvailabilityQuery(locationID, []inventory.Requirement{{Item: tankRef, Quantity: 3}})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, query)
//	if !result.Sufficient {
//	    // at least one item is short
//	}
type CheckAvailabilityQuery struct {
	locationID kernel.UUID
	items      []inventory.Requirement
	guard      guard.ConstructorGuard
}

func NewCheckAvailabilityQuery(locationID kernel.UUID, items []inventory.Requirement) (CheckAvailabilityQuery, error) {
	if err := locationID.Validate(); err != nil {
		return CheckAvailabilityQuery{}, errs.NewValueIsRequiredErrorWithCause("locationId", err)
	}
	if len(items) == 0 {
		return CheckAvailabilityQuery{}, errs.NewValueIsRequiredError("items")
	}

	validated := make([]inventory.Requirement, 0, len(items))
	for _, item := range items {
		req, err := inventory.NewRequirement(item.Item, item.Quantity)
		if err != nil {
			return CheckAvailabilityQuery{}, err
		}
		validated = append(validated, req)
	}

	return CheckAvailabilityQuery{
		locationID: locationID,
		items:      validated,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q CheckAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrCheckAvailabilityQueryIsNotConstructed)
}

func (q CheckAvailabilityQuery) LocationID() kernel.UUID {
	return q.locationID
}

func (q CheckAvailabilityQuery) Items() []inventory.Requirement {
	return slices.Clone(q.items)
}

// CheckAvailabilityQueryResponse reports each merged item in lock order. Sufficient is true
// when every item is covered.
type CheckAvailabilityQueryResponse struct {
	AssignmentID kernel.UUID
	SnapshotID   kernel.UUID
	Items        []inventory.Availability
	Sufficient   bool
}
