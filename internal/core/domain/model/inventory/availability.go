package inventory

import (
	"fmt"
	"slices"

	"fulfillment/internal/pkg/errs"
)

// Requirement is a requested quantity of one item.
type Requirement struct {
	Item     ItemRef
	Quantity int
}

func NewRequirement(item ItemRef, quantity int) (Requirement, error) {
	if err := item.Validate(); err != nil {
		return Requirement{}, err
	}
	if quantity <= 0 {
		return Requirement{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	return Requirement{Item: item, Quantity: quantity}, nil
}

// MergeRequirements sums quantities of repeated items and returns them in lock order.
func MergeRequirements(reqs []Requirement) []Requirement {
	merged := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		idx := slices.IndexFunc(merged, func(m Requirement) bool { return m.Item.IsEqual(r.Item) })
		if idx >= 0 {
			merged[idx].Quantity += r.Quantity
			continue
		}
		merged = append(merged, r)
	}
	slices.SortFunc(merged, func(a, b Requirement) int { return a.Item.Compare(b.Item) })
	return merged
}

// Availability reports one item of an availability check.
type Availability struct {
	Item       ItemRef
	Required   int
	OnHand     int
	Reserved   int
	Available  int
	Sufficient bool
}

// NewAvailability computes available = on-hand - reserved. Available is never reported below
// zero; holds above on-hand are surfaced by the conflict report instead.
func NewAvailability(item ItemRef, required, onHand, reserved int) Availability {
	available := max(onHand-reserved, 0)
	return Availability{
		Item:       item,
		Required:   required,
		OnHand:     onHand,
		Reserved:   reserved,
		Available:  available,
		Sufficient: available >= required,
	}
}

// Err returns a conflict naming the shortfall, or nil when the requirement is covered.
func (a Availability) Err() error {
	if a.Sufficient {
		return nil
	}
	return errs.NewConflictErrorWithCause("insufficient stock", fmt.Errorf(
		"%s requires %d, available %d (on hand %d, reserved %d)",
		a.Item, a.Required, a.Available, a.OnHand, a.Reserved))
}
