package commands

import (
	"errors"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReserveInventoryCommandIsNotConstructed = errors.New(
	"ReserveInventoryCommand must be created via NewReserveInventoryCommand constructor",
)

// ReserveInventoryCommand holds stock at a location for an order without moving the order.
type ReserveInventoryCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	locationID kernel.UUID
	items      []inventory.Requirement
	expiresAt  *time.Time

	guard guard.ConstructorGuard
}

// NewReserveInventoryCommand validates every requested item. expiresAt may be nil.
func NewReserveInventoryCommand(
	orderID kernel.UUID,
	locationID kernel.UUID,
	items []inventory.Requirement,
	expiresAt *time.Time,
) (ReserveInventoryCommand, error) {
	cmd := ReserveInventoryCommand{
		orderID:    orderID,
		locationID: locationID,
		expiresAt:  expiresAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		cmd.setLocationID(locationID),
		cmd.setItems(items),
	); err != nil {
		return ReserveInventoryCommand{}, err
	}

	return cmd, nil
}

func (c ReserveInventoryCommand) Validate() error {
	return c.guard.Validate(ErrReserveInventoryCommandIsNotConstructed)
}

func (c ReserveInventoryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReserveInventoryCommand) LocationID() kernel.UUID {
	return c.locationID
}

func (c ReserveInventoryCommand) Items() []inventory.Requirement {
	return slices.Clone(c.items)
}

func (c ReserveInventoryCommand) ExpiresAt() *time.Time {
	return c.expiresAt
}

func (c *ReserveInventoryCommand) setLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("locationId", err)
	}
	return nil
}

func (c *ReserveInventoryCommand) setItems(items []inventory.Requirement) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	validated := make([]inventory.Requirement, 0, len(items))
	for _, item := range items {
		req, err := inventory.NewRequirement(item.Item, item.Quantity)
		if err != nil {
			return err
		}
		validated = append(validated, req)
	}

	c.items = validated
	return nil
}
