package commands

import (
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to open a new order in PENDING status.
//
// Example:
//
//	line, _ := order.NewLine(tankRef, 2, decimal.RequireFromString("25.50"))
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), &locationID, []order.Line{line},
//	    order.PriorityNormal, actor)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	number, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	locationID *kernel.UUID
	lines      []order.Line
	priority   order.Priority
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID kernel.UUID,
	locationID *kernel.UUID,
	lines []order.Line,
	priority order.Priority,
	actor kernel.Actor,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		locationID: locationID,
		priority:   priority,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setLines(lines),
		priority.Validate(),
		cmd.setActor(actor),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// LocationID is nil when the location is attached later.
func (c CreateOrderCommand) LocationID() *kernel.UUID {
	return c.locationID
}

func (c CreateOrderCommand) Lines() []order.Line {
	return slices.Clone(c.lines)
}

func (c CreateOrderCommand) Priority() order.Priority {
	return c.priority
}

func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []order.Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	c.lines = slices.Clone(lines)
	return nil
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
