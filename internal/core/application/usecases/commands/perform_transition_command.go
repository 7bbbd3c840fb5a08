package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrPerformTransitionCommandIsNotConstructed = errors.New(
	"PerformTransitionCommand must be created via NewPerformTransitionCommand constructor",
)

// PerformTransitionCommand moves an order from the status the caller last saw to a new one.
// ReservationExpiresAt optionally bounds the holds placed when the target is RESERVED.
type PerformTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	from      order.Status
	to        order.Status
	actor     kernel.Actor
	reason    string
	expiresAt *time.Time

	guard guard.ConstructorGuard
}

func NewPerformTransitionCommand(
	orderID kernel.UUID,
	from order.Status,
	to order.Status,
	actor kernel.Actor,
	reason string,
) (PerformTransitionCommand, error) {
	cmd := PerformTransitionCommand{
		orderID: orderID,
		from:    from,
		to:      to,
		actor:   actor,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		from.Validate(),
		to.Validate(),
		actor.Validate(),
	); err != nil {
		return PerformTransitionCommand{}, err
	}

	return cmd, nil
}

// WithReservationExpiry returns a copy of the command whose holds expire at expiresAt.
func (c PerformTransitionCommand) WithReservationExpiry(expiresAt time.Time) PerformTransitionCommand {
	at := expiresAt.UTC()
	c.expiresAt = &at
	return c
}

func (c PerformTransitionCommand) Validate() error {
	return c.guard.Validate(ErrPerformTransitionCommandIsNotConstructed)
}

func (c PerformTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PerformTransitionCommand) From() order.Status {
	return c.from
}

func (c PerformTransitionCommand) To() order.Status {
	return c.to
}

func (c PerformTransitionCommand) Actor() kernel.Actor {
	return c.actor
}

func (c PerformTransitionCommand) Reason() string {
	return c.reason
}

func (c PerformTransitionCommand) ReservationExpiresAt() *time.Time {
	return c.expiresAt
}
