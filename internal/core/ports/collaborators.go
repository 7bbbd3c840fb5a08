package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// EventPublisher delivers domain events after the transaction that raised them commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent) error
}

// TransitionPolicy is the capability check of the user management system.
type TransitionPolicy interface {
	CanTransition(actor kernel.Actor, from order.Status, to order.Status) error
}

// SweepLocker guards periodic sweeps so only one replica runs them per tick.
type SweepLocker interface {
	// Acquire returns ok=false when another holder owns the lock.
	Acquire(ctx context.Context) (token string, ok bool, err error)
	Release(ctx context.Context, token string) error
}
