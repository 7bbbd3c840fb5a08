// Package ports defines the contracts between the fulfillment core and its infrastructure:
// repositories bound to a unit of work, the event publisher, the transition policy and the
// sweep lock.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate with its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the mutable fields of an existing order: status, payment status,
	// assignment and updated_at.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Returns an ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the transaction ends, so two
	// transitions of the same order are serialized.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// NextNumber allocates the next order number of the given year.
	NextNumber(ctx context.Context, year int) (order.Number, error)
}

// HistoryRepository stores the append-only status history.
type HistoryRepository interface {
	// Append writes one history entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry order.HistoryEntry) error

	// ListByOrder returns the history of one order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.HistoryEntry, error)
}
