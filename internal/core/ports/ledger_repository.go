package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// SnapshotResolver resolves the current inventory snapshot of a location. The location
// management system owns the pointer; this core only reads and swaps it.
type SnapshotResolver interface {
	ResolveLocation(ctx context.Context, locationID kernel.UUID) (inventory.Pointer, error)
}

// LedgerRepository reads and posts the current ledger lines of assignments.
type LedgerRepository interface {
	SnapshotResolver

	// Pointer returns the current snapshot of one assignment.
	Pointer(ctx context.Context, assignmentID kernel.UUID) (inventory.Pointer, error)

	// SwitchSnapshot makes pointer the current snapshot of its assignment.
	SwitchSnapshot(ctx context.Context, pointer inventory.Pointer) error

	// Balance reads one line of the current snapshot. A missing line is an empty balance.
	// With forUpdate the line row is locked until the transaction ends.
	Balance(ctx context.Context, assignmentID kernel.UUID, item inventory.ItemRef, forUpdate bool) (inventory.Balance, error)

	// Lock locks the item's line for every assignment, creating empty lines where needed.
	Lock(ctx context.Context, item inventory.ItemRef, assignmentIDs ...kernel.UUID) error

	// Post applies one signed delta to a line and writes a transaction log row.
	Post(
		ctx context.Context,
		assignmentID kernel.UUID,
		item inventory.ItemRef,
		posting inventory.Posting,
		entry inventory.LogEntry,
	) (inventory.Balance, error)
}
