package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/guard"
)

var ErrSwitchInventorySnapshotCommandIsNotConstructed = errors.New(
	"SwitchInventorySnapshotCommand must be created via NewSwitchInventorySnapshotCommand constructor",
)

// SwitchInventorySnapshotCommand repoints an assignment to a new ledger snapshot. Existing
// reservations keep the snapshot they were made against.
type SwitchInventorySnapshotCommand struct { //nolint:recvcheck //using for validation
	pointer inventory.Pointer

	guard guard.ConstructorGuard
}

func NewSwitchInventorySnapshotCommand(pointer inventory.Pointer) (SwitchInventorySnapshotCommand, error) {
	if err := pointer.Validate(); err != nil {
		return SwitchInventorySnapshotCommand{}, err
	}

	return SwitchInventorySnapshotCommand{
		pointer: pointer,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SwitchInventorySnapshotCommand) Validate() error {
	return c.guard.Validate(ErrSwitchInventorySnapshotCommandIsNotConstructed)
}

func (c SwitchInventorySnapshotCommand) Pointer() inventory.Pointer {
	return c.pointer
}
