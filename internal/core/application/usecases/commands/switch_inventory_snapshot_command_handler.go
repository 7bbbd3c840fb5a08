package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// SwitchInventorySnapshotCommandHandler repoints an assignment. The first switch creates the
// pointer; later switches must keep the assignment at its location, and switching to the
// current snapshot changes nothing.
type SwitchInventorySnapshotCommandHandler struct {
	uowFactory LedgerUoWFactory
}

func NewSwitchInventorySnapshotCommandHandler(uowFactory LedgerUoWFactory) SwitchInventorySnapshotCommandHandler {
	return SwitchInventorySnapshotCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h SwitchInventorySnapshotCommandHandler) Handle(ctx context.Context, cmd SwitchInventorySnapshotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ledger := uow.LedgerRepository()
	next := cmd.Pointer()

	current, err := ledger.Pointer(ctx, next.AssignmentID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	case !current.LocationID.IsEqual(next.LocationID):
		return errs.NewConflictErrorWithCause("locationId",
			fmt.Errorf("assignment %s belongs to location %s", next.AssignmentID, current.LocationID))
	case current.SnapshotID.IsEqual(next.SnapshotID):
		return nil
	}

	if err = ledger.SwitchSnapshot(ctx, next); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
