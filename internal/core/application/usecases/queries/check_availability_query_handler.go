package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	currentPointerSQL = `
		SELECT store_assignment_id, current_inventory_id
		FROM current_inventory_pointers
		WHERE location_id = ?
		ORDER BY updated_at DESC
		LIMIT 1`

	tankAvailabilitySQL = `
		SELECT
			COALESCE((SELECT full_tanks FROM inventory_tank_lines
				WHERE current_inventory_id = ? AND tank_type_id = ?), 0),
			COALESCE((SELECT SUM(reserved_quantity) FROM inventory_reservations
				WHERE store_assignment_id = ? AND status = ? AND item_type = 'tank' AND tank_type_id = ?), 0)`

	itemAvailabilitySQL = `
		SELECT
			COALESCE((SELECT quantity FROM inventory_item_lines
				WHERE current_inventory_id = ? AND inventory_item_id = ?), 0),
			COALESCE((SELECT SUM(reserved_quantity) FROM inventory_reservations
				WHERE store_assignment_id = ? AND status = ? AND item_type = 'item' AND inventory_item_id = ?), 0)`
)

// CheckAvailabilityQueryHandler computes available = on-hand - ACTIVE holds against the
// location's current snapshot. It takes no locks, so the answer is advisory; reservation
// re-checks under lock.
type CheckAvailabilityQueryHandler struct {
	db *gorm.DB
}

func NewCheckAvailabilityQueryHandler(db *gorm.DB) CheckAvailabilityQueryHandler {
	return CheckAvailabilityQueryHandler{db: db}
}

func (h CheckAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query CheckAvailabilityQuery,
) (CheckAvailabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckAvailabilityQueryResponse{}, err
	}

	var assignment, snapshot uuid.UUID
	err := h.db.WithContext(ctx).Raw(currentPointerSQL, query.LocationID().Bytes()).Row().Scan(&assignment, &snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return CheckAvailabilityQueryResponse{}, errs.NewObjectNotFoundError(
			"current inventory of location", query.LocationID().String())
	}
	if err != nil {
		return CheckAvailabilityQueryResponse{}, err
	}

	assignmentID, err := kernel.UUIDFromBytes(assignment[:])
	if err != nil {
		return CheckAvailabilityQueryResponse{}, err
	}
	snapshotID, err := kernel.UUIDFromBytes(snapshot[:])
	if err != nil {
		return CheckAvailabilityQueryResponse{}, err
	}

	response := CheckAvailabilityQueryResponse{
		AssignmentID: assignmentID,
		SnapshotID:   snapshotID,
		Sufficient:   true,
	}
	for _, req := range inventory.MergeRequirements(query.Items()) {
		stmt := tankAvailabilitySQL
		if req.Item.Kind() == inventory.Item {
			stmt = itemAvailabilitySQL
		}

		var onHand, reserved int
		if err = h.db.WithContext(ctx).Raw(stmt,
			snapshot, req.Item.ID().Bytes(),
			assignment, reservation.Active.String(), req.Item.ID().Bytes(),
		).Row().Scan(&onHand, &reserved); err != nil {
			return CheckAvailabilityQueryResponse{}, err
		}

		availability := inventory.NewAvailability(req.Item, req.Quantity, onHand, reserved)
		response.Items = append(response.Items, availability)
		response.Sufficient = response.Sufficient && availability.Sufficient
	}

	return response, nil
}
