package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/core/domain/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// On-hand is read from the assignment's current snapshot, whatever snapshot a hold was pinned to.
const activeHoldsSQL = `
	SELECT r.store_assignment_id, r.item_type, r.tank_type_id, r.inventory_item_id,
		r.id, r.order_id, r.reserved_quantity, r.created_at,
		COALESCE(CASE WHEN r.item_type = 'tank' THEN t.full_tanks ELSE i.quantity END, 0)
	FROM inventory_reservations r
	LEFT JOIN current_inventory_pointers p
		ON p.store_assignment_id = r.store_assignment_id
	LEFT JOIN inventory_tank_lines t
		ON t.current_inventory_id = p.current_inventory_id AND t.tank_type_id = r.tank_type_id
	LEFT JOIN inventory_item_lines i
		ON i.current_inventory_id = p.current_inventory_id AND i.inventory_item_id = r.inventory_item_id
	WHERE r.status = ?`

const activeHoldsOrder = `
	ORDER BY r.store_assignment_id, r.item_type, r.tank_type_id, r.inventory_item_id, r.created_at, r.id`

type FindConflictingReservationsQueryHandler struct {
	db *gorm.DB
}

func NewFindConflictingReservationsQueryHandler(db *gorm.DB) FindConflictingReservationsQueryHandler {
	return FindConflictingReservationsQueryHandler{db: db}
}

func (h FindConflictingReservationsQueryHandler) Handle(
	ctx context.Context,
	query FindConflictingReservationsQuery,
) (FindConflictingReservationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return FindConflictingReservationsQueryResponse{}, err
	}

	lines, err := loadActiveHolds(ctx, h.db, query.LocationID())
	if err != nil {
		return FindConflictingReservationsQueryResponse{}, err
	}
	return FindConflictingReservationsQueryResponse{Conflicts: services.DetectConflicts(lines)}, nil
}

// loadActiveHolds groups ACTIVE reservations by ledger line.
func loadActiveHolds(ctx context.Context, db *gorm.DB, locationID *kernel.UUID) ([]services.LineHolds, error) {
	stmt := activeHoldsSQL
	args := []any{reservation.Active.String()}
	if locationID != nil {
		stmt += ` AND p.location_id = ?`
		args = append(args, locationID.Bytes())
	}

	rows, err := db.WithContext(ctx).Raw(stmt+activeHoldsOrder, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]services.LineHolds, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			assignment, id, orderID uuid.UUID
			cols                    itemColumns
			quantity, onHand        int
			createdAt               time.Time
		)
		dest := append([]any{&assignment}, cols.dest()...)
		dest = append(dest, &id, &orderID, &quantity, &createdAt, &onHand)
		if err = rows.Scan(dest...); err != nil {
			return nil, err
		}

		hold, holdErr := newHold(id, orderID, quantity, createdAt)
		if holdErr != nil {
			return nil, holdErr
		}
		item, refErr := cols.itemRef()
		if refErr != nil {
			return nil, refErr
		}
		assignmentID, idErr := kernel.UUIDFromBytes(assignment[:])
		if idErr != nil {
			return nil, idErr
		}

		key := assignmentID.String() + "/" + item.String()
		i, ok := index[key]
		if !ok {
			i = len(lines)
			index[key] = i
			lines = append(lines, services.LineHolds{AssignmentID: assignmentID, Item: item, OnHand: onHand})
		}
		lines[i].Holds = append(lines[i].Holds, hold)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func newHold(id, orderID uuid.UUID, quantity int, createdAt time.Time) (services.Hold, error) {
	reservationID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return services.Hold{}, err
	}
	oid, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return services.Hold{}, err
	}
	return services.Hold{ReservationID: reservationID, OrderID: oid, Quantity: quantity, CreatedAt: createdAt}, nil
}
