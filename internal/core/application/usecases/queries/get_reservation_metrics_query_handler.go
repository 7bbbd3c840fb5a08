package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/reservation"

	"gorm.io/gorm"
)

const (
	reservationsByStatusSQL = `
		SELECT status, COUNT(*), COALESCE(SUM(reserved_quantity), 0)
		FROM inventory_reservations
		GROUP BY status`

	expiringSoonSQL = `
		SELECT COUNT(*)
		FROM inventory_reservations
		WHERE status = ? AND expires_at IS NOT NULL AND expires_at > ? AND expires_at <= ?`

	topReservedItemsSQL = `
		SELECT item_type, tank_type_id, inventory_item_id, SUM(reserved_quantity) AS quantity, COUNT(*)
		FROM inventory_reservations
		WHERE status = ?
		GROUP BY item_type, tank_type_id, inventory_item_id
		ORDER BY quantity DESC, item_type, tank_type_id, inventory_item_id
		LIMIT ?`
)

type GetReservationMetricsQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGetReservationMetricsQueryHandler(db *gorm.DB) GetReservationMetricsQueryHandler {
	return GetReservationMetricsQueryHandler{db: db, now: time.Now}
}

func (h GetReservationMetricsQueryHandler) Handle(
	ctx context.Context,
	query GetReservationMetricsQuery,
) (GetReservationMetricsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetReservationMetricsQueryResponse{}, err
	}

	response := GetReservationMetricsQueryResponse{
		CountByStatus:    make(map[reservation.Status]int),
		TopReservedItems: make([]ReservedItem, 0),
	}
	if err := h.countByStatus(ctx, &response); err != nil {
		return GetReservationMetricsQueryResponse{}, err
	}

	now := h.now().UTC()
	if err := h.db.WithContext(ctx).
		Raw(expiringSoonSQL, reservation.Active.String(), now, now.Add(query.ExpiringWithin())).
		Row().Scan(&response.ExpiringSoon); err != nil {
		return GetReservationMetricsQueryResponse{}, err
	}

	if err := h.topItems(ctx, query.TopItems(), &response); err != nil {
		return GetReservationMetricsQueryResponse{}, err
	}
	return response, nil
}

func (h GetReservationMetricsQueryHandler) countByStatus(
	ctx context.Context,
	response *GetReservationMetricsQueryResponse,
) error {
	rows, err := h.db.WithContext(ctx).Raw(reservationsByStatusSQL).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name            string
			count, quantity int
		)
		if err = rows.Scan(&name, &count, &quantity); err != nil {
			return err
		}
		s, parseErr := reservation.ParseStatus(name)
		if parseErr != nil {
			return parseErr
		}
		response.CountByStatus[s] = count
		if s == reservation.Active {
			response.ActiveCount = count
			response.ActiveQuantity = quantity
		}
	}
	return rows.Err()
}

func (h GetReservationMetricsQueryHandler) topItems(
	ctx context.Context,
	limit int,
	response *GetReservationMetricsQueryResponse,
) error {
	rows, err := h.db.WithContext(ctx).Raw(topReservedItemsSQL, reservation.Active.String(), limit).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cols            itemColumns
			quantity, count int
		)
		if err = rows.Scan(append(cols.dest(), &quantity, &count)...); err != nil {
			return err
		}
		item, refErr := cols.itemRef()
		if refErr != nil {
			return refErr
		}
		response.TopReservedItems = append(response.TopReservedItems, ReservedItem{
			Item:         item,
			Quantity:     quantity,
			Reservations: count,
		})
	}
	return rows.Err()
}
