package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetStuckOrdersQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGetStuckOrdersQueryHandler(db *gorm.DB) GetStuckOrdersQueryHandler {
	return GetStuckOrdersQueryHandler{db: db, now: time.Now}
}

// Handle returns stuck orders, longest stuck first.
func (h GetStuckOrdersQueryHandler) Handle(ctx context.Context, query GetStuckOrdersQuery) ([]StuckOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.now().UTC()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, number, status, priority, updated_at
		FROM orders
		WHERE status NOT IN ? AND updated_at < ?
		ORDER BY updated_at, id
	`, terminalStatuses(), now.Add(-query.Threshold())).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stuck := make([]StuckOrderResponse, 0)
	for rows.Next() {
		var (
			id                       uuid.UUID
			number, status, priority string
			updatedAt                time.Time
		)
		if err = rows.Scan(&id, &number, &status, &priority, &updatedAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		s, parseErr := order.ParseStatus(status)
		if parseErr != nil {
			return nil, parseErr
		}
		p, parseErr := order.ParsePriority(priority)
		if parseErr != nil {
			return nil, parseErr
		}

		stuck = append(stuck, StuckOrderResponse{
			OrderID:     orderID,
			Number:      number,
			Status:      s,
			Priority:    p,
			LastChanged: updatedAt,
			StuckFor:    now.Sub(updatedAt),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stuck, nil
}

func terminalStatuses() []string {
	terminal := make([]string, 0, 2)
	for _, s := range order.AllStatuses() {
		if s.IsTerminal() {
			terminal = append(terminal, s.String())
		}
	}
	return terminal
}
