package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError when the order does not exist.
func (h GetOrderHistoryQueryHandler) Handle(ctx context.Context, query GetOrderHistoryQuery) ([]HistoryEntryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries, err := loadHistory(ctx, h.db, query.OrderID())
	if err != nil {
		return nil, err
	}

	response := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, newHistoryEntryResponse(e))
	}
	return response, nil
}

// loadHistory reads the history of an existing order, oldest first.
func loadHistory(ctx context.Context, db *gorm.DB, orderID kernel.UUID) ([]order.HistoryEntry, error) {
	var exists bool
	if err := db.WithContext(ctx).
		Raw(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = ?)`, orderID.Bytes()).
		Row().Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("order", orderID.String())
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT `+historyColumns+`
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY created_at, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]order.HistoryEntry, 0)
	for rows.Next() {
		var row historyRow
		if err = rows.Scan(row.dest()...); err != nil {
			return nil, err
		}
		entry, entryErr := row.entry()
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
