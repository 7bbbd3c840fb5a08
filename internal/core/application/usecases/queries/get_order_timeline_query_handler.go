package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetOrderTimelineQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGetOrderTimelineQueryHandler(db *gorm.DB) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{db: db, now: time.Now}
}

// Handle fails with the walk validation error if the stored history is not a valid walk of
// the transition table.
func (h GetOrderTimelineQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTimelineQuery,
) (GetOrderTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	entries, err := loadHistory(ctx, h.db, query.OrderID())
	if err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	timeline, err := order.BuildTimeline(query.OrderID(), entries, h.now().UTC())
	if err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	return GetOrderTimelineQueryResponse{
		OrderID:       timeline.OrderID,
		CurrentStatus: timeline.CurrentStatus,
		Steps:         timeline.Steps,
		TotalDuration: timeline.TotalDuration,
	}, nil
}
