package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderTimelineQueryIsNotConstructed = errors.New(
	"GetOrderTimelineQuery must be created via NewGetOrderTimelineQuery constructor",
)

// GetOrderTimelineQuery reconstructs the statuses an order went through and how long it
// stayed in each.
//
// Example:
//
//	query, _ := NewGetOrderTimelineQuery(orderID)
//	timeline, err := handler.Handle(ctx, query)
//	for _, step := range timeline.Steps {
//	    fmt.Printf("%s for %s\n", step.Status, step.Dwell)
//	}
type GetOrderTimelineQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderTimelineQuery(orderID kernel.UUID) (GetOrderTimelineQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTimelineQuery{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	return GetOrderTimelineQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTimelineQueryIsNotConstructed)
}

func (q GetOrderTimelineQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderTimelineQueryResponse is the reconstructed timeline. The dwell of a non-terminal
// current status runs until the time of the query.
type GetOrderTimelineQueryResponse struct {
	OrderID       kernel.UUID
	CurrentStatus order.Status
	Steps         []order.TimelineStep
	TotalDuration time.Duration
}
