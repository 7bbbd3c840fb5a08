package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetStuckOrdersQueryIsNotConstructed = errors.New(
	"GetStuckOrdersQuery must be created via NewGetStuckOrdersQuery constructor",
)

// GetStuckOrdersQuery finds non-terminal orders whose status has not changed for longer
// than the threshold.
type GetStuckOrdersQuery struct {
	threshold time.Duration
	guard     guard.ConstructorGuard
}

func NewGetStuckOrdersQuery(threshold time.Duration) (GetStuckOrdersQuery, error) {
	if threshold <= 0 {
		return GetStuckOrdersQuery{}, errs.NewValueIsOutOfRangeError("threshold", threshold, time.Nanosecond, "unbounded")
	}
	return GetStuckOrdersQuery{threshold: threshold, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStuckOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStuckOrdersQueryIsNotConstructed)
}

func (q GetStuckOrdersQuery) Threshold() time.Duration {
	return q.threshold
}

// StuckOrderResponse describes one order that sat in its status past the threshold.
type StuckOrderResponse struct {
	OrderID     kernel.UUID
	Number      string
	Status      order.Status
	Priority    order.Priority
	LastChanged time.Time
	StuckFor    time.Duration
}
