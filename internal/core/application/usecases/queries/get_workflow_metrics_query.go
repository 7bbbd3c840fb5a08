package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetWorkflowMetricsQueryIsNotConstructed = errors.New(
	"GetWorkflowMetricsQuery must be created via NewGetWorkflowMetricsQuery constructor",
)

// GetWorkflowMetricsQuery aggregates order counts and transition statistics. A nil since
// covers all time; otherwise only orders created and transitions recorded at or after since
// are counted.
type GetWorkflowMetricsQuery struct {
	since *time.Time
	guard guard.ConstructorGuard
}

func NewGetWorkflowMetricsQuery(since *time.Time) (GetWorkflowMetricsQuery, error) {
	return GetWorkflowMetricsQuery{since: since, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWorkflowMetricsQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkflowMetricsQueryIsNotConstructed)
}

func (q GetWorkflowMetricsQuery) Since() *time.Time {
	return q.since
}

// TransitionMetric counts one edge of the transition table. AverageDuration is the mean time
// the order spent in From before taking this edge.
type TransitionMetric struct {
	From            order.Status
	To              order.Status
	Count           int
	AverageDuration time.Duration
}

type GetWorkflowMetricsQueryResponse struct {
	TotalOrders      int
	OrdersByStatus   map[order.Status]int
	Transitions      []TransitionMetric
	AverageDwell     map[order.Status]time.Duration
	SuccessRate      float64
	CancellationRate float64
}
