package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

const (
	ordersByStatusSQL = `
		SELECT status, COUNT(*)
		FROM orders
		WHERE created_at >= ?
		GROUP BY status`

	// Each history row's duration is the time since the previous entry of the same order,
	// i.e. the dwell in from_status.
	transitionStatsSQL = `
		WITH steps AS (
			SELECT from_status, to_status, created_at,
				EXTRACT(EPOCH FROM created_at - LAG(created_at) OVER (
					PARTITION BY order_id ORDER BY created_at, id))::float8 AS seconds
			FROM order_status_history
		)
		SELECT from_status, to_status, COUNT(*), COALESCE(AVG(seconds), 0)::float8
		FROM steps
		WHERE from_status IS NOT NULL AND created_at >= ?
		GROUP BY from_status, to_status
		ORDER BY from_status, to_status`
)

type GetWorkflowMetricsQueryHandler struct {
	db *gorm.DB
}

func NewGetWorkflowMetricsQueryHandler(db *gorm.DB) GetWorkflowMetricsQueryHandler {
	return GetWorkflowMetricsQueryHandler{db: db}
}

func (h GetWorkflowMetricsQueryHandler) Handle(
	ctx context.Context,
	query GetWorkflowMetricsQuery,
) (GetWorkflowMetricsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWorkflowMetricsQueryResponse{}, err
	}

	since := time.Time{}
	if query.Since() != nil {
		since = query.Since().UTC()
	}

	response := GetWorkflowMetricsQueryResponse{
		OrdersByStatus: make(map[order.Status]int, len(order.AllStatuses())),
		Transitions:    make([]TransitionMetric, 0),
		AverageDwell:   make(map[order.Status]time.Duration),
	}
	for _, s := range order.AllStatuses() {
		response.OrdersByStatus[s] = 0
	}

	if err := h.countByStatus(ctx, since, &response); err != nil {
		return GetWorkflowMetricsQueryResponse{}, err
	}
	if err := h.transitionStats(ctx, since, &response); err != nil {
		return GetWorkflowMetricsQueryResponse{}, err
	}

	if response.TotalOrders > 0 {
		total := float64(response.TotalOrders)
		response.SuccessRate = float64(response.OrdersByStatus[order.Fulfilled]) / total
		response.CancellationRate = float64(response.OrdersByStatus[order.Cancelled]) / total
	}
	return response, nil
}

func (h GetWorkflowMetricsQueryHandler) countByStatus(
	ctx context.Context,
	since time.Time,
	response *GetWorkflowMetricsQueryResponse,
) error {
	rows, err := h.db.WithContext(ctx).Raw(ordersByStatusSQL, since).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			count int
		)
		if err = rows.Scan(&name, &count); err != nil {
			return err
		}
		s, parseErr := order.ParseStatus(name)
		if parseErr != nil {
			return parseErr
		}
		response.OrdersByStatus[s] = count
		response.TotalOrders += count
	}
	return rows.Err()
}

func (h GetWorkflowMetricsQueryHandler) transitionStats(
	ctx context.Context,
	since time.Time,
	response *GetWorkflowMetricsQueryResponse,
) error {
	rows, err := h.db.WithContext(ctx).Raw(transitionStatsSQL, since).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	type dwell struct {
		count   int
		seconds float64
	}
	dwells := make(map[order.Status]dwell)

	for rows.Next() {
		var (
			fromName, toName string
			count            int
			avgSeconds       float64
		)
		if err = rows.Scan(&fromName, &toName, &count, &avgSeconds); err != nil {
			return err
		}
		from, parseErr := order.ParseStatus(fromName)
		if parseErr != nil {
			return parseErr
		}
		to, parseErr := order.ParseStatus(toName)
		if parseErr != nil {
			return parseErr
		}

		response.Transitions = append(response.Transitions, TransitionMetric{
			From:            from,
			To:              to,
			Count:           count,
			AverageDuration: secondsToDuration(avgSeconds),
		})

		d := dwells[from]
		d.count += count
		d.seconds += avgSeconds * float64(count)
		dwells[from] = d
	}
	if err = rows.Err(); err != nil {
		return err
	}

	for s, d := range dwells {
		response.AverageDwell[s] = secondsToDuration(d.seconds / float64(d.count))
	}
	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
}
