package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// GetWorkflowMetrics handles GET /api/v1/metrics/workflow.
func (s *Server) GetWorkflowMetrics(ctx echo.Context, params servers.GetWorkflowMetricsParams) error {
	query, err := queries.NewGetWorkflowMetricsQuery(params.Since)
	if err != nil {
		return s.fail(ctx, err)
	}

	m, err := s.h.GetWorkflowMetrics.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.WorkflowMetrics{
		TotalOrders:         m.TotalOrders,
		OrdersByStatus:      make(map[string]int, len(m.OrdersByStatus)),
		AverageDwellSeconds: make(map[string]float64, len(m.AverageDwell)),
		SuccessRate:         m.SuccessRate,
		CancellationRate:    m.CancellationRate,
		Transitions:         make([]servers.TransitionMetric, len(m.Transitions)),
	}
	for status, n := range m.OrdersByStatus {
		response.OrdersByStatus[status.String()] = n
	}
	for status, d := range m.AverageDwell {
		response.AverageDwellSeconds[status.String()] = d.Seconds()
	}
	for i, t := range m.Transitions {
		response.Transitions[i] = servers.TransitionMetric{
			From:           servers.OrderStatus(t.From.String()),
			To:             servers.OrderStatus(t.To.String()),
			Count:          t.Count,
			AverageSeconds: t.AverageDuration.Seconds(),
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetReservationMetrics handles GET /api/v1/metrics/reservations.
func (s *Server) GetReservationMetrics(ctx echo.Context, params servers.GetReservationMetricsParams) error {
	var expiringWithinHours, top int
	if params.ExpiringWithinHours != nil {
		expiringWithinHours = *params.ExpiringWithinHours
	}
	if params.Top != nil {
		top = *params.Top
	}

	query, err := queries.NewGetReservationMetricsQuery(hoursToDuration(expiringWithinHours), top)
	if err != nil {
		return s.fail(ctx, err)
	}

	m, err := s.h.GetReservationMetrics.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.ReservationMetrics{
		ActiveCount:      m.ActiveCount,
		ActiveQuantity:   m.ActiveQuantity,
		ExpiringSoon:     m.ExpiringSoon,
		CountByStatus:    make(map[string]int, len(m.CountByStatus)),
		TopReservedItems: make([]servers.ReservedItem, len(m.TopReservedItems)),
	}
	for status, n := range m.CountByStatus {
		response.CountByStatus[status.String()] = n
	}
	for i, item := range m.TopReservedItems {
		response.TopReservedItems[i] = servers.ReservedItem{
			ItemType:     servers.ItemType(item.Item.Kind().String()),
			ItemId:       item.Item.ID().Bytes(),
			Quantity:     item.Quantity,
			Reservations: item.Reservations,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}
