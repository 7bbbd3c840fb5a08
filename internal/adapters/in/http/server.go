package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"go.uber.org/zap"
)

var _ servers.ServerInterface = (*Server)(nil)

// Handlers groups the use cases the HTTP API exposes.
type Handlers struct {
	CreateOrder                 commands.CreateOrderCommandHandler
	PerformTransition           commands.PerformTransitionCommandHandler
	BulkStatusTransition        commands.BulkStatusTransitionCommandHandler
	ReserveInventory            commands.ReserveInventoryCommandHandler
	BulkReserveItems            commands.BulkReserveItemsCommandHandler
	CancelReservations          commands.CancelReservationsCommandHandler
	BulkCancelReservations      commands.BulkCancelReservationsCommandHandler
	FulfillReservations         commands.FulfillReservationsCommandHandler
	RestoreExpiredReservations  commands.RestoreExpiredReservationsCommandHandler
	ExpireReservations          commands.ExpireReservationsCommandHandler
	ExecuteInventoryTransaction commands.ExecuteInventoryTransactionCommandHandler
	SwitchInventorySnapshot     commands.SwitchInventorySnapshotCommandHandler
	UpdatePaymentStatus         commands.UpdatePaymentStatusCommandHandler

	CheckAvailability           queries.CheckAvailabilityQueryHandler
	GetOrderHistory             queries.GetOrderHistoryQueryHandler
	GetOrderTimeline            queries.GetOrderTimelineQueryHandler
	GetStuckOrders              queries.GetStuckOrdersQueryHandler
	GetWorkflowMetrics          queries.GetWorkflowMetricsQueryHandler
	GetReservationMetrics       queries.GetReservationMetricsQueryHandler
	FindConflictingReservations queries.FindConflictingReservationsQueryHandler
	OptimizeReservations        queries.OptimizeReservationsQueryHandler
}

// Server implements servers.ServerInterface on top of the command and query handlers.
type Server struct {
	h      Handlers
	logger *zap.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{h: handlers, logger: logger}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context, params servers.ActorParams) error {
	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	actor, err := actorFromParams(params)
	if err != nil {
		return s.fail(ctx, err)
	}
	lines, err := orderLinesFromRequest(body.Lines)
	if err != nil {
		return s.fail(ctx, err)
	}
	locationID, err := optionalID(body.LocationId, "locationId")
	if err != nil {
		return s.fail(ctx, err)
	}
	priority, err := priorityFromRequest(body.Priority)
	if err != nil {
		return s.fail(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, locationID, lines, priority, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	number, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.CreatedOrder{
		Id:     orderID.Bytes(),
		Number: number.String(),
	})
}

// PerformTransition handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) PerformTransition(ctx echo.Context, orderId openapi_types.UUID, params servers.ActorParams) error {
	var body servers.PerformTransitionJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	actor, err := actorFromParams(params)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := transitionCommand(orderId, body, actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.PerformTransition.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdatePaymentStatus handles PUT /api/v1/orders/{orderId}/payment.
func (s *Server) UpdatePaymentStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.UpdatePaymentStatusJSONBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id, err := requiredID(orderId, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}
	status, err := order.ParsePaymentStatus(string(body.Status))
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewUpdatePaymentStatusCommand(id, status)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.UpdatePaymentStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// BulkStatusTransition handles POST /api/v1/bulk/transitions. Each element succeeds or
// fails on its own; the response is 200 either way.
func (s *Server) BulkStatusTransition(ctx echo.Context, params servers.ActorParams) error {
	var body servers.BulkStatusTransitionJSONBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	actor, err := actorFromParams(params)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmds := make([]commands.PerformTransitionCommand, 0, len(body.Transitions))
	for _, t := range body.Transitions {
		cmd, err := transitionCommand(t.OrderId, t.Transition, actor)
		if err != nil {
			return s.fail(ctx, err)
		}
		cmds = append(cmds, cmd)
	}

	result := s.h.BulkStatusTransition.Handle(ctx.Request().Context(), cmds)
	return ctx.JSON(http.StatusOK, bulkResultResponse(result))
}

// GetOrderHistory handles GET /api/v1/orders/{orderId}/history.
func (s *Server) GetOrderHistory(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := requiredID(orderId, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderHistoryQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	entries, err := s.h.GetOrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.HistoryEntry, len(entries))
	for i, entry := range entries {
		response[i] = historyEntryResponse(entry)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderTimeline handles GET /api/v1/orders/{orderId}/timeline.
func (s *Server) GetOrderTimeline(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := requiredID(orderId, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderTimelineQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	timeline, err := s.h.GetOrderTimeline.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, timelineResponse(timeline))
}

// GetStuckOrders handles GET /api/v1/orders/stuck.
func (s *Server) GetStuckOrders(ctx echo.Context, params servers.GetStuckOrdersParams) error {
	hours := defaultStuckThresholdHours
	if params.ThresholdHours != nil {
		hours = *params.ThresholdHours
	}
	query, err := queries.NewGetStuckOrdersQuery(hoursToDuration(hours))
	if err != nil {
		return s.fail(ctx, err)
	}

	stuck, err := s.h.GetStuckOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.StuckOrder, len(stuck))
	for i, o := range stuck {
		response[i] = servers.StuckOrder{
			OrderId:       o.OrderID.Bytes(),
			Number:        o.Number,
			Status:        servers.OrderStatus(o.Status.String()),
			Priority:      servers.Priority(o.Priority.String()),
			LastChangedAt: o.LastChanged,
			StuckSeconds:  o.StuckFor.Seconds(),
		}
	}
	return ctx.JSON(http.StatusOK, response)
}
