// Package servers holds the HTTP contract of the fulfillment API: the OpenAPI document, its
// models and the echo bindings that turn path, query and header parameters into typed
// arguments of ServerInterface.
package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Create an order in PENDING
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context, params ActorParams) error
	// Orders whose status has not changed for longer than the threshold
	// (GET /api/v1/orders/stuck)
	GetStuckOrders(ctx echo.Context, params GetStuckOrdersParams) error
	// Move an order from one status to another
	// (POST /api/v1/orders/{orderId}/transitions)
	PerformTransition(ctx echo.Context, orderId openapi_types.UUID, params ActorParams) error
	// (GET /api/v1/orders/{orderId}/history)
	GetOrderHistory(ctx echo.Context, orderId openapi_types.UUID) error
	// (GET /api/v1/orders/{orderId}/timeline)
	GetOrderTimeline(ctx echo.Context, orderId openapi_types.UUID) error
	// Record the payment outcome of an order
	// (PUT /api/v1/orders/{orderId}/payment)
	UpdatePaymentStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/reservations/cancel)
	CancelReservations(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/reservations/fulfill)
	FulfillReservations(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/reservations/restore)
	RestoreExpiredReservations(ctx echo.Context, orderId openapi_types.UUID) error
	// Hold stock for an order, all items or none
	// (POST /api/v1/reservations)
	ReserveInventory(ctx echo.Context) error
	// (POST /api/v1/reservations/expire)
	ExpireReservations(ctx echo.Context) error
	// (GET /api/v1/reservations/conflicts)
	FindConflictingReservations(ctx echo.Context, params LocationFilterParams) error
	// (GET /api/v1/reservations/optimizations)
	OptimizeReservations(ctx echo.Context, params LocationFilterParams) error
	// (POST /api/v1/bulk/transitions)
	BulkStatusTransition(ctx echo.Context, params ActorParams) error
	// (POST /api/v1/bulk/reservations)
	BulkReserveItems(ctx echo.Context) error
	// (POST /api/v1/bulk/reservation-cancellations)
	BulkCancelReservations(ctx echo.Context) error
	// (POST /api/v1/inventory/availability)
	CheckAvailability(ctx echo.Context) error
	// (POST /api/v1/inventory/transactions)
	ExecuteInventoryTransaction(ctx echo.Context, params ActorParams) error
	// (PUT /api/v1/inventory/assignments/{assignmentId}/snapshot)
	SwitchInventorySnapshot(ctx echo.Context, assignmentId openapi_types.UUID) error
	// (GET /api/v1/metrics/workflow)
	GetWorkflowMetrics(ctx echo.Context, params GetWorkflowMetricsParams) error
	// (GET /api/v1/metrics/reservations)
	GetReservationMetrics(ctx echo.Context, params GetReservationMetricsParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	params, err := bindActorParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CreateOrder(ctx, params)
}

func (w *ServerInterfaceWrapper) GetStuckOrders(ctx echo.Context) error {
	var params GetStuckOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "thresholdHours", ctx.QueryParams(), &params.ThresholdHours)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter thresholdHours: %s", err))
	}

	return w.Handler.GetStuckOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) PerformTransition(ctx echo.Context) error {
	orderId, err := bindUUIDPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	params, err := bindActorParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.PerformTransition(ctx, orderId, params)
}

func (w *ServerInterfaceWrapper) GetOrderHistory(ctx echo.Context) error {
	orderId, err := bindUUIDPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrderHistory(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetOrderTimeline(ctx echo.Context) error {
	orderId, err := bindUUIDPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrderTimeline(ctx, orderId)
}

func (w *ServerInterfaceWrapper) UpdatePaymentStatus(ctx echo.Context) error {
	orderId, err := bindUUIDPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.UpdatePaymentStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) CancelReservations(ctx echo.Context) error {
	orderId, err := bindUUIDPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.CancelReservations(ctx, orderId)
}

func (w *ServerInterfaceWrapper) FulfillReservations(ctx echo.Context) error {
	orderId, err := bindUUIDPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.FulfillReservations(ctx, orderId)
}

func (w *ServerInterfaceWrapper) RestoreExpiredReservations(ctx echo.Context) error {
	orderId, err := bindUUIDPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.RestoreExpiredReservations(ctx, orderId)
}

func (w *ServerInterfaceWrapper) ReserveInventory(ctx echo.Context) error {
	return w.Handler.ReserveInventory(ctx)
}

func (w *ServerInterfaceWrapper) ExpireReservations(ctx echo.Context) error {
	return w.Handler.ExpireReservations(ctx)
}

func (w *ServerInterfaceWrapper) FindConflictingReservations(ctx echo.Context) error {
	params, err := bindLocationFilterParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.FindConflictingReservations(ctx, params)
}

func (w *ServerInterfaceWrapper) OptimizeReservations(ctx echo.Context) error {
	params, err := bindLocationFilterParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.OptimizeReservations(ctx, params)
}

func (w *ServerInterfaceWrapper) BulkStatusTransition(ctx echo.Context) error {
	params, err := bindActorParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.BulkStatusTransition(ctx, params)
}

func (w *ServerInterfaceWrapper) BulkReserveItems(ctx echo.Context) error {
	return w.Handler.BulkReserveItems(ctx)
}

func (w *ServerInterfaceWrapper) BulkCancelReservations(ctx echo.Context) error {
	return w.Handler.BulkCancelReservations(ctx)
}

func (w *ServerInterfaceWrapper) CheckAvailability(ctx echo.Context) error {
	return w.Handler.CheckAvailability(ctx)
}

func (w *ServerInterfaceWrapper) ExecuteInventoryTransaction(ctx echo.Context) error {
	params, err := bindActorParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ExecuteInventoryTransaction(ctx, params)
}

func (w *ServerInterfaceWrapper) SwitchInventorySnapshot(ctx echo.Context) error {
	assignmentId, err := bindUUIDPathParameter(ctx, "assignmentId")
	if err != nil {
		return err
	}
	return w.Handler.SwitchInventorySnapshot(ctx, assignmentId)
}

func (w *ServerInterfaceWrapper) GetWorkflowMetrics(ctx echo.Context) error {
	var params GetWorkflowMetricsParams

	err := runtime.BindQueryParameter("form", true, false, "since", ctx.QueryParams(), &params.Since)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter since: %s", err))
	}

	return w.Handler.GetWorkflowMetrics(ctx, params)
}

func (w *ServerInterfaceWrapper) GetReservationMetrics(ctx echo.Context) error {
	var params GetReservationMetricsParams

	err := runtime.BindQueryParameter("form", true, false, "expiringWithinHours", ctx.QueryParams(), &params.ExpiringWithinHours)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter expiringWithinHours: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "top", ctx.QueryParams(), &params.Top)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter top: %s", err))
	}

	return w.Handler.GetReservationMetrics(ctx, params)
}

func bindUUIDPathParameter(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}

	return id, nil
}

func bindLocationFilterParams(ctx echo.Context) (LocationFilterParams, error) {
	var params LocationFilterParams

	err := runtime.BindQueryParameter("form", true, false, "locationId", ctx.QueryParams(), &params.LocationId)
	if err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter locationId: %s", err))
	}

	return params, nil
}

func bindActorParams(ctx echo.Context) (ActorParams, error) {
	var params ActorParams
	headers := ctx.Request().Header

	if err := bindRequiredHeader(headers, "X-Actor-ID", &params.XActorID); err != nil {
		return params, err
	}
	if err := bindRequiredHeader(headers, "X-Actor-Role", &params.XActorRole); err != nil {
		return params, err
	}

	return params, nil
}

func bindRequiredHeader(headers http.Header, name string, dest any) error {
	valueList, found := headers[http.CanonicalHeaderKey(name)]
	if !found {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Header parameter %s is required, but not found", name))
	}
	if n := len(valueList); n != 1 {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Expected one value for %s, got %d", name, n))
	}

	err := runtime.BindStyledParameterWithOptions("simple", name, valueList[0], dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}

	return nil
}

// EchoRouter is the subset of echo.Echo and echo.Group used to register routes.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the handlers under baseURL, for use behind a path
// prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/stuck", wrapper.GetStuckOrders)
	router.POST(baseURL+"/api/v1/orders/:orderId/transitions", wrapper.PerformTransition)
	router.GET(baseURL+"/api/v1/orders/:orderId/history", wrapper.GetOrderHistory)
	router.GET(baseURL+"/api/v1/orders/:orderId/timeline", wrapper.GetOrderTimeline)
	router.PUT(baseURL+"/api/v1/orders/:orderId/payment", wrapper.UpdatePaymentStatus)
	router.POST(baseURL+"/api/v1/orders/:orderId/reservations/cancel", wrapper.CancelReservations)
	router.POST(baseURL+"/api/v1/orders/:orderId/reservations/fulfill", wrapper.FulfillReservations)
	router.POST(baseURL+"/api/v1/orders/:orderId/reservations/restore", wrapper.RestoreExpiredReservations)
	router.POST(baseURL+"/api/v1/reservations", wrapper.ReserveInventory)
	router.POST(baseURL+"/api/v1/reservations/expire", wrapper.ExpireReservations)
	router.GET(baseURL+"/api/v1/reservations/conflicts", wrapper.FindConflictingReservations)
	router.GET(baseURL+"/api/v1/reservations/optimizations", wrapper.OptimizeReservations)
	router.POST(baseURL+"/api/v1/bulk/transitions", wrapper.BulkStatusTransition)
	router.POST(baseURL+"/api/v1/bulk/reservations", wrapper.BulkReserveItems)
	router.POST(baseURL+"/api/v1/bulk/reservation-cancellations", wrapper.BulkCancelReservations)
	router.POST(baseURL+"/api/v1/inventory/availability", wrapper.CheckAvailability)
	router.POST(baseURL+"/api/v1/inventory/transactions", wrapper.ExecuteInventoryTransaction)
	router.PUT(baseURL+"/api/v1/inventory/assignments/:assignmentId/snapshot", wrapper.SwitchInventorySnapshot)
	router.GET(baseURL+"/api/v1/metrics/workflow", wrapper.GetWorkflowMetrics)
	router.GET(baseURL+"/api/v1/metrics/reservations", wrapper.GetReservationMetrics)
}
