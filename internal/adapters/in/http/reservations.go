package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ReserveInventory handles POST /api/v1/reservations.
func (s *Server) ReserveInventory(ctx echo.Context) error {
	var body servers.ReserveInventoryJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	cmd, err := reserveCommand(body)
	if err != nil {
		return s.fail(ctx, err)
	}

	ids, err := s.h.ReserveInventory.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.ReservationIds{ReservationIds: uuidsResponse(ids)})
}

// BulkReserveItems handles POST /api/v1/bulk/reservations.
func (s *Server) BulkReserveItems(ctx echo.Context) error {
	var body servers.BulkReserveItemsJSONBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	cmds := make([]commands.ReserveInventoryCommand, 0, len(body.Reservations))
	for _, r := range body.Reservations {
		cmd, err := reserveCommand(r)
		if err != nil {
			return s.fail(ctx, err)
		}
		cmds = append(cmds, cmd)
	}

	result := s.h.BulkReserveItems.Handle(ctx.Request().Context(), cmds)
	return ctx.JSON(http.StatusOK, bulkResultResponse(result))
}

// CancelReservations handles POST /api/v1/orders/{orderId}/reservations/cancel.
func (s *Server) CancelReservations(ctx echo.Context, orderId openapi_types.UUID) error {
	return s.countForOrder(ctx, orderId, func(c context.Context, id kernel.UUID) (int, error) {
		cmd, err := commands.NewCancelReservationsCommand(id)
		if err != nil {
			return 0, err
		}
		return s.h.CancelReservations.Handle(c, cmd)
	})
}

// BulkCancelReservations handles POST /api/v1/bulk/reservation-cancellations.
func (s *Server) BulkCancelReservations(ctx echo.Context) error {
	var body servers.BulkCancelReservationsJSONBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	cmds := make([]commands.CancelReservationsCommand, 0, len(body.OrderIds))
	for _, raw := range body.OrderIds {
		id, err := requiredID(raw, "orderIds")
		if err != nil {
			return s.fail(ctx, err)
		}
		cmd, err := commands.NewCancelReservationsCommand(id)
		if err != nil {
			return s.fail(ctx, err)
		}
		cmds = append(cmds, cmd)
	}

	result := s.h.BulkCancelReservations.Handle(ctx.Request().Context(), cmds)
	return ctx.JSON(http.StatusOK, bulkResultResponse(result))
}

// FulfillReservations handles POST /api/v1/orders/{orderId}/reservations/fulfill.
func (s *Server) FulfillReservations(ctx echo.Context, orderId openapi_types.UUID) error {
	return s.countForOrder(ctx, orderId, func(c context.Context, id kernel.UUID) (int, error) {
		cmd, err := commands.NewFulfillReservationsCommand(id)
		if err != nil {
			return 0, err
		}
		return s.h.FulfillReservations.Handle(c, cmd)
	})
}

// RestoreExpiredReservations handles POST /api/v1/orders/{orderId}/reservations/restore.
func (s *Server) RestoreExpiredReservations(ctx echo.Context, orderId openapi_types.UUID) error {
	return s.countForOrder(ctx, orderId, func(c context.Context, id kernel.UUID) (int, error) {
		cmd, err := commands.NewRestoreExpiredReservationsCommand(id)
		if err != nil {
			return 0, err
		}
		return s.h.RestoreExpiredReservations.Handle(c, cmd)
	})
}

// ExpireReservations handles POST /api/v1/reservations/expire. The scheduled sweep runs the
// same command; this endpoint triggers it on demand.
func (s *Server) ExpireReservations(ctx echo.Context) error {
	var body servers.ExpireReservationsJSONBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewExpireReservationsCommand(body.ThresholdHours)
	if err != nil {
		return s.fail(ctx, err)
	}

	expired, err := s.h.ExpireReservations.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Count{Count: expired})
}

// FindConflictingReservations handles GET /api/v1/reservations/conflicts.
func (s *Server) FindConflictingReservations(ctx echo.Context, params servers.LocationFilterParams) error {
	locationID, err := optionalID(params.LocationId, "locationId")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewFindConflictingReservationsQuery(locationID)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.FindConflictingReservations.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Conflict, len(result.Conflicts))
	for i, c := range result.Conflicts {
		response[i] = conflictResponse(c)
	}
	return ctx.JSON(http.StatusOK, response)
}

// OptimizeReservations handles GET /api/v1/reservations/optimizations.
func (s *Server) OptimizeReservations(ctx echo.Context, params servers.LocationFilterParams) error {
	locationID, err := optionalID(params.LocationId, "locationId")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewOptimizeReservationsQuery(locationID)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.OptimizeReservations.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.Optimization{
		ReleasableTotal:  result.ReleasableTotal,
		AffectedOrderIds: uuidsResponse(result.AffectedOrderIDs),
		Suggestions:      make([]servers.Suggestion, len(result.Suggestions)),
	}
	for i, sg := range result.Suggestions {
		response.Suggestions[i] = servers.Suggestion{
			Conflict:          conflictResponse(sg.Conflict),
			Release:           holdsResponse(sg.Release),
			ReleasedQuantity:  sg.ReleasedQuantity,
			RemainingReserved: sg.RemainingReserved,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) countForOrder(
	ctx echo.Context,
	orderId openapi_types.UUID,
	run func(context.Context, kernel.UUID) (int, error),
) error {
	id, err := requiredID(orderId, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}

	n, err := run(ctx.Request().Context(), id)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Count{Count: int64(n)})
}
