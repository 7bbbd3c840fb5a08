package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CheckAvailability handles POST /api/v1/inventory/availability.
func (s *Server) CheckAvailability(ctx echo.Context) error {
	var body servers.CheckAvailabilityJSONBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	locationID, err := requiredID(body.LocationId, "locationId")
	if err != nil {
		return s.fail(ctx, err)
	}
	items, err := requirementsFromRequest(body.Items)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewCheckAvailabilityQuery(locationID, items)
	if err != nil {
		return s.fail(ctx, err)
	}

	report, err := s.h.CheckAvailability.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.AvailabilityReport{
		AssignmentId: report.AssignmentID.Bytes(),
		SnapshotId:   report.SnapshotID.Bytes(),
		Sufficient:   report.Sufficient,
		Items:        make([]servers.ItemAvailability, len(report.Items)),
	}
	for i, a := range report.Items {
		response.Items[i] = servers.ItemAvailability{
			ItemType:   servers.ItemType(a.Item.Kind().String()),
			ItemId:     a.Item.ID().Bytes(),
			Required:   a.Required,
			OnHand:     a.OnHand,
			Reserved:   a.Reserved,
			Available:  a.Available,
			Sufficient: a.Sufficient,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// ExecuteInventoryTransaction handles POST /api/v1/inventory/transactions.
func (s *Server) ExecuteInventoryTransaction(ctx echo.Context, params servers.ActorParams) error {
	var body servers.ExecuteInventoryTransactionJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	actor, err := actorFromParams(params)
	if err != nil {
		return s.fail(ctx, err)
	}
	request, err := transactionRequestFromBody(body, actor)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewExecuteInventoryTransactionCommand(request)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.ExecuteInventoryTransaction.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.TransactionResult{
		TransactionId: result.TransactionID.Bytes(),
		Type:          result.Type.String(),
		Balance:       balanceResponse(result.AssignmentID.Bytes(), result.Balance),
	}
	if result.Target != nil {
		target := balanceResponse(result.Target.AssignmentID.Bytes(), result.Target.Balance)
		response.Target = &target
	}
	return ctx.JSON(http.StatusOK, response)
}

// SwitchInventorySnapshot handles PUT /api/v1/inventory/assignments/{assignmentId}/snapshot.
func (s *Server) SwitchInventorySnapshot(ctx echo.Context, assignmentId openapi_types.UUID) error {
	var body servers.SwitchInventorySnapshotJSONBody
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	assignmentID, err := requiredID(assignmentId, "assignmentId")
	if err != nil {
		return s.fail(ctx, err)
	}
	locationID, err := requiredID(body.LocationId, "locationId")
	if err != nil {
		return s.fail(ctx, err)
	}
	snapshotID, err := requiredID(body.SnapshotId, "snapshotId")
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSwitchInventorySnapshotCommand(inventory.Pointer{
		AssignmentID: assignmentID,
		LocationID:   locationID,
		SnapshotID:   snapshotID,
	})
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.SwitchInventorySnapshot.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func balanceResponse(assignmentID openapi_types.UUID, b inventory.Balance) servers.Balance {
	return servers.Balance{
		AssignmentId: assignmentID,
		Full:         b.Full,
		Empty:        b.Empty,
		Quantity:     b.Quantity,
	}
}
