package http

import (
	"fmt"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/generated/servers"
	"fulfillment/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

const defaultStuckThresholdHours = 24

func hoursToDuration(hours int) time.Duration {
	return time.Duration(hours) * time.Hour
}

func actorFromParams(params servers.ActorParams) (kernel.Actor, error) {
	return kernel.NewActor(params.XActorID, kernel.Role(params.XActorRole))
}

func requiredID(id openapi_types.UUID, name string) (kernel.UUID, error) {
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return parsed, nil
}

func optionalID(id *openapi_types.UUID, name string) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := requiredID(*id, name)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func uuidsResponse(ids []kernel.UUID) []openapi_types.UUID {
	out := make([]openapi_types.UUID, len(ids))
	for i, id := range ids {
		out[i] = id.Bytes()
	}
	return out
}

func itemRefFromRequest(
	itemType servers.ItemType,
	tankTypeID *openapi_types.UUID,
	inventoryItemID *openapi_types.UUID,
) (inventory.ItemRef, error) {
	kind, err := inventory.ParseEntityKind(string(itemType))
	if err != nil {
		return inventory.ItemRef{}, err
	}
	tank, err := optionalID(tankTypeID, "tankTypeId")
	if err != nil {
		return inventory.ItemRef{}, err
	}
	item, err := optionalID(inventoryItemID, "inventoryItemId")
	if err != nil {
		return inventory.ItemRef{}, err
	}
	return inventory.NewItemRefFromIDs(kind, tank, item)
}

func requirementsFromRequest(items []servers.ItemQuantity) ([]inventory.Requirement, error) {
	reqs := make([]inventory.Requirement, 0, len(items))
	for i, item := range items {
		ref, err := itemRefFromRequest(item.ItemType, item.TankTypeId, item.InventoryItemId)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		req, err := inventory.NewRequirement(ref, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func orderLinesFromRequest(lines []servers.NewOrderLine) ([]order.Line, error) {
	out := make([]order.Line, 0, len(lines))
	for i, l := range lines {
		ref, err := itemRefFromRequest(l.ItemType, l.TankTypeId, l.InventoryItemId)
		if err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, err)
		}
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, errs.NewValueIsInvalidErrorWithCause("unitPrice", err))
		}
		line, err := order.NewLine(ref, l.Quantity, price)
		if err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, err)
		}
		out = append(out, line)
	}
	return out, nil
}

func priorityFromRequest(p *servers.Priority) (order.Priority, error) {
	if p == nil {
		return order.ParsePriority("")
	}
	return order.ParsePriority(string(*p))
}

func transitionCommand(
	orderID openapi_types.UUID,
	body servers.Transition,
	actor kernel.Actor,
) (commands.PerformTransitionCommand, error) {
	id, err := requiredID(orderID, "orderId")
	if err != nil {
		return commands.PerformTransitionCommand{}, err
	}
	from, err := order.ParseStatus(string(body.From))
	if err != nil {
		return commands.PerformTransitionCommand{}, err
	}
	to, err := order.ParseStatus(string(body.To))
	if err != nil {
		return commands.PerformTransitionCommand{}, err
	}

	var reason string
	if body.Reason != nil {
		reason = *body.Reason
	}

	cmd, err := commands.NewPerformTransitionCommand(id, from, to, actor, reason)
	if err != nil {
		return commands.PerformTransitionCommand{}, err
	}
	if body.ReservationExpiresAt != nil {
		cmd = cmd.WithReservationExpiry(*body.ReservationExpiresAt)
	}
	return cmd, nil
}

func reserveCommand(body servers.ReserveRequest) (commands.ReserveInventoryCommand, error) {
	orderID, err := requiredID(body.OrderId, "orderId")
	if err != nil {
		return commands.ReserveInventoryCommand{}, err
	}
	locationID, err := requiredID(body.LocationId, "locationId")
	if err != nil {
		return commands.ReserveInventoryCommand{}, err
	}
	items, err := requirementsFromRequest(body.Items)
	if err != nil {
		return commands.ReserveInventoryCommand{}, err
	}

	var expiresAt *time.Time
	if body.ExpiresAt != nil {
		at := body.ExpiresAt.UTC()
		expiresAt = &at
	}

	return commands.NewReserveInventoryCommand(orderID, locationID, items, expiresAt)
}

func transactionRequestFromBody(
	body servers.InventoryTransaction,
	actor kernel.Actor,
) (inventory.TransactionRequest, error) {
	txType, err := inventory.ParseTransactionType(body.Type)
	if err != nil {
		return inventory.TransactionRequest{}, err
	}
	item, err := itemRefFromRequest(body.ItemType, body.TankTypeId, body.InventoryItemId)
	if err != nil {
		return inventory.TransactionRequest{}, err
	}
	assignmentID, err := requiredID(body.AssignmentId, "assignmentId")
	if err != nil {
		return inventory.TransactionRequest{}, err
	}
	target, err := optionalID(body.TargetAssignmentId, "targetAssignmentId")
	if err != nil {
		return inventory.TransactionRequest{}, err
	}
	orderID, err := optionalID(body.OrderId, "orderId")
	if err != nil {
		return inventory.TransactionRequest{}, err
	}

	var bucketName, reason string
	if body.Bucket != nil {
		bucketName = *body.Bucket
	}
	if body.Reason != nil {
		reason = *body.Reason
	}
	bucket, err := inventory.ParseBucket(bucketName)
	if err != nil {
		return inventory.TransactionRequest{}, err
	}

	return inventory.TransactionRequest{
		Type:               txType,
		Item:               item,
		AssignmentID:       assignmentID,
		TargetAssignmentID: target,
		Quantity:           body.Quantity,
		Bucket:             bucket,
		Actor:              actor,
		Reason:             reason,
		OrderID:            orderID,
	}, nil
}

func historyEntryResponse(e queries.HistoryEntryResponse) servers.HistoryEntry {
	entry := servers.HistoryEntry{
		ToStatus:   servers.OrderStatus(e.ToStatus.String()),
		ActorId:    e.ActorID,
		ActorRole:  string(e.ActorRole),
		Reason:     e.Reason,
		Metadata:   e.Metadata,
		OccurredAt: e.OccurredAt,
	}
	if e.FromStatus != nil {
		from := servers.OrderStatus(e.FromStatus.String())
		entry.FromStatus = &from
	}
	return entry
}

func timelineResponse(t queries.GetOrderTimelineQueryResponse) servers.Timeline {
	response := servers.Timeline{
		OrderId:       t.OrderID.Bytes(),
		CurrentStatus: servers.OrderStatus(t.CurrentStatus.String()),
		TotalSeconds:  t.TotalDuration.Seconds(),
		Steps:         make([]servers.TimelineStep, len(t.Steps)),
	}
	for i, step := range t.Steps {
		response.Steps[i] = servers.TimelineStep{
			Status:       servers.OrderStatus(step.Status.String()),
			ActorId:      step.Actor,
			EnteredAt:    step.EnteredAt,
			LeftAt:       step.LeftAt,
			DwellSeconds: step.Dwell.Seconds(),
		}
	}
	return response
}

func bulkResultResponse(r commands.BulkResult) servers.BulkResult {
	response := servers.BulkResult{
		Successful: uuidsResponse(r.Successful),
		Failed:     make([]servers.BulkFailure, len(r.Failed)),
	}
	for i, f := range r.Failed {
		response.Failed[i] = servers.BulkFailure{
			Id:    f.ID.Bytes(),
			Kind:  f.Kind.String(),
			Error: f.Error,
		}
	}
	return response
}

func holdsResponse(holds []services.Hold) []servers.Hold {
	out := make([]servers.Hold, len(holds))
	for i, h := range holds {
		out[i] = servers.Hold{
			ReservationId: h.ReservationID.Bytes(),
			OrderId:       h.OrderID.Bytes(),
			Quantity:      h.Quantity,
			CreatedAt:     h.CreatedAt,
		}
	}
	return out
}

func conflictResponse(c services.Conflict) servers.Conflict {
	return servers.Conflict{
		AssignmentId: c.AssignmentID.Bytes(),
		ItemType:     servers.ItemType(c.Item.Kind().String()),
		ItemId:       c.Item.ID().Bytes(),
		OnHand:       c.OnHand,
		Reserved:     c.Reserved,
		Shortfall:    c.Shortfall,
		Holds:        holdsResponse(c.Holds),
	}
}
