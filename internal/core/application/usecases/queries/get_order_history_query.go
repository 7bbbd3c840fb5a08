package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery returns the full status history of one order, oldest first.
type GetOrderHistoryQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderHistoryQuery(orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	return GetOrderHistoryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// HistoryEntryResponse is one history entry. FromStatus is nil for the creation entry.
type HistoryEntryResponse struct {
	FromStatus *order.Status
	ToStatus   order.Status
	ActorID    string
	ActorRole  kernel.Role
	Reason     string
	Metadata   map[string]any
	OccurredAt time.Time
}

func newHistoryEntryResponse(e order.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		FromStatus: e.FromStatus(),
		ToStatus:   e.ToStatus(),
		ActorID:    e.Actor().ID(),
		ActorRole:  e.Actor().Role(),
		Reason:     e.Reason(),
		Metadata:   e.Metadata(),
		OccurredAt: e.OccurredAt(),
	}
}
