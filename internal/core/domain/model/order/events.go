package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

const StatusChangedEventName = "order.status.changed"

// StatusChanged is raised by every successful transition.
type StatusChanged struct {
	OrderID     kernel.UUID `json:"-"`
	OrderNumber string      `json:"orderNumber"`
	From        Status      `json:"from"`
	To          Status      `json:"to"`
	ActorID     string      `json:"actorId"`
	ActorRole   kernel.Role `json:"actorRole"`
	Reason      string      `json:"reason,omitempty"`
	OccurredAt  time.Time   `json:"occurredAt"`
}

func (e StatusChanged) EventName() string {
	return StatusChangedEventName
}

func (e StatusChanged) AggregateID() kernel.UUID {
	return e.OrderID
}
