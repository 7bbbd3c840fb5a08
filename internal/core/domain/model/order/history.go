package order

import (
	"errors"
	"maps"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrHistoryEntryIsNotConstructed = errors.New("HistoryEntry must be created via NewHistoryEntry")

// HistoryEntry is an immutable record of one status change. The creation entry has no from status.
type HistoryEntry struct {
	orderID    kernel.UUID
	fromStatus *Status
	toStatus   Status
	actor      kernel.Actor
	reason     string
	metadata   map[string]any
	occurredAt time.Time
	guard      guard.ConstructorGuard
}

func NewHistoryEntry(
	orderID kernel.UUID,
	fromStatus *Status,
	toStatus Status,
	actor kernel.Actor,
	reason string,
	occurredAt time.Time,
) (HistoryEntry, error) {
	if err := errors.Join(orderID.Validate(), toStatus.Validate(), actor.Validate()); err != nil {
		return HistoryEntry{}, err
	}
	if fromStatus != nil {
		if err := fromStatus.Validate(); err != nil {
			return HistoryEntry{}, err
		}
		from := *fromStatus
		fromStatus = &from
	}

	return HistoryEntry{
		orderID:    orderID,
		fromStatus: fromStatus,
		toStatus:   toStatus,
		actor:      actor,
		reason:     reason,
		metadata:   map[string]any{},
		occurredAt: occurredAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (h HistoryEntry) Validate() error {
	return h.guard.Validate(ErrHistoryEntryIsNotConstructed)
}

// WithMetadata returns a copy of the entry carrying one more metadata key.
func (h HistoryEntry) WithMetadata(key string, value any) HistoryEntry {
	md := maps.Clone(h.metadata)
	if md == nil {
		md = map[string]any{}
	}
	md[key] = value
	h.metadata = md
	return h
}

func (h HistoryEntry) OrderID() kernel.UUID {
	return h.orderID
}

// FromStatus is nil for the entry written when the order is created.
func (h HistoryEntry) FromStatus() *Status {
	if h.fromStatus == nil {
		return nil
	}
	from := *h.fromStatus
	return &from
}

func (h HistoryEntry) ToStatus() Status {
	return h.toStatus
}

func (h HistoryEntry) Actor() kernel.Actor {
	return h.actor
}

func (h HistoryEntry) Reason() string {
	return h.reason
}

func (h HistoryEntry) Metadata() map[string]any {
	return maps.Clone(h.metadata)
}

func (h HistoryEntry) OccurredAt() time.Time {
	return h.occurredAt
}
