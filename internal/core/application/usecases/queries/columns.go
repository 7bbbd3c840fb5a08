// Package queries contains read-only operations served straight from the database with raw SQL.
// Query handlers never open a unit of work and never lock rows; they may run on a read replica.
package queries

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// itemColumns scans the (item_type, tank_type_id, inventory_item_id) triple.
type itemColumns struct {
	itemType        string
	tankTypeID      uuid.NullUUID
	inventoryItemID uuid.NullUUID
}

func (c *itemColumns) dest() []any {
	return []any{&c.itemType, &c.tankTypeID, &c.inventoryItemID}
}

func (c itemColumns) itemRef() (inventory.ItemRef, error) {
	kind, err := inventory.ParseEntityKind(c.itemType)
	if err != nil {
		return inventory.ItemRef{}, err
	}
	tankTypeID, err := nullableUUID(c.tankTypeID)
	if err != nil {
		return inventory.ItemRef{}, err
	}
	itemID, err := nullableUUID(c.inventoryItemID)
	if err != nil {
		return inventory.ItemRef{}, err
	}
	return inventory.NewItemRefFromIDs(kind, tankTypeID, itemID)
}

func nullableUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// historyRow scans one order_status_history row into a domain entry.
type historyRow struct {
	orderID    uuid.UUID
	fromStatus *string
	toStatus   string
	actorID    string
	actorRole  string
	reason     string
	metadata   []byte
	createdAt  time.Time
}

const historyColumns = `order_id, from_status, to_status, actor_id, actor_role, COALESCE(reason, ''), metadata, created_at`

func (r *historyRow) dest() []any {
	return []any{&r.orderID, &r.fromStatus, &r.toStatus, &r.actorID, &r.actorRole, &r.reason, &r.metadata, &r.createdAt}
}

func (r historyRow) entry() (order.HistoryEntry, error) {
	orderID, err := kernel.UUIDFromBytes(r.orderID[:])
	if err != nil {
		return order.HistoryEntry{}, err
	}
	to, err := order.ParseStatus(r.toStatus)
	if err != nil {
		return order.HistoryEntry{}, err
	}
	var from *order.Status
	if r.fromStatus != nil {
		f, parseErr := order.ParseStatus(*r.fromStatus)
		if parseErr != nil {
			return order.HistoryEntry{}, parseErr
		}
		from = &f
	}
	actor, err := kernel.NewActor(r.actorID, kernel.Role(r.actorRole))
	if err != nil {
		return order.HistoryEntry{}, err
	}

	entry, err := order.NewHistoryEntry(orderID, from, to, actor, r.reason, r.createdAt)
	if err != nil {
		return order.HistoryEntry{}, err
	}
	if len(r.metadata) > 0 {
		var md map[string]any
		if err = json.Unmarshal(r.metadata, &md); err != nil {
			return order.HistoryEntry{}, err
		}
		for k, v := range md {
			entry = entry.WithMetadata(k, v)
		}
	}
	return entry, nil
}
