// Package pgconv converts between domain identifiers and the column types of the
// postgres repositories.
package pgconv

import (
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ToNullable maps an optional domain id to a nullable uuid column.
func ToNullable(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// FromNullable maps a nullable uuid column back to an optional domain id.
func FromNullable(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// FromColumn maps a non-null uuid column to a domain id.
func FromColumn(raw uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(raw[:])
}

// ItemColumns is the (item_type, tank_type_id, inventory_item_id) triple shared by order
// lines, reservations and transaction log rows.
type ItemColumns struct {
	ItemType        string
	TankTypeID      *uuid.UUID
	InventoryItemID *uuid.UUID
}

func FromItemRef(item inventory.ItemRef) ItemColumns {
	return ItemColumns{
		ItemType:        item.Kind().String(),
		TankTypeID:      ToNullable(item.TankTypeID()),
		InventoryItemID: ToNullable(item.InventoryItemID()),
	}
}

func (c ItemColumns) ItemRef() (inventory.ItemRef, error) {
	kind, err := inventory.ParseEntityKind(c.ItemType)
	if err != nil {
		return inventory.ItemRef{}, err
	}
	tankTypeID, err := FromNullable(c.TankTypeID)
	if err != nil {
		return inventory.ItemRef{}, err
	}
	itemID, err := FromNullable(c.InventoryItemID)
	if err != nil {
		return inventory.ItemRef{}, err
	}
	return inventory.NewItemRefFromIDs(kind, tankTypeID, itemID)
}
