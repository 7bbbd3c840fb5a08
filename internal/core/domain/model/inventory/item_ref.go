package inventory

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrItemRefIsNotConstructed = errors.New("ItemRef must be created via NewTankRef, NewItemRef or NewItemRefFromIDs")

// ItemRef points at exactly one catalog entry: a tank type or an inventory item.
type ItemRef struct {
	kind  EntityKind
	id    kernel.UUID
	guard guard.ConstructorGuard
}

func NewTankRef(tankTypeID kernel.UUID) (ItemRef, error) {
	if err := tankTypeID.Validate(); err != nil {
		return ItemRef{}, errs.NewValueIsRequiredErrorWithCause("tankTypeId", err)
	}
	return ItemRef{kind: Tank, id: tankTypeID, guard: guard.NewConstructorGuard()}, nil
}

func NewItemRef(inventoryItemID kernel.UUID) (ItemRef, error) {
	if err := inventoryItemID.Validate(); err != nil {
		return ItemRef{}, errs.NewValueIsRequiredErrorWithCause("inventoryItemId", err)
	}
	return ItemRef{kind: Item, id: inventoryItemID, guard: guard.NewConstructorGuard()}, nil
}

// NewItemRefFromIDs builds a reference from the nullable column pair used by the API and the
// database. Exactly one id must be set and it must agree with kind.
func NewItemRefFromIDs(kind EntityKind, tankTypeID, inventoryItemID *kernel.UUID) (ItemRef, error) {
	if tankTypeID != nil && inventoryItemID != nil {
		return ItemRef{}, errs.NewValueIsInvalidErrorWithCause(
			"item reference", errors.New("tankTypeId and inventoryItemId are mutually exclusive"))
	}

	switch kind {
	case Tank:
		if tankTypeID == nil {
			return ItemRef{}, errs.NewValueIsRequiredError("tankTypeId")
		}
		return NewTankRef(*tankTypeID)
	case Item:
		if inventoryItemID == nil {
			return ItemRef{}, errs.NewValueIsRequiredError("inventoryItemId")
		}
		return NewItemRef(*inventoryItemID)
	default:
		return ItemRef{}, kind.Validate()
	}
}

func (r ItemRef) Validate() error {
	return r.guard.Validate(ErrItemRefIsNotConstructed)
}

func (r ItemRef) Kind() EntityKind {
	return r.kind
}

func (r ItemRef) ID() kernel.UUID {
	return r.id
}

// TankTypeID is nil for item references.
func (r ItemRef) TankTypeID() *kernel.UUID {
	if r.kind != Tank {
		return nil
	}
	id := r.id
	return &id
}

// InventoryItemID is nil for tank references.
func (r ItemRef) InventoryItemID() *kernel.UUID {
	if r.kind != Item {
		return nil
	}
	id := r.id
	return &id
}

func (r ItemRef) IsEqual(other ItemRef) bool {
	return r.kind == other.kind && r.id.IsEqual(other.id)
}

// Compare gives the lock order for ledger lines: tanks before items, then by id.
func (r ItemRef) Compare(other ItemRef) int {
	if r.kind != other.kind {
		if r.kind < other.kind {
			return -1
		}
		return 1
	}
	return r.id.Compare(other.id)
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%s", r.kind, r.id)
}
