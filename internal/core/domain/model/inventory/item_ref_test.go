package inventory_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemRefFromIDs(t *testing.T) {
	tankTypeID := kernel.NewUUID()
	itemID := kernel.NewUUID()

	t.Run("should build tank reference", func(t *testing.T) {
		ref, err := inventory.NewItemRefFromIDs(inventory.Tank, &tankTypeID, nil)

		require.NoError(t, err)
		require.NoError(t, ref.Validate())
		assert.Equal(t, inventory.Tank, ref.Kind())
		require.NotNil(t, ref.TankTypeID())
		assert.True(t, ref.TankTypeID().IsEqual(tankTypeID))
		assert.Nil(t, ref.InventoryItemID())
	})

	t.Run("should build item reference", func(t *testing.T) {
		ref, err := inventory.NewItemRefFromIDs(inventory.Item, nil, &itemID)

		require.NoError(t, err)
		assert.Equal(t, inventory.Item, ref.Kind())
		assert.Nil(t, ref.TankTypeID())
		require.NotNil(t, ref.InventoryItemID())
		assert.True(t, ref.InventoryItemID().IsEqual(itemID))
	})

	t.Run("should reject both ids", func(t *testing.T) {
		_, err := inventory.NewItemRefFromIDs(inventory.Tank, &tankTypeID, &itemID)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("should reject missing id for kind", func(t *testing.T) {
		_, err := inventory.NewItemRefFromIDs(inventory.Tank, nil, &itemID)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = inventory.NewItemRefFromIDs(inventory.Item, &tankTypeID, nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject unknown kind", func(t *testing.T) {
		_, err := inventory.NewItemRefFromIDs(inventory.UnknownKind, &tankTypeID, nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var ref inventory.ItemRef

		assert.Equal(t, inventory.ErrItemRefIsNotConstructed, ref.Validate())
	})
}

func TestItemRef_Compare(t *testing.T) {
	low, _ := kernel.UUIDFromString("00000000-0000-0000-0000-000000000001")
	high, _ := kernel.UUIDFromString("00000000-0000-0000-0000-000000000002")

	tankHigh, _ := inventory.NewTankRef(high)
	itemLow, _ := inventory.NewItemRef(low)
	tankLow, _ := inventory.NewTankRef(low)

	assert.Negative(t, tankHigh.Compare(itemLow), "tanks lock before items")
	assert.Negative(t, tankLow.Compare(tankHigh))
	assert.Zero(t, tankLow.Compare(tankLow))
	assert.False(t, tankLow.IsEqual(itemLow), "same id, different kind")
}

func TestParseEnums(t *testing.T) {
	kind, err := inventory.ParseEntityKind("tank")
	require.NoError(t, err)
	assert.Equal(t, inventory.Tank, kind)

	_, err = inventory.ParseEntityKind("pallet")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	for _, name := range []string{"SALE", "PURCHASE", "RETURN", "TRANSFER", "ASSIGNMENT"} {
		tt, parseErr := inventory.ParseTransactionType(name)
		require.NoError(t, parseErr)
		assert.Equal(t, name, tt.String())
	}

	bucket, err := inventory.ParseBucket("")
	require.NoError(t, err)
	assert.Equal(t, inventory.NoBucket, bucket)

	_, err = inventory.ParseBucket("half")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestBucket_ValidateFor(t *testing.T) {
	require.NoError(t, inventory.Full.ValidateFor(inventory.Tank))
	require.NoError(t, inventory.Empty.ValidateFor(inventory.Tank))
	require.ErrorIs(t, inventory.NoBucket.ValidateFor(inventory.Tank), errs.ErrValueIsRequired)
	require.ErrorIs(t, inventory.Units.ValidateFor(inventory.Tank), errs.ErrValueIsInvalid)
	require.NoError(t, inventory.NoBucket.ValidateFor(inventory.Item))
	require.ErrorIs(t, inventory.Full.ValidateFor(inventory.Item), errs.ErrValueIsInvalid)
}
