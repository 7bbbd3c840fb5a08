package kernel_test

import (
	"slices"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonical = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID_IsRandomAndValid(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()

	require.NoError(t, a.Validate())
	assert.False(t, a.IsEqual(b))
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, a.String())
}

func TestUUIDFromString(t *testing.T) {
	accepted := []string{
		canonical,
		"{" + canonical + "}",
		"urn:uuid:" + canonical,
		"550e8400e29b41d4a716446655440000",
	}
	for _, input := range accepted {
		t.Run(input, func(t *testing.T) {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}

	rejected := []string{"", "tank-type-7", "550e8400-e29b-41d4-a716", canonical + "-extra", "550e8400-e29b-41d4-a716-44665544000g"}
	for _, input := range rejected {
		t.Run("rejects "+input, func(t *testing.T) {
			_, err := kernel.UUIDFromString(input)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid UUID format")
		})
	}
}

// Nil UUIDs parse but never validate, so an unset uuid column cannot come back as an id.
func TestUUID_NilIsNotConstructed(t *testing.T) {
	var zero kernel.UUID
	assert.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)

	parsed, err := kernel.UUIDFromString(uuid.Nil.String())
	require.NoError(t, err)
	assert.ErrorIs(t, parsed.Validate(), kernel.ErrUUIDIsNotConstructed)

	_, err = kernel.UUIDFromBytes(uuid.Nil[:])
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUIDFromBytes_RoundTripsThroughColumnValue(t *testing.T) {
	id := kernel.NewUUID()
	column := id.Bytes()

	back, err := kernel.UUIDFromBytes(column[:])

	require.NoError(t, err)
	assert.True(t, id.IsEqual(back))
	assert.IsType(t, uuid.UUID{}, column)
}

func TestUUIDFromBytes_WrongLength(t *testing.T) {
	_, err := kernel.UUIDFromBytes([]byte{0x55, 0x0e, 0x84})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid UUID format")
}

func TestUUID_CompareGivesLockOrder(t *testing.T) {
	low, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000001")
	require.NoError(t, err)
	mid, err := kernel.UUIDFromString("7fffffff-0000-0000-0000-000000000000")
	require.NoError(t, err)
	high, err := kernel.UUIDFromString("ffffffff-0000-0000-0000-000000000000")
	require.NoError(t, err)

	ids := []kernel.UUID{high, low, mid}
	slices.SortFunc(ids, kernel.UUID.Compare)

	assert.Equal(t, []kernel.UUID{low, mid, high}, ids)
	assert.Zero(t, low.Compare(low))
}
