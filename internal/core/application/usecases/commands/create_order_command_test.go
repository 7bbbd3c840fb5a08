package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	location := kernel.NewUUID()
	lines := []order.Line{tankLine(t, tankRef(t), 2)}

	cmd, err := commands.NewCreateOrderCommand(id, &location, lines, order.PriorityHigh, operator(t))

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, &location, cmd.LocationID())
	assert.Len(t, cmd.Lines(), 1)
	assert.Equal(t, order.PriorityHigh, cmd.Priority())
	assert.Equal(t, "op-1", cmd.Actor().ID())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, nil, []order.Line{tankLine(t, tankRef(t), 1)},
		order.PriorityNormal, operator(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_NoLines(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), nil, nil, order.PriorityNormal, operator(t))

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "items")
}

func TestNewCreateOrderCommand_MissingActor(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), nil, []order.Line{tankLine(t, tankRef(t), 1)},
		order.PriorityNormal, kernel.Actor{})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	assert.ErrorIs(t, commands.CreateOrderCommand{}.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
