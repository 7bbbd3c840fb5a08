package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/reservation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func operator(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor("op-1", kernel.RoleOperator)
	require.NoError(t, err)
	return a
}

func tankRef(t *testing.T) inventory.ItemRef {
	t.Helper()
	ref, err := inventory.NewTankRef(kernel.NewUUID())
	require.NoError(t, err)
	return ref
}

func tankLine(t *testing.T, ref inventory.ItemRef, qty int) order.Line {
	t.Helper()
	line, err := order.NewLine(ref, qty, decimal.NewFromInt(20))
	require.NoError(t, err)
	return line
}

// orderIn rebuilds an order already sitting in status.
func orderIn(t *testing.T, status order.Status, locationID, assignmentID *kernel.UUID, lines ...order.Line) *order.Order {
	t.Helper()
	number, err := order.NewNumber(2024, 7)
	require.NoError(t, err)
	o, err := order.RestoreOrder(order.State{
		ID:            kernel.NewUUID(),
		Number:        number,
		Status:        status,
		PaymentStatus: order.PaymentPending,
		Priority:      order.PriorityNormal,
		TotalAmount:   decimal.NewFromInt(20),
		LocationID:    locationID,
		AssignmentID:  assignmentID,
		Lines:         lines,
		CreatedBy:     "op-1",
		CreatedAt:     time.Now().Add(-time.Hour),
		UpdatedAt:     time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	return o
}

func pointerFor(locationID kernel.UUID) inventory.Pointer {
	return inventory.Pointer{AssignmentID: kernel.NewUUID(), LocationID: locationID, SnapshotID: kernel.NewUUID()}
}

func activeHold(t *testing.T, orderID kernel.UUID, p inventory.Pointer, ref inventory.ItemRef, qty int) *reservation.Reservation {
	t.Helper()
	r, err := reservation.NewReservation(kernel.NewUUID(), orderID, p, ref, qty, nil, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	return r
}

// expiredHold rebuilds a hold the sweep has already expired.
func expiredHold(t *testing.T, orderID kernel.UUID, p inventory.Pointer, ref inventory.ItemRef, qty int) *reservation.Reservation {
	t.Helper()
	r, err := reservation.RestoreReservation(reservation.State{
		ID:           kernel.NewUUID(),
		OrderID:      orderID,
		AssignmentID: p.AssignmentID,
		SnapshotID:   p.SnapshotID,
		Item:         ref,
		Quantity:     qty,
		Status:       reservation.Expired,
		CreatedAt:    time.Now().Add(-48 * time.Hour),
		UpdatedAt:    time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	return r
}
