package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultExpiringWithin = 24 * time.Hour
	DefaultTopItems       = 10
)

var ErrGetReservationMetricsQueryIsNotConstructed = errors.New(
	"GetReservationMetricsQuery must be created via NewGetReservationMetricsQuery constructor",
)

// GetReservationMetricsQuery summarises reservations. Holds expiring within expiringWithin are
// reported as expiring soon; topItems bounds the most-reserved list. Zero values take the defaults.
type GetReservationMetricsQuery struct {
	expiringWithin time.Duration
	topItems       int
	guard          guard.ConstructorGuard
}

func NewGetReservationMetricsQuery(expiringWithin time.Duration, topItems int) (GetReservationMetricsQuery, error) {
	if expiringWithin < 0 {
		return GetReservationMetricsQuery{}, errs.NewValueIsOutOfRangeError("expiringWithin", expiringWithin, 0, "unbounded")
	}
	if topItems < 0 {
		return GetReservationMetricsQuery{}, errs.NewValueIsOutOfRangeError("topItems", topItems, 0, "unbounded")
	}
	if expiringWithin == 0 {
		expiringWithin = DefaultExpiringWithin
	}
	if topItems == 0 {
		topItems = DefaultTopItems
	}
	return GetReservationMetricsQuery{
		expiringWithin: expiringWithin,
		topItems:       topItems,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (q GetReservationMetricsQuery) Validate() error {
	return q.guard.Validate(ErrGetReservationMetricsQueryIsNotConstructed)
}

func (q GetReservationMetricsQuery) ExpiringWithin() time.Duration {
	return q.expiringWithin
}

func (q GetReservationMetricsQuery) TopItems() int {
	return q.topItems
}

// ReservedItem is an item ranked by the quantity currently held in ACTIVE reservations.
type ReservedItem struct {
	Item         inventory.ItemRef
	Quantity     int
	Reservations int
}

type GetReservationMetricsQueryResponse struct {
	ActiveCount      int
	ActiveQuantity   int
	ExpiringSoon     int
	CountByStatus    map[reservation.Status]int
	TopReservedItems []ReservedItem
}
