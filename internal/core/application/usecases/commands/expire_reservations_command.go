package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrExpireReservationsCommandIsNotConstructed = errors.New(
	"ExpireReservationsCommand must be created via NewExpireReservationsCommand constructor",
)

// ExpireReservationsCommand sweeps ACTIVE holds older than the threshold, or past their
// own expiry, to EXPIRED.
type ExpireReservationsCommand struct { //nolint:recvcheck //using for validation
	threshold time.Duration

	guard guard.ConstructorGuard
}

func NewExpireReservationsCommand(thresholdHours int) (ExpireReservationsCommand, error) {
	if thresholdHours <= 0 {
		return ExpireReservationsCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"thresholdHours", fmt.Errorf("%d is not greater than 0", thresholdHours))
	}

	return ExpireReservationsCommand{
		threshold: time.Duration(thresholdHours) * time.Hour,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireReservationsCommand) Validate() error {
	return c.guard.Validate(ErrExpireReservationsCommandIsNotConstructed)
}

func (c ExpireReservationsCommand) Threshold() time.Duration {
	return c.threshold
}
