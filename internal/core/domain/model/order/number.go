package order

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrNumberIsNotConstructed = errors.New("Number must be created via NewNumber or ParseNumber")

	numberPattern = regexp.MustCompile(`^ORD-(\d{4})-(\d{3,})$`)
)

// Number is the human-readable order number ORD-YYYY-NNN. The sequence restarts every year
// and is allocated by the order repository.
type Number struct {
	year     int
	sequence int64
	guard    guard.ConstructorGuard
}

func NewNumber(year int, sequence int64) (Number, error) {
	if year < 2000 || year > 9999 {
		return Number{}, errs.NewValueIsOutOfRangeError("order number year", year, 2000, 9999)
	}
	if sequence < 1 {
		return Number{}, errs.NewValueIsInvalidErrorWithCause(
			"order number sequence", fmt.Errorf("%d is not greater than 0", sequence))
	}
	return Number{year: year, sequence: sequence, guard: guard.NewConstructorGuard()}, nil
}

func ParseNumber(s string) (Number, error) {
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q does not match ORD-YYYY-NNN", s))
	}
	year, _ := strconv.Atoi(m[1])
	seq, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", err)
	}
	return NewNumber(year, seq)
}

func (n Number) Validate() error {
	return n.guard.Validate(ErrNumberIsNotConstructed)
}

func (n Number) Year() int {
	return n.year
}

func (n Number) Sequence() int64 {
	return n.sequence
}

func (n Number) String() string {
	return fmt.Sprintf("ORD-%04d-%03d", n.year, n.sequence)
}
