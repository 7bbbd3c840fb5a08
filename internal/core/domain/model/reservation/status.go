package reservation

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status of a hold. Only ACTIVE holds count against availability.
type Status int

const (
	Unknown Status = iota
	Active
	Fulfilled
	Cancelled
	Expired
)

var statusNames = map[Status]string{
	Active:    "ACTIVE",
	Fulfilled: "FULFILLED",
	Cancelled: "CANCELLED",
	Expired:   "EXPIRED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("reservation status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("reservation status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
