package order

import (
	"fmt"
	"slices"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	PENDING ──> CONFIRMED ──> RESERVED ──> IN_TRANSIT ──> DELIVERED ──> FULFILLED
//	   │            │             │            │  ^
//	   │            │             │            v  │
//	   └────────────┴─────────────┴──────> CANCELLED <── FAILED
//
// FULFILLED and CANCELLED are terminal. FAILED can retry into IN_TRANSIT or be cancelled.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota
	Pending
	Confirmed
	Reserved
	InTransit
	Delivered
	Fulfilled
	Cancelled
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Confirmed: "CONFIRMED",
		Reserved:  "RESERVED",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
		Fulfilled: "FULFILLED",
		Cancelled: "CANCELLED",
		Failed:    "FAILED",
	}
}

// getTransitions returns the allowed targets of every status. Terminal statuses map to nothing.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Reserved, Cancelled},
		Reserved:  {InTransit, Cancelled},
		InTransit: {Delivered, Failed},
		Delivered: {Fulfilled},
		Failed:    {InTransit, Cancelled},
		Fulfilled: {},
		Cancelled: {},
	}
}

// AllStatuses lists every valid status in workflow order.
func AllStatuses() []Status {
	return []Status{Pending, Confirmed, Reserved, InTransit, Delivered, Fulfilled, Cancelled, Failed}
}

// ParseStatus converts the persisted or wire name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// MarshalText lets events and read models carry the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) IsTerminal() bool {
	targets, ok := getTransitions()[s]
	return ok && len(targets) == 0
}

// AllowedTargets returns the statuses reachable in one step.
func (s Status) AllowedTargets() []Status {
	return slices.Clone(getTransitions()[s])
}

func (s Status) CanTransitionTo(to Status) bool {
	return slices.Contains(getTransitions()[s], to)
}

// ValidateTransition rejects any edge missing from the transition table.
func (s Status) ValidateTransition(to Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}
	if !s.CanTransitionTo(to) {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition is invalid",
			fmt.Errorf("%s cannot move to %s, %s", s, to, s.describeTargets()),
		)
	}
	return nil
}

func (s Status) describeTargets() string {
	targets := s.AllowedTargets()
	if len(targets) == 0 {
		return "it is terminal"
	}
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.String())
	}
	return "allowed: " + strings.Join(names, ", ")
}
