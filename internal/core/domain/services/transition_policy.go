package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// AnyRolePolicy lets every identified actor perform every transition. Role rules belong to the
// user management system and can be plugged in behind the same method.
type AnyRolePolicy struct{}

func NewAnyRolePolicy() AnyRolePolicy {
	return AnyRolePolicy{}
}

func (AnyRolePolicy) CanTransition(actor kernel.Actor, _ order.Status, _ order.Status) error {
	return actor.Validate()
}

// RoleTransitionPolicy restricts target statuses per role. Roles missing from the map may do
// anything; the system actor is always allowed.
type RoleTransitionPolicy struct {
	allowed map[kernel.Role][]order.Status
}

func NewRoleTransitionPolicy(allowed map[kernel.Role][]order.Status) RoleTransitionPolicy {
	return RoleTransitionPolicy{allowed: allowed}
}

func (p RoleTransitionPolicy) CanTransition(actor kernel.Actor, from order.Status, to order.Status) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() == kernel.RoleSystem {
		return nil
	}
	targets, restricted := p.allowed[actor.Role()]
	if !restricted {
		return nil
	}
	for _, t := range targets {
		if t == to {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("actor",
		fmt.Errorf("%s may not move orders from %s to %s", actor, from, to))
}
