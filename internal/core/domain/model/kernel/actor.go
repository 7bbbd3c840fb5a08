package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Role is the capability group an actor belongs to. Roles are issued by the user management
// system; this service only reads them.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleDriver   Role = "driver"
	RoleSystem   Role = "system"
)

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleManager, RoleOperator, RoleDriver, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// Actor is whoever performs a transition or posts to the ledger. It is recorded on every
// history entry and transaction log row.
type Actor struct {
	id   string
	role Role
}

// SystemActor is used by scheduled jobs.
var SystemActor = Actor{id: "system", role: RoleSystem}

func NewActor(id string, role Role) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

func (a Actor) ID() string {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Validate() error {
	if a.id == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	return a.role.Validate()
}

func (a Actor) String() string {
	return fmt.Sprintf("%s(%s)", a.id, a.role)
}
