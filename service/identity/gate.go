// Package identity checks callers against the roles recorded in the contract
// state.
package identity

import (
	"fmt"

	"github.com/viant/safesend/model"
)

// Gate authorizes callers.  It has no state of its own.
type Gate struct{}

// New creates a gate.
func New() *Gate {
	return &Gate{}
}

// Authorize reports whether caller holds role.  Guardian checks fail with
// model.ErrGuardianNotSet when no guardian has been configured.
func (g *Gate) Authorize(state *model.State, caller model.Address, role model.Role) (bool, error) {
	switch role {
	case model.RoleAny:
		return true, nil
	case model.RoleOwner:
		return !caller.IsZero() && caller == state.Owner, nil
	case model.RoleGuardian:
		if !state.HasGuardian() {
			return false, model.ErrGuardianNotSet
		}
		return caller == state.Guardian, nil
	default:
		return false, fmt.Errorf("unsupported role: %q", role)
	}
}

// Require is Authorize turned into an error: model.ErrUnauthorized when the
// caller does not hold role.
func (g *Gate) Require(state *model.State, caller model.Address, role model.Role) error {
	ok, err := g.Authorize(state, caller, role)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not %s", model.ErrUnauthorized, caller, role)
	}
	return nil
}
