// Package whitelist manages the single receiver allowed on the policy driven
// transfer path.
package whitelist

import (
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/identity"
)

// Registry reads and replaces the whitelisted receiver.
type Registry struct {
	gate *identity.Gate
}

// New creates a registry guarded by gate.
func New(gate *identity.Gate) *Registry {
	return &Registry{gate: gate}
}

// Get returns the current whitelisted receiver.
func (r *Registry) Get(state *model.State) model.Address {
	return state.WhitelistedReceiver
}

// Allows returns true when receiver is the whitelisted one.
func (r *Registry) Allows(state *model.State, receiver model.Address) bool {
	return !receiver.IsZero() && receiver == state.WhitelistedReceiver
}

// Update replaces the whitelisted receiver; owner only, never zero.
func (r *Registry) Update(state *model.State, caller, receiver model.Address) error {
	if err := r.gate.Require(state, caller, model.RoleOwner); err != nil {
		return err
	}
	if receiver.IsZero() {
		return model.ErrZeroAddressRejected
	}
	state.WhitelistedReceiver = receiver
	return nil
}
