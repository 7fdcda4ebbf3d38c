package policy

import (
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/identity"
)

// Store mutates and evaluates the policy part of the contract state.
//
// No upper bound is enforced on the safe limit here; model.MaxAmount is
// applied when a transfer is classified.
type Store struct {
	gate *identity.Gate
}

// New creates a policy store guarded by gate.
func New(gate *identity.Gate) *Store {
	return &Store{gate: gate}
}

// SetGuardian replaces the guardian; owner only.  Setting the owner itself or
// the zero address is accepted, the latter unsets the guardian.
func (s *Store) SetGuardian(state *model.State, caller, guardian model.Address) error {
	if err := s.gate.Require(state, caller, model.RoleOwner); err != nil {
		return err
	}
	if guardian.IsZero() {
		guardian = ""
	}
	state.Guardian = guardian
	return nil
}

// SetSafeLimit replaces the auto-approve threshold; owner only.
func (s *Store) SetSafeLimit(state *model.State, caller model.Address, limit uint64) error {
	if err := s.gate.Require(state, caller, model.RoleOwner); err != nil {
		return err
	}
	state.SafeLimit = limit
	return nil
}

// IsSafe returns true when amount may be approved without the guardian.
func (s *Store) IsSafe(state *model.State, amount uint64) bool {
	return amount <= state.SafeLimit
}

// ---------------------------------------------------------------------------
// Config <-> state converters
// ---------------------------------------------------------------------------

// Config is the serialisable policy used to bootstrap a contract.
type Config struct {
	Guardian  string `json:"guardian,omitempty" yaml:"guardian,omitempty"`
	SafeLimit uint64 `json:"safeLimit,omitempty" yaml:"safeLimit,omitempty"`
}

// ToConfig extracts the policy of a state.
func ToConfig(state *model.State) *Config {
	if state == nil {
		return nil
	}
	return &Config{Guardian: state.Guardian.String(), SafeLimit: state.SafeLimit}
}

// Apply writes c into state on behalf of caller, going through the same owner
// checks as the individual setters.
func (s *Store) Apply(state *model.State, caller model.Address, c *Config) error {
	if c == nil {
		return nil
	}
	if err := s.SetGuardian(state, caller, model.Address(c.Guardian)); err != nil {
		return err
	}
	return s.SetSafeLimit(state, caller, c.SafeLimit)
}
