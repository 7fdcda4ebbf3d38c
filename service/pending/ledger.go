// Package pending keeps the single outstanding transfer slot and its
// NONE -> PENDING -> NONE lifecycle.
package pending

import (
	"github.com/viant/safesend/internal/clock"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/identity"
)

// Option customises a Ledger.
type Option func(*Ledger)

// WithRejectOverwrite makes Initiate fail with model.ErrTransferPending
// instead of replacing an entry that is still pending.
func WithRejectOverwrite(reject bool) Option {
	return func(l *Ledger) { l.rejectOverwrite = reject }
}

// Ledger drives the pending transfer slot of a contract state.
type Ledger struct {
	gate            *identity.Gate
	rejectOverwrite bool
}

// New creates a ledger guarded by gate.
func New(gate *identity.Gate, options ...Option) *Ledger {
	ret := &Ledger{gate: gate}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Get returns a copy of the slot.
func (l *Ledger) Get(state *model.State) model.PendingTransfer {
	ret := state.Pending
	if ret.Status == "" {
		ret.Status = model.StatusNone
	}
	return ret
}

// Initiate stages a transfer awaiting mode's resolution.  Any caller may
// stage; the resolution step carries the authorization.  By default a pending
// entry is overwritten (last write wins).
func (l *Ledger) Initiate(state *model.State, caller, receiver model.Address, amount uint64, mode model.Mode) error {
	if l.rejectOverwrite && state.Pending.IsPending() {
		return model.ErrTransferPending
	}
	now := clock.Now()
	state.Pending = model.PendingTransfer{
		Receiver:    receiver,
		Amount:      amount,
		Status:      model.StatusPending,
		Mode:        mode,
		RequestedBy: caller,
		CreatedAt:   &now,
	}
	return nil
}

// Confirm resolves the pending entry on behalf of the owner and returns it;
// the caller dispatches it within the same invocation.
func (l *Ledger) Confirm(state *model.State, caller model.Address) (*model.PendingTransfer, error) {
	if err := l.gate.Require(state, caller, model.RoleOwner); err != nil {
		return nil, err
	}
	return l.Take(state, "")
}

// Cancel drops the pending entry without dispatching; owner only.
func (l *Ledger) Cancel(state *model.State, caller model.Address) (*model.PendingTransfer, error) {
	if err := l.gate.Require(state, caller, model.RoleOwner); err != nil {
		return nil, err
	}
	return l.Take(state, "")
}

// Take clears the slot and returns the entry it held.  When mode is not empty
// only an entry awaiting that mode is taken.  No authorization is checked.
func (l *Ledger) Take(state *model.State, mode model.Mode) (*model.PendingTransfer, error) {
	if !state.Pending.IsPending() || (mode != "" && state.Pending.Mode != mode) {
		return nil, model.ErrNoPendingTransaction
	}
	ret := state.Pending
	state.Pending.Clear()
	return &ret, nil
}
