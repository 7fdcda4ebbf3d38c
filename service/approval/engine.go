package approval

import (
	"fmt"

	"github.com/viant/safesend/model"
	"github.com/viant/safesend/policy"
	"github.com/viant/safesend/service/identity"
	"github.com/viant/safesend/service/pending"
	"github.com/viant/safesend/service/whitelist"
)

// Engine composes the gate, policy, whitelist and pending ledger.
type Engine struct {
	gate      *identity.Gate
	policy    *policy.Store
	whitelist *whitelist.Registry
	pending   *pending.Ledger
}

// New creates an approval engine.
func New(gate *identity.Gate, policy *policy.Store, whitelist *whitelist.Registry, pending *pending.Ledger) *Engine {
	return &Engine{gate: gate, policy: policy, whitelist: whitelist, pending: pending}
}

// Decide classifies a transfer without changing state.  Checks run in order:
// global cap, whitelist, safe limit.
func (e *Engine) Decide(state *model.State, sender, receiver model.Address, amount uint64) *Decision {
	ret := &Decision{Sender: sender, Receiver: receiver, Amount: amount}
	switch {
	case amount > model.MaxAmount:
		ret.Outcome = OutcomeRejected
		ret.Reason = fmt.Errorf("%w: %d > %d", model.ErrAmountExceedsLimit, amount, model.MaxAmount)
	case !e.whitelist.Allows(state, receiver):
		ret.Outcome = OutcomeRejected
		ret.Reason = fmt.Errorf("%w: %s", model.ErrReceiverNotWhitelisted, receiver)
	case e.policy.IsSafe(state, amount):
		ret.Outcome = OutcomeAutoApproved
	default:
		ret.Outcome = OutcomeNeedsGuardian
	}
	return ret
}

// Request classifies a transfer and records a guardian-mode pending entry
// when the amount exceeds the safe limit.  Rejections return the decision
// together with its reason.
func (e *Engine) Request(state *model.State, sender, receiver model.Address, amount uint64) (*Decision, error) {
	decision := e.Decide(state, sender, receiver, amount)
	switch decision.Outcome {
	case OutcomeRejected:
		return decision, decision.Reason
	case OutcomeNeedsGuardian:
		if err := e.pending.Initiate(state, sender, receiver, amount, model.ModeGuardianApprove); err != nil {
			return decision, err
		}
	}
	return decision, nil
}

// Approve resolves a guardian-mode pending entry on behalf of the guardian and
// returns it for dispatch.
func (e *Engine) Approve(state *model.State, caller model.Address) (*model.PendingTransfer, error) {
	if err := e.gate.Require(state, caller, model.RoleGuardian); err != nil {
		return nil, err
	}
	return e.pending.Take(state, model.ModeGuardianApprove)
}
