// Package contract composes the SafeSend components into atomic invocations.
//
// Every public operation loads the contract state, works on a private clone,
// persists the clone and only then dispatches a transfer.  A rejected
// precondition leaves the stored state untouched; a failed dispatch restores
// the snapshot taken before the invocation.  Invocations on the same contract
// are serialised.
package contract

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/safesend/internal/clock"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/policy"
	"github.com/viant/safesend/service/approval"
	"github.com/viant/safesend/service/dao"
	"github.com/viant/safesend/service/dispatcher"
	"github.com/viant/safesend/service/event"
	"github.com/viant/safesend/service/identity"
	"github.com/viant/safesend/service/pending"
	"github.com/viant/safesend/service/whitelist"
	"github.com/viant/safesend/tracing"
)

// Service runs contract operations.
type Service struct {
	stateDAO   dao.Service[string, model.State]
	dispatcher *dispatcher.Service
	observer   event.Observer

	gate      *identity.Gate
	whitelist *whitelist.Registry
	policy    *policy.Store
	pending   *pending.Ledger
	approval  *approval.Engine

	pendingOptions []pending.Option

	mux   sync.Mutex
	locks map[string]*contractLock
}

type contractLock struct {
	sync.Mutex
	refs int
}

// New creates a contract service persisting to stateDAO and dispatching
// through d.
func New(stateDAO dao.Service[string, model.State], d *dispatcher.Service, options ...Option) *Service {
	ret := &Service{
		stateDAO:   stateDAO,
		dispatcher: d,
		observer:   event.Nop,
		locks:      map[string]*contractLock{},
	}
	for _, option := range options {
		option(ret)
	}
	ret.gate = identity.New()
	ret.whitelist = whitelist.New(ret.gate)
	ret.policy = policy.New(ret.gate)
	ret.pending = pending.New(ret.gate, ret.pendingOptions...)
	ret.approval = approval.New(ret.gate, ret.policy, ret.whitelist, ret.pending)
	return ret
}

// transfer is what a mutation asks to dispatch once the state is stored.
type transfer struct {
	receiver model.Address
	amount   uint64
}

type invocation struct {
	operation  string
	contractID string
	caller     model.Address
}

type outcome struct {
	state    *model.State
	receipt  *model.Receipt
	decision *approval.Decision
}

// lock serialises invocations on contractID.  Entries are reference counted
// so that ids which never resolve to a contract do not accumulate.
func (s *Service) lock(contractID string) func() {
	s.mux.Lock()
	l, ok := s.locks[contractID]
	if !ok {
		l = &contractLock{}
		s.locks[contractID] = l
	}
	l.refs++
	s.mux.Unlock()
	l.Lock()
	return func() {
		l.Unlock()
		s.mux.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, contractID)
		}
		s.mux.Unlock()
	}
}

func (s *Service) load(ctx context.Context, contractID string) (*model.State, error) {
	state, err := s.stateDAO.Load(ctx, contractID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) || errors.Is(err, dao.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %q", model.ErrNotFound, contractID)
		}
		return nil, fmt.Errorf("failed to load contract %s: %w", contractID, err)
	}
	if state == nil {
		return nil, fmt.Errorf("%w: %q", model.ErrNotFound, contractID)
	}
	return state, nil
}

// execute runs mutate against a clone of the stored state as one atomic unit.
func (s *Service) execute(ctx context.Context, inv invocation, mutate func(state *model.State) (*transfer, *approval.Decision, error)) (ret *outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "safesend."+inv.operation)
	span.WithAttributes(map[string]string{"contract.id": inv.contractID, "caller": inv.caller.String()})
	defer func() { tracing.EndSpan(span, err) }()

	unlock := s.lock(inv.contractID)
	defer unlock()

	prev, err := s.load(ctx, inv.contractID)
	if err != nil {
		return nil, err
	}
	next := prev.Clone()
	t := &model.Transition{
		ContractID: inv.contractID,
		Operation:  inv.operation,
		Caller:     inv.caller,
		From:       prev.Pending.Status,
	}

	toDispatch, decision, err := mutate(next)
	if decision != nil {
		t.Outcome = string(decision.Outcome)
		t.Receiver, t.Amount = decision.Receiver, decision.Amount
	}
	if err != nil {
		t.To = prev.Pending.Status
		t.Error = err.Error()
		s.observe(ctx, event.TypeRejected, t)
		return &outcome{decision: decision}, err
	}

	changed := !reflect.DeepEqual(prev, next)
	if changed {
		next.Version = prev.Version + 1
		next.UpdatedAt = clock.Now()
		if err = s.stateDAO.Save(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to save contract %s: %w", inv.contractID, err)
		}
	}
	t.To = next.Pending.Status
	ret = &outcome{state: next.Clone(), decision: decision}
	if toDispatch == nil {
		s.observe(ctx, event.TypeTransition, t)
		return ret, nil
	}

	t.Receiver, t.Amount = toDispatch.receiver, toDispatch.amount
	span.WithAmount(toDispatch.amount)
	receipt, err := s.dispatcher.Dispatch(ctx, inv.contractID, toDispatch.receiver, toDispatch.amount)
	if err != nil {
		if changed {
			if rErr := s.stateDAO.Save(context.WithoutCancel(ctx), prev); rErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to restore contract %s: %w", inv.contractID, rErr))
			}
		}
		t.To = prev.Pending.Status
		t.Error = err.Error()
		s.observe(ctx, event.TypeDispatchFailed, t)
		return &outcome{decision: decision}, err
	}
	t.ReceiptID = receipt.ID
	s.observe(ctx, event.TypeDispatched, t)
	ret.receipt = receipt
	return ret, nil
}

func (s *Service) observe(ctx context.Context, eventType string, t *model.Transition) {
	s.observer.Observe(ctx, event.NewTransitionEvent(eventType, t))
}

// Create initialises a contract: the owner is also the whitelisted receiver,
// the guardian is unset and the safe limit is zero.
func (s *Service) Create(ctx context.Context, contractID string, owner model.Address) (ret *model.State, err error) {
	ctx, span := tracing.StartSpan(ctx, "safesend."+OpCreate)
	span.WithAttributes(map[string]string{"contract.id": contractID, "caller": owner.String()})
	defer func() { tracing.EndSpan(span, err) }()

	t := &model.Transition{ContractID: contractID, Operation: OpCreate, Caller: owner}
	defer func() {
		if err != nil {
			t.Error = err.Error()
			s.observe(ctx, event.TypeRejected, t)
			return
		}
		t.To = model.StatusNone
		s.observe(ctx, event.TypeTransition, t)
	}()
	if contractID == "" {
		return nil, fmt.Errorf("contract id was empty")
	}
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: owner", model.ErrZeroAddressRejected)
	}

	unlock := s.lock(contractID)
	defer unlock()
	if _, err = s.stateDAO.Load(ctx, contractID); err == nil {
		return nil, fmt.Errorf("%w: %q", model.ErrAlreadyCreated, contractID)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return nil, fmt.Errorf("failed to load contract %s: %w", contractID, err)
	}
	state := model.NewState(contractID, owner)
	state.Version = 1
	state.UpdatedAt = clock.Now()
	if err = s.stateDAO.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save contract %s: %w", contractID, err)
	}
	return state.Clone(), nil
}

// SetGuardian replaces the guardian; owner only.
func (s *Service) SetGuardian(ctx context.Context, contractID string, caller, guardian model.Address) error {
	_, err := s.execute(ctx, invocation{operation: OpSetGuardian, contractID: contractID, caller: caller}, func(state *model.State) (*transfer, *approval.Decision, error) {
		return nil, nil, s.policy.SetGuardian(state, caller, guardian)
	})
	return err
}

// SetSafeLimit replaces the auto-approve threshold; owner only.
func (s *Service) SetSafeLimit(ctx context.Context, contractID string, caller model.Address, limit uint64) error {
	_, err := s.execute(ctx, invocation{operation: OpSetSafeLimit, contractID: contractID, caller: caller}, func(state *model.State) (*transfer, *approval.Decision, error) {
		return nil, nil, s.policy.SetSafeLimit(state, caller, limit)
	})
	return err
}

// ApplyPolicy sets guardian and safe limit in one invocation; owner only.
func (s *Service) ApplyPolicy(ctx context.Context, contractID string, caller model.Address, config *policy.Config) error {
	_, err := s.execute(ctx, invocation{operation: OpApplyPolicy, contractID: contractID, caller: caller}, func(state *model.State) (*transfer, *approval.Decision, error) {
		return nil, nil, s.policy.Apply(state, caller, config)
	})
	return err
}

// UpdateWhitelist replaces the whitelisted receiver; owner only.
func (s *Service) UpdateWhitelist(ctx context.Context, contractID string, caller, receiver model.Address) error {
	_, err := s.execute(ctx, invocation{operation: OpUpdateWhitelist, contractID: contractID, caller: caller}, func(state *model.State) (*transfer, *approval.Decision, error) {
		return nil, nil, s.whitelist.Update(state, caller, receiver)
	})
	return err
}

// InitiateTransfer stages an owner-confirmed transfer.  Any caller may stage;
// neither the cap nor the whitelist apply on this path.
func (s *Service) InitiateTransfer(ctx context.Context, contractID string, caller, receiver model.Address, amount uint64) error {
	_, err := s.execute(ctx, invocation{operation: OpInitiateTransfer, contractID: contractID, caller: caller}, func(state *model.State) (*transfer, *approval.Decision, error) {
		return nil, nil, s.pending.Initiate(state, caller, receiver, amount, model.ModeOwnerConfirm)
	})
	return err
}

// ConfirmTransfer dispatches the pending transfer on behalf of the owner.
func (s *Service) ConfirmTransfer(ctx context.Context, contractID string, caller model.Address) (*model.Receipt, error) {
	out, err := s.execute(ctx, invocation{operation: OpConfirmTransfer, contractID: contractID, caller: caller}, func(state *model.State) (*transfer, *approval.Decision, error) {
		entry, err := s.pending.Confirm(state, caller)
		if err != nil {
			return nil, nil, err
		}
		return &transfer{receiver: entry.Receiver, amount: entry.Amount}, nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out.receipt, nil
}

// CancelTransfer drops the pending transfer; owner only.
func (s *Service) CancelTransfer(ctx context.Context, contractID string, caller model.Address) error {
	_, err := s.execute(ctx, invocation{operation: OpCancelTransfer, contractID: contractID, caller: caller}, func(state *model.State) (*transfer, *approval.Decision, error) {
		_, err := s.pending.Cancel(state, caller)
		return nil, nil, err
	})
	return err
}

// RequestTransaction classifies a policy driven transfer.  Auto-approved
// transfers are dispatched immediately and return a receipt; transfers above
// the safe limit are recorded for the guardian and return a nil receipt.
func (s *Service) RequestTransaction(ctx context.Context, contractID string, sender, receiver model.Address, amount uint64) (*approval.Decision, *model.Receipt, error) {
	out, err := s.execute(ctx, invocation{operation: OpRequestTransaction, contractID: contractID, caller: sender}, func(state *model.State) (*transfer, *approval.Decision, error) {
		decision, err := s.approval.Request(state, sender, receiver, amount)
		if err != nil {
			return nil, decision, err
		}
		if decision.Outcome == approval.OutcomeAutoApproved {
			return &transfer{receiver: receiver, amount: amount}, decision, nil
		}
		return nil, decision, nil
	})
	if out == nil {
		return nil, nil, err
	}
	return out.decision, out.receipt, err
}

// ApproveTransaction dispatches the transfer awaiting the guardian.
func (s *Service) ApproveTransaction(ctx context.Context, contractID string, caller model.Address) (*model.Receipt, error) {
	out, err := s.execute(ctx, invocation{operation: OpApproveTransaction, contractID: contractID, caller: caller}, func(state *model.State) (*transfer, *approval.Decision, error) {
		entry, err := s.approval.Approve(state, caller)
		if err != nil {
			return nil, nil, err
		}
		return &transfer{receiver: entry.Receiver, amount: entry.Amount}, nil, nil
	})
	if err != nil {
		return nil, err
	}
	return out.receipt, nil
}
