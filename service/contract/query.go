package contract

import (
	"context"

	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/approval"
)

// State returns a copy of the stored contract state.
func (s *Service) State(ctx context.Context, contractID string) (*model.State, error) {
	state, err := s.load(ctx, contractID)
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// Owner returns the contract owner.
func (s *Service) Owner(ctx context.Context, contractID string) (model.Address, error) {
	state, err := s.load(ctx, contractID)
	if err != nil {
		return "", err
	}
	return state.Owner, nil
}

// Whitelist returns the whitelisted receiver.
func (s *Service) Whitelist(ctx context.Context, contractID string) (model.Address, error) {
	state, err := s.load(ctx, contractID)
	if err != nil {
		return "", err
	}
	return s.whitelist.Get(state), nil
}

// Guardian returns the guardian, empty when unset.
func (s *Service) Guardian(ctx context.Context, contractID string) (model.Address, error) {
	state, err := s.load(ctx, contractID)
	if err != nil {
		return "", err
	}
	return state.Guardian, nil
}

// SafeLimit returns the auto-approve threshold.
func (s *Service) SafeLimit(ctx context.Context, contractID string) (uint64, error) {
	state, err := s.load(ctx, contractID)
	if err != nil {
		return 0, err
	}
	return state.SafeLimit, nil
}

// Pending returns the pending transfer slot.
func (s *Service) Pending(ctx context.Context, contractID string) (model.PendingTransfer, error) {
	state, err := s.load(ctx, contractID)
	if err != nil {
		return model.PendingTransfer{Status: model.StatusNone}, err
	}
	return s.pending.Get(state), nil
}

// Preview classifies a transfer without recording or dispatching anything.
func (s *Service) Preview(ctx context.Context, contractID string, sender, receiver model.Address, amount uint64) (*approval.Decision, error) {
	state, err := s.load(ctx, contractID)
	if err != nil {
		return nil, err
	}
	return s.approval.Decide(state, sender, receiver, amount), nil
}
