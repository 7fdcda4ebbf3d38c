// Package dispatcher turns an approved transfer into exactly one ledger
// directive.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/viant/safesend/internal/clock"
	"github.com/viant/safesend/internal/idgen"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/ledger"
)

// Service dispatches approved transfers.
type Service struct {
	ledger ledger.Ledger
}

// New creates a dispatcher submitting to l.
func New(l ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// Dispatch submits one directive.  Any ledger failure, including a missing
// receipt, is reported as a *model.DispatchError matching
// model.ErrLedgerDispatchFailed.
func (s *Service) Dispatch(ctx context.Context, contractID string, receiver model.Address, amount uint64) (*model.Receipt, error) {
	if s.ledger == nil {
		return nil, &model.DispatchError{Receiver: receiver, Amount: amount, Err: fmt.Errorf("ledger not configured")}
	}
	directive := &model.Directive{
		ID:         idgen.New(),
		ContractID: contractID,
		Receiver:   receiver,
		Amount:     amount,
		CreatedAt:  clock.Now(),
	}
	receipt, err := s.ledger.SubmitTransfer(ctx, directive)
	if err == nil && receipt == nil {
		err = fmt.Errorf("ledger returned no receipt")
	}
	if err != nil {
		return nil, &model.DispatchError{Receiver: receiver, Amount: amount, Err: err}
	}
	return receipt, nil
}
