package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/safesend/internal/clock"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/ledger"
)

// Ledger records submitted directives in memory.
type Ledger struct {
	mu         sync.Mutex
	directives []*model.Directive
	failure    error
}

var _ ledger.Ledger = (*Ledger)(nil)

// New creates an in-memory ledger.
func New() *Ledger {
	return &Ledger{}
}

// SubmitTransfer records the directive, or returns the configured failure.
func (l *Ledger) SubmitTransfer(ctx context.Context, directive *model.Directive) (*model.Receipt, error) {
	if directive == nil {
		return nil, fmt.Errorf("nil directive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failure != nil {
		return nil, l.failure
	}
	copied := *directive
	l.directives = append(l.directives, &copied)
	return &model.Receipt{
		ID:          directive.ID,
		Receiver:    directive.Receiver,
		Amount:      directive.Amount,
		SubmittedAt: clock.Now(),
		Reference:   fmt.Sprintf("memory/%d", len(l.directives)),
	}, nil
}

// Fail makes subsequent submissions fail with err; nil restores success.
func (l *Ledger) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failure = err
}

// Directives returns the accepted directives in submission order.
func (l *Ledger) Directives() []*model.Directive {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*model.Directive(nil), l.directives...)
}
