// Package ledger defines the external capability that moves value out of the
// controlled account.  The contract only decides whether, to whom and how
// much; building and signing the underlying instruction is the ledger's job.
package ledger

import (
	"context"

	"github.com/viant/safesend/model"
)

// Ledger submits transfer directives.
type Ledger interface {
	SubmitTransfer(ctx context.Context, directive *model.Directive) (*model.Receipt, error)
}

// Func adapts a function to Ledger.
type Func func(ctx context.Context, directive *model.Directive) (*model.Receipt, error)

func (f Func) SubmitTransfer(ctx context.Context, directive *model.Directive) (*model.Receipt, error) {
	return f(ctx, directive)
}
