package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/safesend/model"
)

func TestLedger_SubmitTransfer(t *testing.T) {
	ctx := context.Background()
	l, err := New(ctx, t.TempDir())
	require.NoError(t, err)

	directive := &model.Directive{ID: "d1", ContractID: "c1", Receiver: "BOB", Amount: 10}
	receipt, err := l.SubmitTransfer(ctx, directive)
	require.NoError(t, err)
	assert.Equal(t, "d1", receipt.ID)
	assert.Contains(t, receipt.Reference, "pending/d1.json")

	_, err = l.SubmitTransfer(ctx, directive)
	assert.Error(t, err, "duplicate directive")

	_, err = l.SubmitTransfer(ctx, &model.Directive{})
	assert.Error(t, err)

	pending, err := l.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c1", pending[0].ContractID)
	assert.EqualValues(t, 10, pending[0].Amount)
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.Error(t, err)

	l, err := New(context.Background(), "mem://localhost/outbox")
	require.NoError(t, err)
	_, err = l.SubmitTransfer(context.Background(), &model.Directive{ID: "m1", Receiver: "BOB", Amount: 1})
	assert.NoError(t, err)
}
