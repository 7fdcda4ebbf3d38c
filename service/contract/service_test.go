package contract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/policy"
	"github.com/viant/safesend/service/approval"
	"github.com/viant/safesend/service/dao"
	"github.com/viant/safesend/service/dao/state/memory"
	"github.com/viant/safesend/service/dispatcher"
	"github.com/viant/safesend/service/event"
	"github.com/viant/safesend/service/ledger"
	lmemory "github.com/viant/safesend/service/ledger/memory"
	"github.com/viant/safesend/service/pending"
)

const (
	ownerA     model.Address = "ALICE"
	receiverB  model.Address = "BOB"
	strangerC  model.Address = "CAROL"
	guardianD  model.Address = "DAVE"
	outsiderE  model.Address = "ERIN"
	contractID               = "vault"
)

type recorder struct {
	mux    sync.Mutex
	events []*event.Event[*model.Transition]
}

func (r *recorder) Observe(_ context.Context, e *event.Event[*model.Transition]) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []string {
	r.mux.Lock()
	defer r.mux.Unlock()
	var ret []string
	for _, e := range r.events {
		ret = append(ret, e.Context.Operation+":"+e.Context.EventType)
	}
	return ret
}

func newService(t *testing.T, options ...Option) (*Service, *lmemory.Ledger, *recorder) {
	t.Helper()
	l := lmemory.New()
	rec := &recorder{}
	srv := New(memory.New(), dispatcher.New(l), append([]Option{WithObserver(rec)}, options...)...)
	_, err := srv.Create(context.Background(), contractID, ownerA)
	require.NoError(t, err)
	return srv, l, rec
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	srv, _, rec := newService(t)

	state, err := srv.State(ctx, contractID)
	require.NoError(t, err)
	assert.Equal(t, ownerA, state.Owner)
	assert.Equal(t, ownerA, state.WhitelistedReceiver)
	assert.False(t, state.HasGuardian())
	assert.EqualValues(t, 0, state.SafeLimit)
	assert.Equal(t, model.StatusNone, state.Pending.Status)
	assert.Equal(t, 1, state.Version)

	_, err = srv.Create(ctx, contractID, strangerC)
	assert.ErrorIs(t, err, model.ErrAlreadyCreated)
	owner, err := srv.Owner(ctx, contractID)
	require.NoError(t, err)
	assert.Equal(t, ownerA, owner)

	_, err = srv.Create(ctx, "other", model.ZeroAddress)
	assert.ErrorIs(t, err, model.ErrZeroAddressRejected)
	_, err = srv.Create(ctx, "", ownerA)
	assert.Error(t, err)

	_, err = srv.State(ctx, "other")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, srv.SetSafeLimit(ctx, "other", ownerA, 1), model.ErrNotFound)

	assert.Equal(t, []string{"create:transition", "create:rejected", "create:rejected", "create:rejected"}, rec.types())
}

func TestService_Scenarios(t *testing.T) {
	ctx := context.Background()
	srv, l, _ := newService(t)

	// whitelist update by owner and by a stranger
	require.NoError(t, srv.UpdateWhitelist(ctx, contractID, ownerA, receiverB))
	assert.ErrorIs(t, srv.UpdateWhitelist(ctx, contractID, strangerC, strangerC), model.ErrUnauthorized)
	whitelisted, err := srv.Whitelist(ctx, contractID)
	require.NoError(t, err)
	assert.Equal(t, receiverB, whitelisted)

	// auto approval and guardian threshold
	require.NoError(t, srv.SetSafeLimit(ctx, contractID, ownerA, 1000))
	decision, receipt, err := srv.RequestTransaction(ctx, contractID, strangerC, receiverB, 500)
	require.NoError(t, err)
	assert.Equal(t, approval.OutcomeAutoApproved, decision.Outcome)
	require.NotNil(t, receipt)
	require.Len(t, l.Directives(), 1)
	assert.Equal(t, receiverB, l.Directives()[0].Receiver)
	assert.EqualValues(t, 500, l.Directives()[0].Amount)

	decision, receipt, err = srv.RequestTransaction(ctx, contractID, strangerC, receiverB, 2000)
	require.NoError(t, err)
	assert.Equal(t, approval.OutcomeNeedsGuardian, decision.Outcome)
	assert.Nil(t, receipt)
	assert.Len(t, l.Directives(), 1)
	entry, err := srv.Pending(ctx, contractID)
	require.NoError(t, err)
	assert.Equal(t, receiverB, entry.Receiver)
	assert.EqualValues(t, 2000, entry.Amount)
	assert.Equal(t, model.StatusPending, entry.Status)

	// guardian approval
	_, err = srv.ApproveTransaction(ctx, contractID, guardianD)
	assert.ErrorIs(t, err, model.ErrGuardianNotSet)
	require.NoError(t, srv.SetGuardian(ctx, contractID, ownerA, guardianD))
	receipt, err = srv.ApproveTransaction(ctx, contractID, guardianD)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, receipt.Amount)
	require.Len(t, l.Directives(), 2)
	assert.Equal(t, receiverB, l.Directives()[1].Receiver)
	entry, _ = srv.Pending(ctx, contractID)
	assert.Equal(t, model.StatusNone, entry.Status)

	// owner confirmed path
	require.NoError(t, srv.InitiateTransfer(ctx, contractID, strangerC, receiverB, 300))
	_, err = srv.ConfirmTransfer(ctx, contractID, strangerC)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	entry, _ = srv.Pending(ctx, contractID)
	assert.Equal(t, model.StatusPending, entry.Status)
	require.NoError(t, srv.CancelTransfer(ctx, contractID, ownerA))
	entry, _ = srv.Pending(ctx, contractID)
	assert.Equal(t, model.StatusNone, entry.Status)
	assert.Len(t, l.Directives(), 2)

	// receiver outside the whitelist
	before, _ := srv.State(ctx, contractID)
	decision, receipt, err = srv.RequestTransaction(ctx, contractID, strangerC, outsiderE, 100)
	assert.ErrorIs(t, err, model.ErrReceiverNotWhitelisted)
	require.NotNil(t, decision)
	assert.Equal(t, approval.OutcomeRejected, decision.Outcome)
	assert.Nil(t, receipt)
	after, _ := srv.State(ctx, contractID)
	assert.Equal(t, before, after)
}

func TestService_ConfirmTransfer(t *testing.T) {
	ctx := context.Background()
	srv, l, rec := newService(t)

	require.NoError(t, srv.InitiateTransfer(ctx, contractID, strangerC, outsiderE, model.MaxAmount+5))
	receipt, err := srv.ConfirmTransfer(ctx, contractID, ownerA)
	require.NoError(t, err)
	assert.Equal(t, outsiderE, receipt.Receiver, "owner confirmation bypasses the whitelist")
	assert.Len(t, l.Directives(), 1)
	assert.Equal(t, []string{
		"create:transition",
		"initiateTransfer:transition",
		"confirmTransfer:dispatched",
	}, rec.types())
}

func TestService_AuthorizationInvariant(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name      string
		run       func(srv *Service, caller model.Address) error
		expectErr error
	}{
		{name: "setGuardian", run: func(srv *Service, caller model.Address) error {
			return srv.SetGuardian(ctx, contractID, caller, caller)
		}, expectErr: model.ErrUnauthorized},
		{name: "setSafeLimit", run: func(srv *Service, caller model.Address) error {
			return srv.SetSafeLimit(ctx, contractID, caller, 10)
		}, expectErr: model.ErrUnauthorized},
		{name: "applyPolicy", run: func(srv *Service, caller model.Address) error {
			return srv.ApplyPolicy(ctx, contractID, caller, &policy.Config{Guardian: string(caller), SafeLimit: 10})
		}, expectErr: model.ErrUnauthorized},
		{name: "updateWhitelist", run: func(srv *Service, caller model.Address) error {
			return srv.UpdateWhitelist(ctx, contractID, caller, caller)
		}, expectErr: model.ErrUnauthorized},
		{name: "confirmTransfer", run: func(srv *Service, caller model.Address) error {
			_, err := srv.ConfirmTransfer(ctx, contractID, caller)
			return err
		}, expectErr: model.ErrUnauthorized},
		{name: "cancelTransfer", run: func(srv *Service, caller model.Address) error {
			return srv.CancelTransfer(ctx, contractID, caller)
		}, expectErr: model.ErrUnauthorized},
		{name: "approveTransaction", run: func(srv *Service, caller model.Address) error {
			_, err := srv.ApproveTransaction(ctx, contractID, caller)
			return err
		}, expectErr: model.ErrUnauthorized},
	}
	for _, tc := range testCases {
		for _, caller := range []model.Address{strangerC, guardianD, receiverB, "", model.ZeroAddress} {
			t.Run(fmt.Sprintf("%s/%q", tc.name, caller), func(t *testing.T) {
				srv, l, _ := newService(t)
				require.NoError(t, srv.SetGuardian(ctx, contractID, ownerA, "GUARD"))
				require.NoError(t, srv.InitiateTransfer(ctx, contractID, strangerC, receiverB, 5))
				before, err := srv.State(ctx, contractID)
				require.NoError(t, err)

				err = tc.run(srv, caller)
				assert.ErrorIs(t, err, tc.expectErr)
				after, _ := srv.State(ctx, contractID)
				assert.Equal(t, before, after)
				assert.Empty(t, l.Directives())
			})
		}
	}
}

func TestService_IdempotentClear(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name    string
		stage   func(srv *Service) error
		resolve func(srv *Service) error
	}{
		{
			name:  "confirm",
			stage: func(srv *Service) error { return srv.InitiateTransfer(ctx, contractID, strangerC, receiverB, 10) },
			resolve: func(srv *Service) error {
				_, err := srv.ConfirmTransfer(ctx, contractID, ownerA)
				return err
			},
		},
		{
			name:    "cancel",
			stage:   func(srv *Service) error { return srv.InitiateTransfer(ctx, contractID, strangerC, receiverB, 10) },
			resolve: func(srv *Service) error { return srv.CancelTransfer(ctx, contractID, ownerA) },
		},
		{
			name: "approve",
			stage: func(srv *Service) error {
				_, _, err := srv.RequestTransaction(ctx, contractID, strangerC, ownerA, 10)
				return err
			},
			resolve: func(srv *Service) error {
				_, err := srv.ApproveTransaction(ctx, contractID, guardianD)
				return err
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, l, _ := newService(t)
			require.NoError(t, srv.SetGuardian(ctx, contractID, ownerA, guardianD))
			require.NoError(t, tc.stage(srv))
			require.NoError(t, tc.resolve(srv))
			dispatched := len(l.Directives())

			before, _ := srv.State(ctx, contractID)
			assert.ErrorIs(t, tc.resolve(srv), model.ErrNoPendingTransaction)
			after, _ := srv.State(ctx, contractID)
			assert.Equal(t, before, after)
			assert.Len(t, l.Directives(), dispatched)
		})
	}
}

func TestService_ApproveIgnoresOwnerConfirmEntry(t *testing.T) {
	ctx := context.Background()
	srv, l, _ := newService(t)
	require.NoError(t, srv.SetGuardian(ctx, contractID, ownerA, guardianD))
	require.NoError(t, srv.InitiateTransfer(ctx, contractID, strangerC, outsiderE, 50))

	_, err := srv.ApproveTransaction(ctx, contractID, guardianD)
	assert.ErrorIs(t, err, model.ErrNoPendingTransaction)
	assert.Empty(t, l.Directives())
	entry, _ := srv.Pending(ctx, contractID)
	assert.Equal(t, model.StatusPending, entry.Status)
}

func TestService_DispatchFailureRestoresState(t *testing.T) {
	ctx := context.Background()
	srv, l, rec := newService(t)
	require.NoError(t, srv.SetGuardian(ctx, contractID, ownerA, guardianD))
	_, _, err := srv.RequestTransaction(ctx, contractID, strangerC, ownerA, 700)
	require.NoError(t, err)
	before, _ := srv.State(ctx, contractID)

	l.Fail(errors.New("node unavailable"))
	_, err = srv.ApproveTransaction(ctx, contractID, guardianD)
	assert.ErrorIs(t, err, model.ErrLedgerDispatchFailed)
	var dispatchErr *model.DispatchError
	require.True(t, errors.As(err, &dispatchErr))
	assert.EqualValues(t, 700, dispatchErr.Amount)

	after, _ := srv.State(ctx, contractID)
	assert.Equal(t, before, after)

	_, err = srv.ConfirmTransfer(ctx, contractID, ownerA)
	assert.ErrorIs(t, err, model.ErrLedgerDispatchFailed)
	after, _ = srv.State(ctx, contractID)
	assert.Equal(t, before, after)

	require.NoError(t, srv.SetSafeLimit(ctx, contractID, ownerA, 1000))
	_, _, err = srv.RequestTransaction(ctx, contractID, strangerC, ownerA, 10)
	assert.ErrorIs(t, err, model.ErrLedgerDispatchFailed)

	l.Fail(nil)
	receipt, err := srv.ApproveTransaction(ctx, contractID, guardianD)
	require.NoError(t, err)
	assert.EqualValues(t, 700, receipt.Amount)
	assert.Contains(t, rec.types(), "approveTransaction:dispatchFailed")
	assert.Contains(t, rec.types(), "approveTransaction:dispatched")
}

type ctxDAO struct {
	dao.Service[string, model.State]
}

func (d *ctxDAO) Save(ctx context.Context, state *model.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Service.Save(ctx, state)
}

func TestService_DispatchCancelledRestoresState(t *testing.T) {
	testCases := []struct {
		name   string
		stage  func(ctx context.Context, srv *Service) error
		invoke func(ctx context.Context, srv *Service) error
	}{
		{
			name: "owner confirm",
			stage: func(ctx context.Context, srv *Service) error {
				return srv.InitiateTransfer(ctx, contractID, strangerC, receiverB, 40)
			},
			invoke: func(ctx context.Context, srv *Service) error {
				_, err := srv.ConfirmTransfer(ctx, contractID, ownerA)
				return err
			},
		},
		{
			name: "guardian approve",
			stage: func(ctx context.Context, srv *Service) error {
				if err := srv.SetGuardian(ctx, contractID, ownerA, guardianD); err != nil {
					return err
				}
				_, _, err := srv.RequestTransaction(ctx, contractID, strangerC, ownerA, 700)
				return err
			},
			invoke: func(ctx context.Context, srv *Service) error {
				_, err := srv.ApproveTransaction(ctx, contractID, guardianD)
				return err
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			callCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			cancelling := ledger.Func(func(ctx context.Context, directive *model.Directive) (*model.Receipt, error) {
				cancel()
				return nil, ctx.Err()
			})
			srv := New(&ctxDAO{Service: memory.New()}, dispatcher.New(cancelling))
			_, err := srv.Create(ctx, contractID, ownerA)
			require.NoError(t, err)
			require.NoError(t, tc.stage(ctx, srv))
			before, err := srv.State(ctx, contractID)
			require.NoError(t, err)

			err = tc.invoke(callCtx, srv)
			assert.ErrorIs(t, err, model.ErrLedgerDispatchFailed)
			assert.NotContains(t, err.Error(), "restore")

			after, err := srv.State(ctx, contractID)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Equal(t, model.StatusPending, after.Pending.Status)
		})
	}
}

func TestService_LocksReleased(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newService(t)
	for i := 0; i < 10; i++ {
		err := srv.SetSafeLimit(ctx, fmt.Sprintf("unknown-%d", i), ownerA, 1)
		assert.ErrorIs(t, err, model.ErrNotFound)
	}
	require.NoError(t, srv.SetSafeLimit(ctx, contractID, ownerA, 1))
	assert.Empty(t, srv.locks)
}

func TestService_PendingOverwrite(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name      string
		options   []Option
		expectErr error
		expect    uint64
	}{
		{name: "last write wins", expect: 900},
		{name: "reject overwrite", options: []Option{WithPendingOptions(pending.WithRejectOverwrite(true))}, expectErr: model.ErrTransferPending, expect: 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _, _ := newService(t, tc.options...)
			require.NoError(t, srv.InitiateTransfer(ctx, contractID, strangerC, receiverB, 100))
			err := srv.InitiateTransfer(ctx, contractID, outsiderE, outsiderE, 900)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
			} else {
				assert.NoError(t, err)
			}
			entry, _ := srv.Pending(ctx, contractID)
			assert.Equal(t, tc.expect, entry.Amount)
		})
	}
}

func TestService_Versioning(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newService(t)
	require.NoError(t, srv.SetSafeLimit(ctx, contractID, ownerA, 10))
	require.NoError(t, srv.SetSafeLimit(ctx, contractID, ownerA, 10))
	state, _ := srv.State(ctx, contractID)
	assert.Equal(t, 2, state.Version, "unchanged state is not rewritten")

	require.NoError(t, srv.ApplyPolicy(ctx, contractID, ownerA, &policy.Config{Guardian: string(guardianD), SafeLimit: 50}))
	guardian, _ := srv.Guardian(ctx, contractID)
	limit, _ := srv.SafeLimit(ctx, contractID)
	assert.Equal(t, guardianD, guardian)
	assert.EqualValues(t, 50, limit)
	state, _ = srv.State(ctx, contractID)
	assert.Equal(t, 3, state.Version)
}

func TestService_SerializedInvocations(t *testing.T) {
	ctx := context.Background()
	srv, l, _ := newService(t)
	require.NoError(t, srv.SetSafeLimit(ctx, contractID, ownerA, model.MaxAmount))

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _, err := srv.RequestTransaction(ctx, contractID, strangerC, ownerA, uint64(i+1))
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, srv.InitiateTransfer(ctx, contractID, strangerC, receiverB, uint64(i+1)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Directives(), workers)
	state, err := srv.State(ctx, contractID)
	require.NoError(t, err)
	assert.Equal(t, 2+workers, state.Version)
	assert.Equal(t, model.StatusPending, state.Pending.Status)
}

func TestService_Preview(t *testing.T) {
	ctx := context.Background()
	srv, l, _ := newService(t)
	require.NoError(t, srv.SetSafeLimit(ctx, contractID, ownerA, 100))

	testCases := []struct {
		receiver model.Address
		amount   uint64
		expect   approval.Outcome
	}{
		{receiver: ownerA, amount: 100, expect: approval.OutcomeAutoApproved},
		{receiver: ownerA, amount: 101, expect: approval.OutcomeNeedsGuardian},
		{receiver: ownerA, amount: model.MaxAmount + 1, expect: approval.OutcomeRejected},
		{receiver: outsiderE, amount: 1, expect: approval.OutcomeRejected},
	}
	for _, tc := range testCases {
		decision, err := srv.Preview(ctx, contractID, strangerC, tc.receiver, tc.amount)
		require.NoError(t, err)
		assert.Equal(t, tc.expect, decision.Outcome)
	}
	entry, _ := srv.Pending(ctx, contractID)
	assert.Equal(t, model.StatusNone, entry.Status)
	assert.Empty(t, l.Directives())
}
