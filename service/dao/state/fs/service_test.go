package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/dao"
)

func TestService(t *testing.T) {
	testCases := []struct {
		name    string
		baseURL func(t *testing.T) string
	}{
		{name: "local file", baseURL: func(t *testing.T) string { return t.TempDir() }},
		{name: "memory", baseURL: func(t *testing.T) string { return "mem://localhost/safesend/" + t.Name() }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			srv, err := New(ctx, tc.baseURL(t))
			require.NoError(t, err)

			created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			state := model.NewState("c1", "OWNER")
			state.Guardian = "GUARD"
			state.SafeLimit = 100
			state.Pending = model.PendingTransfer{Receiver: "OWNER", Amount: 150, Status: model.StatusPending, Mode: model.ModeGuardianApprove, RequestedBy: "ALICE", CreatedAt: &created}
			state.Version = 3
			state.UpdatedAt = created
			require.NoError(t, srv.Save(ctx, state))

			loaded, err := srv.Load(ctx, "c1")
			require.NoError(t, err)
			assert.Equal(t, state, loaded)

			require.NoError(t, srv.Save(ctx, model.NewState("c2", "OTHER")))
			list, err := srv.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 2)

			require.NoError(t, srv.Delete(ctx, "c1"))
			_, err = srv.Load(ctx, "c1")
			assert.ErrorIs(t, err, dao.ErrNotFound)
			assert.ErrorIs(t, srv.Delete(ctx, "c1"), dao.ErrNotFound)

			assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
			assert.ErrorIs(t, srv.Save(ctx, &model.State{}), dao.ErrInvalidID)
			_, err = srv.Load(ctx, "")
			assert.ErrorIs(t, err, dao.ErrInvalidID)
		})
	}
}
