package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/identity"
)

func TestStore_SetGuardian(t *testing.T) {
	store := New(identity.New())

	state := model.NewState("c1", "OWNER")
	assert.NoError(t, store.SetGuardian(state, "OWNER", "GUARD"))
	assert.Equal(t, model.Address("GUARD"), state.Guardian)

	assert.ErrorIs(t, store.SetGuardian(state, "GUARD", "EVE"), model.ErrUnauthorized)
	assert.Equal(t, model.Address("GUARD"), state.Guardian)

	assert.NoError(t, store.SetGuardian(state, "OWNER", "OWNER"), "owner may guard itself")
	assert.NoError(t, store.SetGuardian(state, "OWNER", model.ZeroAddress))
	assert.False(t, state.HasGuardian())
}

func TestStore_SafeLimit(t *testing.T) {
	store := New(identity.New())
	state := model.NewState("c1", "OWNER")
	assert.True(t, store.IsSafe(state, 0))
	assert.False(t, store.IsSafe(state, 1))

	assert.ErrorIs(t, store.SetSafeLimit(state, "EVE", 10), model.ErrUnauthorized)
	assert.NoError(t, store.SetSafeLimit(state, "OWNER", model.MaxAmount*2))
	assert.Equal(t, model.MaxAmount*2, state.SafeLimit)

	assert.NoError(t, store.SetSafeLimit(state, "OWNER", 100))
	testCases := []struct {
		amount uint64
		expect bool
	}{
		{amount: 99, expect: true},
		{amount: 100, expect: true},
		{amount: 101, expect: false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, store.IsSafe(state, tc.amount), tc.amount)
	}
}

func TestStore_Apply(t *testing.T) {
	store := New(identity.New())
	state := model.NewState("c1", "OWNER")

	assert.NoError(t, store.Apply(state, "OWNER", nil))
	assert.NoError(t, store.Apply(state, "OWNER", &Config{Guardian: "GUARD", SafeLimit: 250}))
	assert.Equal(t, &Config{Guardian: "GUARD", SafeLimit: 250}, ToConfig(state))

	other := model.NewState("c2", "OWNER")
	assert.ErrorIs(t, store.Apply(other, "EVE", &Config{Guardian: "EVE", SafeLimit: 1}), model.ErrUnauthorized)
	assert.Equal(t, &Config{}, ToConfig(other))
	assert.Nil(t, ToConfig(nil))
}
