package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/safesend/service/dao"
)

type record struct {
	ID    string
	Value int
}

func cloneRecord(r *record) *record {
	ret := *r
	return &ret
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[string, record](func(r *record) string { return r.ID }, cloneRecord)

	r := &record{ID: "r1", Value: 1}
	require.NoError(t, store.Save(ctx, r))
	r.Value = 2

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Value, "stored copy is isolated from caller")
	loaded.Value = 3
	again, _ := store.Load(ctx, "r1")
	assert.Equal(t, 1, again.Value)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, store.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, store.Save(ctx, &record{}), dao.ErrInvalidID)

	require.NoError(t, store.Delete(ctx, "r1"))
	_, err = store.Load(ctx, "r1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "r1"), dao.ErrNotFound)
}

func TestMemoryStore_WithoutCloner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[string, record](func(r *record) string { return r.ID }, nil)
	r := &record{ID: "r1", Value: 1}
	require.NoError(t, store.Save(ctx, r))
	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Same(t, r, loaded)
}
