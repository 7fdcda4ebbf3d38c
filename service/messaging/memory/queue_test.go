package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	ID     string
	Amount uint64
}

func TestQueue_PublishConsume(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx := context.Background()

	payload := testPayload{ID: "t-1", Amount: 500}
	require.NoError(t, queue.Publish(ctx, &payload))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.EqualValues(t, &payload, message.T())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
	assert.Error(t, queue.Publish(ctx, nil))
}

func TestQueue_NackRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 1
	config.RetryDelay = 5 * time.Millisecond
	queue := NewQueue[testPayload](config)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "retry"}))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(nil))

	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "retry", message.T().ID)
	require.NoError(t, message.Nack(nil))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, queue.Size())
	assert.EqualValues(t, 1, queue.Dropped())
}

func TestQueue_DropWhenFull(t *testing.T) {
	queue := NewQueue[testPayload](Config{QueueBuffer: 1, DropWhenFull: true})
	ctx := context.Background()

	assert.NoError(t, queue.Publish(ctx, &testPayload{ID: "1"}))
	assert.NoError(t, queue.Publish(ctx, &testPayload{ID: "2"}))
	assert.Equal(t, 1, queue.Size())
	assert.EqualValues(t, 1, queue.Dropped())
}

func TestQueue_TryPublish(t *testing.T) {
	queue := NewQueue[testPayload](Config{QueueBuffer: 1})

	ok, err := queue.TryPublish(&testPayload{ID: "1"})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = queue.TryPublish(&testPayload{ID: "2"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, queue.Size())
	assert.EqualValues(t, 1, queue.Dropped())

	_, err = queue.TryPublish(nil)
	assert.Error(t, err)
}

func TestQueue_ConsumeCancelled(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
