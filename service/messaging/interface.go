// Package messaging defines the queue abstraction contract events travel
// over once they leave the contract critical section.
package messaging

import (
	"context"
)

// Queue is a typed message queue.
type Queue[T any] interface {
	// Publish enqueues a copy of t.
	Publish(ctx context.Context, t *T) error

	// Consume blocks until a message is available or ctx is done.
	Consume(ctx context.Context) (Message[T], error)
}

// TryPublisher is implemented by queues that can enqueue without waiting for
// buffer space.
type TryPublisher[T any] interface {
	// TryPublish enqueues a copy of t and reports false when the queue is full.
	TryPublish(t *T) (bool, error)
}

// Message is a delivered payload that must be acknowledged exactly once.
type Message[T any] interface {
	T() *T

	Ack() error

	// Nack reports a processing failure; the queue decides whether to retry.
	Nack(err error) error
}
