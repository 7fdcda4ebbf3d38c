package event

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/messaging"
)

const publishTimeout = time.Second

type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	return p.queue.Publish(ctx, event)
}

func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}

// ErrQueueFull is reported when an event was dropped because the queue had no room.
var ErrQueueFull = errors.New("event queue full")

// QueueObserver forwards events to a queue so that consumers can process
// them outside the contract critical section.  Observe never waits for queue
// space: queues implementing messaging.TryPublisher drop the event when full,
// other queues get a context detached from the caller and bounded by
// publishTimeout.
type QueueObserver struct {
	publisher *Publisher[*model.Transition]
	onError   func(error)
	dropped   atomic.Int64
}

// NewQueueObserver creates a queue observer; onError, when set, receives
// publish failures.
func NewQueueObserver(queue messaging.Queue[Event[*model.Transition]], onError func(error)) *QueueObserver {
	return &QueueObserver{publisher: NewPublisher[*model.Transition](queue), onError: onError}
}

func (q *QueueObserver) Observe(ctx context.Context, e *Event[*model.Transition]) {
	if err := q.publish(ctx, e); err != nil {
		q.dropped.Add(1)
		if q.onError != nil {
			q.onError(err)
		}
	}
}

func (q *QueueObserver) publish(ctx context.Context, e *Event[*model.Transition]) error {
	if try, ok := q.publisher.queue.(messaging.TryPublisher[Event[*model.Transition]]); ok {
		published, err := try.TryPublish(e)
		if err != nil {
			return err
		}
		if !published {
			return ErrQueueFull
		}
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	return q.publisher.Publish(ctx, e)
}

// Dropped returns how many events could not be published.
func (q *QueueObserver) Dropped() int64 {
	return q.dropped.Load()
}

// Publisher returns the underlying publisher, e.g. to attach a Listener.
func (q *QueueObserver) Publisher() *Publisher[*model.Transition] {
	return q.publisher
}
