package event

import (
	"context"
	"errors"
	"sync"
)

// Listener consumes events from a publisher and hands them to handler until
// stopped.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	onError   func(error)
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), onError func(error)) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		onError:   onError,
		done:      make(chan struct{}),
	}
}

// Start launches the consuming goroutine.
func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				if l.onError != nil {
					l.onError(err)
				}
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}

// Stop cancels consumption and waits for the goroutine to exit.
func (l *Listener[T]) Stop() {
	l.once.Do(func() {
		if l.cancel == nil {
			close(l.done)
			return
		}
		l.cancel()
	})
	<-l.done
}
