package event

import (
	"context"

	"github.com/viant/safesend/model"
)

// Observer receives contract events.  Implementations must not block for
// long; they are called while the invocation still holds the contract lock.
type Observer interface {
	Observe(ctx context.Context, e *Event[*model.Transition])
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e *Event[*model.Transition])

func (f ObserverFunc) Observe(ctx context.Context, e *Event[*model.Transition]) { f(ctx, e) }

// Observers fans an event out to every member.
type Observers []Observer

func (o Observers) Observe(ctx context.Context, e *Event[*model.Transition]) {
	for _, observer := range o {
		if observer != nil {
			observer.Observe(ctx, e)
		}
	}
}

type nop struct{}

func (nop) Observe(context.Context, *Event[*model.Transition]) {}

// Nop discards all events.
var Nop Observer = nop{}
