package event

import (
	"time"

	"github.com/viant/safesend/internal/clock"
	"github.com/viant/safesend/model"
)

// Event types
const (
	TypeTransition     = "transition"
	TypeRejected       = "rejected"
	TypeDispatched     = "dispatched"
	TypeDispatchFailed = "dispatchFailed"
)

type Context struct {
	ContractID string `json:"contractId"`
	Operation  string `json:"operation"`
	EventType  string `json:"eventType"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// NewTransitionEvent wraps a transition, deriving the event context from it.
func NewTransitionEvent(eventType string, transition *model.Transition) *Event[*model.Transition] {
	return NewEvent(&Context{
		ContractID: transition.ContractID,
		Operation:  transition.Operation,
		EventType:  eventType,
	}, transition)
}
