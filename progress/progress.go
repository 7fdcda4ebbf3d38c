package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/safesend/internal/clock"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/event"
)

// Delta represents an incremental counter change derived from one contract
// event.  Fields are signed; Pending goes down when a staged transfer is
// resolved.
type Delta struct {
	Invocations    int
	Rejected       int
	Dispatched     int
	DispatchFailed int
	Pending        int
	Amount         int64
}

// Progress keeps aggregated contract activity counters.  It is safe for
// concurrent use.
type Progress struct {
	StartedAt time.Time

	Invocations    int
	Rejected       int
	Dispatched     int
	DispatchFailed int
	// Pending counts contracts currently holding a staged transfer.
	Pending int
	// DispatchedAmount sums the amounts of accepted directives.
	DispatchedAmount int64

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker; onChange, when set, receives a snapshot after every
// update.
func New(onChange func(Progress)) *Progress {
	return &Progress{StartedAt: clock.Now(), onChange: onChange}
}

// Update applies the supplied delta.  The onChange callback is invoked with a
// copy of the updated tracker outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.Invocations += d.Invocations
	p.Rejected += d.Rejected
	p.Dispatched += d.Dispatched
	p.DispatchFailed += d.DispatchFailed
	p.Pending += d.Pending
	p.DispatchedAmount += d.Amount
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

func (p *Progress) copy() Progress {
	return Progress{
		StartedAt:        p.StartedAt,
		Invocations:      p.Invocations,
		Rejected:         p.Rejected,
		Dispatched:       p.Dispatched,
		DispatchFailed:   p.DispatchFailed,
		Pending:          p.Pending,
		DispatchedAmount: p.DispatchedAmount,
	}
}

// OnChange registers a callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

// Observe turns a contract event into a Delta.
func (p *Progress) Observe(_ context.Context, e *event.Event[*model.Transition]) {
	if p == nil || e == nil || e.Data == nil || e.Context == nil {
		return
	}
	p.Update(DeltaOf(e.Context.EventType, e.Data))
}

// DeltaOf computes the counter change of one event.
func DeltaOf(eventType string, t *model.Transition) Delta {
	ret := Delta{Invocations: 1}
	switch eventType {
	case event.TypeRejected:
		ret.Rejected = 1
		return ret
	case event.TypeDispatchFailed:
		ret.DispatchFailed = 1
		return ret
	case event.TypeDispatched:
		ret.Dispatched = 1
		ret.Amount = int64(t.Amount)
	}
	switch {
	case t.From != model.StatusPending && t.To == model.StatusPending:
		ret.Pending = 1
	case t.From == model.StatusPending && t.To != model.StatusPending:
		ret.Pending = -1
	}
	return ret
}

var _ event.Observer = (*Progress)(nil)
