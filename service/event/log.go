package event

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/viant/safesend/model"
)

// LogObserver writes each event as one structured log line.  Rejections and
// dispatch failures are logged at warn level, everything else at info.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates a log observer tagged with component=safesend.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With().Str("component", "safesend").Logger()}
}

func (l *LogObserver) Observe(_ context.Context, e *Event[*model.Transition]) {
	if e == nil || e.Data == nil {
		return
	}
	t := e.Data
	var entry *zerolog.Event
	switch e.Context.EventType {
	case TypeRejected, TypeDispatchFailed:
		entry = l.logger.Warn()
	default:
		entry = l.logger.Info()
	}
	entry = entry.Str("contract", t.ContractID).
		Str("operation", t.Operation).
		Str("event", e.Context.EventType)
	if t.Caller != "" {
		entry = entry.Str("caller", t.Caller.String())
	}
	if t.From != "" || t.To != "" {
		entry = entry.Str("from", string(t.From)).Str("to", string(t.To))
	}
	if t.Receiver != "" {
		entry = entry.Str("receiver", t.Receiver.String()).Uint64("amount", t.Amount)
	}
	if t.Outcome != "" {
		entry = entry.Str("outcome", t.Outcome)
	}
	if t.ReceiptID != "" {
		entry = entry.Str("receipt", t.ReceiptID)
	}
	if t.Error != "" {
		entry = entry.Str("error", t.Error)
	}
	entry.Msg(t.Operation)
}
