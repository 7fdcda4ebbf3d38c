package safesend

import (
	"github.com/rs/zerolog"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/contract"
	"github.com/viant/safesend/service/dao"
	"github.com/viant/safesend/service/event"
	"github.com/viant/safesend/service/ledger"
	"github.com/viant/safesend/service/messaging"
	"github.com/viant/safesend/progress"
	"github.com/viant/safesend/service/pending"
	"github.com/viant/safesend/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service.
type Option func(s *Service)

// WithStateDAO sets the contract state store
func WithStateDAO(stateDAO dao.Service[string, model.State]) Option {
	return func(s *Service) { s.stateDAO = stateDAO }
}

// WithLedger sets the ledger transfers are submitted to
func WithLedger(l ledger.Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithObserver adds an observer receiving every contract event
func WithObserver(observer event.Observer) Option {
	return func(s *Service) { s.observers = append(s.observers, observer) }
}

// WithEventQueue publishes contract events to queue
func WithEventQueue(queue messaging.Queue[event.Event[*model.Transition]]) Option {
	return func(s *Service) { s.eventQueue = queue }
}

// WithProgress sets the activity tracker fed by contract events
func WithProgress(p *progress.Progress) Option {
	return func(s *Service) { s.progress = p }
}

// WithLogger logs every contract event with logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
		s.hasLogger = true
	}
}

// WithRejectPendingOverwrite makes staging a transfer fail while another one
// is pending
func WithRejectPendingOverwrite(reject bool) Option {
	return func(s *Service) {
		s.contractOptions = append(s.contractOptions, contract.WithPendingOptions(pending.WithRejectOverwrite(reject)))
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter. If
// outputFile is empty os.Stdout is used.  The first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.initErrs = append(s.initErrs, err)
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter such as OTLP, Jaeger or Zipkin.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.initErrs = append(s.initErrs, err)
		}
	}
}
