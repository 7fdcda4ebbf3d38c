package contract

import (
	"github.com/viant/safesend/service/event"
	"github.com/viant/safesend/service/pending"
)

// Option customises the contract service.
type Option func(*Service)

// WithObserver sets the observability hook; nil restores event.Nop.
func WithObserver(observer event.Observer) Option {
	return func(s *Service) {
		if observer == nil {
			observer = event.Nop
		}
		s.observer = observer
	}
}

// WithPendingOptions passes options to the pending transfer ledger.
func WithPendingOptions(options ...pending.Option) Option {
	return func(s *Service) {
		s.pendingOptions = append(s.pendingOptions, options...)
	}
}
