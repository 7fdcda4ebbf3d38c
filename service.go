package safesend

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/progress"
	asafesend "github.com/viant/safesend/service/action/safesend"
	"github.com/viant/safesend/service/contract"
	"github.com/viant/safesend/service/dao"
	smemory "github.com/viant/safesend/service/dao/state/memory"
	sfs "github.com/viant/safesend/service/dao/state/fs"
	"github.com/viant/safesend/service/dispatcher"
	"github.com/viant/safesend/service/event"
	"github.com/viant/safesend/service/ledger"
	lfs "github.com/viant/safesend/service/ledger/fs"
	lmemory "github.com/viant/safesend/service/ledger/memory"
	"github.com/viant/safesend/service/messaging"
)

// Service wires the contract to its state store, ledger and observers.
type Service struct {
	contract *contract.Service
	methods  *asafesend.Service

	stateDAO        dao.Service[string, model.State]
	ledger          ledger.Ledger
	observers       event.Observers
	eventQueue      messaging.Queue[event.Event[*model.Transition]]
	progress        *progress.Progress
	logger          zerolog.Logger
	hasLogger       bool
	contractOptions []contract.Option
	initErrs        []error
}

// New creates a service; without options state and ledger live in memory.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := errors.Join(ret.initErrs...); err != nil {
		return nil, err
	}
	ret.init()
	return ret, nil
}

// NewFromConfig creates a service from cfg; explicit options override the
// configured store and ledger.  When cfg names a contract, it is created on
// first start and its bootstrap policy applied by the owner.
func NewFromConfig(ctx context.Context, cfg *Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var configured []Option
	switch cfg.Store.Vendor {
	case VendorFs:
		stateDAO, err := sfs.New(ctx, cfg.Store.BaseURL)
		if err != nil {
			return nil, err
		}
		configured = append(configured, WithStateDAO(stateDAO))
	}
	switch cfg.Ledger.Vendor {
	case VendorFs:
		l, err := lfs.New(ctx, cfg.Ledger.BaseURL)
		if err != nil {
			return nil, err
		}
		configured = append(configured, WithLedger(l))
	}
	if cfg.Log.Level != "" {
		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		configured = append(configured, WithLogger(zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()))
	}
	if cfg.Tracing.Enabled {
		configured = append(configured, WithTracing(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, cfg.Tracing.OutputFile))
	}
	if cfg.Contract.RejectPendingOverwrite {
		configured = append(configured, WithRejectPendingOverwrite(true))
	}
	ret, err := New(append(configured, options...)...)
	if err != nil {
		return nil, err
	}
	if err = ret.bootstrap(ctx, &cfg.Contract); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() {
	if s.stateDAO == nil {
		s.stateDAO = smemory.New()
	}
	if s.ledger == nil {
		s.ledger = lmemory.New()
	}
	if s.progress == nil {
		s.progress = progress.New(nil)
	}
	s.observers = append(s.observers, s.progress)
	if s.hasLogger {
		s.observers = append(s.observers, event.NewLogObserver(s.logger))
	}
	if s.eventQueue != nil {
		var onError func(error)
		if s.hasLogger {
			onError = func(err error) { s.logger.Error().Err(err).Msg("failed to publish contract event") }
		}
		s.observers = append(s.observers, event.NewQueueObserver(s.eventQueue, onError))
	}
	options := append([]contract.Option{contract.WithObserver(s.observers)}, s.contractOptions...)
	s.contract = contract.New(s.stateDAO, dispatcher.New(s.ledger), options...)
	s.methods = asafesend.New(s.contract)
}

func (s *Service) bootstrap(ctx context.Context, cfg *ContractConfig) error {
	if cfg.ID == "" {
		return nil
	}
	owner := model.Address(cfg.Owner)
	state, err := s.contract.Create(ctx, cfg.ID, owner)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrAlreadyCreated):
		if state, err = s.contract.State(ctx, cfg.ID); err != nil {
			return err
		}
		if state.Owner != owner {
			return fmt.Errorf("contract %s is owned by %s, not %s", cfg.ID, state.Owner, owner)
		}
		return nil
	default:
		return err
	}
	if cfg.Policy == nil {
		return nil
	}
	return s.contract.ApplyPolicy(ctx, cfg.ID, owner, cfg.Policy)
}

// Contract returns the contract service
func (s *Service) Contract() *contract.Service {
	return s.contract
}

// Methods returns the named method table over the contract
func (s *Service) Methods() *asafesend.Service {
	return s.methods
}

// Progress returns the contract activity counters
func (s *Service) Progress() *progress.Progress {
	return s.progress
}

// Ledger returns the ledger transfers are submitted to
func (s *Service) Ledger() ledger.Ledger {
	return s.ledger
}
