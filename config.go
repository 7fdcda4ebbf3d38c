package safesend

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/safesend/internal/env"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/policy"
	"gopkg.in/yaml.v3"
)

// Vendors supported by the store and ledger sections.
const (
	VendorMemory = "memory"
	VendorFs     = "fs"
)

// Config is a serialisable representation of the service configuration.  It
// can be populated from YAML or JSON; LoadConfig reads it through afs.
type Config struct {
	Contract ContractConfig `json:"contract" yaml:"contract"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// ContractConfig optionally bootstraps a contract on start.
type ContractConfig struct {
	ID     string         `json:"id,omitempty" yaml:"id,omitempty"`
	Owner  string         `json:"owner,omitempty" yaml:"owner,omitempty"`
	Policy *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
	// RejectPendingOverwrite makes staging a transfer fail while another one
	// is pending instead of replacing it.
	RejectPendingOverwrite bool `json:"rejectPendingOverwrite,omitempty" yaml:"rejectPendingOverwrite,omitempty"`
}

type StoreConfig struct {
	Vendor  string `json:"vendor" yaml:"vendor"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

type LedgerConfig struct {
	Vendor  string `json:"vendor" yaml:"vendor"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	ServiceName    string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	ServiceVersion string `json:"serviceVersion,omitempty" yaml:"serviceVersion,omitempty"`
	// OutputFile receives the stdout exporter output; empty means os.Stdout.
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

type LogConfig struct {
	// Level is a zerolog level name; empty disables logging.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// DefaultConfig returns an in-memory configuration.  Callers may modify the
// returned struct before passing it to NewFromConfig.
func DefaultConfig() *Config {
	return &Config{
		Store:  StoreConfig{Vendor: VendorMemory},
		Ledger: LedgerConfig{Vendor: VendorMemory},
		Tracing: TracingConfig{
			ServiceName:    "safesend",
			ServiceVersion: "0.1.0",
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	for name, section := range map[string]struct{ vendor, baseURL string }{
		"store":  {c.Store.Vendor, c.Store.BaseURL},
		"ledger": {c.Ledger.Vendor, c.Ledger.BaseURL},
	} {
		switch section.vendor {
		case VendorMemory:
		case VendorFs:
			if section.baseURL == "" {
				errs = append(errs, fmt.Errorf("%s.baseURL is required for vendor %q", name, VendorFs))
			}
		default:
			errs = append(errs, fmt.Errorf("%s.vendor: unsupported vendor %q", name, section.vendor))
		}
	}
	if c.Contract.ID != "" && model.Address(c.Contract.Owner).IsZero() {
		errs = append(errs, fmt.Errorf("contract.owner is required when contract.id is set"))
	}
	if c.Contract.ID == "" && c.Contract.Policy != nil {
		errs = append(errs, fmt.Errorf("contract.policy requires contract.id"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML configuration from URL, expanding ${env.NAME}
// references.  Missing sections keep DefaultConfig values.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(env.Expand(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
