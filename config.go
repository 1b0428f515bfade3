package cascade

import (
	"fmt"
	"time"

	"github.com/viant/cascade/service/oracle"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from JSON or YAML; the zero value inherits package defaults.
type Config struct {
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator"`
	Session      SessionConfig      `json:"session" yaml:"session"`
	Oracle       *oracle.Config     `json:"oracle,omitempty" yaml:"oracle,omitempty"`
}

type OrchestratorConfig struct {
	// MaxConcurrency caps concurrent task bodies within a wave; zero means
	// unbounded
	MaxConcurrency int `json:"maxConcurrency" yaml:"maxConcurrency"`
}

type SessionConfig struct {
	// TTL bounds how long finished sessions stay in the store, as a duration
	// string; empty keeps sessions until deleted
	TTL string `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// DefaultConfig returns a Config with the same defaults the constructors use.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Orchestrator.MaxConcurrency < 0 {
		return fmt.Errorf("orchestrator.maxConcurrency must be >= 0")
	}
	if c.Session.TTL != "" {
		if _, err := time.ParseDuration(c.Session.TTL); err != nil {
			return fmt.Errorf("session.ttl is not a valid duration: %w", err)
		}
	}
	return nil
}

// Options translates the configuration into service options.
func (c *Config) Options() []Option {
	if c == nil {
		return nil
	}
	var options []Option
	if c.Orchestrator.MaxConcurrency > 0 {
		options = append(options, WithMaxConcurrency(c.Orchestrator.MaxConcurrency))
	}
	if c.Session.TTL != "" {
		if ttl, err := time.ParseDuration(c.Session.TTL); err == nil {
			options = append(options, WithSessionTTL(ttl))
		}
	}
	if c.Oracle != nil {
		options = append(options, WithOracleConfig(c.Oracle))
	}
	return options
}

// NewFromConfig creates the engine service from a validated configuration.
func NewFromConfig(config *Config, options ...Option) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return New(append(config.Options(), options...)...), nil
}
