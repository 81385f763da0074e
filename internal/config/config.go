// Package config loads and validates the engine configuration.
//
// Values are read from a YAML file, then overridden by RTPOLICY_* environment
// variables, then defaulted and validated:
//
//	model_path: s3://policies/cartpole.bin
//	backend: cpu
//	architecture:
//	  - {in: 4, out: 16, activation: relu}
//	  - {in: 16, out: 1, activation: output}
//	observation_normalization: {enabled: true, mean: [0], stddev: [2.4, 3, 0.21, 3]}
//	watch: false
//	fetch_timeout: 30s
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/go-playground/validator.v9"
	"sigs.k8s.io/yaml"

	"github.com/born-ml/rtpolicy/internal/backend"
	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/session"
)

// EnvPrefix is the prefix of environment overrides, e.g. RTPOLICY_MODEL_PATH.
const EnvPrefix = "RTPOLICY"

// DefaultFetchTimeout bounds how long fetching a weight blob may take.
const DefaultFetchTimeout = 30 * time.Second

// Config is passed once to an agent's Initialize.
type Config struct {
	// ModelPath is a local path or storage URI of the weight blob.
	ModelPath string `json:"model_path" envconfig:"MODEL_PATH" validate:"required"`

	// Backend selects the numerical backend. Empty selects the default.
	Backend string `json:"backend,omitempty" envconfig:"BACKEND" validate:"omitempty,oneof=cpu"`

	// Architecture declares the network. When empty it is read from the blob header.
	Architecture nn.Architecture `json:"architecture,omitempty" ignored:"true"`

	// Checksum is the expected hex SHA-256 of the blob. Empty disables the check.
	Checksum string `json:"sha256,omitempty" envconfig:"SHA256" validate:"omitempty,len=64,hexadecimal"`

	ObservationNormalization session.NormalizationParams `json:"observation_normalization,omitempty" ignored:"true"`
	ActionNormalization      session.NormalizationParams `json:"action_normalization,omitempty" ignored:"true"`

	// Watch reloads the model when a local model file changes.
	Watch bool `json:"watch,omitempty" envconfig:"WATCH"`

	FetchTimeout Duration `json:"fetch_timeout,omitempty" envconfig:"FETCH_TIMEOUT"`
}

var validate = validator.New()

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		//nolint:gosec // G304: config path is operator supplied
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	c.Default()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes YAML (or JSON) data, applies defaults and validates. It does
// not read the environment.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.Default()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default fills unset fields.
func (c *Config) Default() {
	if c.Backend == "" {
		c.Backend = backend.Default
	}
	if c.FetchTimeout.Duration == 0 {
		c.FetchTimeout.Duration = DefaultFetchTimeout
	}
}

// Validate checks struct tags first, then rules spanning several fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.FetchTimeout.Duration < 0 {
		return fmt.Errorf("%w: fetch_timeout must not be negative, got %s", ErrInvalidConfig, c.FetchTimeout)
	}

	if len(c.Architecture) == 0 {
		return nil
	}
	if err := c.Architecture.Validate(); err != nil {
		return fmt.Errorf("%w: architecture: %w", ErrInvalidConfig, err)
	}
	if err := c.ObservationNormalization.Validate(c.Architecture.InputWidth()); err != nil {
		return fmt.Errorf("%w: observation_normalization: %w", ErrInvalidConfig, err)
	}
	if err := c.ActionNormalization.Validate(c.Architecture.OutputWidth()); err != nil {
		return fmt.Errorf("%w: action_normalization: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SessionOptions returns the session options implied by the configuration.
func (c *Config) SessionOptions() []session.Option {
	return []session.Option{
		session.WithObservationNormalization(c.ObservationNormalization),
		session.WithActionNormalization(c.ActionNormalization),
	}
}
