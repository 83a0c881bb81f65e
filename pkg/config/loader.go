package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Loader parses and validates deploy configuration files.
type Loader struct {
	validator *validator.Validate
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{validator: validator.New()}
}

// Load reads a YAML deploy configuration from path. Missing fields keep
// their defaults; unknown fields are rejected.
func (l *Loader) Load(path string) (*DeployConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := l.applyDefaults(cfg); err != nil {
		return nil, err
	}

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags and the
// telemetry section's own rules.
func (l *Loader) Validate(cfg *DeployConfig) error {
	if err := l.validator.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Target != nil {
		switch cfg.Target.AuthMethod {
		case "password":
			if cfg.Target.Password == "" {
				return fmt.Errorf("config validation failed: target password is required for password authentication")
			}
		}
	}

	if err := cfg.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry config invalid: %w", err)
	}

	return nil
}

// applyDefaults fills in values that depend on the environment.
func (l *Loader) applyDefaults(cfg *DeployConfig) error {
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory for journal: %w", err)
		}
		cfg.Journal.Path = filepath.Join(home, ".selfdeploy", "journal.db")
	}

	if cfg.Target != nil {
		if cfg.Target.Port == 0 {
			cfg.Target.Port = 22
		}
		if cfg.Target.AuthMethod == "" {
			cfg.Target.AuthMethod = "key"
		}
		if cfg.Target.ConnectTimeout == 0 {
			cfg.Target.ConnectTimeout = Duration(30 * time.Second)
		}
	}

	return nil
}
