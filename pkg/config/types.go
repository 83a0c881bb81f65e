package config

import (
	"github.com/qkauia-guy/self-drawn/pkg/telemetry"
)

// DeployConfig is the root configuration for a deployment.
type DeployConfig struct {
	// ProjectDir is the directory containing the web application.
	ProjectDir string `yaml:"project_dir" validate:"required"`

	// Python is the interpreter used to run management subcommands.
	Python string `yaml:"python" validate:"required"`

	// Pip is the package manager used for dependency installation.
	Pip string `yaml:"pip" validate:"required"`

	// Manifest is the dependency manifest, relative to ProjectDir.
	Manifest string `yaml:"manifest" validate:"required"`

	// Manage is the management entrypoint, relative to ProjectDir.
	Manage string `yaml:"manage" validate:"required"`

	// Env holds extra environment variables for every step. The ambient
	// environment is always passed through as well.
	Env map[string]string `yaml:"env"`

	// StepTimeout bounds each step's execution. Zero means no timeout.
	StepTimeout Duration `yaml:"step_timeout" validate:"min=0"`

	// Superuser configures the best-effort superuser provisioning step.
	Superuser SuperuserConfig `yaml:"superuser"`

	// Journal configures the local deployment journal.
	Journal JournalConfig `yaml:"journal"`

	// Release configures the release record written after a deploy.
	Release ReleaseConfig `yaml:"release"`

	// Target is the optional remote deployment target. Nil means the
	// pipeline runs on the local machine.
	Target *TargetConfig `yaml:"target"`

	// Telemetry configures logging, metrics and tracing.
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// SuperuserConfig configures the superuser provisioning step.
//
// Credentials are never part of the configuration: the subcommand reads
// them from pre-set environment variables (DJANGO_SUPERUSER_USERNAME,
// DJANGO_SUPERUSER_EMAIL, DJANGO_SUPERUSER_PASSWORD).
type SuperuserConfig struct {
	// Enabled controls whether the step runs at all.
	Enabled bool `yaml:"enabled"`
}

// JournalConfig configures the SQLite deployment journal.
type JournalConfig struct {
	// Enabled controls whether runs are recorded.
	Enabled bool `yaml:"enabled"`

	// Path is the journal database file. Empty means
	// $HOME/.selfdeploy/journal.db.
	Path string `yaml:"path"`
}

// ReleaseConfig configures the release record.
type ReleaseConfig struct {
	// RecordPath is where the release record is written after a
	// successful deploy (on the target, for remote deploys). Empty
	// disables the record.
	RecordPath string `yaml:"record_path"`
}

// TargetConfig describes a remote deployment target reached over SSH.
type TargetConfig struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
	User string `yaml:"user" validate:"required"`

	// AuthMethod is either "key" or "password".
	AuthMethod string `yaml:"auth_method" validate:"oneof=key password"`

	Password             string `yaml:"password"`
	PrivateKeyPath       string `yaml:"private_key_path"`
	PrivateKeyPassphrase string `yaml:"private_key_passphrase"`

	KnownHostsPath        string `yaml:"known_hosts_path"`
	StrictHostKeyChecking bool   `yaml:"strict_host_key_checking"`

	ConnectTimeout Duration `yaml:"connect_timeout" validate:"min=0"`
}

// DefaultConfig returns a configuration with the conventional defaults for
// a Django-style project rooted in the current directory.
func DefaultConfig() *DeployConfig {
	return &DeployConfig{
		ProjectDir: ".",
		Python:     "python3",
		Pip:        "pip3",
		Manifest:   "requirements.txt",
		Manage:     "manage.py",
		Superuser:  SuperuserConfig{Enabled: true},
		Journal:    JournalConfig{Enabled: true},
		Telemetry:  telemetry.DefaultConfig(),
	}
}
