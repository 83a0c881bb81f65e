package telemetry

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
	if cfg.ServiceName != "selfdeploy" {
		t.Errorf("expected service name selfdeploy, got %s", cfg.ServiceName)
	}
	if cfg.Tracing.Enabled || cfg.Metrics.Enabled {
		t.Error("tracing and metrics must be disabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name       string
		modifyFunc func(*Config)
		valid      bool
	}{
		{
			name:       "json format",
			modifyFunc: func(c *Config) { c.Logging.Format = "json" },
			valid:      true,
		},
		{
			name:       "missing service name",
			modifyFunc: func(c *Config) { c.ServiceName = "" },
			valid:      false,
		},
		{
			name:       "invalid log level",
			modifyFunc: func(c *Config) { c.Logging.Level = "verbose" },
			valid:      false,
		},
		{
			name:       "invalid log format",
			modifyFunc: func(c *Config) { c.Logging.Format = "xml" },
			valid:      false,
		},
		{
			name: "invalid trace exporter",
			modifyFunc: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "jaeger"
			},
			valid: false,
		},
		{
			name: "unknown exporter ignored when tracing disabled",
			modifyFunc: func(c *Config) {
				c.Tracing.Enabled = false
				c.Tracing.Exporter = "jaeger"
			},
			valid: true,
		},
		{
			name:       "sampling rate out of range",
			modifyFunc: func(c *Config) { c.Tracing.SamplingRate = 1.5 },
			valid:      false,
		},
		{
			name:       "negative sampling rate",
			modifyFunc: func(c *Config) { c.Tracing.SamplingRate = -0.1 },
			valid:      false,
		},
		{
			name: "metrics without listen address",
			modifyFunc: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.ListenAddress = ""
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modifyFunc(&cfg)

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}
