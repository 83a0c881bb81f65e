// Package config defines the deploy configuration file format and its
// loader. The configuration is a single YAML document describing the
// project being deployed, the optional remote target, and the ambient
// telemetry settings.
package config
