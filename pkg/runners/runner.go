// Package runners provides command execution backends for the deployment
// pipeline. A CommandRunner executes a single external program invocation
// either on the local machine or on a remote target over SSH.
package runners

import (
	"context"
	"time"
)

// Command describes a single external program invocation.
type Command struct {
	// Name is the program to execute.
	Name string `json:"name"`

	// Args are the program arguments.
	Args []string `json:"args,omitempty"`

	// Dir is the working directory. Empty means the runner's default.
	Dir string `json:"dir,omitempty"`

	// Env holds additional environment variables merged over the ambient
	// environment. The ambient environment is always passed through so that
	// externally provisioned credentials reach the subcommand.
	Env map[string]string `json:"env,omitempty"`
}

// Result holds the outcome of a command execution.
type Result struct {
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration"`
}

// CommandRunner executes commands on a deployment target.
//
// A non-zero exit status is not an error: it is reported via Result.ExitCode.
// An error return means the command could not be run at all (program not
// found, connection lost, context cancelled).
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}
