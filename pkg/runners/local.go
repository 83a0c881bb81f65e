package runners

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// LocalRunner executes commands on the local machine via os/exec.
type LocalRunner struct {
	// BaseDir is used as the working directory for commands that do not set
	// their own. Empty means the process working directory.
	BaseDir string
}

// NewLocalRunner creates a runner that executes commands locally.
func NewLocalRunner(baseDir string) *LocalRunner {
	return &LocalRunner{BaseDir: baseDir}
}

// Run executes the command and captures its output.
func (r *LocalRunner) Run(ctx context.Context, command Command) (*Result, error) {
	if command.Name == "" {
		return nil, fmt.Errorf("command name is required")
	}

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)

	if command.Dir != "" {
		cmd.Dir = command.Dir
	} else if r.BaseDir != "" {
		cmd.Dir = r.BaseDir
	}

	// The ambient environment is passed through unconditionally: the
	// superuser step reads its credentials from pre-set variables.
	env := os.Environ()
	for k, v := range command.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if err != nil {
		// A timeout kill also surfaces as *exec.ExitError, so the context
		// has to be checked first: a command stopped by its deadline was
		// not run to completion and must not report an exit code.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("failed to execute command: %w", err)
	}

	result.ExitCode = 0
	return result, nil
}
