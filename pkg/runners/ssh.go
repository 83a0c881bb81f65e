package runners

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/qkauia-guy/self-drawn/pkg/transports/ssh"
)

// SSHRunner executes commands on a remote target over an established SSH
// connection. Commands are rendered as a single shell line with env
// assignments and a cd into the working directory, so the remote side only
// needs a POSIX shell.
type SSHRunner struct {
	client *ssh.Client
}

// NewSSHRunner creates a runner backed by the given SSH client. The client
// must already be connected.
func NewSSHRunner(client *ssh.Client) *SSHRunner {
	return &SSHRunner{client: client}
}

// Run renders the command to a shell line and executes it remotely.
func (r *SSHRunner) Run(ctx context.Context, command Command) (*Result, error) {
	if command.Name == "" {
		return nil, fmt.Errorf("command name is required")
	}

	line := renderShellLine(command)

	res, err := r.client.ExecuteCommand(ctx, line)
	if err != nil {
		return nil, err
	}

	return &Result{
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		Duration: res.Duration,
	}, nil
}

// renderShellLine builds a POSIX shell command line from a Command.
func renderShellLine(command Command) string {
	var sb strings.Builder

	if command.Dir != "" {
		sb.WriteString("cd ")
		sb.WriteString(shellQuote(command.Dir))
		sb.WriteString(" && ")
	}

	// Sorted for a deterministic command line.
	keys := make([]string, 0, len(command.Env))
	for k := range command.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(shellQuote(command.Env[k]))
		sb.WriteString(" ")
	}

	sb.WriteString(shellQuote(command.Name))
	for _, arg := range command.Args {
		sb.WriteString(" ")
		sb.WriteString(shellQuote(arg))
	}

	return sb.String()
}

// shellQuote single-quotes a string for safe use in a POSIX shell line.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$&|;<>()*?[]#~%!{}`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
