package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"fatal exit code", NewFatalError("migrate", 3, ""), 3},
		{"exec error without exit code", NewExecError("install", errors.New("not found")), 1},
		{"wrapped step error", fmt.Errorf("deploy: %w", NewFatalError("collect", 2, "")), 2},
		{"plain error", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsSuppressed(t *testing.T) {
	if !IsSuppressed(NewSuppressedError("superuser", 1, "already exists")) {
		t.Error("expected suppressed error to be detected")
	}
	if IsSuppressed(NewFatalError("migrate", 1, "")) {
		t.Error("fatal error must not be suppressed")
	}
	if IsSuppressed(errors.New("boom")) {
		t.Error("plain error must not be suppressed")
	}
}

func TestStepErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewExecError("install", inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestStepErrorMessage(t *testing.T) {
	err := NewFatalError("apply-migrations", 4, "")
	want := "step apply-migrations failed with exit code 4"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
