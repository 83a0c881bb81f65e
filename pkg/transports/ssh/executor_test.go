package ssh

import (
	"context"
	"testing"
)

func TestExecuteCommand(t *testing.T) {
	server := newTestSSHServer(t)
	client := connectTestClient(t, server)

	tests := []struct {
		name           string
		command        string
		expectedExit   int
		expectedStdout string
		expectedStderr string
	}{
		{
			name:           "stdout capture",
			command:        "echo test",
			expectedExit:   0,
			expectedStdout: "test\n",
		},
		{
			name:           "stderr capture",
			command:        "echo error >&2",
			expectedExit:   0,
			expectedStderr: "error\n",
		},
		{
			name:         "non-zero exit is not an error",
			command:      "exit 7",
			expectedExit: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := client.ExecuteCommand(context.Background(), tt.command)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if res.ExitCode != tt.expectedExit {
				t.Errorf("expected exit code %d, got %d", tt.expectedExit, res.ExitCode)
			}
			if res.Stdout != tt.expectedStdout {
				t.Errorf("expected stdout %q, got %q", tt.expectedStdout, res.Stdout)
			}
			if res.Stderr != tt.expectedStderr {
				t.Errorf("expected stderr %q, got %q", tt.expectedStderr, res.Stderr)
			}
		})
	}
}

func TestExecuteCommandNotConnected(t *testing.T) {
	server := newTestSSHServer(t)

	client, err := NewClient(testClientConfig(t, server))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.ExecuteCommand(context.Background(), "true"); err == nil {
		t.Fatal("expected an error before Connect")
	}
}
