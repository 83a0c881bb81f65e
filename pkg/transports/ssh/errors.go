// Package ssh implements the SSH transport used for deploying to a remote
// target. It provides command execution and SFTP file writes over a single
// authenticated connection.
package ssh

import "fmt"

// TransportError wraps transport-level failures with operation context.
type TransportError struct {
	// Op is the operation that failed (connect, execute, write-file).
	Op string

	// Err is the underlying error.
	Err error

	// IsTemporary indicates the failure may succeed if retried.
	IsTemporary bool

	// IsAuthError indicates an authentication or authorization failure.
	IsAuthError bool
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("ssh transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure is considered temporary.
func (e *TransportError) Temporary() bool {
	return e.IsTemporary
}
