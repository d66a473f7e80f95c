package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two remote failures callers branch on. Anything
// else surfaces as a *RemoteError with the server's message.
var (
	// ErrNotAuthenticated is returned when an operation needs a session
	// and there is none, or the server rejected the token.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound is returned when the addressed task or category does not
	// exist in the remote store.
	ErrNotFound = errors.New("not found")
)

// RemoteError is a server-side failure that is neither an auth nor a
// not-found condition. The message is passed through for display.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote operation failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote operation failed (%d)", e.StatusCode)
}
