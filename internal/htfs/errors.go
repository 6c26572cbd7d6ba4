package htfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a path segment was absent after syncing the
	// folder that should contain it.
	ErrNotFound = errors.New("htfs: not found")

	// ErrNotADirectory means a cd targeted an entity that is a file.
	ErrNotADirectory = errors.New("htfs: not a directory")

	// ErrEmptyBody means a download got a response with no readable stream.
	ErrEmptyBody = errors.New("htfs: empty body")
)

// TransportError wraps a network or parse failure during a fetch or
// download, keeping the locator of the node that failed.
type TransportError struct {
	Locator string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("htfs: transport %q: %v", e.Locator, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
