package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidContext marks a (year, day) rejected by the release rule.
	ErrInvalidContext = errors.New("invalid puzzle context")
	// ErrAuthentication means the remote site rejected the session credential.
	ErrAuthentication = errors.New("authentication failed: session cookie is missing, invalid or expired")
	// ErrTransport covers network failures and timeouts talking to the remote site.
	ErrTransport = errors.New("transport failure")
	// ErrCacheCorruption marks a stored entry that could not be decoded.
	ErrCacheCorruption = errors.New("cache entry corrupted")
	// ErrDuplicateTestIndex is returned when adding a test case at an occupied index.
	ErrDuplicateTestIndex = errors.New("test case index already exists")
	// ErrNotFound is returned for missing test cases or remote resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidAnswer rejects empty answers before they reach the network.
	ErrInvalidAnswer = errors.New("answer must not be empty")
)

// InvalidContextError describes why a context was rejected.
type InvalidContextError struct {
	Year   int
	Day    int
	Reason string
}

func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("invalid puzzle context %d-%d: %s", e.Year, e.Day, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidContext.
func (e *InvalidContextError) Unwrap() error {
	return ErrInvalidContext
}
