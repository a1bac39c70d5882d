package fetchmock

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoFallback is the cause of a ConfigurationError for an unmatched fetch
	// with neither a fallback response nor network fallback.
	ErrNoFallback = errors.New("no fallback response defined")

	// ErrNoNetwork is the cause of a ConfigurationError when a fetch must reach
	// the network but no native network function is available.
	ErrNoNetwork = errors.New("network fallback requires Install or Config.Network")

	// ErrNilMatcher is returned when a route is registered without a matcher.
	ErrNilMatcher = errors.New("route matcher cannot be nil")

	// ErrAborted matches every AbortError with errors.Is.
	ErrAborted = errors.New("fetch aborted")

	// ErrResponderPanic wraps a panic raised while generating a response.
	ErrResponderPanic = errors.New("responder panicked")
)

// ConfigurationError reports a fetch the mock has no strategy to answer. It is
// returned synchronously from Fetch, never through a Result.
type ConfigurationError struct {
	Method string
	URL    string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("fetchmock: %s for %s to %s", e.Err, e.Method, e.URL)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

const abortMessage = "The operation was aborted."

// AbortError rejects a fetch whose signal was cancelled. It matches
// context.Canceled and ErrAborted with errors.Is, and unwraps to the signal's
// cancellation cause.
type AbortError struct {
	cause error
}

func newAbortError(ctx context.Context) *AbortError {
	return &AbortError{cause: context.Cause(ctx)}
}

func (e *AbortError) Error() string { return abortMessage }

// Name returns the error kind, "AbortError".
func (e *AbortError) Name() string { return "AbortError" }

func (e *AbortError) Unwrap() error { return e.cause }

func (e *AbortError) Is(target error) bool {
	return target == context.Canceled || target == ErrAborted
}
