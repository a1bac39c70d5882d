package host

import (
	"errors"

	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

// Call is the waPC host function signature: namespace, capability, function, payload.
type Call func(string, string, string, []byte) ([]byte, error)

var (
	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure status.
	ErrHostError = errors.New("host returned an error status")
)

// RuntimeConfig carries the settings used to scope host interactions.
type RuntimeConfig struct {
	// Namespace is the function namespace used for host callbacks.
	// If empty, DefaultNamespace is used.
	Namespace string
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c RuntimeConfig) WithDefaults() RuntimeConfig {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	return c
}

// Resolve returns override when set, otherwise the real waPC host call.
func Resolve(override Call) Call {
	if override != nil {
		return override
	}
	return wapc.HostCall
}
