package hostmock

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedNamespace, when set, is the namespace every call must use.
	ExpectedNamespace string

	// ExpectedCapability, when set, is the capability every call must use.
	ExpectedCapability string

	// ExpectedFunction, when set, is the function every call must use.
	ExpectedFunction string

	// Error is the error to return if the mock is configured to fail.
	Error error

	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func([]byte) error

	// Responder computes the reply from the payload.
	Responder func(payload []byte) ([]byte, error)

	// Response supplies a fixed reply when Responder is nil.
	Response func() []byte

	// Fail indicates whether the mock should return an error.
	Fail bool
}

// Invocation is a host call observed by the mock.
type Invocation struct {
	Namespace  string
	Capability string
	Function   string
	Payload    []byte
	// Err is the error HostCall returned, if any.
	Err error
}

// Mock simulates the waPC host with validation, scripted replies and call recording.
type Mock struct {
	cfg Config

	mu    sync.Mutex
	calls []Invocation
}

// New creates a new Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	return &Mock{cfg: config}, nil
}

// HostCall simulates a host call, validating inputs and returning a response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	resp, err := m.call(namespace, capability, function, payload)

	m.mu.Lock()
	m.calls = append(m.calls, Invocation{
		Namespace:  namespace,
		Capability: capability,
		Function:   function,
		Payload:    append([]byte(nil), payload...),
		Err:        err,
	})
	m.mu.Unlock()

	return resp, err
}

func (m *Mock) call(namespace, capability, function string, payload []byte) ([]byte, error) {
	if m.cfg.Fail {
		if m.cfg.Error != nil {
			return nil, m.cfg.Error
		}
		return nil, ErrOperationFailed
	}

	if m.cfg.ExpectedNamespace != "" && m.cfg.ExpectedNamespace != namespace {
		return nil, fmt.Errorf("%w: expected namespace %s, got %s", ErrUnexpectedNamespace, m.cfg.ExpectedNamespace, namespace)
	}
	if m.cfg.ExpectedCapability != "" && m.cfg.ExpectedCapability != capability {
		return nil, fmt.Errorf("%w: expected capability %s, got %s", ErrUnexpectedCapability, m.cfg.ExpectedCapability, capability)
	}
	if m.cfg.ExpectedFunction != "" && m.cfg.ExpectedFunction != function {
		return nil, fmt.Errorf("%w: expected function %s, got %s", ErrUnexpectedFunction, m.cfg.ExpectedFunction, function)
	}

	if m.cfg.PayloadValidator != nil {
		if err := m.cfg.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	switch {
	case m.cfg.Responder != nil:
		return m.cfg.Responder(payload)
	case m.cfg.Response != nil:
		return m.cfg.Response(), nil
	default:
		return nil, nil
	}
}

// Calls returns a copy of every recorded invocation in order.
func (m *Mock) Calls() []Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Invocation(nil), m.calls...)
}

// Marshaler is a wire message that encodes itself, as the tarmac protobuf
// messages do.
type Marshaler interface {
	MarshalVT() ([]byte, error)
}

// Unmarshaler is a wire message that decodes itself.
type Unmarshaler interface {
	UnmarshalVT([]byte) error
}

// Decode unmarshals a payload received by the mock into msg.
func Decode(payload []byte, msg Unmarshaler) error {
	if err := msg.UnmarshalVT(payload); err != nil {
		return fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return nil
}

// Encode marshals a reply for the mock to return.
func Encode(msg Marshaler) ([]byte, error) {
	b, err := msg.MarshalVT()
	if err != nil {
		return nil, fmt.Errorf("could not marshal reply: %w", err)
	}
	return b, nil
}
