package fetchmock

import (
	"sync"

	"github.com/tarmac-project/fetchmock/calls"
	"github.com/tarmac-project/fetchmock/logging"
	"github.com/tarmac-project/fetchmock/metrics"
	"github.com/tarmac-project/fetchmock/resolve"
	"github.com/tarmac-project/fetchmock/response"
)

// FallbackMode controls when fetches reach the real network.
type FallbackMode int

const (
	// FallbackNever rejects unmatched fetches that have no fallback response.
	FallbackNever FallbackMode = iota
	// FallbackUnmatched sends unmatched fetches without a fallback response to the network.
	FallbackUnmatched
	// FallbackAlways sends every fetch to the network without consulting routes.
	FallbackAlways
)

// Config provides configuration options for a FetchMock.
type Config struct {
	// FallbackToNetwork controls pass-through to the native network function.
	FallbackToNetwork FallbackMode

	// FallbackResponse, when non-nil, answers every unmatched fetch.
	FallbackResponse any

	// WarnOnFallback logs a warning for every unmatched fetch.
	WarnOnFallback bool

	// Network is the native network function used for pass-through. A network
	// captured by Install takes precedence.
	Network resolve.NetworkFunc

	// Builder converts terminal descriptors into responses. Defaults to
	// response.DefaultBuilder.
	Builder response.Builder

	// NewPromise constructs the deferred value behind every Result. Defaults
	// to resolve.NewPromise.
	NewPromise func() resolve.Settler

	// Logger receives fallback warnings and debug traces. Defaults to a
	// stderr logger at info level.
	Logger logging.Client

	// Metrics records routing outcomes. Defaults to a Recorder on a private registry.
	Metrics *metrics.Recorder
}

// FetchMock answers fetches from registered routes.
type FetchMock struct {
	cfg        Config
	builder    response.Builder
	newPromise func() resolve.Settler
	log        logging.Client
	metrics    *metrics.Recorder

	mu          sync.RWMutex
	routes      []Route
	fallback    any
	realNetwork resolve.NetworkFunc
	installs    []installation

	calls   calls.Log
	pending calls.Tracker
}

// Ensure FetchMock can be handed to response builders as their owner.
var _ response.Owner = (*FetchMock)(nil)

// New creates a FetchMock from config.
func New(config Config) (*FetchMock, error) {
	m := &FetchMock{
		cfg:        config,
		builder:    config.Builder,
		newPromise: config.NewPromise,
		log:        config.Logger,
		metrics:    config.Metrics,
		fallback:   config.FallbackResponse,
	}

	// Fill in defaults for anything not provided
	if m.builder == nil {
		m.builder = response.DefaultBuilder
	}
	if m.newPromise == nil {
		m.newPromise = func() resolve.Settler { return resolve.NewPromise() }
	}
	if m.log == nil {
		l, err := logging.New(logging.Config{})
		if err != nil {
			return nil, err
		}
		m.log = l
	}
	if m.metrics == nil {
		r, err := metrics.New(metrics.Config{})
		if err != nil {
			return nil, err
		}
		m.metrics = r
	}

	return m, nil
}

// IsMock reports that m is a mock fetch implementation.
func (m *FetchMock) IsMock() bool { return true }

// Config returns the configuration m was created with.
func (m *FetchMock) Config() Config { return m.cfg }
