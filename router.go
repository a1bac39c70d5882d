package fetchmock

import (
	"github.com/tarmac-project/fetchmock/calls"
	"github.com/tarmac-project/fetchmock/logging"
	"github.com/tarmac-project/fetchmock/metrics"
	"github.com/tarmac-project/fetchmock/request"
	"github.com/tarmac-project/fetchmock/resolve"
)

// executeRouter decides how a normalized fetch is answered and records it.
func (m *FetchMock) executeRouter(n request.Normalized) (resolve.Match, error) {
	record := calls.Record{URL: n.URL, Options: n.Options, Request: n.Request}

	// A panicking matcher still leaves a record of the fetch
	pushed := false
	defer func() {
		if r := recover(); r != nil {
			if !pushed {
				record.Unmatched = true
				m.calls.Push(record)
			}
			panic(r)
		}
	}()

	if m.cfg.FallbackToNetwork == FallbackAlways {
		record.Passthrough = true
		m.calls.Push(record)
		pushed = true
		network, err := m.nativeNetwork(n)
		if err != nil {
			m.metrics.Routed(metrics.OutcomeRejected)
			return resolve.Match{}, err
		}
		m.metrics.Routed(metrics.OutcomeNetwork)
		return resolve.Match{Response: network, ResponseIsFetch: true}, nil
	}

	if route, ok := m.router(n); ok {
		record.Identifier = route.Name
		m.calls.Push(record)
		pushed = true
		m.metrics.Routed(metrics.OutcomeMatched)
		m.log.Debug("fetch matched route", logging.F("route", route.Name), logging.F("url", n.URL))
		return resolve.Match{Response: route.Response, Identifier: route.Name}, nil
	}

	method := n.Options.MethodOrDefault()
	if m.cfg.WarnOnFallback {
		m.log.Warn("Unmatched "+method+" to "+n.URL, logging.F("method", method), logging.F("url", n.URL))
	}
	record.Unmatched = true
	m.calls.Push(record)
	pushed = true

	m.mu.RLock()
	fallback := m.fallback
	m.mu.RUnlock()
	if fallback != nil {
		m.metrics.Routed(metrics.OutcomeFallback)
		return resolve.Match{Response: fallback}, nil
	}

	if m.cfg.FallbackToNetwork != FallbackUnmatched {
		m.metrics.Routed(metrics.OutcomeRejected)
		return resolve.Match{}, &ConfigurationError{Method: method, URL: n.URL, Err: ErrNoFallback}
	}

	network, err := m.nativeNetwork(n)
	if err != nil {
		m.metrics.Routed(metrics.OutcomeRejected)
		return resolve.Match{}, err
	}
	m.metrics.Routed(metrics.OutcomeNetwork)
	return resolve.Match{Response: network, ResponseIsFetch: true}, nil
}

// router returns the first registered route accepting n.
func (m *FetchMock) router(n request.Normalized) (Route, bool) {
	// Matchers run outside the lock so they may use the mock themselves
	for _, r := range m.Routes() {
		if r.Matcher(n.URL, n.Options, n.Request) {
			return r, true
		}
	}
	return Route{}, false
}

// nativeNetwork returns the network function pass-through fetches use.
func (m *FetchMock) nativeNetwork(n request.Normalized) (resolve.NetworkFunc, error) {
	m.mu.RLock()
	captured := m.realNetwork
	m.mu.RUnlock()

	if captured != nil {
		return captured, nil
	}
	if m.cfg.Network != nil {
		return m.cfg.Network, nil
	}
	return nil, &ConfigurationError{Method: n.Options.MethodOrDefault(), URL: n.URL, Err: ErrNoNetwork}
}
