package fetchmock

import (
	"context"

	"github.com/tarmac-project/fetchmock/calls"
)

// Calls returns every recorded fetch in the order it reached the router.
func (m *FetchMock) Calls() []calls.Record { return m.calls.All() }

// MatchedCalls returns the fetches handled by a route.
func (m *FetchMock) MatchedCalls() []calls.Record { return m.calls.Matched() }

// UnmatchedCalls returns the fetches no route accepted.
func (m *FetchMock) UnmatchedCalls() []calls.Record { return m.calls.Unmatched() }

// CallsTo returns the fetches handled by the route named name.
func (m *FetchMock) CallsTo(name string) []calls.Record { return m.calls.Identified(name) }

// LastCall returns the most recent fetch.
func (m *FetchMock) LastCall() (calls.Record, bool) { return m.calls.Last() }

// Called reports whether the route named name handled at least one fetch.
func (m *FetchMock) Called(name string) bool { return len(m.calls.Identified(name)) > 0 }

// Done reports whether every registered route handled at least one fetch.
func (m *FetchMock) Done() bool {
	for _, r := range m.Routes() {
		if !m.Called(r.Name) {
			return false
		}
	}
	return true
}

// Flush waits until every fetch issued so far has settled, or ctx is done.
func (m *FetchMock) Flush(ctx context.Context) error {
	return m.pending.Flush(ctx)
}

// ResetHistory discards recorded calls. Routes are kept.
func (m *FetchMock) ResetHistory() {
	m.calls.Reset()
}

// Reset discards routes and recorded calls, reverts the fallback response,
// and restores any transports replaced by Install.
func (m *FetchMock) Reset() {
	m.RemoveRoutes()
	m.ResetHistory()
	m.Restore()
}
