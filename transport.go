package fetchmock

import (
	"context"
	"net/http"

	"github.com/tarmac-project/fetchmock/request"
	"github.com/tarmac-project/fetchmock/resolve"
)

// mockTransport adapts a FetchMock to http.RoundTripper.
type mockTransport struct {
	m *FetchMock
}

// Ensure mockTransport satisfies http.RoundTripper at compile time.
var _ http.RoundTripper = mockTransport{}

// RoundTrip implements http.RoundTripper. Cancelling the request context
// aborts the fetch. req itself is left unmodified; the fetch sees a clone.
func (t mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, request.ErrUnsupportedInput
	}
	res, err := t.m.Fetch(req.Clone(req.Context()), nil)
	if err != nil {
		return nil, err
	}
	return res.Wait(context.Background())
}

func (t mockTransport) IsMock() bool { return true }

// Transport returns an http.RoundTripper answering requests from m.
func (m *FetchMock) Transport() http.RoundTripper {
	return mockTransport{m: m}
}

// IsMock reports whether rt is a fetch mock.
func IsMock(rt http.RoundTripper) bool {
	im, ok := rt.(interface{ IsMock() bool })
	return ok && im.IsMock()
}

type installation struct {
	client *http.Client
	prev   http.RoundTripper
}

// Install replaces c's transport with m. The replaced transport, or
// http.DefaultTransport when c had none, becomes the native network function
// for pass-through fetches. Installing onto a client already using a mock is
// a no-op.
func (m *FetchMock) Install(c *http.Client) {
	if IsMock(c.Transport) {
		return
	}

	prev := c.Transport
	network := prev
	if network == nil {
		network = http.DefaultTransport
	}

	m.mu.Lock()
	m.installs = append(m.installs, installation{client: c, prev: prev})
	m.realNetwork = resolve.FromRoundTripper(network)
	m.mu.Unlock()

	c.Transport = m.Transport()
}

// Restore puts back the transports replaced by Install, most recent first,
// and forgets the captured network function.
func (m *FetchMock) Restore() {
	m.mu.Lock()
	installs := m.installs
	m.installs = nil
	m.realNetwork = nil
	m.mu.Unlock()

	for i := len(installs) - 1; i >= 0; i-- {
		installs[i].client.Transport = installs[i].prev
	}
}
