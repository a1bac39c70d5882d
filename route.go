package fetchmock

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tarmac-project/fetchmock/match"
	"github.com/tarmac-project/fetchmock/request"
	"github.com/tarmac-project/fetchmock/resolve"
)

// Route pairs a matcher with the response descriptor it answers with.
type Route struct {
	// Name identifies the route in call records. Generated when empty.
	Name string

	// Matcher decides whether the route handles a fetch.
	Matcher match.Matcher

	// Response is the descriptor resolved for matching fetches.
	Response any
}

// Mock registers r after every existing route. A route with the same Name
// as an existing one replaces it in place, keeping its position.
func (m *FetchMock) Mock(r Route) error {
	if r.Matcher == nil {
		return ErrNilMatcher
	}
	if r.Name == "" {
		r.Name = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.routes {
		if m.routes[i].Name == r.Name {
			m.routes[i] = r
			return nil
		}
	}
	m.routes = append(m.routes, r)
	return nil
}

// On starts configuration of a route for method and exact URL. A method of
// "*" matches any method. The route is named "METHOD url".
func (m *FetchMock) On(method, url string) *RouteBuilder {
	return &RouteBuilder{
		mock:    m,
		name:    method + " " + url,
		matcher: match.MethodURL(method, url),
	}
}

// Catch sets the response for every unmatched fetch. A nil resp means 200.
func (m *FetchMock) Catch(resp any) *FetchMock {
	if resp == nil {
		resp = 200
	}
	m.mu.Lock()
	m.fallback = resp
	m.mu.Unlock()
	return m
}

// Routes returns a copy of the registered routes in order.
func (m *FetchMock) Routes() []Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Route(nil), m.routes...)
}

// RemoveRoutes unregisters every route and reverts the fallback response to
// Config.FallbackResponse.
func (m *FetchMock) RemoveRoutes() {
	m.mu.Lock()
	m.routes = nil
	m.fallback = m.cfg.FallbackResponse
	m.mu.Unlock()
}

// RouteBuilder helps configure a route created by On.
type RouteBuilder struct {
	mock    *FetchMock
	name    string
	matcher match.Matcher
	delay   time.Duration
}

// Named overrides the route name.
func (b *RouteBuilder) Named(name string) *RouteBuilder {
	b.name = name
	return b
}

// When narrows the route with an additional matcher.
func (b *RouteBuilder) When(extra match.Matcher) *RouteBuilder {
	b.matcher = match.All(b.matcher, extra)
	return b
}

// After delays every response of the route by d.
func (b *RouteBuilder) After(d time.Duration) *RouteBuilder {
	b.delay = d
	return b
}

// Return registers the route with descriptor resp.
func (b *RouteBuilder) Return(resp any) *FetchMock {
	if b.delay > 0 {
		d, inner := b.delay, resp
		resp = resolve.Func(func(string, request.Options, *http.Request) any {
			return resolve.Delay(d, inner)
		})
	}
	// On always supplies a matcher, so Mock cannot fail here
	_ = b.mock.Mock(Route{Name: b.name, Matcher: b.matcher, Response: resp})
	return b.mock
}

// ReturnError registers the route so that matching fetches fail with err.
func (b *RouteBuilder) ReturnError(err error) *FetchMock {
	return b.Return(resolve.Throw(err))
}

// ReturnFunc registers the route with a responder computing the descriptor per fetch.
func (b *RouteBuilder) ReturnFunc(fn resolve.Func) *FetchMock {
	return b.Return(fn)
}
