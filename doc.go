/*
Package fetchmock intercepts HTTP fetches and answers them from registered
routes instead of the network.

A FetchMock holds an ordered list of routes. Each fetch is normalized, matched
against the routes in registration order (the first match wins), and the
route's response descriptor is resolved and turned into an *http.Response.
Unmatched fetches are answered by the fallback response, passed through to
the real network, or rejected with a ConfigurationError, depending on Config.
Every fetch is recorded so tests can inspect what was sent.

	m, _ := fetchmock.New(fetchmock.Config{})
	m.On(http.MethodGet, "https://example.com/users").Return(response.Config{
	  Status: http.StatusOK,
	  Body:   []User{{ID: 1}},
	})

	client := m.Client()
	resp, err := client.Get("https://example.com/users")

Response descriptors may be literals (status codes, strings, bytes,
response.Config, *http.Response, any JSON-encodable value), functions that
compute a descriptor, deferred values that settle to one, or any chain of
those. See package resolve.

Fetches honour cancellation: a fetch whose signal is already cancelled is
rejected with an AbortError without generating a response, and a signal that
fires while the response is being generated rejects the fetch immediately.
*/
package fetchmock
