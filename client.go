package fetchmock

import (
	"context"
	"io"
	"net/http"

	"github.com/tarmac-project/fetchmock/request"
)

// Client is the convenience surface of a FetchMock.
type Client interface {
	// Get issues a GET request to the specified URL.
	Get(url string) (*http.Response, error)

	// Post issues a POST request to the specified URL with the given content type and body.
	Post(url, contentType string, body io.Reader) (*http.Response, error)

	// Put issues a PUT request to the specified URL with the given content type and body.
	Put(url, contentType string, body io.Reader) (*http.Response, error)

	// Delete issues a DELETE request to the specified URL.
	Delete(url string) (*http.Response, error)

	// Do issues req and returns the response.
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time check: ensure FetchMock implements the Client interface.
var _ Client = (*FetchMock)(nil)

// Client returns an *http.Client whose transport is m.
func (m *FetchMock) Client() *http.Client {
	return &http.Client{Transport: m.Transport()}
}

// Get fetches url with GET and waits for the response.
func (m *FetchMock) Get(url string) (*http.Response, error) {
	return m.fetchAndWait(url, &request.Options{Method: http.MethodGet})
}

// Post fetches url with POST and waits for the response.
func (m *FetchMock) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return m.send(http.MethodPost, url, contentType, body)
}

// Put fetches url with PUT and waits for the response.
func (m *FetchMock) Put(url, contentType string, body io.Reader) (*http.Response, error) {
	return m.send(http.MethodPut, url, contentType, body)
}

// Delete fetches url with DELETE and waits for the response.
func (m *FetchMock) Delete(url string) (*http.Response, error) {
	return m.fetchAndWait(url, &request.Options{Method: http.MethodDelete})
}

// Do fetches req and waits for the response. req's context is its signal.
func (m *FetchMock) Do(req *http.Request) (*http.Response, error) {
	return m.fetchAndWait(req, nil)
}

func (m *FetchMock) send(method, url, contentType string, body io.Reader) (*http.Response, error) {
	opts := &request.Options{Method: method, Header: make(http.Header)}
	if contentType != "" {
		opts.Header.Set("Content-Type", contentType)
	}
	if body != nil {
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		opts.Body = b
	}
	return m.fetchAndWait(url, opts)
}

func (m *FetchMock) fetchAndWait(input any, opts *request.Options) (*http.Response, error) {
	res, err := m.Fetch(input, opts)
	if err != nil {
		return nil, err
	}
	return res.Wait(context.Background())
}
