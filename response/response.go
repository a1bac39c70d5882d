package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

var (
	// ErrNoResponse is returned when a route resolves to nil.
	ErrNoResponse = errors.New("route resolved to no response")

	// ErrInvalidStatus indicates a status code outside 100-599.
	ErrInvalidStatus = errors.New("invalid status code")

	// ErrEncodeBody wraps failures while JSON-encoding a response body.
	ErrEncodeBody = errors.New("failed to encode response body")
)

// Config describes a synthetic response.
type Config struct {
	// Status is the HTTP status code. Zero means 200.
	Status int

	// Header holds headers to include in the response.
	Header http.Header

	// Body is the payload: a string or []byte is sent as-is, nil sends no
	// body, anything else is JSON-encoded.
	Body any

	// Err, when set, fails the fetch with this error instead of responding.
	Err error

	// RedirectURL, when set, is reported as the URL of the final request.
	RedirectURL string
}

// Throws reports the error the fetch should fail with, if any.
func (c Config) Throws() error { return c.Err }

// Owner is the mock instance a response is built for.
type Owner interface {
	IsMock() bool
}

// Input is everything a Builder is given.
type Input struct {
	// URL is the normalized URL of the fetch.
	URL string

	// Config is the terminal value the route resolved to.
	Config any

	// Identifier names the route that produced Config. Empty for fallbacks.
	Identifier string

	// Request is the caller's original request, when one was supplied.
	Request *http.Request

	// Owner is the mock that received the fetch.
	Owner Owner
}

// Builder converts terminal values into responses.
type Builder interface {
	Build(in Input) (*http.Response, error)
}

// BuilderFunc adapts a function into a Builder.
type BuilderFunc func(in Input) (*http.Response, error)

// Build implements Builder.
func (f BuilderFunc) Build(in Input) (*http.Response, error) { return f(in) }

// IsResponse reports whether v is already a complete response.
func IsResponse(v any) bool {
	r, ok := v.(*http.Response)
	return ok && r != nil
}

// DefaultBuilder is the Builder used when none is configured.
var DefaultBuilder Builder = BuilderFunc(build)

func build(in Input) (*http.Response, error) {
	switch v := in.Config.(type) {
	case nil:
		return nil, fmt.Errorf("%w for %s", ErrNoResponse, in.URL)
	case int:
		return newResponse(in, Config{Status: v})
	case string:
		return newResponse(in, Config{Body: v})
	case []byte:
		return newResponse(in, Config{Body: v})
	case Config:
		return newResponse(in, v)
	case *Config:
		if v == nil {
			return nil, fmt.Errorf("%w for %s", ErrNoResponse, in.URL)
		}
		return newResponse(in, *v)
	default:
		return newResponse(in, Config{Body: v})
	}
}

// newResponse assembles an *http.Response from a Config.
func newResponse(in Input, c Config) (*http.Response, error) {
	status := c.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 100 || status > 599 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}

	header := make(http.Header)
	for k, values := range c.Header {
		for _, v := range values {
			header.Add(k, v)
		}
	}

	body, contentType, err := encodeBody(c.Body)
	if err != nil {
		return nil, err
	}
	if contentType != "" && header.Get("Content-Type") == "" {
		header.Set("Content-Type", contentType)
	}
	if header.Get("Content-Length") == "" {
		header.Set("Content-Length", strconv.Itoa(len(body)))
	}

	req, err := finalRequest(in, c.RedirectURL)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

// encodeBody returns the wire bytes for a body and its implied content type.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(b), "text/plain; charset=utf-8", nil
	case []byte:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", errors.Join(ErrEncodeBody, err)
		}
		return data, "application/json", nil
	}
}

// finalRequest returns the request reported on the response.
func finalRequest(in Input, redirect string) (*http.Request, error) {
	if redirect == "" && in.Request != nil {
		return in.Request, nil
	}

	target := in.URL
	if redirect != "" {
		target = redirect
	}
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid response url %q: %w", target, err)
	}
	return req, nil
}
