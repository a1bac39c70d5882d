package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	// ErrUnsupportedInput is returned when the fetch input is neither a URL nor an *http.Request.
	ErrUnsupportedInput = errors.New("unsupported fetch input")

	// ErrReadBody wraps failures while reading a request body stream.
	ErrReadBody = errors.New("failed to read request body")

	// ErrInvalidURL indicates a URL that could not be turned into an outbound request.
	ErrInvalidURL = errors.New("invalid URL provided")
)

// Options mirrors the options argument of a fetch call.
type Options struct {
	// Method is the HTTP method. Empty means GET.
	Method string

	// Header holds request headers. Nil is treated as empty.
	Header http.Header

	// Body is the fully buffered request payload.
	Body []byte

	// Signal cancels the fetch when its Done channel closes. A nil Signal, or
	// one whose Done channel is nil, means the fetch cannot be cancelled.
	Signal context.Context
}

// MethodOrDefault returns the upper-cased method, or GET when none was set.
func (o Options) MethodOrDefault() string {
	if o.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(o.Method)
}

// HasSignal reports whether the options carry a cancellable signal.
func (o Options) HasSignal() bool {
	return o.Signal != nil && o.Signal.Done() != nil
}

// Context returns the signal, or context.Background when there is none.
func (o Options) Context() context.Context {
	if o.Signal == nil {
		return context.Background()
	}
	return o.Signal
}

// Normalized is the canonical form of a fetch call.
type Normalized struct {
	// URL is always set, whatever shape the input had.
	URL string

	// Options are the effective options of the call.
	Options Options

	// Request is the caller's original request, or nil when the call was made with a URL.
	Request *http.Request
}

// Normalize reduces a fetch input and optional options to a Normalized value.
//
// When input is an *http.Request, its method, headers, body and context seed
// the options, and any non-zero field of opts overrides them. The request's
// body is drained into Options.Body and replaced with an equivalent
// re-readable body so the original request can still be sent later.
func Normalize(input any, opts *Options) (Normalized, error) {
	var o Options
	if opts != nil {
		o = *opts
	}

	switch in := input.(type) {
	case *http.Request:
		if in == nil || in.URL == nil {
			return Normalized{}, ErrUnsupportedInput
		}
		derived, err := fromRequest(in)
		if err != nil {
			return Normalized{}, err
		}
		return Normalized{URL: in.URL.String(), Options: overlay(derived, o), Request: in}, nil
	case string:
		return Normalized{URL: in, Options: o}, nil
	case *url.URL:
		if in == nil {
			return Normalized{}, ErrUnsupportedInput
		}
		return Normalized{URL: in.String(), Options: o}, nil
	case fmt.Stringer:
		return Normalized{URL: in.String(), Options: o}, nil
	default:
		return Normalized{}, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
}

// fromRequest derives Options from an *http.Request, buffering its body.
func fromRequest(req *http.Request) (Options, error) {
	o := Options{
		Method: req.Method,
		Header: req.Header,
		Signal: req.Context(),
	}

	if req.Body == nil || req.Body == http.NoBody {
		return o, nil
	}

	b, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return Options{}, errors.Join(ErrReadBody, err)
	}

	// Restore a replayable body on the original request
	req.Body = io.NopCloser(bytes.NewReader(b))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	o.Body = b
	return o, nil
}

// overlay returns base with every non-zero field of top applied over it.
func overlay(base, top Options) Options {
	if top.Method != "" {
		base.Method = top.Method
	}
	if top.Header != nil {
		base.Header = top.Header
	}
	if top.Body != nil {
		base.Body = top.Body
	}
	if top.Signal != nil {
		base.Signal = top.Signal
	}
	return base
}

// NewHTTPRequest builds an outbound *http.Request from a URL and options.
// It is used when a fetch must reach the network but no original request exists.
func NewHTTPRequest(ctx context.Context, rawURL string, o Options) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	var body io.Reader
	if o.Body != nil {
		body = bytes.NewReader(o.Body)
	}

	req, err := http.NewRequestWithContext(ctx, o.MethodOrDefault(), u.String(), body)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	for k, values := range o.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}
