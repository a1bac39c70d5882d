package resolve

import (
	"context"
	"net/http"
	"reflect"

	"github.com/tarmac-project/fetchmock/request"
)

// Kind classifies a response descriptor.
type Kind int

const (
	// KindTerminal is a value that needs no further unwrapping.
	KindTerminal Kind = iota
	// KindCallable is a value that produces the next descriptor when invoked.
	KindCallable
	// KindDeferred is a value that produces the next descriptor when it settles.
	KindDeferred
)

func (k Kind) String() string {
	switch k {
	case KindCallable:
		return "callable"
	case KindDeferred:
		return "deferred"
	default:
		return "terminal"
	}
}

// Args are the arguments a Callable is invoked with. Which fields are set
// depends on the kind of call; see Resolve.
type Args struct {
	URL     string
	Options request.Options
	Request *http.Request
}

// Callable is a response descriptor that computes another descriptor.
type Callable interface {
	Call(ctx context.Context, args Args) (any, error)
}

// Awaitable is a response descriptor that settles later.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Func is a user responder receiving the URL, options and original request.
type Func func(url string, opts request.Options, req *http.Request) any

// Call implements Callable.
func (f Func) Call(_ context.Context, a Args) (any, error) {
	return f(a.URL, a.Options, a.Request), nil
}

// ContextFunc is a user responder that can observe cancellation and fail.
type ContextFunc func(ctx context.Context, args Args) (any, error)

// Call implements Callable.
func (f ContextFunc) Call(ctx context.Context, a Args) (any, error) {
	return f(ctx, a)
}

// NetworkFunc performs a real request. It is the shape of the native network
// function used for pass-through fetches, and of http.RoundTripper.RoundTrip
// once bound to a context.
type NetworkFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// Call implements Callable. The original request is sent when present;
// otherwise one is built from the URL and options.
func (f NetworkFunc) Call(ctx context.Context, a Args) (any, error) {
	req := a.Request
	if req == nil {
		built, err := request.NewHTTPRequest(ctx, a.URL, a.Options)
		if err != nil {
			return nil, err
		}
		req = built
	}

	resp, err := f(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return resp, nil
}

// FromRoundTripper adapts an http.RoundTripper into a NetworkFunc.
func FromRoundTripper(rt http.RoundTripper) NetworkFunc {
	return func(ctx context.Context, req *http.Request) (*http.Response, error) {
		if ctx != req.Context() {
			req = req.WithContext(ctx)
		}
		return rt.RoundTrip(req)
	}
}

// Match is a routing decision: the descriptor to resolve, and whether it is
// the native network function rather than a user responder.
type Match struct {
	Response        any
	ResponseIsFetch bool
	Identifier      string
}

// Classify reports how Resolve treats v.
func Classify(v any) Kind {
	switch v.(type) {
	case Callable,
		func(string, request.Options, *http.Request) any,
		func(context.Context, Args) (any, error),
		func(context.Context, *http.Request) (*http.Response, error):
		return KindCallable
	case Awaitable, <-chan any, chan any:
		return KindDeferred
	}
	if shaped(v) != nil {
		return KindCallable
	}
	return KindTerminal
}

// funcShapes are the unnamed func types a responder may be declared with.
var funcShapes = []reflect.Type{
	reflect.TypeFor[func(string, request.Options, *http.Request) any](),
	reflect.TypeFor[func(context.Context, Args) (any, error)](),
	reflect.TypeFor[func(context.Context, *http.Request) (*http.Response, error)](),
}

// shaped converts a value of a named func type into the unnamed shape it is
// declared with. It returns nil for anything else.
func shaped(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil
	}
	for _, shape := range funcShapes {
		if rv.Type().ConvertibleTo(shape) {
			return rv.Convert(shape).Interface()
		}
	}
	return nil
}

// asCallable converts a value classified as KindCallable into a Callable.
func asCallable(v any) Callable {
	switch fn := v.(type) {
	case Callable:
		return fn
	case func(string, request.Options, *http.Request) any:
		return Func(fn)
	case func(context.Context, Args) (any, error):
		return ContextFunc(fn)
	case func(context.Context, *http.Request) (*http.Response, error):
		return NetworkFunc(fn)
	}
	if fn := shaped(v); fn != nil {
		return asCallable(fn)
	}
	return nil
}

// await waits for a value classified as KindDeferred to settle.
func await(ctx context.Context, v any) (any, error) {
	switch d := v.(type) {
	case Awaitable:
		return d.Await(ctx)
	case <-chan any:
		return recv(ctx, d)
	case chan any:
		return recv(ctx, d)
	}
	return v, nil
}

func recv(ctx context.Context, ch <-chan any) (any, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolve unwraps m.Response until it reaches a terminal value.
//
// When m.ResponseIsFetch is set the callable is the native network function:
// it receives only the original request when one exists, or only the URL and
// options otherwise. User responders always receive all three.
func Resolve(ctx context.Context, m Match, url string, opts request.Options, req *http.Request) (any, error) {
	current := m.Response
	for {
		switch Classify(current) {
		case KindCallable:
			args := Args{URL: url, Options: opts, Request: req}
			if m.ResponseIsFetch {
				if req != nil {
					args = Args{Request: req}
				} else {
					args = Args{URL: url, Options: opts}
				}
			}
			next, err := asCallable(current).Call(ctx, args)
			if err != nil {
				return nil, err
			}
			current = next
		case KindDeferred:
			next, err := await(ctx, current)
			if err != nil {
				return nil, err
			}
			current = next
		default:
			return current, nil
		}
	}
}
