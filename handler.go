package fetchmock

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/tarmac-project/fetchmock/calls"
	"github.com/tarmac-project/fetchmock/request"
	"github.com/tarmac-project/fetchmock/resolve"
	"github.com/tarmac-project/fetchmock/response"
)

// Result is the eventual outcome of a fetch. It settles exactly once.
type Result struct {
	p resolve.Settler
}

// Wait blocks until the fetch settles or ctx is done.
func (r *Result) Wait(ctx context.Context) (*http.Response, error) {
	v, err := r.p.Await(ctx)
	if err != nil {
		return nil, err
	}
	resp, _ := v.(*http.Response)
	return resp, nil
}

// Done is closed once the fetch settles.
func (r *Result) Done() <-chan struct{} { return r.p.Done() }

// Fetch handles a fetch call. input is a URL (string, *url.URL or
// fmt.Stringer) or an *http.Request; opts may be nil.
//
// Errors the mock detects before any response work starts, an unsupported
// input or a *ConfigurationError, are returned directly. Everything else,
// including AbortError and errors raised while generating the response, is
// delivered through the Result.
func (m *FetchMock) Fetch(input any, opts *request.Options) (*Result, error) {
	n, err := request.Normalize(input, opts)
	if err != nil {
		return nil, err
	}

	// Held before routing so Flush observes this fetch whatever happens next
	marker := m.pending.Hold()
	defer func() {
		if r := recover(); r != nil {
			marker.Settle()
			panic(r)
		}
	}()

	match, err := m.executeRouter(n)
	if err != nil {
		marker.Settle()
		return nil, err
	}

	return m.handle(n, match, marker), nil
}

// handle runs response generation, racing it against the fetch signal.
func (m *FetchMock) handle(n request.Normalized, match resolve.Match, marker *calls.Marker) *Result {
	res := &Result{p: m.newPromise()}
	stopTimer := m.metrics.Start()
	release := sync.OnceFunc(func() {
		stopTimer()
		marker.Settle()
	})

	if !n.Options.HasSignal() {
		go func() {
			defer release()
			settle(res, m.generate(context.Background(), match, n))
		}()
		return res
	}

	signal := n.Options.Signal
	abort := func() {
		if res.p.Reject(newAbortError(signal)) {
			m.metrics.Aborted()
			m.log.Debug("fetch aborted")
		}
		release()
	}

	if signal.Err() != nil {
		m.log.Debug("signal already aborted, skipping response generation")
		abort()
		return res
	}

	stop := context.AfterFunc(signal, abort)
	go func() {
		out := m.generate(signal, match, n)
		if !stop() || signal.Err() != nil {
			// Cancellation won the race
			abort()
			return
		}
		settle(res, out)
		release()
	}()
	return res
}

type outcome struct {
	resp *http.Response
	err  error
}

func settle(res *Result, out outcome) {
	if out.err != nil {
		res.p.Reject(out.err)
		return
	}
	res.p.Resolve(out.resp)
}

// generate runs generateResponse, converting panics into errors.
func (m *FetchMock) generate(ctx context.Context, match resolve.Match, n request.Normalized) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: fmt.Errorf("%w: %v", ErrResponderPanic, r)}
		}
	}()
	resp, err := m.generateResponse(ctx, match, n)
	return outcome{resp: resp, err: err}
}

// generateResponse resolves the matched descriptor and converts it into a response.
func (m *FetchMock) generateResponse(ctx context.Context, match resolve.Match, n request.Normalized) (*http.Response, error) {
	v, err := resolve.Resolve(ctx, match, n.URL, n.Options, n.Request)
	if err != nil {
		return nil, err
	}

	// Throw markers fail the fetch with their error as declared
	if thrown := resolve.ThrownBy(v); thrown != nil {
		return nil, thrown
	}

	if response.IsResponse(v) {
		return v.(*http.Response), nil
	}

	return m.builder.Build(response.Input{
		URL:        n.URL,
		Config:     v,
		Identifier: match.Identifier,
		Request:    n.Request,
		Owner:      m,
	})
}
