package resolve

import (
	"context"
	"sync"
	"time"
)

// Promise is a deferred value settled at most once.
type Promise struct {
	done chan struct{}
	once sync.Once
	val  any
	err  error
}

// Settler is a deferred value that can be settled once from outside.
type Settler interface {
	Awaitable
	Resolve(v any) bool
	Reject(err error) bool
	Done() <-chan struct{}
}

// Ensure Promise always satisfies Settler at compile time.
var _ Settler = (*Promise)(nil)

// NewPromise returns an unsettled Promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Resolve settles the promise with v. It reports false if the promise was already settled.
func (p *Promise) Resolve(v any) bool {
	return p.settle(v, nil)
}

// Reject settles the promise with err. It reports false if the promise was already settled.
func (p *Promise) Reject(err error) bool {
	return p.settle(nil, err)
}

func (p *Promise) settle(v any, err error) bool {
	settled := false
	p.once.Do(func() {
		p.val, p.err = v, err
		close(p.done)
		settled = true
	})
	return settled
}

// Done is closed once the promise settles.
func (p *Promise) Done() <-chan struct{} { return p.done }

// Await blocks until the promise settles or ctx is done.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Go runs fn on a new goroutine and returns a Promise of its result.
func Go(fn func() (any, error)) *Promise {
	p := NewPromise()
	go func() {
		v, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	}()
	return p
}

// Delay returns a Promise that resolves to v after d.
func Delay(d time.Duration, v any) *Promise {
	p := NewPromise()
	time.AfterFunc(d, func() { p.Resolve(v) })
	return p
}
