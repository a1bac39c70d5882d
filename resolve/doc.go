/*
Package resolve unwraps route response descriptors into terminal values.

A descriptor is any Go value. Resolve classifies it by capability:

  - Callable values (anything implementing Callable, or one of the func
    shapes Func, ContextFunc and NetworkFunc) are invoked and replaced by
    what they return.
  - Deferred values (anything implementing Awaitable, or a channel of any)
    are awaited and replaced by what they settle to.
  - Everything else is terminal and returned as-is.

The loop has no depth limit, so a function returning a Promise that resolves
to another function is unwrapped the same way as a plain literal.

	m := resolve.Match{Response: resolve.Func(func(url string, _ request.Options, _ *http.Request) any {
		return resolve.Delay(10*time.Millisecond, 200)
	})}
	v, err := resolve.Resolve(ctx, m, "https://example.com", request.Options{}, nil)
	// v == 200
*/
package resolve
