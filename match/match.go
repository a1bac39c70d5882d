// Package match provides the route predicate type and a few combinators.
package match

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/tarmac-project/fetchmock/request"
)

// Matcher reports whether a normalized fetch call is accepted by a route.
// Matchers must be pure and synchronous.
type Matcher func(url string, opts request.Options, req *http.Request) bool

// Any accepts every call.
func Any() Matcher {
	return func(string, request.Options, *http.Request) bool { return true }
}

// URL accepts calls whose URL equals u exactly.
func URL(u string) Matcher {
	return func(got string, _ request.Options, _ *http.Request) bool { return got == u }
}

// Prefix accepts calls whose URL starts with p.
func Prefix(p string) Matcher {
	return func(got string, _ request.Options, _ *http.Request) bool { return strings.HasPrefix(got, p) }
}

// Path accepts calls whose URL path equals p, ignoring scheme, host and query.
func Path(p string) Matcher {
	return func(got string, _ request.Options, _ *http.Request) bool {
		u, err := url.Parse(got)
		if err != nil {
			return false
		}
		return u.Path == p
	}
}

// Regexp accepts calls whose URL matches re.
func Regexp(re *regexp.Regexp) Matcher {
	return func(got string, _ request.Options, _ *http.Request) bool { return re.MatchString(got) }
}

// Method accepts calls made with method m. An empty call method counts as GET.
func Method(m string) Matcher {
	want := strings.ToUpper(m)
	return func(_ string, opts request.Options, _ *http.Request) bool {
		return opts.MethodOrDefault() == want
	}
}

// Header accepts calls carrying header key with value v.
func Header(key, v string) Matcher {
	return func(_ string, opts request.Options, _ *http.Request) bool {
		for _, got := range opts.Header.Values(key) {
			if got == v {
				return true
			}
		}
		return false
	}
}

// All accepts calls accepted by every matcher in ms.
func All(ms ...Matcher) Matcher {
	return func(u string, opts request.Options, req *http.Request) bool {
		for _, m := range ms {
			if !m(u, opts, req) {
				return false
			}
		}
		return true
	}
}

// Not inverts m.
func Not(m Matcher) Matcher {
	return func(u string, opts request.Options, req *http.Request) bool { return !m(u, opts, req) }
}

// MethodURL is the matcher behind the "METHOD url" shorthand. A method of
// "*" or "" matches any method.
func MethodURL(method, u string) Matcher {
	if method == "" || method == "*" {
		return URL(u)
	}
	return All(Method(method), URL(u))
}
