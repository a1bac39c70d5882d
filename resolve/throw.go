package resolve

import "reflect"

// Thrower marks a terminal value as an error to fail the fetch with.
type Thrower interface {
	Throws() error
}

// Throw returns a descriptor that fails the fetch with err, unmodified.
func Throw(err error) Thrower {
	return thrown{err: err}
}

type thrown struct{ err error }

func (t thrown) Throws() error { return t.err }

// ThrownBy returns the error v asks to be thrown, or nil when v is not a
// throw marker. Func-kinded values never count as markers even when they
// expose a Throws method; spies and other wrappers around functions do.
func ThrownBy(v any) error {
	t, ok := v.(Thrower)
	if !ok {
		return nil
	}
	if reflect.ValueOf(v).Kind() == reflect.Func {
		return nil
	}
	return t.Throws()
}
