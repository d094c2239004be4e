package dynamic

import "fmt"

// Func is a free function stored as a value. It is invoked with the
// caller's arguments unchanged.
type Func func(args ...any) (any, error)

// Method is a function bound to the instance that stores it. The owning
// *Dynamic is passed as self on every call.
type Method func(self *Dynamic, args ...any) (any, error)

func (Func) Kind() Kind   { return KindCallable }
func (Method) Kind() Kind { return KindCallable }

func (f Func) Interface() any   { return f }
func (m Method) Interface() any { return m }

// Call invokes the callable stored under key.
//
// A Method receives d as its first argument, and the reserved field
// _self_bound reads true while it runs.
func (d *Dynamic) Call(key string, args ...any) (any, error) {
	name := Sanitize(key)
	v, ok := d.store.get(name)
	if !ok {
		return nil, fmt.Errorf("dynamic: call %q: %w", name, ErrNotFound)
	}

	switch fn := v.(type) {
	case Func:
		return fn(args...)
	case Method:
		prev := d.selfBound
		d.selfBound = true
		defer func() { d.selfBound = prev }()
		return fn(d, args...)
	}
	return nil, fmt.Errorf("dynamic: call %q holding %s: %w", name, typeOf(v), ErrNotCallable)
}
