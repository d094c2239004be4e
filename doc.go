// Package dynamic provides a string-keyed mapping that can be read and
// written both by key and by dotted attribute path.
//
// # Overview
//
// A *Dynamic holds an insertion-ordered store of sanitized keys to Values.
// Any string-keyed map written into it is wrapped as a nested *Dynamic, so
// documents of arbitrary depth can be navigated uniformly.
//
// # Quick Start
//
//	d, _ := dynamic.From(map[string]any{
//	    "name": "John",
//	    "address": map[string]any{"city": "New York"},
//	})
//
//	name, _ := d.Get("name")          // String("John")
//	city, _ := d.Attr("address.city") // String("New York")
//	_ = d.Set("job", "Engineer")
//
// # Keys
//
// Every key is sanitized on every access: runes outside [A-Za-z0-9_]
// become underscores, so "zip code" is stored and read as "zip_code".
// Colliding keys resolve deterministically, last write wins.
//
// # Values
//
// Value is a closed set of variants: Null, Int, Float, String, Bool, Func,
// Method, *Dynamic and Opaque. ValueOf converts plain Go values.
//
// Callables are stored explicitly as a Func, invoked as is, or a Method,
// which receives its owning instance:
//
//	_ = d.Set("greet", dynamic.Method(func(self *dynamic.Dynamic, _ ...any) (any, error) {
//	    name, err := self.Get("name")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return "hello " + string(name.(dynamic.String)), nil
//	}))
//	out, _ := d.Call("greet")
//
// # Operators
//
// Union and Update overlay another mapping (d + m, d += m). Difference and
// Subtract remove its keys (d - m, d -= m); with strict subtraction, the
// default, a key is removed only when the values match as well.
//
// # Strict Typing
//
// With WithStrictTyping(true), reassigning a key to a value of a different
// type fails with ErrTypeMismatch. Writing Null is always allowed.
//
// # Reserved Fields
//
// The names _dict, _dict_types, _strict_subtraction, _strict_typing and
// _self_bound are resolved by Get and Set as configuration, never stored.
//
// # Error Handling
//
//	_, err := d.Get("missing")
//	if errors.Is(err, dynamic.ErrNotFound) {
//	    // Handle missing key
//	}
//
// Available errors: ErrNotFound, ErrTypeMismatch, ErrReadOnly, ErrNotCallable.
// ErrReadOnly and ErrNotCallable both match ErrTypeMismatch.
//
// # Thread Safety
//
// A Dynamic is not safe for concurrent mutation.
package dynamic
