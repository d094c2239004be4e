package dynamic

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/google/go-cmp/cmp"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindCallable
	KindMapping
	KindOpaque
)

var kindNames = [...]string{
	KindAbsent:   "absent",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindBool:     "bool",
	KindCallable: "callable",
	KindMapping:  "mapping",
	KindOpaque:   "opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a stored entry. Concrete types:
//
//   - Null     (KindAbsent)
//   - Int      (KindInt)
//   - Float    (KindFloat)
//   - String   (KindString)
//   - Bool     (KindBool)
//   - Func     (KindCallable)
//   - Method   (KindCallable)
//   - *Dynamic (KindMapping)
//   - Opaque   (KindOpaque)
type Value interface {
	Kind() Kind
	// Interface returns the plain Go form of the value.
	Interface() any
}

// Null is the absent value.
type Null struct{}

type Int int64

type Float float64

type String string

type Bool bool

// Opaque holds any Go value without a dedicated variant.
type Opaque struct {
	V any
}

func (Null) Kind() Kind     { return KindAbsent }
func (Int) Kind() Kind      { return KindInt }
func (Float) Kind() Kind    { return KindFloat }
func (String) Kind() Kind   { return KindString }
func (Bool) Kind() Kind     { return KindBool }
func (Opaque) Kind() Kind   { return KindOpaque }
func (*Dynamic) Kind() Kind { return KindMapping }

func (Null) Interface() any       { return nil }
func (v Int) Interface() any      { return int64(v) }
func (v Float) Interface() any    { return float64(v) }
func (v String) Interface() any   { return string(v) }
func (v Bool) Interface() any     { return bool(v) }
func (v Opaque) Interface() any   { return v.V }
func (d *Dynamic) Interface() any { return d.Map() }

// ValueOf converts a Go value to a Value using default options.
// String-keyed maps become nested *Dynamic instances.
func ValueOf(v any) Value {
	// Default options never reject a write.
	out, _ := New().valueOf(v)
	return out
}

// valueOf converts v, wrapping mappings into children of d.
func (d *Dynamic) valueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case *Dynamic:
		if x == nil {
			return Null{}, nil
		}
		return x, nil
	case Value:
		return x, nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(x), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return Int(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case func(args ...any) (any, error):
		return Func(x), nil
	case func(self *Dynamic, args ...any) (any, error):
		return Method(x), nil
	case map[string]any:
		return d.nested(plainPairs(x))
	}

	if pairs, ok := mapPairs(v); ok {
		return d.nested(pairs)
	}
	return Opaque{V: v}, nil
}

// nested builds a child mapping carrying d's options.
func (d *Dynamic) nested(pairs []pair) (Value, error) {
	child := d.child()
	if err := child.load(pairs); err != nil {
		return nil, err
	}
	return child, nil
}

// pair is a raw, unsanitized entry of an operand.
type pair struct {
	key   string
	value any
}

func plainPairs(m map[string]any) []pair {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]pair, len(keys))
	for i, k := range keys {
		pairs[i] = pair{key: k, value: m[k]}
	}
	return pairs
}

// mapPairs reports the entries of any map with a string key kind,
// in ascending key order.
func mapPairs(v any) ([]pair, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	pairs := make([]pair, len(keys))
	for i, k := range keys {
		pairs[i] = pair{key: k.String(), value: rv.MapIndex(k).Interface()}
	}
	return pairs, true
}

// operandPairs lists the entries of a union or difference operand.
// Nested mappings of a *Dynamic operand are cloned.
func operandPairs(other any) ([]pair, error) {
	switch x := other.(type) {
	case *Dynamic:
		if x == nil {
			return nil, nil
		}
		pairs := make([]pair, 0, x.store.len())
		for _, k := range x.store.order {
			v := x.store.data[k]
			if m, ok := v.(*Dynamic); ok {
				v = m.Clone()
			}
			pairs = append(pairs, pair{key: k, value: v})
		}
		return pairs, nil
	case map[string]any:
		return plainPairs(x), nil
	case nil:
		return nil, fmt.Errorf("dynamic: unsupported operand <nil>: %w", ErrTypeMismatch)
	}
	if pairs, ok := mapPairs(other); ok {
		return pairs, nil
	}
	return nil, fmt.Errorf("dynamic: unsupported operand %T: %w", other, ErrTypeMismatch)
}

// fieldType is the type recorded for a key under strict typing.
type fieldType struct {
	kind Kind
	rt   reflect.Type
}

func typeOf(v Value) fieldType {
	if o, ok := v.(Opaque); ok {
		return fieldType{kind: KindOpaque, rt: reflect.TypeOf(o.V)}
	}
	return fieldType{kind: v.Kind()}
}

func (t fieldType) String() string {
	if t.kind == KindOpaque && t.rt != nil {
		return t.rt.String()
	}
	return t.kind.String()
}

var opaqueCmp = cmp.Exporter(func(reflect.Type) bool { return true })

// equalValues compares two values. Int and Float compare numerically.
func equalValues(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		return b.Kind() == KindAbsent
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return float64(x) == float64(y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return float64(x) == float64(y)
		case Float:
			return x == y
		}
		return false
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Func:
		y, ok := b.(Func)
		return ok && samePointer(x, y)
	case Method:
		y, ok := b.(Method)
		return ok && samePointer(x, y)
	case *Dynamic:
		y, ok := b.(*Dynamic)
		return ok && x.equalTo(y)
	case Opaque:
		y, ok := b.(Opaque)
		return ok && cmp.Equal(x.V, y.V, opaqueCmp)
	}
	return false
}

func samePointer(a, b any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
