package dynamic

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"strconv"
	"strings"
)

var (
	ErrNotFound     = errors.New("dynamic: not found")
	ErrTypeMismatch = errors.New("dynamic: type mismatch")

	// ErrReadOnly and ErrNotCallable are type mismatches as well.
	ErrReadOnly    = fmt.Errorf("read-only field: %w", ErrTypeMismatch)
	ErrNotCallable = fmt.Errorf("not callable: %w", ErrTypeMismatch)
)

// Reserved field names. They resolve on every instance, are never stored,
// and cannot be deleted.
const (
	FieldDict              = "_dict"
	FieldDictTypes         = "_dict_types"
	FieldStrictSubtraction = "_strict_subtraction"
	FieldStrictTyping      = "_strict_typing"
	FieldSelfBound         = "_self_bound"
)

func isReserved(name string) bool {
	switch name {
	case FieldDict, FieldDictTypes, FieldStrictSubtraction, FieldStrictTyping, FieldSelfBound:
		return true
	}
	return false
}

// Option customizes Dynamic behavior.
type Option func(*Dynamic)

// WithStrictSubtraction controls difference semantics.
// When true (the default), a key is removed only if its value also matches.
func WithStrictSubtraction(strict bool) Option {
	return func(d *Dynamic) {
		d.strictSubtraction = strict
	}
}

// WithStrictTyping rejects reassignments that change the type recorded
// for a key at its first assignment. Disabled by default.
func WithStrictTyping(strict bool) Option {
	return func(d *Dynamic) {
		d.strictTyping = strict
	}
}

// WithLogger specifies a logger for operation logging.
// If not provided, a no-op logger is used (no logging).
func WithLogger(logger Logger) Option {
	return func(d *Dynamic) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithLogTag sets a tag prefix for all log messages.
func WithLogTag(tag string) Option {
	return func(d *Dynamic) {
		d.logTag = tag
	}
}

// Dynamic is a string-keyed mapping readable and writable by key or by
// dotted attribute path. Nested mappings are wrapped as *Dynamic on write.
//
// A Dynamic is not safe for concurrent mutation.
type Dynamic struct {
	store      *table
	fieldTypes map[string]fieldType

	strictSubtraction bool
	strictTyping      bool
	selfBound         bool

	logger Logger
	logTag string

	// origin is the instance a staged copy stands in for.
	origin *Dynamic
}

// New creates an empty Dynamic.
func New(opts ...Option) *Dynamic {
	d := &Dynamic{
		store:             newTable(),
		fieldTypes:        make(map[string]fieldType),
		strictSubtraction: true,
		logger:            defaultLogger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// From creates a Dynamic holding the entries of initial, which must be nil,
// a *Dynamic or a map with string keys. Keys are sanitized and nested
// mappings wrapped. Entries of a plain map are written in ascending key
// order, so the last of several colliding keys wins.
func From(initial any, opts ...Option) (*Dynamic, error) {
	d := New(opts...)
	if initial == nil {
		return d, nil
	}
	pairs, err := operandPairs(initial)
	if err != nil {
		return nil, err
	}
	if err := d.load(pairs); err != nil {
		return nil, err
	}
	return d, nil
}

// child creates an empty instance carrying d's options.
func (d *Dynamic) child() *Dynamic {
	return &Dynamic{
		store:             newTable(),
		fieldTypes:        make(map[string]fieldType),
		strictSubtraction: d.strictSubtraction,
		strictTyping:      d.strictTyping,
		logger:            d.logger,
		logTag:            d.logTag,
	}
}

// shallow copies d for staging a batch of writes.
func (d *Dynamic) shallow() *Dynamic {
	s := *d
	s.store = d.store.shallow()
	s.fieldTypes = maps.Clone(d.fieldTypes)
	s.origin = d.self()
	return &s
}

// self returns the instance d stands in for.
func (d *Dynamic) self() *Dynamic {
	if d.origin != nil {
		return d.origin
	}
	return d
}

// reaches reports whether target is d or one of its nested mappings.
func (d *Dynamic) reaches(target *Dynamic) bool {
	if d == target {
		return true
	}
	for _, v := range d.store.data {
		if m, ok := v.(*Dynamic); ok && m.reaches(target) {
			return true
		}
	}
	return false
}

// adopt replaces d's contents with those of a staged copy.
func (d *Dynamic) adopt(s *Dynamic) {
	d.store = s.store
	d.fieldTypes = s.fieldTypes
	d.strictSubtraction = s.strictSubtraction
	d.strictTyping = s.strictTyping
}

// Clone returns a deep copy of d. Nested mappings are cloned; callables
// and opaque values are shared.
func (d *Dynamic) Clone() *Dynamic {
	c := d.child()
	c.store = d.store.deep()
	c.fieldTypes = maps.Clone(d.fieldTypes)
	return c
}

func (d *Dynamic) logf(level string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if d.logTag != "" {
		msg = d.logTag + " " + msg
	}
	switch level {
	case "info":
		d.logger.Info("%s", msg)
	case "warn":
		d.logger.Warn("%s", msg)
	case "error":
		d.logger.Error("%s", msg)
	case "debug":
		d.logger.Debug("%s", msg)
	}
}

// load writes pairs in order. It stops at the first rejected write.
func (d *Dynamic) load(pairs []pair) error {
	seen := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name := Sanitize(p.key)
		if prev, dup := seen[name]; dup {
			d.logf("warn", "keys %q and %q collide on %q, last write wins", prev, p.key, name)
		}
		seen[name] = p.key
		if err := d.set(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under the sanitized key.
// Reserved field names always resolve.
func (d *Dynamic) Get(key string) (Value, error) {
	name := Sanitize(key)
	if isReserved(name) {
		return d.reserved(name), nil
	}
	if v, ok := d.store.get(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("dynamic: get %q: %w", name, ErrNotFound)
}

func (d *Dynamic) reserved(name string) Value {
	switch name {
	case FieldDict:
		return Opaque{V: d.Map()}
	case FieldDictTypes:
		types := make(map[string]string, len(d.fieldTypes))
		for k, t := range d.fieldTypes {
			types[k] = t.String()
		}
		return Opaque{V: types}
	case FieldStrictSubtraction:
		return Bool(d.strictSubtraction)
	case FieldStrictTyping:
		return Bool(d.strictTyping)
	case FieldSelfBound:
		return Bool(d.selfBound)
	}
	return Null{}
}

// Set stores v under the sanitized key. String-keyed maps are wrapped
// into nested instances. A *Dynamic is stored by reference and must not
// contain d. Under strict typing, a write whose type differs from the
// recorded one fails with ErrTypeMismatch and changes nothing.
func (d *Dynamic) Set(key string, v any) error {
	return d.set(key, v)
}

func (d *Dynamic) set(key string, v any) error {
	name := Sanitize(key)
	if name != key {
		d.logf("debug", "key %q stored as %q", key, name)
	}
	if isReserved(name) {
		return d.setReserved(name, v)
	}

	val, err := d.valueOf(v)
	if err != nil {
		return err
	}
	if m, ok := val.(*Dynamic); ok && (m.reaches(d) || m.reaches(d.self())) {
		d.logf("warn", "rejected %q: value contains the instance it is stored in", name)
		return fmt.Errorf("dynamic: set %q: value would contain itself: %w", name, ErrTypeMismatch)
	}
	if err := d.checkType(name, val); err != nil {
		return err
	}

	d.store.set(name, val)
	if val.Kind() != KindAbsent {
		d.fieldTypes[name] = typeOf(val)
	}
	return nil
}

func (d *Dynamic) checkType(name string, val Value) error {
	if !d.strictTyping || val.Kind() == KindAbsent {
		return nil
	}
	cur, ok := d.store.get(name)
	if !ok || cur.Kind() == KindAbsent {
		return nil
	}
	want, ok := d.fieldTypes[name]
	if !ok {
		return nil
	}
	if got := typeOf(val); got != want {
		d.logf("warn", "strict typing rejected %q: %s -> %s", name, want, got)
		return fmt.Errorf("dynamic: set %q from %s to %s: %w", name, want, got, ErrTypeMismatch)
	}
	return nil
}

func (d *Dynamic) setReserved(name string, v any) error {
	switch name {
	case FieldDict:
		if v == nil {
			return fmt.Errorf("dynamic: set %s to <nil>: %w", name, ErrTypeMismatch)
		}
		pairs, err := operandPairs(v)
		if err != nil {
			return err
		}
		staged := d.child()
		staged.origin = d.self()
		if err := staged.load(pairs); err != nil {
			return err
		}
		d.adopt(staged)
		return nil
	case FieldStrictSubtraction, FieldStrictTyping:
		var b bool
		switch x := v.(type) {
		case bool:
			b = x
		case Bool:
			b = bool(x)
		default:
			return fmt.Errorf("dynamic: set %s to %T: %w", name, v, ErrTypeMismatch)
		}
		if name == FieldStrictTyping {
			d.strictTyping = b
		} else {
			d.strictSubtraction = b
		}
		return nil
	}
	return fmt.Errorf("dynamic: set %s: %w", name, ErrReadOnly)
}

// Delete removes the sanitized key. Missing keys and reserved names fail
// with ErrNotFound.
func (d *Dynamic) Delete(key string) error {
	name := Sanitize(key)
	if !d.store.delete(name) {
		return fmt.Errorf("dynamic: delete %q: %w", name, ErrNotFound)
	}
	delete(d.fieldTypes, name)
	return nil
}

// Contains reports whether the sanitized key is stored.
// Reserved names are not stored.
func (d *Dynamic) Contains(key string) bool {
	return d.store.has(Sanitize(key))
}

// Len returns the number of stored entries.
func (d *Dynamic) Len() int {
	return d.store.len()
}

// Bool reports the truthiness of d: false iff it holds no entries.
func (d *Dynamic) Bool() bool {
	return d.store.len() > 0
}

// Keys returns the stored keys in insertion order.
func (d *Dynamic) Keys() []string {
	return d.store.keys()
}

// All iterates entries in insertion order. Entries removed during
// iteration are skipped.
func (d *Dynamic) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range d.store.keys() {
			v, ok := d.store.get(k)
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Map returns a plain copy of d with nested mappings unwrapped.
func (d *Dynamic) Map() map[string]any {
	out := make(map[string]any, d.store.len())
	for _, k := range d.store.order {
		out[k] = d.store.data[k].Interface()
	}
	return out
}

// String renders the store in insertion order.
func (d *Dynamic) String() string {
	var b strings.Builder
	d.writeTo(&b)
	return b.String()
}

func (d *Dynamic) writeTo(b *strings.Builder) {
	b.WriteByte('{')
	for i, k := range d.store.order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		writeValue(b, d.store.data[k])
	}
	b.WriteByte('}')
}

func writeValue(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case Null:
		b.WriteString("null")
	case Int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		b.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 64))
	case String:
		b.WriteString(strconv.Quote(string(x)))
	case Bool:
		b.WriteString(strconv.FormatBool(bool(x)))
	case Func:
		b.WriteString("<func>")
	case Method:
		b.WriteString("<method>")
	case *Dynamic:
		x.writeTo(b)
	case Opaque:
		fmt.Fprint(b, x.V)
	}
}
