package dynamic

import (
	"errors"
	"testing"
)

func TestCall_Func(t *testing.T) {
	d := mustFrom(t, map[string]any{"key1": "value1"})
	_ = d.Set("f", Func(func(args ...any) (any, error) {
		return "FuncValue", nil
	}))

	got, err := d.Call("f")
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if got != "FuncValue" {
		t.Errorf("Call = %v, want FuncValue", got)
	}
}

func TestCall_RawFuncConverted(t *testing.T) {
	d := New()
	_ = d.Set("sum", func(args ...any) (any, error) {
		total := 0
		for _, a := range args {
			total += a.(int)
		}
		return total, nil
	})

	if v := mustGet(t, d, "sum"); v.Kind() != KindCallable {
		t.Fatalf("sum kind = %s, want callable", v.Kind())
	}
	got, err := d.Call("sum", 1, 2, 3)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if got != 6 {
		t.Errorf("Call = %v, want 6", got)
	}
}

func TestCall_ShadowsNothing(t *testing.T) {
	d := New()
	_ = d.Set("keys", Func(func(...any) (any, error) { return "Some Keys", nil }))

	got, err := d.Call("keys")
	if err != nil || got != "Some Keys" {
		t.Errorf("Call = %v, %v, want Some Keys", got, err)
	}
	if len(d.Keys()) != 1 {
		t.Error("Keys method should be unaffected by a stored keys entry")
	}
}

func TestCall_Method(t *testing.T) {
	d := mustFrom(t, map[string]any{"name": "John"})
	_ = d.Set("greet", Method(func(self *Dynamic, args ...any) (any, error) {
		if self != d {
			t.Error("method did not receive its owner")
		}
		bound, _ := self.Get(FieldSelfBound)
		if bound != Bool(true) {
			t.Errorf("%s = %v during call, want true", FieldSelfBound, bound)
		}
		name, err := self.Get("name")
		if err != nil {
			return nil, err
		}
		return args[0].(string) + " " + string(name.(String)), nil
	}))

	got, err := d.Call("greet", "hello")
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if got != "hello John" {
		t.Errorf("Call = %v, want hello John", got)
	}
	if bound := mustGet(t, d, FieldSelfBound); bound != Bool(false) {
		t.Errorf("%s = %v after call, want false", FieldSelfBound, bound)
	}
}

func TestCall_MethodMutatesOwner(t *testing.T) {
	d := mustFrom(t, map[string]any{"count": 0})
	_ = d.Set("incr", func(self *Dynamic, _ ...any) (any, error) {
		v, _ := self.Get("count")
		return nil, self.Set("count", v.(Int)+1)
	})

	for i := 0; i < 3; i++ {
		if _, err := d.Call("incr"); err != nil {
			t.Fatalf("Call returned error: %v", err)
		}
	}
	if got := mustGet(t, d, "count"); got != Int(3) {
		t.Errorf("count = %v, want 3", got)
	}
}

func TestCall_Errors(t *testing.T) {
	d := mustFrom(t, map[string]any{"s": "not callable"})
	_ = d.Set("fail", Func(func(...any) (any, error) { return nil, errors.New("boom") }))

	if _, err := d.Call("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing error = %v, want ErrNotFound", err)
	}
	_, err := d.Call("s")
	if !errors.Is(err, ErrNotCallable) || !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("non-callable error = %v, want ErrNotCallable", err)
	}
	if _, err := d.Call("fail"); err == nil || err.Error() != "boom" {
		t.Errorf("callable error = %v, want boom", err)
	}
}
