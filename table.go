package dynamic

import "slices"

// table is an insertion-ordered map from sanitized key to Value.
// Overwriting a key keeps its original position.
type table struct {
	data  map[string]Value
	order []string
}

func newTable() *table {
	return &table{data: make(map[string]Value)}
}

func (t *table) get(key string) (Value, bool) {
	v, ok := t.data[key]
	return v, ok
}

func (t *table) has(key string) bool {
	_, ok := t.data[key]
	return ok
}

func (t *table) set(key string, v Value) {
	if _, ok := t.data[key]; !ok {
		t.order = append(t.order, key)
	}
	t.data[key] = v
}

func (t *table) delete(key string) bool {
	if _, ok := t.data[key]; !ok {
		return false
	}
	delete(t.data, key)
	if i := slices.Index(t.order, key); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
	}
	return true
}

func (t *table) len() int {
	return len(t.order)
}

func (t *table) keys() []string {
	return slices.Clone(t.order)
}

// shallow copies the table; nested mappings are shared.
func (t *table) shallow() *table {
	out := &table{
		data:  make(map[string]Value, len(t.data)),
		order: slices.Clone(t.order),
	}
	for k, v := range t.data {
		out.data[k] = v
	}
	return out
}

// deep copies the table; nested mappings are cloned.
func (t *table) deep() *table {
	out := &table{
		data:  make(map[string]Value, len(t.data)),
		order: slices.Clone(t.order),
	}
	for k, v := range t.data {
		if m, ok := v.(*Dynamic); ok && m != nil {
			v = m.Clone()
		}
		out.data[k] = v
	}
	return out
}
