package dynamic

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FromJSON decodes a JSON object into a new Dynamic, keeping key order.
func FromJSON(data []byte, opts ...Option) (*Dynamic, error) {
	d := New(opts...)
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return d, nil
}

// FromYAML decodes a YAML mapping into a new Dynamic, keeping key order.
// An empty document yields an empty Dynamic.
func FromYAML(data []byte, opts ...Option) (*Dynamic, error) {
	d := New(opts...)
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("dynamic: decode yaml: %w", err)
	}
	if doc.Kind == 0 || (doc.Kind == yaml.DocumentNode && len(doc.Content) == 0) {
		return d, nil
	}
	if err := d.UnmarshalYAML(&doc); err != nil {
		return nil, err
	}
	return d, nil
}

// MarshalJSON encodes d as a JSON object in insertion order.
// Callables are omitted.
func (d *Dynamic) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.encodeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Dynamic) encodeJSON(buf *bytes.Buffer) error {
	if d == nil || d.store == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	first := true
	for _, k := range d.store.order {
		v := d.store.data[k]
		if v.Kind() == KindCallable {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(k)
		if err != nil {
			return fmt.Errorf("dynamic: encode key %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		if m, ok := v.(*Dynamic); ok {
			if err := m.encodeJSON(buf); err != nil {
				return err
			}
			continue
		}
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Errorf("dynamic: encode %q: %w", k, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON merges a JSON object into d under the normal write rules.
// Input after the object, other than whitespace, is rejected.
// Integral numbers decode to Int, others to Float; arrays become Opaque
// []any values holding plain Go maps. On error d is unchanged.
func (d *Dynamic) UnmarshalJSON(data []byte) error {
	if d.store == nil {
		*d = *New()
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("dynamic: decode json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dynamic: decode json: top-level %v is not an object: %w", tok, ErrTypeMismatch)
	}

	staged := d.shallow()
	if err := staged.decodeObject(dec); err != nil {
		return err
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return fmt.Errorf("dynamic: decode json: %w", err)
		}
		return fmt.Errorf("dynamic: decode json: unexpected %v after top-level object: %w", tok, ErrTypeMismatch)
	}
	d.adopt(staged)
	return nil
}

// decodeObject reads object members up to and including the closing brace.
func (d *Dynamic) decodeObject(dec *json.Decoder) error {
	var pairs []pair
	for dec.More() {
		key, err := decodeKey(dec)
		if err != nil {
			return err
		}
		v, err := decodeJSONValue(dec, d)
		if err != nil {
			return err
		}
		pairs = append(pairs, pair{key: key, value: v})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("dynamic: decode json: %w", err)
	}
	return d.load(pairs)
}

func decodeKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("dynamic: decode json: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("dynamic: decode json: unexpected key token %v: %w", tok, ErrTypeMismatch)
	}
	return key, nil
}

// decodeJSONValue reads one value. Objects become children of parent, or
// plain maps when parent is nil.
func decodeJSONValue(dec *json.Decoder, parent *Dynamic) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("dynamic: decode json: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			if parent != nil {
				child := parent.child()
				if err := child.decodeObject(dec); err != nil {
					return nil, err
				}
				return child, nil
			}
			m := make(map[string]any)
			for dec.More() {
				key, err := decodeKey(dec)
				if err != nil {
					return nil, err
				}
				v, err := decodeJSONValue(dec, nil)
				if err != nil {
					return nil, err
				}
				m[key] = v
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("dynamic: decode json: %w", err)
			}
			return m, nil
		case '[':
			arr := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec, nil)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("dynamic: decode json: %w", err)
			}
			return arr, nil
		}
		return nil, fmt.Errorf("dynamic: decode json: unexpected delimiter %v: %w", t, ErrTypeMismatch)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("dynamic: decode json number %q: %w", t.String(), err)
		}
		return f, nil
	}
	return tok, nil
}

// MarshalYAML encodes d as a mapping node in insertion order.
// Callables are omitted.
func (d *Dynamic) MarshalYAML() (any, error) {
	return d.yamlNode()
}

func (d *Dynamic) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range d.store.order {
		v := d.store.data[k]
		if v.Kind() == KindCallable {
			continue
		}

		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		var val *yaml.Node
		if m, ok := v.(*Dynamic); ok {
			n, err := m.yamlNode()
			if err != nil {
				return nil, err
			}
			val = n
		} else {
			val = &yaml.Node{}
			if err := val.Encode(v.Interface()); err != nil {
				return nil, fmt.Errorf("dynamic: encode %q: %w", k, err)
			}
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// UnmarshalYAML merges a YAML mapping into d under the normal write rules.
// Aliases and merge keys are resolved. On error d is unchanged.
func (d *Dynamic) UnmarshalYAML(node *yaml.Node) error {
	if d.store == nil {
		*d = *New()
	}
	staged := d.shallow()
	pairs, err := staged.yamlPairs(node)
	if err != nil {
		return err
	}
	if err := staged.load(pairs); err != nil {
		return err
	}
	d.adopt(staged)
	return nil
}

func resolveNode(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return n
}

// yamlPairs lists the entries of a mapping node; nested mappings become
// children of d. Entries pulled in through merge keys come first and lose
// to the mapping's own keys.
func (d *Dynamic) yamlPairs(node *yaml.Node) ([]pair, error) {
	node = resolveNode(node)
	if node == nil || node.Kind != yaml.MappingNode {
		line := 0
		if node != nil {
			line = node.Line
		}
		return nil, fmt.Errorf("dynamic: decode yaml: line %d: not a mapping: %w", line, ErrTypeMismatch)
	}

	var merged []pair
	own := make([]pair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := resolveNode(node.Content[i])
		v := resolveNode(node.Content[i+1])

		if isMergeKey(k) {
			m, err := d.yamlMerge(v)
			if err != nil {
				return nil, err
			}
			merged = append(merged, m...)
			continue
		}

		val, err := d.yamlValue(v)
		if err != nil {
			return nil, err
		}
		own = append(own, pair{key: k.Value, value: val})
	}
	if len(merged) == 0 {
		return own, nil
	}

	seen := make(map[string]bool, len(own)+len(merged))
	for _, p := range own {
		seen[p.key] = true
	}
	pairs := make([]pair, 0, len(merged)+len(own))
	for _, p := range merged {
		if seen[p.key] {
			continue
		}
		seen[p.key] = true
		pairs = append(pairs, p)
	}
	return append(pairs, own...), nil
}

func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.Value == "<<" && (k.Tag == "" || k.Tag == "!!merge")
}

// yamlMerge expands a merge key value: a mapping or a sequence of
// mappings, where earlier mappings take precedence.
func (d *Dynamic) yamlMerge(v *yaml.Node) ([]pair, error) {
	if v.Kind != yaml.SequenceNode {
		return d.yamlPairs(v)
	}
	var out []pair
	seen := make(map[string]bool)
	for _, item := range v.Content {
		pairs, err := d.yamlPairs(item)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			if seen[p.key] {
				continue
			}
			seen[p.key] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *Dynamic) yamlValue(n *yaml.Node) (any, error) {
	if n.Kind == yaml.MappingNode {
		pairs, err := d.yamlPairs(n)
		if err != nil {
			return nil, err
		}
		child := d.child()
		if err := child.load(pairs); err != nil {
			return nil, err
		}
		return child, nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("dynamic: decode yaml: line %d: %w", n.Line, err)
	}
	return v, nil
}
