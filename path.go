package dynamic

import (
	"fmt"
	"strings"
)

// Attr reads a dotted attribute path such as "address.city". Every
// segment is sanitized; every segment but the last must name a nested
// mapping.
//
//	city, err := d.Attr("address.city")
func (d *Dynamic) Attr(path string) (Value, error) {
	owner, last, err := d.walk(path)
	if err != nil {
		return nil, err
	}
	return owner.Get(last)
}

// SetAttr writes v at a dotted attribute path. Intermediate mappings must
// already exist.
func (d *Dynamic) SetAttr(path string, v any) error {
	owner, last, err := d.walk(path)
	if err != nil {
		return err
	}
	return owner.Set(last, v)
}

// DelAttr deletes the entry at a dotted attribute path.
func (d *Dynamic) DelAttr(path string) error {
	owner, last, err := d.walk(path)
	if err != nil {
		return err
	}
	return owner.Delete(last)
}

// walk resolves every segment but the last and returns the owning
// instance with the last segment.
func (d *Dynamic) walk(path string) (*Dynamic, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, "", fmt.Errorf("dynamic: empty path: %w", ErrNotFound)
	}

	parts := strings.Split(path, ".")
	cur := d
	for i, part := range parts[:len(parts)-1] {
		v, ok := cur.store.get(Sanitize(part))
		if !ok {
			return nil, "", fmt.Errorf("dynamic: path %q: %w", strings.Join(parts[:i+1], "."), ErrNotFound)
		}
		next, ok := v.(*Dynamic)
		if !ok {
			return nil, "", fmt.Errorf("dynamic: path %q holds %s, not a mapping: %w",
				strings.Join(parts[:i+1], "."), typeOf(v), ErrNotFound)
		}
		cur = next
	}
	return cur, parts[len(parts)-1], nil
}
