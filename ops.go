package dynamic

// Union returns a copy of d with the entries of other overlaid, the
// equivalent of d + other. other is a *Dynamic or a map with string keys.
// The result keeps d's flags.
func (d *Dynamic) Union(other any) (*Dynamic, error) {
	c := d.Clone()
	if err := c.Update(other); err != nil {
		return nil, err
	}
	return c, nil
}

// Update overlays the entries of other onto d, the equivalent of d += other.
// Right-hand values win. The update is atomic: if any write is rejected
// under strict typing, d is left unchanged.
func (d *Dynamic) Update(other any) error {
	pairs, err := operandPairs(other)
	if err != nil {
		return err
	}
	staged := d.shallow()
	if err := staged.load(pairs); err != nil {
		return err
	}
	d.adopt(staged)
	return nil
}

// Difference returns a copy of d without the keys of other, the
// equivalent of d - other. The result keeps d's flags.
func (d *Dynamic) Difference(other any) (*Dynamic, error) {
	c := d.Clone()
	if err := c.Subtract(other); err != nil {
		return nil, err
	}
	return c, nil
}

// Subtract removes from d every key present in other, the equivalent of
// d -= other. Under strict subtraction a key is removed only when the
// stored value equals the one in other. Keys d does not hold are ignored.
func (d *Dynamic) Subtract(other any) error {
	pairs, err := operandPairs(other)
	if err != nil {
		return err
	}

	removed := 0
	for _, p := range pairs {
		name := Sanitize(p.key)
		cur, ok := d.store.get(name)
		if !ok {
			continue
		}
		if d.strictSubtraction {
			rhs, err := d.valueOf(p.value)
			if err != nil || !equalValues(cur, rhs) {
				continue
			}
		}
		d.store.delete(name)
		delete(d.fieldTypes, name)
		removed++
	}
	d.logf("debug", "subtract removed %d of %d keys", removed, len(pairs))
	return nil
}

// Equal reports whether other, a *Dynamic or a map with string keys,
// holds the same sanitized keys with equal values. Int and Float values
// compare numerically.
func (d *Dynamic) Equal(other any) bool {
	var o *Dynamic
	switch x := other.(type) {
	case *Dynamic:
		o = x
	default:
		if _, ok := mapPairs(other); !ok {
			return false
		}
		v, ok := ValueOf(other).(*Dynamic)
		if !ok {
			return false
		}
		o = v
	}
	return d.equalTo(o)
}

func (d *Dynamic) equalTo(o *Dynamic) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil || d.store.len() != o.store.len() {
		return false
	}
	for k, v := range d.store.data {
		w, ok := o.store.get(k)
		if !ok || !equalValues(v, w) {
			return false
		}
	}
	return true
}
