package meta

// Declared is an insertion-ordered set of field names with the decorator
// parameters attached to each name.
type Declared struct {
	names  []string
	params map[string]any
}

// NewDeclared creates an empty set.
func NewDeclared() *Declared {
	return &Declared{params: make(map[string]any)}
}

// Add registers name. Re-adding a name keeps its position and replaces the
// parameters.
func (d *Declared) Add(name string, params any) {
	if _, ok := d.params[name]; !ok {
		d.names = append(d.names, name)
	}
	d.params[name] = params
}

// Has reports whether name was declared.
func (d *Declared) Has(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.params[name]
	return ok
}

// Params returns the parameters recorded for name.
func (d *Declared) Params(name string) (any, bool) {
	if d == nil {
		return nil, false
	}
	p, ok := d.params[name]
	return p, ok
}

// Keys returns the declared names in declaration order.
func (d *Declared) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of declared names.
func (d *Declared) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Clone returns an independent copy.
func (d *Declared) Clone() *Declared {
	c := NewDeclared()
	if d == nil {
		return c
	}
	for _, name := range d.names {
		c.Add(name, d.params[name])
	}
	return c
}
