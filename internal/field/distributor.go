package field

// Distributor is a field that shares one value between several member
// fields. Members read and write the distributor's cell while they belong to
// it, and get their own cell back when removed.
type Distributor struct {
	base
	fields []Field
}

// NewDistributor creates an empty distributor.
func NewDistributor() *Distributor {
	return &Distributor{base: newBase(nil, "")}
}

// Fields returns the members in insertion order.
func (d *Distributor) Fields() []Field {
	return append([]Field{}, d.fields...)
}

// Has reports whether f is a member.
func (d *Distributor) Has(f Field) bool {
	return d.index(f) >= 0
}

func (d *Distributor) index(f Field) int {
	for i, member := range d.fields {
		if member == f {
			return i
		}
	}
	return -1
}

// AddField makes f a member. Adding a member twice has no effect.
//
// A model member seeds the shared value and hands its type guard over to the
// distributor. A bare watched member disables the distributor's guard since
// it carries no type information.
func (d *Distributor) AddField(f Field) {
	if d.Has(f) {
		return
	}
	if isModel(f.Object()) {
		d.value.set(f.ValueOf())
	}
	if w, ok := f.(*Watched); ok {
		if sub := w.sub; sub != nil {
			if isModel(sub.Object()) {
				d.adoptGuard(sub)
			}
			d.redirect(sub)
		} else {
			d.guard.disabled = true
		}
	} else if isModel(f.Object()) {
		d.adoptGuard(f)
	}
	d.redirect(f)
	d.fields = append(d.fields, f)
}

// RemoveField detaches f. Its declared guard setting is restored and the
// shared value is written back into its own cell.
func (d *Distributor) RemoveField(f Field) {
	i := d.index(f)
	if i < 0 {
		return
	}
	d.fields = append(d.fields[:i], d.fields[i+1:]...)
	if w, ok := f.(*Watched); ok && w.sub != nil {
		w.sub.SetDisableTypeGuard(declaredGuardDisabled(w.sub))
		w.sub.core().value = w.sub.core().own
	} else if !ok {
		f.SetDisableTypeGuard(declaredGuardDisabled(f))
	}
	c := f.core()
	c.value = c.own
	f.SetValue(d.value.get())
}

// ValueOf returns the shared value.
func (d *Distributor) ValueOf() any { return d.value.get() }

// SetValue writes value to every member. A member with its own guard judges
// the value itself; the others follow the distributor's guard.
func (d *Distributor) SetValue(value any) {
	verdict := d.guardCheck(value, nil)
	previous := d.value.get()
	for _, f := range d.Fields() {
		if err := f.guardCheck(value, verdict); err != nil {
			f.core().report(err)
			continue
		}
		f.assign(value, previous)
	}
	if len(d.fields) == 0 && verdict == nil {
		v, _ := unwrap(value)
		d.value.set(v)
	}
}

func (d *Distributor) assign(value, previous any) bool {
	d.SetValue(value)
	return true
}

// ProxyHandler forwards list mutations to every member.
func (d *Distributor) ProxyHandler(path string, changed, previous any, op string) {
	for _, f := range d.Fields() {
		f.ProxyHandler(path, changed, previous, op)
	}
}

func (d *Distributor) adoptGuard(f Field) {
	c := f.core()
	d.guard = c.guard
	c.guard.disabled = true
}

func (d *Distributor) redirect(f Field) {
	f.core().value = d.value
}

// declaredGuardDisabled looks up the guard setting the field was declared
// with on its host, falling back to the field's own parameters.
func declaredGuardDisabled(f Field) bool {
	if h := f.Object(); h != nil {
		st := h.Meta()
		if p, ok := st.DefinedAttributes.Params(f.Name()); ok {
			if ap, ok := p.(AttributeParams); ok {
				return ap.DisableTypeGuard
			}
		}
		if p, ok := st.DefinedProperties.Params(f.Name()); ok {
			if pp, ok := p.(PropertyParams); ok {
				return pp.DisableTypeGuard
			}
		}
	}
	switch t := f.(type) {
	case *Attribute:
		return t.params.DisableTypeGuard
	case *Property:
		return t.params.DisableTypeGuard
	}
	return false
}
