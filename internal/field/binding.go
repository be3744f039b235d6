package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnresolvablePath is returned when a dotted binding path does not
	// lead to an object.
	ErrUnresolvablePath = errors.New("binding path does not resolve to an object")

	// ErrSelfBinding is returned when a field is bound to itself.
	ErrSelfBinding = errors.New("field cannot be bound to itself")
)

// Binding links a field of a source object to fields of other objects. Once
// installed, both fields read and write one shared value.
type Binding struct {
	id       string
	object   Host
	property string

	source    Host
	sourceKey string
	target    Host
	targetKey string
	dist      *Distributor
}

// Bind creates a binding to property of object. property may be a dotted path
// through nested objects, e.g. "owner.title".
func Bind(object Host, property string) *Binding {
	return &Binding{id: uuid.NewString(), object: object, property: property}
}

// ID returns the unique binding id.
func (b *Binding) ID() string { return b.id }

// Object returns the source object.
func (b *Binding) Object() Host { return b.object }

// Property returns the source property path.
func (b *Binding) Property() string { return b.property }

// Installed reports whether the binding is installed on a target.
func (b *Binding) Installed() bool { return b.target != nil }

// ValueOf reads the source property.
func (b *Binding) ValueOf() any {
	h, key, err := b.resolve()
	if err != nil {
		return nil
	}
	return h.Get(key)
}

// Install links key of target to the source property. A previous install of
// the binding, or another binding already installed on target's key, is
// uninstalled first. The target takes the source value.
func (b *Binding) Install(target Host, key string) error {
	if b.target != nil {
		b.Uninstall()
	}
	st := target.Meta()
	if old, ok := st.InitiatorBinding[key]; ok {
		old.Uninstall()
	}

	host, prop, err := b.resolve()
	if err != nil {
		return err
	}
	src, err := host.Field(prop)
	if err != nil {
		return fmt.Errorf("resolve source %s.%s: %w", host.ClassName(), prop, err)
	}
	dst, err := target.Field(key)
	if err != nil {
		return fmt.Errorf("resolve target %s.%s: %w", target.ClassName(), key, err)
	}
	if src == dst {
		return ErrSelfBinding
	}

	value := src.ValueOf()
	previous := dst.ValueOf()

	hm := host.Meta()
	d, _ := hm.Distributors[prop].(*Distributor)
	if d == nil {
		d = NewDistributor()
		d.AddField(src)
		hm.Distributors[prop] = d
	}
	d.AddField(dst)
	d.value.set(value)

	st.Distributors[key] = d
	st.InitiatorBinding[key] = b
	hm.AddBinding(prop, b)

	b.source, b.sourceKey = host, prop
	b.target, b.targetKey = target, key
	b.dist = d

	dst.assign(value, previous)
	return nil
}

// Uninstall detaches the target field. When no binding remains on the source
// property the source field is detached too and the distributor dropped.
func (b *Binding) Uninstall() {
	if b.target == nil {
		return
	}
	st := b.target.Meta()
	if dst, ok := st.Fields[b.targetKey].(Field); ok {
		b.dist.RemoveField(dst)
	}
	if st.Distributors[b.targetKey] == b.dist {
		delete(st.Distributors, b.targetKey)
	}
	if st.InitiatorBinding[b.targetKey] == b {
		delete(st.InitiatorBinding, b.targetKey)
	}

	hm := b.source.Meta()
	hm.RemoveBinding(b.sourceKey, b)
	if len(hm.Bindings[b.sourceKey]) == 0 {
		if src, ok := hm.Fields[b.sourceKey].(Field); ok {
			b.dist.RemoveField(src)
		}
		if hm.Distributors[b.sourceKey] == b.dist {
			delete(hm.Distributors, b.sourceKey)
		}
	}

	b.source, b.sourceKey = nil, ""
	b.target, b.targetKey = nil, ""
	b.dist = nil
}

// ReflectToObject writes value back to the source property.
func (b *Binding) ReflectToObject(value any) {
	if b.source == nil {
		return
	}
	if Same(b.source.Get(b.sourceKey), value) {
		return
	}
	_ = b.source.Set(b.sourceKey, value)
}

func (b *Binding) resolve() (Host, string, error) {
	parts := strings.Split(b.property, ".")
	h := b.object
	for _, part := range parts[:len(parts)-1] {
		next, ok := h.Get(part).(Host)
		if !ok || next == nil {
			return nil, "", fmt.Errorf("%w: %s", ErrUnresolvablePath, b.property)
		}
		h = next
	}
	return h, parts[len(parts)-1], nil
}
