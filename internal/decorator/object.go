package decorator

import (
	"encoding/json"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/field"
	"github.com/conduit-lang/bdo/internal/meta"
	"github.com/conduit-lang/bdo/internal/nsstorage"
	strutil "github.com/conduit-lang/bdo/internal/util/strings"
)

// ConstructedHook is implemented by types reacting to the end of their
// construction. It receives the constructor arguments.
type ConstructedHook interface {
	ConstructedCallback(args ...any)
}

// Referencer is implemented by objects serialized as references.
type Referencer interface {
	ReferenceString() string
}

// Object is the instance side of a decorated class. It owns the metadata
// state of the instance and dispatches Get and Set to the live fields.
//
// Concrete types embed *Object and pass themselves as self, which makes their
// exported methods available as reactions (onTitleChange resolves to
// OnTitleChange) and their capabilities visible to fields.
type Object struct {
	env      *Env
	class    *Class
	self     any
	state    *meta.State
	handlers map[string]func(any)
}

// NewObject allocates an instance of class. Declared defaults are collected
// but no field exists before InvokeLifeCycle runs.
func NewObject(env *Env, class *Class, self any) *Object {
	o := &Object{
		env:      env,
		class:    class,
		self:     self,
		state:    meta.NewState(),
		handlers: make(map[string]func(any)),
	}
	st := o.state
	for _, d := range class.decls {
		for _, dec := range d.Decorators {
			switch dec.kind {
			case KindProperty:
				st.DefinedProperties.Add(d.Name, dec.property)
			case KindAttribute:
				st.DefinedAttributes.Add(d.Name, dec.attribute)
			case KindWatched:
				st.DefinedWatchers.Add(d.Name, dec.watched)
			}
		}
		if v := d.DefaultValue(); v != nil {
			st.DefaultSettings[d.Name] = v
		}
	}
	return o
}

// InvokeLifeCycle constructs the object from args. The construction
// parameters are the map at the class's parameter index.
//
// Defaults are merged with the parameters and, for objects with namespaced
// storage, with the values cached under the resulting id.
// Every declared field is then assigned in declaration order before the
// object is marked complete and its ConstructedCallback runs.
func (o *Object) InvokeLifeCycle(args ...any) error {
	c := o.class
	if c.Abstract() {
		return fmt.Errorf("%w: %s", ErrAbstractClass, c.Name())
	}
	if !c.Constructed() {
		return fmt.Errorf("%w: %s", ErrNotConstructed, c.Name())
	}
	st := o.state
	if st.NormalFunctionality {
		return fmt.Errorf("%w: %s", ErrAlreadyConstructed, c.Name())
	}
	if err := o.env.Register(c); err != nil {
		return err
	}

	var params map[string]any
	if i := c.ParamIndex(); i < len(args) {
		params, _ = args[i].(map[string]any)
	}

	st.NormalFunctionality = true
	settings := st.DefaultSettings
	for k, v := range params {
		settings[k] = v
	}
	if ns, ok := o.Host().(field.NamespacedStorer); ok {
		forceNS := nsstorage.Suffix(settings[nsstorage.DefaultNamespaceProperty])
		if cached, ok := ns.GetNamespacedStorage(nsstorage.All, nsstorage.DefaultNamespaceProperty, forceNS).(map[string]any); ok {
			for k, v := range cached {
				settings[k] = v
			}
		}
	}

	for _, name := range c.Names() {
		v, ok := settings[name]
		if !ok {
			continue
		}
		if err := o.Set(name, v); err != nil {
			return fmt.Errorf("construct %s: %w", c.Name(), err)
		}
	}
	for k := range settings {
		if _, ok := c.index[k]; !ok {
			o.env.Logger.Debug("ignoring undeclared parameter",
				zap.String("class", c.Name()),
				zap.String("field", k),
			)
		}
	}
	st.ConstructionComplete = true

	if hook, ok := o.Self().(ConstructedHook); ok {
		hook.ConstructedCallback(args...)
	}
	return nil
}

// Env returns the environment of the object.
func (o *Object) Env() *Env { return o.env }

// Class returns the class of the object.
func (o *Object) Class() *Class { return o.class }

// ClassName returns the class name.
func (o *Object) ClassName() string { return o.class.Name() }

// Meta returns the metadata state.
func (o *Object) Meta() *meta.State { return o.state }

// Clock returns the clock driving field expirations.
func (o *Object) Clock() field.Clock { return o.env.Clock }

// Self returns the concrete value embedding the object.
func (o *Object) Self() any {
	if o.self != nil {
		return o.self
	}
	return o
}

// Host returns the host fields are attached to: the concrete value when it
// implements field.Host, the object otherwise.
func (o *Object) Host() field.Host {
	if h, ok := o.self.(field.Host); ok {
		return h
	}
	return o
}

// Get returns the value of the named field. During construction it reads
// the collected defaults.
func (o *Object) Get(name string) any {
	defer o.env.enter()()
	st := o.state
	if !st.NormalFunctionality {
		return st.DefaultSettings[name]
	}
	if s := o.slot(name); s != nil {
		return s.ValueOf()
	}
	return nil
}

// Lookup returns the value of the named field and whether the class
// declares it.
func (o *Object) Lookup(name string) (any, bool) {
	if _, ok := o.class.index[name]; !ok {
		return nil, false
	}
	return o.Get(name), true
}

// Set writes the named field. During construction the value becomes the
// field's default. A value identical to the current one is ignored unless
// wrapped in a field.Modification. A *field.Binding value installs the
// binding instead of being stored.
func (o *Object) Set(name string, value any) error {
	if _, ok := o.class.index[name]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, o.ClassName(), name)
	}
	defer o.env.enter()()
	st := o.state
	if !st.NormalFunctionality {
		st.DefaultSettings[name] = value
		return nil
	}
	if _, forced := value.(field.Modification); !forced && field.Same(o.Get(name), value) {
		return nil
	}
	if _, err := o.Field(name); err != nil {
		return err
	}
	initiator := st.InitiatorBinding[name]
	if b, ok := value.(*field.Binding); ok {
		return b.Install(o.Host(), name)
	}

	value = o.track(name, value)
	o.slot(name).SetValue(value)
	if initiator != nil {
		initiator.ReflectToObject(value)
	}
	return nil
}

// Field returns the live field of name, creating it on first use.
//
// The field kinds follow the declaration's decorators: a property or
// attribute holds the value and a watched decorator always wraps it, whatever
// the decorator order.
func (o *Object) Field(name string) (field.Field, error) {
	if f, ok := o.state.Fields[name].(field.Field); ok {
		return f, nil
	}
	decl, ok := o.class.Declaration(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, o.ClassName(), name)
	}

	host := o.Host()
	var (
		inner   field.Field
		watched *field.Watched
	)
	for _, dec := range decl.Decorators {
		switch dec.kind {
		case KindWatched:
			if watched == nil {
				watched = field.NewWatched(host, name, dec.watched)
			}
		case KindProperty:
			if inner == nil {
				inner = field.NewProperty(host, name, dec.property)
			}
		case KindAttribute:
			if inner == nil {
				inner = field.NewAttribute(host, name, dec.attribute)
			}
		}
	}
	f := inner
	if watched != nil {
		if inner != nil {
			watched.SetSubObject(inner)
		}
		f = watched
	}
	if f == nil {
		f = field.NewProperty(host, name, field.PropertyParams{})
	}
	o.state.Fields[name] = f
	return f, nil
}

func (o *Object) slot(name string) field.Field {
	st := o.state
	if d, ok := st.Distributors[name].(field.Field); ok {
		return d
	}
	if f, ok := st.Fields[name].(field.Field); ok {
		return f
	}
	return nil
}

// track turns plain lists into tracked lists whose mutations reach the
// field's proxy handler.
func (o *Object) track(name string, value any) any {
	switch v := value.(type) {
	case []any:
		l := field.NewList(append([]any(nil), v...)...)
		o.observe(name, l)
		return l
	case *field.List:
		if v != nil {
			o.observe(name, v)
		}
	case field.Modification:
		return field.Modification{Value: o.track(name, v.Value)}
	}
	return value
}

func (o *Object) observe(name string, l *field.List) {
	l.Observe(func(path string, changed, previous any, op string) {
		if s := o.slot(name); s != nil {
			s.ProxyHandler(path, changed, previous, op)
		}
	})
}

// On registers fn as the reaction called name, taking precedence over a
// method of the same name.
func (o *Object) On(name string, fn func(value any)) {
	o.handlers[name] = fn
}

// Reaction resolves a reaction by name: a handler registered with On, or an
// exported method of the concrete value named after it with an upper-case
// first letter. Methods may take no argument or one the value is assignable
// to.
func (o *Object) Reaction(name string) (func(value any), bool) {
	if fn, ok := o.handlers[name]; ok {
		return fn, true
	}
	m := reflect.ValueOf(o.Self()).MethodByName(strutil.UpperFirst(name))
	if !m.IsValid() {
		return nil, false
	}
	t := m.Type()
	if t.NumIn() > 1 || t.IsVariadic() {
		return nil, false
	}
	return func(value any) {
		if t.NumIn() == 0 {
			m.Call(nil)
			return
		}
		arg := reflect.Zero(t.In(0))
		if value != nil {
			rv := reflect.ValueOf(value)
			if !rv.Type().AssignableTo(t.In(0)) {
				o.env.Logger.Debug("skipping reaction",
					zap.String("reaction", name),
					zap.String("argument", rv.Type().String()),
				)
				return
			}
			arg = rv
		}
		m.Call([]reflect.Value{arg})
	}, true
}

// OnTypeCheckFail logs a rejected field value.
func (o *Object) OnTypeCheckFail(err error) {
	o.env.Logger.Error("type check failed",
		zap.String("class", o.ClassName()),
		zap.Error(err),
	)
}

// ReadNamespaced reads key from the object's namespaced storage. The
// namespace property itself is never read from its own namespace.
func (o *Object) ReadNamespaced(key, nsProp, forceNS string) any {
	if nsProp == "" {
		nsProp = nsstorage.DefaultNamespaceProperty
	}
	if key == nsProp && forceNS == "" {
		return nil
	}
	v, err := o.env.Local.Get(o.env.ctx, o, key, nsProp, forceNS)
	if err != nil {
		o.env.Logger.Warn("namespaced storage read failed",
			zap.String("class", o.ClassName()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	}
	return v
}

// WriteNamespaced writes key into the object's namespaced storage. A nil
// value deletes the key.
func (o *Object) WriteNamespaced(key string, value any, nsProp string) {
	if err := o.env.Local.Update(o.env.ctx, o, key, field.Plain(value), nsProp); err != nil {
		o.env.Logger.Warn("namespaced storage write failed",
			zap.String("class", o.ClassName()),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// DeleteNamespaced deletes key, or the whole namespace for nsstorage.All.
func (o *Object) DeleteNamespaced(key, nsProp string) error {
	return o.env.Local.Delete(o.env.ctx, o, key, nsProp)
}

// Properties returns the property fields by name.
func (o *Object) Properties() map[string]field.Field {
	return o.fields(o.state.DefinedProperties)
}

// Attributes returns the attribute fields by name.
func (o *Object) Attributes() map[string]field.Field {
	return o.fields(o.state.DefinedAttributes)
}

func (o *Object) fields(declared *meta.Declared) map[string]field.Field {
	out := make(map[string]field.Field, declared.Len())
	for _, name := range declared.Keys() {
		if f, err := o.Field(name); err == nil {
			out[name] = f
		}
	}
	return out
}

// Bindings returns the bindings this object installed, by field name.
func (o *Object) Bindings() map[string]*field.Binding {
	out := make(map[string]*field.Binding, len(o.state.InitiatorBinding))
	for name, b := range o.state.InitiatorBinding {
		if binding, ok := b.(*field.Binding); ok {
			out[name] = binding
		}
	}
	return out
}

// ToJSON returns the set fields as plain data. Nested objects implementing
// Referencer are replaced by their reference string.
func (o *Object) ToJSON() map[string]any {
	data := make(map[string]any)
	for _, name := range o.class.Names() {
		v := o.Get(name)
		if v == nil {
			continue
		}
		data[name] = references(field.Plain(v))
	}
	return data
}

// MarshalJSON implements json.Marshaler
func (o *Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.ToJSON())
}

func references(v any) any {
	switch t := v.(type) {
	case Referencer:
		return t.ReferenceString()
	case []any:
		for i, item := range t {
			t[i] = references(item)
		}
	case map[string]any:
		for k, item := range t {
			t[k] = references(item)
		}
	}
	return v
}

// Dispose stops pending expirations and uninstalls every binding of the
// object, both the ones it installed and the ones installed against it.
func (o *Object) Dispose() {
	st := o.state
	for _, b := range st.InitiatorBinding {
		b.Uninstall()
	}
	for _, list := range st.Bindings {
		for _, b := range append([]meta.Binder{}, list...) {
			b.Uninstall()
		}
	}
	for _, s := range st.Fields {
		dispose(s)
	}
}

func dispose(s meta.Slot) {
	if w, ok := s.(*field.Watched); ok {
		if sub := w.SubObject(); sub != nil {
			dispose(sub)
		}
		return
	}
	if d, ok := s.(interface{ Dispose() }); ok {
		d.Dispose()
	}
}
