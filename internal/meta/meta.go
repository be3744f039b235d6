// Package meta holds the per-instance and per-class bookkeeping shared by the
// field, decorator and storage layers.
//
// Every decorated object owns exactly one State. Nothing is keyed by object
// identity in a side table: the State lives and dies with its owner.
package meta

// Slot is a value-bearing field registered on an instance.
type Slot interface {
	ValueOf() any
	SetValue(value any)
}

// Binder is a live link installed on a field.
type Binder interface {
	ReflectToObject(value any)
	Uninstall()
}

// State is the metadata attached to a single decorated instance.
type State struct {
	// NormalFunctionality is false while the instance is being constructed.
	// Reads and writes of declared fields go to DefaultSettings until it
	// flips to true.
	NormalFunctionality bool

	// DefaultSettings collects field defaults and constructor parameters.
	DefaultSettings map[string]any

	// ConstructionComplete is set after defaults have been assigned.
	ConstructionComplete bool

	// DefinedProperties, DefinedAttributes and DefinedWatchers list the
	// names declared with the corresponding decorator, in declaration order.
	DefinedProperties *Declared
	DefinedAttributes *Declared
	DefinedWatchers   *Declared

	// Fields holds the outermost live field per name.
	Fields map[string]Slot

	// Distributors holds the shared field a name is currently bound through.
	Distributors map[string]Slot

	// InitiatorBinding maps a field name to the binding this instance
	// installed on it.
	InitiatorBinding map[string]Binder

	// Bindings lists the bindings other objects installed against a field of
	// this instance.
	Bindings map[string][]Binder

	// KeyShouldBeUpdated marks fields that must be mirrored to namespaced
	// storage even before construction completes.
	KeyShouldBeUpdated map[string]bool

	// OldStorageNsSuffix is the namespace suffix used by the last namespaced
	// storage call. HasOldStorageNsSuffix reports whether it was ever set.
	OldStorageNsSuffix    string
	HasOldStorageNsSuffix bool
}

// NewState returns an empty State in construction mode.
func NewState() *State {
	return &State{
		DefaultSettings:    make(map[string]any),
		DefinedProperties:  NewDeclared(),
		DefinedAttributes:  NewDeclared(),
		DefinedWatchers:    NewDeclared(),
		Fields:             make(map[string]Slot),
		Distributors:       make(map[string]Slot),
		InitiatorBinding:   make(map[string]Binder),
		Bindings:           make(map[string][]Binder),
		KeyShouldBeUpdated: make(map[string]bool),
	}
}

// SetOldStorageNsSuffix records the namespace suffix of the last storage call.
func (s *State) SetOldStorageNsSuffix(suffix string) {
	s.OldStorageNsSuffix = suffix
	s.HasOldStorageNsSuffix = true
}

// AddBinding appends a binding against the named field.
func (s *State) AddBinding(name string, b Binder) {
	for _, existing := range s.Bindings[name] {
		if existing == b {
			return
		}
	}
	s.Bindings[name] = append(s.Bindings[name], b)
}

// RemoveBinding drops a binding against the named field.
func (s *State) RemoveBinding(name string, b Binder) {
	list := s.Bindings[name]
	for i, existing := range list {
		if existing == b {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.Bindings, name)
		return
	}
	s.Bindings[name] = list
}
