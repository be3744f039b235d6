// Package field implements the reactive value slots attached to decorated
// objects: Property, Attribute and Watched, plus the Distributor that unifies
// several of them under one shared value and the Binding that links fields of
// different objects.
//
// A field never owns its host. Hosts are reached through the Host interface
// and optional capabilities are discovered with type assertions on it.
package field

import (
	"github.com/conduit-lang/bdo/internal/meta"
)

// Host is the object a field is attached to.
type Host interface {
	ClassName() string
	Meta() *meta.State
	Clock() Clock
	Get(name string) any
	Set(name string, value any) error
	// Field returns the live field for name, creating it if it was never
	// assigned.
	Field(name string) (Field, error)
}

// NamespacedStorer is implemented by hosts that mirror fields into
// namespaced storage.
type NamespacedStorer interface {
	GetNamespacedStorage(key, nsProp, forceNS string) any
	SetUpdateNamespacedStorage(key string, value any, nsProp string)
}

// Modeler is implemented by model hosts.
type Modeler interface {
	IsBDOModel() bool
}

// Reactor resolves reaction callbacks by method name, e.g. "onTitleChange".
type Reactor interface {
	Reaction(name string) (func(value any), bool)
}

// TypeCheckFailer receives type guard failures of the host's fields.
type TypeCheckFailer interface {
	OnTypeCheckFail(err error)
}

func isModel(h Host) bool {
	if h == nil {
		return false
	}
	m, ok := h.(Modeler)
	return ok && m.IsBDOModel()
}
