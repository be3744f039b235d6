// Package registry provides identity maps of live models and controllers.
//
// Registries never consult a database. They are plain values created by the
// caller and passed to whatever needs them.
package registry

import (
	"reflect"
	"sync"

	"github.com/conduit-lang/bdo/internal/field"
)

// Model is a registrable model instance.
type Model interface {
	ClassName() string
	ID() string
	// Lookup returns the value of a declared field and whether the model has
	// a field of that name.
	Lookup(name string) (any, bool)
}

// ModelRegistry maps "<ClassName><id>" to the live model instance.
type ModelRegistry struct {
	mu     sync.RWMutex
	models map[string]Model
	order  []string
}

// NewModelRegistry creates an empty registry
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{models: make(map[string]Model)}
}

func modelKey(class, id string) string { return class + id }

// Register adds a model. A model registered under an existing key replaces
// the previous one.
func (r *ModelRegistry) Register(m Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(modelKey(m.ClassName(), m.ID()), m)
}

func (r *ModelRegistry) put(key string, m Model) {
	if _, exists := r.models[key]; !exists {
		r.order = append(r.order, key)
	}
	r.models[key] = m
}

func (r *ModelRegistry) drop(key string) {
	if _, exists := r.models[key]; !exists {
		return
	}
	delete(r.models, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Unregister removes a model under its current id
func (r *ModelRegistry) Unregister(m Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := modelKey(m.ClassName(), m.ID())
	if r.models[key] == m {
		r.drop(key)
	}
}

// GetModelByID returns the model of the given class with the given id. class
// may be a class name, a model instance or a value of the model type.
func (r *ModelRegistry) GetModelByID(id string, class any) (Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[modelKey(ClassNameOf(class), id)]
	return m, ok
}

// UpdateID re-keys the model registered under oldID after its id changed.
func (r *ModelRegistry) UpdateID(oldID string, class any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	oldKey := modelKey(ClassNameOf(class), oldID)
	m, ok := r.models[oldKey]
	if !ok {
		return
	}
	r.drop(oldKey)
	r.put(modelKey(m.ClassName(), m.ID()), m)
}

// GetModelsByAttributes returns the models having every given field set to
// the given value, in registration order.
func (r *ModelRegistry) GetModelsByAttributes(attributes map[string]any) []Model {
	return r.All(func(m Model) bool {
		for key, want := range attributes {
			got, ok := m.Lookup(key)
			if !ok || !field.Same(got, want) {
				return false
			}
		}
		return true
	})
}

// All returns every model matching cond in registration order. It returns an
// empty, non-nil slice when nothing matches.
func (r *ModelRegistry) All(cond func(Model) bool) []Model {
	out := []Model{}
	for _, m := range r.snapshot() {
		if cond(m) {
			out = append(out, m)
		}
	}
	return out
}

// First returns the first model matching cond.
func (r *ModelRegistry) First(cond func(Model) bool) (Model, bool) {
	for _, m := range r.snapshot() {
		if cond(m) {
			return m, true
		}
	}
	return nil, false
}

// Last returns the last model matching cond.
func (r *ModelRegistry) Last(cond func(Model) bool) (Model, bool) {
	var last Model
	for _, m := range r.snapshot() {
		if cond(m) {
			last = m
		}
	}
	return last, last != nil
}

// Len returns the number of registered models
func (r *ModelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

func (r *ModelRegistry) snapshot() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Model, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.models[k])
	}
	return out
}

// ClassNamer is implemented by class descriptors and instances that know
// their class name.
type ClassNamer interface {
	ClassName() string
}

// StaticClassNamer is implemented by class descriptors carrying an explicit
// class name that takes precedence over the instance's own.
type StaticClassNamer interface {
	StaticClassName() string
}

// ClassNameOf resolves the class name of class: an explicit static name, a
// ClassName method, a reflect.Type or finally the name of the value's type.
func ClassNameOf(class any) string {
	switch c := class.(type) {
	case nil:
		return ""
	case string:
		return c
	case StaticClassNamer:
		return c.StaticClassName()
	case ClassNamer:
		return c.ClassName()
	case reflect.Type:
		for c.Kind() == reflect.Pointer {
			c = c.Elem()
		}
		return c.Name()
	}
	t := reflect.TypeOf(class)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
