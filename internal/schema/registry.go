// Package schema collects the object types published by decorated model
// classes and renders them as GraphQL SDL and JSON Schema.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Field is a field of an object type
type Field struct {
	Name        string
	Type        string
	List        bool
	Nullable    bool
	Description string
}

// ObjectType is a named type with ordered fields
type ObjectType struct {
	Name        string
	Description string
	Fields      []Field
}

// Field returns the named field
func (o *ObjectType) Field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Registry manages all object types of the application
type Registry struct {
	types map[string]*ObjectType
	mu    sync.RWMutex
}

// NewRegistry creates a new schema registry
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*ObjectType)}
}

// Register registers a new object type
func (r *Registry) Register(t *ObjectType) error {
	if err := validate(t); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", t.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.Name]; exists {
		return fmt.Errorf("object type %s is already registered", t.Name)
	}
	r.types[t.Name] = t
	return nil
}

func validate(t *ObjectType) error {
	if t.Name == "" {
		return fmt.Errorf("object type name is required")
	}
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.Name == "" {
			return fmt.Errorf("field name is required")
		}
		if f.Type == "" {
			return fmt.Errorf("field %s has no type", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %s is declared twice", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Get retrieves an object type by name
func (r *Registry) Get(name string) (*ObjectType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.types[name]
	return t, exists
}

// List returns the sorted names of all object types
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SDL renders every object type as GraphQL schema definition language
func (r *Registry) SDL() string {
	var b strings.Builder
	for i, name := range r.List() {
		t, _ := r.Get(name)
		if i > 0 {
			b.WriteString("\n")
		}
		writeType(&b, t)
	}
	return b.String()
}

// SDL renders the object type as GraphQL schema definition language
func (o *ObjectType) SDL() string {
	var b strings.Builder
	writeType(&b, o)
	return b.String()
}

func writeType(b *strings.Builder, t *ObjectType) {
	if t.Description != "" {
		fmt.Fprintf(b, "\"\"\"%s\"\"\"\n", t.Description)
	}
	fmt.Fprintf(b, "type %s {\n", t.Name)
	for _, f := range t.Fields {
		if f.Description != "" {
			fmt.Fprintf(b, "  \"%s\"\n", f.Description)
		}
		fmt.Fprintf(b, "  %s: %s\n", f.Name, f.SDLType())
	}
	b.WriteString("}\n")
}

// SDLType renders the GraphQL type reference of the field
func (f Field) SDLType() string {
	typ := f.Type
	if f.List {
		typ = "[" + typ + "!]"
	}
	if !f.Nullable {
		typ += "!"
	}
	return typ
}
