package schema

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// JSONSchema renders the named object type as a JSON Schema. References to
// other registered object types are inlined.
func (r *Registry) JSONSchema(name string) (*jsonschema.Schema, error) {
	return r.jsonSchema(name, map[string]bool{})
}

func (r *Registry) jsonSchema(name string, visiting map[string]bool) (*jsonschema.Schema, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("object type %s is not registered", name)
	}
	if visiting[name] {
		return &jsonschema.Schema{Type: "object", Title: name}, nil
	}
	visiting[name] = true
	defer delete(visiting, name)

	s := &jsonschema.Schema{
		Title:       t.Name,
		Description: t.Description,
		Type:        "object",
		Properties:  jsonschema.NewProperties(),
	}
	for _, f := range t.Fields {
		prop, err := r.fieldSchema(f, visiting)
		if err != nil {
			return nil, err
		}
		s.Properties.Set(f.Name, prop)
		if !f.Nullable {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s, nil
}

func (r *Registry) fieldSchema(f Field, visiting map[string]bool) (*jsonschema.Schema, error) {
	var item *jsonschema.Schema
	switch f.Type {
	case TypeID, TypeString:
		item = &jsonschema.Schema{Type: "string"}
	case TypeInt:
		item = &jsonschema.Schema{Type: "integer"}
	case TypeFloat:
		item = &jsonschema.Schema{Type: "number"}
	case TypeBoolean:
		item = &jsonschema.Schema{Type: "boolean"}
	case TypeJSON:
		item = &jsonschema.Schema{}
	default:
		nested, err := r.jsonSchema(f.Type, visiting)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		item = nested
	}
	out := item
	if f.List {
		out = &jsonschema.Schema{Type: "array", Items: item}
	}
	if f.Nullable {
		out = &jsonschema.Schema{OneOf: []*jsonschema.Schema{out, {Type: "null"}}}
	}
	out.Description = f.Description
	return out, nil
}
