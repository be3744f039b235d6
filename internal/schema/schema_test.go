package schema

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Owner struct{}

func TestGraphQLType(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		typ      reflect.Type
		wantType string
		wantList bool
	}{
		{"id", "id", reflect.TypeOf((*string)(nil)).Elem(), TypeID, false},
		{"string", "title", reflect.TypeOf((*string)(nil)).Elem(), TypeString, false},
		{"int", "n", reflect.TypeOf((*int)(nil)).Elem(), TypeInt, false},
		{"float", "f", reflect.TypeOf((*float64)(nil)).Elem(), TypeFloat, false},
		{"bool", "b", reflect.TypeOf((*bool)(nil)).Elem(), TypeBoolean, false},
		{"list", "tags", reflect.TypeOf((*[]string)(nil)).Elem(), TypeString, true},
		{"pointer", "p", reflect.TypeOf((**int)(nil)).Elem(), TypeInt, false},
		{"struct", "owner", reflect.TypeOf((*Owner)(nil)).Elem(), "Owner", false},
		{"map", "meta", reflect.TypeOf((*map[string]any)(nil)).Elem(), TypeJSON, false},
		{"untyped", "x", nil, TypeJSON, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, list := GraphQLType(tt.field, tt.typ)
			assert.Equal(t, tt.wantType, typ)
			assert.Equal(t, tt.wantList, list)
		})
	}
}

func newTestRegistry(t *testing.T) *Registry {
	r := NewRegistry()
	require.NoError(t, r.Register(&ObjectType{
		Name: "BDOTest",
		Fields: []Field{
			{Name: "id", Type: TypeID},
			{Name: "title", Type: TypeString, Description: "the title"},
			{Name: "tags", Type: TypeString, List: true, Nullable: true},
			{Name: "owner", Type: "Owner", Nullable: true},
		},
	}))
	require.NoError(t, r.Register(&ObjectType{
		Name:   "Owner",
		Fields: []Field{{Name: "name", Type: TypeString}},
	}))
	return r
}

func TestRegistry_Register(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{"BDOTest", "Owner"}, r.List())

	err := r.Register(&ObjectType{Name: "Owner"})
	assert.ErrorContains(t, err, "already registered")

	err = r.Register(&ObjectType{Name: "Broken", Fields: []Field{{Name: "a", Type: TypeInt}, {Name: "a", Type: TypeInt}}})
	assert.ErrorContains(t, err, "declared twice")

	err = r.Register(&ObjectType{})
	assert.Error(t, err)

	typ, ok := r.Get("BDOTest")
	require.True(t, ok)
	f, ok := typ.Field("tags")
	require.True(t, ok)
	assert.Equal(t, "[String!]", f.SDLType())
}

func TestRegistry_SDL(t *testing.T) {
	r := newTestRegistry(t)
	want := `type BDOTest {
  id: ID!
  "the title"
  title: String!
  tags: [String!]
  owner: Owner
}

type Owner {
  name: String!
}
`
	assert.Equal(t, want, r.SDL())

	owner, ok := r.Get("Owner")
	require.True(t, ok)
	assert.Equal(t, "type Owner {\n  name: String!\n}\n", owner.SDL())
}

func TestRegistry_JSONSchema(t *testing.T) {
	r := newTestRegistry(t)
	s, err := r.JSONSchema("BDOTest")
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []any{"id", "title"}, doc["required"])

	props := doc["properties"].(map[string]any)
	assert.Equal(t, "string", props["id"].(map[string]any)["type"])
	assert.Equal(t, "the title", props["title"].(map[string]any)["description"])
	assert.Contains(t, props["tags"].(map[string]any), "oneOf")

	_, err = r.JSONSchema("Missing")
	assert.Error(t, err)
}

func TestRegistry_JSONSchemaCycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&ObjectType{
		Name:   "Node",
		Fields: []Field{{Name: "next", Type: "Node", Nullable: true}},
	}))
	_, err := r.JSONSchema("Node")
	assert.NoError(t, err)
}
