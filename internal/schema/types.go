package schema

import (
	"reflect"
)

// Scalar type names
const (
	TypeID      = "ID"
	TypeString  = "String"
	TypeInt     = "Int"
	TypeFloat   = "Float"
	TypeBoolean = "Boolean"
	TypeJSON    = "JSON"
)

// GraphQLType maps a Go type to a GraphQL type name and reports whether it is
// a list. A string field named "id" maps to ID.
func GraphQLType(name string, t reflect.Type) (string, bool) {
	if t == nil {
		return TypeJSON, false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		if t.Elem().Kind() == reflect.Uint8 {
			return TypeString, false
		}
		elem, _ := GraphQLType("", t.Elem())
		return elem, true
	}
	switch t.Kind() {
	case reflect.String:
		if name == "id" {
			return TypeID, false
		}
		return TypeString, false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return TypeInt, false
	case reflect.Uint64, reflect.Float32, reflect.Float64:
		return TypeFloat, false
	case reflect.Bool:
		return TypeBoolean, false
	case reflect.Struct:
		if t.Name() != "" {
			return t.Name(), false
		}
	}
	return TypeJSON, false
}
