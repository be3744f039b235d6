package field

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeMismatch is wrapped by every TypeError.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeFunc lazily resolves the declared type of a field so that declarations
// may refer to types defined later.
type TypeFunc func() reflect.Type

// TypeOf returns a TypeFunc for T.
func TypeOf[T any]() TypeFunc {
	return func() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
}

// TypeError describes a rejected write.
type TypeError struct {
	Class    string
	Field    string
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *TypeError) Error() string {
	actual := "nil"
	if e.Actual != nil {
		actual = e.Actual.String()
	}
	return fmt.Sprintf("%s.%s: expected %s, got %s", e.Class, e.Field, e.Expected, actual)
}

func (e *TypeError) Unwrap() error { return ErrTypeMismatch }

// IsTypeMismatch reports whether err was produced by a type guard.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

type guard struct {
	typ      TypeFunc
	nullable bool
	disabled bool
}

func newGuard(typ TypeFunc, nullable, disabled bool) guard {
	return guard{typ: typ, nullable: nullable, disabled: disabled}
}

func (g guard) check(class, name string, v any) error {
	if g.typ == nil {
		return nil
	}
	t := g.typ()
	if t == nil {
		return nil
	}
	v, _ = unwrap(v)
	if v == nil {
		if g.nullable || t.Kind() == reflect.Interface {
			return nil
		}
		return &TypeError{Class: class, Field: name, Expected: t}
	}
	if accepts(t, v) {
		return nil
	}
	return &TypeError{Class: class, Field: name, Expected: t, Actual: reflect.TypeOf(v)}
}

func accepts(t reflect.Type, v any) bool {
	vt := reflect.TypeOf(v)
	if vt.AssignableTo(t) {
		return true
	}
	if _, ok := v.(*List); ok {
		return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
	}
	switch {
	case isNumber(t.Kind()) && isNumber(vt.Kind()):
		return true
	case t.Kind() == reflect.Slice && vt.Kind() == reflect.Slice:
		return true
	case t.Kind() == reflect.Map && vt.Kind() == reflect.Map:
		return true
	case t.Kind() == reflect.String && vt.Kind() == reflect.String:
		return true
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
