package field

import (
	"reflect"
)

// Modification wraps a value to force a write even when it equals the
// current value.
type Modification struct {
	Value any
}

func unwrap(v any) (any, bool) {
	if m, ok := v.(Modification); ok {
		return m.Value, true
	}
	if m, ok := v.(*Modification); ok && m != nil {
		return m.Value, true
	}
	return v, false
}

// cell is the storage slot of a field. Several fields share one cell while a
// Distributor binds them.
type cell struct {
	value any
}

func (c *cell) get() any { return c.value }

func (c *cell) set(v any) { c.value = v }

// ProxyTarget returns the raw slice behind a tracked List and any other
// value unchanged.
func ProxyTarget(v any) any {
	if l, ok := v.(*List); ok && l != nil {
		return l.items
	}
	return v
}

// Same reports whether a and b are the same value. Reference-like kinds
// (maps, pointers, funcs, channels and slices) compare by identity so that
// two distinct but equal collections are not the same value.
func Same(a, b any) bool {
	if la, ok := a.(*List); ok {
		if lb, ok := b.(*List); ok {
			return la == lb
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Plain converts tracked lists, including nested ones, into plain slices
// suitable for serialization.
func Plain(v any) any {
	switch t := v.(type) {
	case *List:
		if t == nil {
			return nil
		}
		out := make([]any, len(t.items))
		for i, item := range t.items {
			out[i] = Plain(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Plain(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Plain(item)
		}
		return out
	}
	return v
}

// AsSlice returns the elements of a tracked list or a []any.
func AsSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case *List:
		if t == nil {
			return nil, false
		}
		return t.items, true
	case []any:
		return t, true
	}
	return nil, false
}
