package field

import (
	"reflect"
)

// Field is a reactive value slot attached to a host object.
type Field interface {
	Name() string
	Object() Host
	ValueOf() any
	SetValue(value any)
	// ProxyHandler is invoked after an in-place mutation of a tracked list
	// held by the field.
	ProxyHandler(path string, changed, previous any, op string)
	TypeGuard(value any) error
	DisableTypeGuard() bool
	SetDisableTypeGuard(disabled bool)
	Type() reflect.Type

	core() *base
	// assign writes value while treating previous as the value before the
	// write. It reports whether the write took effect.
	assign(value, previous any) bool
	guardCheck(value any, inherited error) error
}

type base struct {
	object Host
	name   string
	value  *cell
	own    *cell
	guard  guard
}

func newBase(object Host, name string) base {
	c := &cell{}
	return base{object: object, name: name, value: c, own: c}
}

func (b *base) core() *base { return b }

// Name returns the field name.
func (b *base) Name() string { return b.name }

// Object returns the host.
func (b *base) Object() Host { return b.object }

// DisableTypeGuard reports whether writes skip the type guard.
func (b *base) DisableTypeGuard() bool { return b.guard.disabled }

// SetDisableTypeGuard toggles the type guard.
func (b *base) SetDisableTypeGuard(disabled bool) { b.guard.disabled = disabled }

// Type returns the declared type, or nil when undeclared.
func (b *base) Type() reflect.Type {
	if b.guard.typ == nil {
		return nil
	}
	return b.guard.typ()
}

// TypeGuard validates value against the declared type.
func (b *base) TypeGuard(value any) error {
	return b.guardCheck(value, nil)
}

// guardCheck returns inherited when the guard is disabled, so that a
// Distributor's verdict applies to members whose own guard it took over.
func (b *base) guardCheck(value any, inherited error) error {
	if b.guard.disabled {
		return inherited
	}
	return b.guard.check(b.className(), b.name, value)
}

func (b *base) className() string {
	if b.object == nil {
		return ""
	}
	return b.object.ClassName()
}

func (b *base) report(err error) {
	if b.object == nil {
		return
	}
	if f, ok := b.object.(TypeCheckFailer); ok {
		f.OnTypeCheckFail(err)
	}
}
