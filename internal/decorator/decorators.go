package decorator

import (
	"github.com/conduit-lang/bdo/internal/field"
)

// Kind identifies a field decorator.
type Kind int

// Decorator kinds
const (
	KindProperty Kind = iota + 1
	KindAttribute
	KindWatched
)

// String returns the decorator name.
func (k Kind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindAttribute:
		return "attribute"
	case KindWatched:
		return "watched"
	}
	return "unknown"
}

// Decorator marks a field declaration with the field kind it becomes and the
// parameters of that kind.
type Decorator struct {
	kind      Kind
	property  field.PropertyParams
	attribute field.AttributeParams
	watched   field.WatchedParams
}

// Kind returns the decorator kind.
func (d Decorator) Kind() Kind { return d.kind }

// Params returns the parameters of the decorator: a field.PropertyParams,
// field.AttributeParams or field.WatchedParams.
func (d Decorator) Params() any {
	switch d.kind {
	case KindProperty:
		return d.property
	case KindAttribute:
		return d.attribute
	case KindWatched:
		return d.watched
	}
	return nil
}

// Property declares a plain reactive field.
func Property(params ...field.PropertyParams) Decorator {
	d := Decorator{kind: KindProperty}
	if len(params) > 0 {
		d.property = params[0]
	}
	return d
}

// Attribute declares a persisted field of type typ. A nil typ keeps the type
// given in params, if any.
func Attribute(typ field.TypeFunc, params ...field.AttributeParams) Decorator {
	d := Decorator{kind: KindAttribute}
	if len(params) > 0 {
		d.attribute = params[0]
	}
	if typ != nil {
		d.attribute.Type = typ
	}
	return d
}

// Watched declares a field firing reactions on the object.
func Watched(params ...field.WatchedParams) Decorator {
	d := Decorator{kind: KindWatched}
	if len(params) > 0 {
		d.watched = params[0]
	}
	return d
}
