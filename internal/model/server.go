package model

import (
	"context"

	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/field"
)

// ServerModelClass is the base class of models living next to the server
// store.
var ServerModelClass = decorator.BaseConstructor(decorator.Define("ServerModel", BDOModelClass,
	decorator.Field("isServerModel", true, decorator.Property(field.PropertyParams{Type: field.TypeOf[bool]()})),
))

// ServerModel saves into the server store.
type ServerModel struct {
	*BDOModel
}

// NewServerModel allocates a server model of class. self is the concrete
// value embedding the model, nil for the model itself.
func NewServerModel(env *decorator.Env, class *decorator.Class, self any) *ServerModel {
	m := &ServerModel{}
	if self == nil {
		self = m
	}
	m.BDOModel = NewBDOModel(env, class, self)
	return m
}

// Save writes the unsaved changes of attrs, every declared attribute when
// none is given, and returns them.
func (m *ServerModel) Save(ctx context.Context, attrs ...string) (map[string]any, error) {
	changes, toSave, _, err := m.payloads(ctx, attrs)
	if err != nil {
		return nil, err
	}
	if err := m.update(ctx, toSave); err != nil {
		return nil, err
	}
	return changes, nil
}
