package model

import (
	"context"

	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/field"
)

// ClientModelClass is the base class of models living next to a local
// database.
var ClientModelClass = decorator.BaseConstructor(decorator.Define("ClientModel", BDOModelClass,
	decorator.Field("isClientModel", true, decorator.Property(field.PropertyParams{Type: field.TypeOf[bool]()})),
))

// ClientModel saves into the local database and forwards the server bound
// part of every save.
type ClientModel struct {
	*BDOModel
}

// NewClientModel allocates a client model of class. self is the concrete
// value embedding the model, nil for the model itself.
func NewClientModel(env *decorator.Env, class *decorator.Class, self any) *ClientModel {
	m := &ClientModel{}
	if self == nil {
		self = m
	}
	m.BDOModel = NewBDOModel(env, class, self)
	return m
}

// Save persists the unsaved changes of attrs, every declared attribute when
// none is given, and returns the unsaved changes it found. Attributes marked
// DoNotPersist are kept out of the local database and those marked
// NoServerInteraction out of the server payload.
func (m *ClientModel) Save(ctx context.Context, attrs ...string) (map[string]any, error) {
	changes, toSave, toServer, err := m.payloads(ctx, attrs)
	if err != nil {
		return nil, err
	}
	if err := m.update(ctx, toSave); err != nil {
		return nil, err
	}
	if len(toServer) > 0 {
		m.Env().Logger.Debug("send to server",
			zap.String("model", m.ReferenceString()),
			zap.Any("payload", toServer),
		)
	}
	return changes, nil
}

// GetNamespacedStorage reads key from the model's namespace.
func (m *ClientModel) GetNamespacedStorage(key, nsProp, forceNS string) any {
	return m.ReadNamespaced(key, nsProp, forceNS)
}

// SetUpdateNamespacedStorage writes key into the model's namespace.
func (m *ClientModel) SetUpdateNamespacedStorage(key string, value any, nsProp string) {
	m.WriteNamespaced(key, value, nsProp)
}

// DeleteFromNamespacedStorage deletes key, or the whole namespace for "*".
func (m *ClientModel) DeleteFromNamespacedStorage(key, nsProp string) error {
	return m.DeleteNamespaced(key, nsProp)
}
