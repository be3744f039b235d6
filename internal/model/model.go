// Package model provides the base of persistent decorated objects. A model is
// identified by its class and id, registers itself in the environment's
// ModelRegistry and saves its attributes into the collection of its class.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/field"
	"github.com/conduit-lang/bdo/internal/registry"
	"github.com/conduit-lang/bdo/internal/storage"
	"github.com/conduit-lang/bdo/internal/tracking"
)

const (
	// PendingPrefix starts the generated id of a model that was never
	// persisted.
	PendingPrefix = "pending_"

	// ReferencePrefix starts the reference string of a model.
	ReferencePrefix = "_reference:"
)

// BDOModelClass is the root of all model classes.
var BDOModelClass = decorator.Define("BDOModel", nil,
	decorator.Field("id", func() any { return PendingPrefix + uuid.NewString() },
		decorator.Watched(),
		decorator.Attribute(field.TypeOf[string]()),
	),
).With(decorator.TraitModel)

// Model is a live model instance.
type Model interface {
	registry.Model
	Class() *decorator.Class
	Set(name string, value any) error
	ReferenceString() string
	IsPending() bool
}

// BDOModel is the state shared by client and server models.
type BDOModel struct {
	*decorator.Object
}

// NewBDOModel allocates a model of class. self is the concrete value
// embedding the model, nil for the model itself.
func NewBDOModel(env *decorator.Env, class *decorator.Class, self any) *BDOModel {
	m := &BDOModel{}
	if self == nil {
		self = m
	}
	m.Object = decorator.NewObject(env, class, self)
	return m
}

// IsBDOModel identifies models.
func (m *BDOModel) IsBDOModel() bool { return true }

// ID returns the id of the model
func (m *BDOModel) ID() string {
	id, _ := m.Get("id").(string)
	return id
}

// IsPending reports whether the model still carries a generated id.
func (m *BDOModel) IsPending() bool {
	return strings.HasPrefix(m.ID(), PendingPrefix)
}

// ReferenceString returns "_reference:<ClassName>:<id>".
func (m *BDOModel) ReferenceString() string {
	return ReferencePrefix + m.ClassName() + ":" + m.ID()
}

// OnIdInit registers the model once its id is first assigned.
func (m *BDOModel) OnIdInit() {
	if rm, ok := m.Self().(registry.Model); ok {
		m.Env().Models.Register(rm)
	}
}

// OnIdChange re-keys the model in the registry.
func (m *BDOModel) OnIdChange(old any) {
	oldID, _ := old.(string)
	m.Env().Models.UpdateID(oldID, m.ClassName())
}

// Collection returns the collection the model is saved in.
func (m *BDOModel) Collection() (*storage.Collection, error) {
	return collectionOf(m.Env(), m.Class())
}

func collectionOf(env *decorator.Env, class *decorator.Class) (*storage.Collection, error) {
	if env.Databases == nil || class.Collection() == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoCollection, class.Name())
	}
	return env.Databases.Database(class.Database()).Collection(class.Collection()), nil
}

// GetUnsavedChanges returns the attributes differing from the stored
// document, with their live values. Lists compare as sets and objects
// deeply.
func (m *BDOModel) GetUnsavedChanges(ctx context.Context) (map[string]any, error) {
	coll, err := m.Collection()
	if err != nil {
		return nil, err
	}
	stored, err := coll.Get(ctx, m.ID())
	if err != nil && !storage.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load %s: %w", m.ReferenceString(), err)
	}

	names := m.Meta().DefinedAttributes.Keys()
	current := make(map[string]any, len(names))
	for _, name := range names {
		current[name] = persistable(m.Get(name))
	}
	ct := tracking.NewChangeTracker(stored, current)

	changes := make(map[string]any)
	for _, name := range ct.ChangedFields() {
		changes[name] = m.Get(name)
	}
	return changes, nil
}

// payloads splits the unsaved changes of attrs into the document update and
// the server payload.
func (m *BDOModel) payloads(ctx context.Context, attrs []string) (changes, toSave, toServer map[string]any, err error) {
	declared := m.Meta().DefinedAttributes
	if len(attrs) == 0 {
		attrs = declared.Keys()
	}
	for _, name := range attrs {
		if !declared.Has(name) {
			return nil, nil, nil, fmt.Errorf("%w: %s.%s", ErrInvalidAttribute, m.ClassName(), name)
		}
	}

	changes, err = m.GetUnsavedChanges(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	toSave = make(map[string]any)
	toServer = make(map[string]any)
	for _, name := range attrs {
		v, ok := changes[name]
		if !ok {
			continue
		}
		attr := m.attribute(name)
		if attr == nil {
			continue
		}
		v = persistable(v)
		if attr.Persisted() {
			toSave[name] = v
		}
		if attr.ServerSynced() {
			toServer[name] = v
		}
	}
	return changes, toSave, toServer, nil
}

// update writes toSave into the model's document.
func (m *BDOModel) update(ctx context.Context, toSave map[string]any) error {
	if len(toSave) == 0 {
		return nil
	}
	coll, err := m.Collection()
	if err != nil {
		return err
	}
	if err := coll.Update(ctx, m.ID(), toSave); err != nil {
		return fmt.Errorf("failed to save %s: %w", m.ReferenceString(), err)
	}
	m.Env().Logger.Debug("saved model",
		zap.String("model", m.ReferenceString()),
		zap.Int("attributes", len(toSave)),
	)
	return nil
}

func (m *BDOModel) attribute(name string) *field.Attribute {
	f, err := m.Field(name)
	if err != nil {
		return nil
	}
	if w, ok := f.(*field.Watched); ok {
		f = w.SubObject()
	}
	a, _ := f.(*field.Attribute)
	return a
}

// Discard is implemented by concrete models.
func (m *BDOModel) Discard(ctx context.Context, attrs ...string) error {
	return fmt.Errorf("%w: discard %s", ErrNotImplemented, m.ClassName())
}

// persistable converts v into stored data: tracked lists become slices and
// models become reference strings.
func persistable(v any) any {
	switch t := v.(type) {
	case decorator.Referencer:
		return t.ReferenceString()
	case *field.List, []any:
		items, _ := field.AsSlice(t)
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = persistable(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = persistable(item)
		}
		return out
	}
	return v
}

// IsReferenceString reports whether v is a model reference string.
func IsReferenceString(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, ReferencePrefix)
}

// ParseReference splits a reference string into class name and id.
func ParseReference(ref string) (className, id string, ok bool) {
	rest, found := strings.CutPrefix(ref, ReferencePrefix)
	if !found {
		return "", "", false
	}
	className, id, ok = strings.Cut(rest, ":")
	return className, id, ok && className != "" && id != ""
}
