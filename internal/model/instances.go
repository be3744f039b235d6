package model

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/storage"
	"github.com/conduit-lang/bdo/internal/tracking"
)

// GetInstanceByID returns the model of class stored under id. A registered
// model is reused, otherwise one is constructed through the factory the
// environment provides for class. The model is then hydrated from its stored
// document, resolving reference strings to the models they name.
//
// A nil model is returned when nothing is stored under id.
func GetInstanceByID(ctx context.Context, env *decorator.Env, class *decorator.Class, id string) (Model, error) {
	h := &hydrator{env: env, seen: make(map[string]Model)}
	return h.instance(ctx, class, id)
}

// GetInstancesByAttributes returns the registered models of class, or of a
// subclass, whose fields equal attributes.
func GetInstancesByAttributes(env *decorator.Env, class *decorator.Class, attributes map[string]any) []Model {
	out := []Model{}
	for _, rm := range env.Models.GetModelsByAttributes(attributes) {
		if m, ok := rm.(Model); ok && m.Class().Is(class) {
			out = append(out, m)
		}
	}
	return out
}

// hydrator loads models and the models they reference. seen breaks
// reference cycles.
type hydrator struct {
	env  *decorator.Env
	seen map[string]Model
}

func (h *hydrator) instance(ctx context.Context, class *decorator.Class, id string) (Model, error) {
	key := ReferencePrefix + class.Name() + ":" + id
	if m, ok := h.seen[key]; ok {
		return m, nil
	}

	var m Model
	created := false
	if found, ok := h.env.Models.GetModelByID(id, class.Name()); ok {
		m, _ = found.(Model)
	}
	if m == nil {
		v, err := h.env.New(class.Name(), nil)
		if err != nil {
			return nil, err
		}
		var ok bool
		if m, ok = v.(Model); !ok {
			return nil, fmt.Errorf("%s is not a model", class.Name())
		}
		created = true
	}
	h.seen[key] = m

	coll, err := collectionOf(h.env, class)
	if err != nil {
		return nil, err
	}
	doc, err := coll.Get(ctx, id)
	switch {
	case storage.IsNotFound(err):
	case err != nil:
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	default:
		if err := h.hydrate(ctx, m, class, doc); err != nil {
			return nil, err
		}
	}

	if m.IsPending() {
		if created {
			h.env.Models.Unregister(m)
			if d, ok := m.(interface{ Dispose() }); ok {
				d.Dispose()
			}
		}
		delete(h.seen, key)
		return nil, nil
	}
	return m, nil
}

// hydrate assigns the stored values differing from the live ones.
func (h *hydrator) hydrate(ctx context.Context, m Model, class *decorator.Class, doc map[string]any) error {
	for _, name := range class.Names() {
		stored, ok := doc[name]
		if !ok {
			continue
		}
		current, _ := m.Lookup(name)
		if tracking.Equal(tracking.Normalize(persistable(current)), tracking.Normalize(stored)) {
			continue
		}
		value, err := h.resolve(ctx, stored)
		if err != nil {
			return err
		}
		if err := m.Set(name, value); err != nil {
			return fmt.Errorf("failed to hydrate %s.%s: %w", class.Name(), name, err)
		}
	}
	return nil
}

func (h *hydrator) resolve(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case string:
		className, id, ok := ParseReference(t)
		if !ok {
			return v, nil
		}
		class, ok := h.env.Class(className)
		if !ok {
			h.env.Logger.Debug("keeping reference to unknown class", zap.String("reference", t))
			return v, nil
		}
		m, err := h.instance(ctx, class, id)
		if err != nil || m == nil {
			return v, err
		}
		return m, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			resolved, err := h.resolve(ctx, item)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	}
	return v, nil
}
