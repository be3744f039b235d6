// Package nsstorage mirrors object fields into per-object JSON blobs.
//
// Each object owns one namespace named "<ClassName>_<suffix>" where the suffix
// is the value of a namespace property, "id" by default. When that property
// changes the blob moves to the new namespace.
package nsstorage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/meta"
)

// DefaultNamespaceProperty names the property whose value suffixes namespaces.
const DefaultNamespaceProperty = "id"

// All addresses the whole blob of a namespace.
const All = "*"

// Target is an object owning a namespace.
type Target interface {
	ClassName() string
	Get(name string) any
	Meta() *meta.State
}

// Storage reads and writes namespaced blobs on a Backend.
type Storage struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a Storage. A nil logger disables logging.
func New(backend Backend, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{backend: backend, logger: logger}
}

// Backend returns the underlying backend.
func (s *Storage) Backend() Backend { return s.backend }

// Namespace returns the namespace of class for the given suffix value.
func Namespace(class string, suffix any) string {
	return class + "_" + Suffix(suffix)
}

// Suffix formats a namespace property value. A nil value gives an empty
// suffix.
func Suffix(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Get returns the value stored under key, or the whole blob when key is All.
// forceNS, when not empty, replaces the suffix taken from the object. A
// missing namespace or key yields nil.
func (s *Storage) Get(ctx context.Context, t Target, key, nsProp, forceNS string) (any, error) {
	if nsProp == "" {
		nsProp = DefaultNamespaceProperty
	}
	suffix := forceNS
	if suffix == "" {
		suffix = Suffix(t.Get(nsProp))
	}
	blob, err := s.read(ctx, Namespace(t.ClassName(), suffix))
	if err != nil || blob == nil {
		return nil, err
	}
	if key == All {
		return blob, nil
	}
	return blob[key], nil
}

// Update writes value under key in the object's namespace. A nil value
// deletes the key and an empty blob removes the namespace.
//
// If the namespace suffix changed since the last call, or key is the
// namespace property itself, the stored blob is first moved to the new
// namespace, replacing whatever was stored there. The namespace property
// itself is never written into the blob.
func (s *Storage) Update(ctx context.Context, t Target, key string, value any, nsProp string) error {
	if nsProp == "" {
		nsProp = DefaultNamespaceProperty
	}
	st := t.Meta()
	live := Suffix(t.Get(nsProp))
	if key == nsProp {
		live = Suffix(value)
	}
	old := live
	if st.HasOldStorageNsSuffix {
		old = st.OldStorageNsSuffix
	}

	class := t.ClassName()
	target := Namespace(class, live)
	var blob map[string]any
	moved := false
	if old != live {
		source := Namespace(class, old)
		var err error
		if blob, err = s.read(ctx, source); err != nil {
			return err
		}
		if blob != nil {
			if err := s.backend.Delete(ctx, source); err != nil {
				return fmt.Errorf("remove namespace %s: %w", source, err)
			}
			moved = true
			s.logger.Debug("moved namespace",
				zap.String("from", source),
				zap.String("to", target),
			)
		}
	}
	st.SetOldStorageNsSuffix(live)

	if key == nsProp {
		if !moved {
			return nil
		}
		return s.write(ctx, target, blob)
	}
	if !moved {
		var err error
		if blob, err = s.read(ctx, target); err != nil {
			return err
		}
	}
	if blob == nil {
		blob = make(map[string]any)
	}
	if value == nil {
		delete(blob, key)
	} else {
		blob[key] = value
	}
	return s.write(ctx, target, blob)
}

// Delete removes key from the object's namespace, or the whole namespace when
// key is All.
func (s *Storage) Delete(ctx context.Context, t Target, key, nsProp string) error {
	if nsProp == "" {
		nsProp = DefaultNamespaceProperty
	}
	if key == All {
		return s.backend.Delete(ctx, Namespace(t.ClassName(), t.Get(nsProp)))
	}
	return s.Update(ctx, t, key, nil, nsProp)
}

func (s *Storage) read(ctx context.Context, namespace string) (map[string]any, error) {
	raw, err := s.backend.Get(ctx, namespace)
	if err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read namespace %s: %w", namespace, err)
	}
	var blob map[string]any
	if err := json.Unmarshal(raw, &blob); err != nil {
		s.logger.Warn("discarding corrupt namespace",
			zap.String("namespace", namespace),
			zap.Error(err),
		)
		return nil, nil
	}
	return blob, nil
}

func (s *Storage) write(ctx context.Context, namespace string, blob map[string]any) error {
	if len(blob) == 0 {
		return s.backend.Delete(ctx, namespace)
	}
	raw, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode namespace %s: %w", namespace, err)
	}
	return s.backend.Set(ctx, namespace, raw)
}
