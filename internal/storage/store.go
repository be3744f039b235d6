// Package storage persists model documents in named databases and
// collections on top of interchangeable key/value backends.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document is stored under a key.
var ErrNotFound = errors.New("document not found")

// IsNotFound checks if an error reports a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store is a document store keyed by string.
type Store interface {
	// Get retrieves the document stored under key
	Get(ctx context.Context, key string) (map[string]any, error)

	// Set replaces the document stored under key
	Set(ctx context.Context, key string, doc map[string]any) error

	// Update merges changes into the stored document, creating it if needed
	Update(ctx context.Context, key string, changes map[string]any) error

	// Delete removes the document stored under key
	Delete(ctx context.Context, key string) error
}

// Merge applies changes to doc and returns doc. Nested maps are merged
// recursively, every other value (including slices) replaces the stored one,
// and nil values delete keys.
func Merge(doc, changes map[string]any) map[string]any {
	if doc == nil {
		doc = make(map[string]any, len(changes))
	}
	for k, v := range changes {
		if v == nil {
			delete(doc, k)
			continue
		}
		next, ok := v.(map[string]any)
		if !ok {
			doc[k] = v
			continue
		}
		cur, _ := doc[k].(map[string]any)
		doc[k] = Merge(cur, next)
	}
	return doc
}
