package storage

import (
	"context"
	"strings"
	"sync"
)

// Manager routes databases to stores. Databases without a dedicated store
// use the fallback store.
type Manager struct {
	mu       sync.RWMutex
	fallback Store
	stores   map[string]Store
}

// NewManager creates a manager backed by fallback.
func NewManager(fallback Store) *Manager {
	return &Manager{fallback: fallback, stores: make(map[string]Store)}
}

// Register routes the named database to store.
func (m *Manager) Register(name string, store Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores[name] = store
}

// Database returns a handle to the named database.
func (m *Manager) Database(name string) *Database {
	m.mu.RLock()
	store, ok := m.stores[name]
	m.mu.RUnlock()
	if !ok {
		store = m.fallback
	}
	return &Database{name: name, store: store}
}

// Database is a named group of collections.
type Database struct {
	name  string
	store Store
}

// Name returns the database name.
func (d *Database) Name() string { return d.name }

// Collection returns a handle to the named collection.
func (d *Database) Collection(name string) *Collection {
	return &Collection{db: d, name: name}
}

// Collection stores documents addressed by id.
type Collection struct {
	db   *Database
	name string
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Key returns the store key of the document with the given id.
func (c *Collection) Key(id string) string {
	return strings.Join([]string{c.db.name, c.name, id}, ":")
}

// Get retrieves the document with the given id.
func (c *Collection) Get(ctx context.Context, id string) (map[string]any, error) {
	return c.db.store.Get(ctx, c.Key(id))
}

// Set replaces the document with the given id.
func (c *Collection) Set(ctx context.Context, id string, doc map[string]any) error {
	return c.db.store.Set(ctx, c.Key(id), doc)
}

// Update merges changes into the document with the given id.
func (c *Collection) Update(ctx context.Context, id string, changes map[string]any) error {
	return c.db.store.Update(ctx, c.Key(id), changes)
}

// Delete removes the document with the given id.
func (c *Collection) Delete(ctx context.Context, id string) error {
	return c.db.store.Delete(ctx, c.Key(id))
}
