package decorator

import (
	"fmt"
	"sort"
	"sync"
)

// ElementRegistry registers component classes under custom element tags.
type ElementRegistry interface {
	Define(tag string, class *Class) error
	Get(tag string) (*Class, bool)
}

// Elements is an in-memory ElementRegistry
type Elements struct {
	mu   sync.RWMutex
	tags map[string]*Class
}

// NewElements creates an empty element registry
func NewElements() *Elements {
	return &Elements{tags: make(map[string]*Class)}
}

// Define registers class under tag. Defining a tag twice fails unless it is
// the same class.
func (e *Elements) Define(tag string, class *Class) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.tags[tag]; ok {
		if existing == class {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateElement, tag)
	}
	e.tags[tag] = class
	return nil
}

// Get returns the class defined under tag
func (e *Elements) Get(tag string) (*Class, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.tags[tag]
	return c, ok
}

// Tags returns the defined tags sorted
func (e *Elements) Tags() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	tags := make([]string, 0, len(e.tags))
	for tag := range e.tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
