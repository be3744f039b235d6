package registry

import (
	"strconv"
	"sync"
)

// Controller is a registrable controller instance.
type Controller interface {
	ClassName() string
	ID() string
}

// ControllerRegistry maps generated ids of the form "<ClassName>_<n>" to
// live controllers and keeps the controllers of each class in creation order.
type ControllerRegistry struct {
	mu      sync.RWMutex
	byID    map[string]Controller
	byClass map[string][]Controller
}

// NewControllerRegistry creates an empty registry
func NewControllerRegistry() *ControllerRegistry {
	return &ControllerRegistry{
		byID:    make(map[string]Controller),
		byClass: make(map[string][]Controller),
	}
}

// Add records c under class. Adding a controller twice has no effect.
func (r *ControllerRegistry) Add(class string, c Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byClass[class] {
		if existing == c {
			return
		}
	}
	r.byClass[class] = append(r.byClass[class], c)
}

// Remove forgets c entirely
func (r *ControllerRegistry) Remove(c Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	class := c.ClassName()
	list := r.byClass[class]
	for i, existing := range list {
		if existing == c {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.byClass, class)
	} else {
		r.byClass[class] = list
	}
	r.unmap(c)
}

func (r *ControllerRegistry) unmap(c Controller) {
	for id, existing := range r.byID {
		if existing == c {
			delete(r.byID, id)
		}
	}
}

// NextID returns "<className>_<n>" with the smallest n not taken by a
// registered controller.
func (r *ControllerRegistry) NextID(className string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextID(className)
}

// Reserve allocates the next id of className and maps it to c in one step,
// so controllers allocated back to back never share an id.
func (r *ControllerRegistry) Reserve(className string, c Controller) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID(className)
	r.unmap(c)
	r.byID[id] = c
	return id
}

func (r *ControllerRegistry) nextID(className string) string {
	for n := 0; ; n++ {
		id := className + "_" + strconv.Itoa(n)
		if _, taken := r.byID[id]; !taken {
			return id
		}
	}
}

// SetID maps id to c, dropping any previous id of c. Empty ids are ignored.
func (r *ControllerRegistry) SetID(id string, c Controller) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unmap(c)
	r.byID[id] = c
}

// UpdateID moves the controller registered under oldID to newID. When
// nothing is registered under oldID the call has no effect.
func (r *ControllerRegistry) UpdateID(oldID, newID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[oldID]
	if !ok || newID == "" {
		return
	}
	delete(r.byID, oldID)
	r.byID[newID] = c
}

// GetByID returns the controller registered under id
func (r *ControllerRegistry) GetByID(id string) (Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// GetByClassName returns the controllers of a class in creation order
func (r *ControllerRegistry) GetByClassName(className string) []Controller {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Controller{}, r.byClass[className]...)
}
