// Package tracking computes the unsaved changes of a model by comparing its
// current attribute values against the last persisted document.
package tracking

import (
	"encoding/json"
	"reflect"
	"sort"
	"sync"
)

// FieldChange represents a change to a single field
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// ChangeTracker tracks field changes of a model instance
type ChangeTracker struct {
	mu       sync.RWMutex
	original map[string]any
	current  map[string]any
	changes  map[string]*FieldChange
}

// NewChangeTracker creates a new change tracker
// original: the persisted document, nil when nothing was saved yet
// current: the live attribute values
func NewChangeTracker(original, current map[string]any) *ChangeTracker {
	ct := &ChangeTracker{
		original: normalizeMap(original),
		current:  normalizeMap(current),
		changes:  make(map[string]*FieldChange),
	}
	ct.computeChanges()
	return ct
}

// Normalize converts v into its JSON data model representation so that values
// read back from a store compare equal to the values they were saved from.
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func normalizeMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = Normalize(v)
	}
	return result
}

// computeChanges calculates which fields have changed
func (ct *ChangeTracker) computeChanges() {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	for field, newValue := range ct.current {
		oldValue, hadOldValue := ct.original[field]

		// A field that was never saved and is still unset or empty is not a
		// change
		if !hadOldValue && isEmpty(newValue) {
			continue
		}
		if !hadOldValue || !Equal(oldValue, newValue) {
			ct.changes[field] = &FieldChange{
				Field:    field,
				OldValue: oldValue,
				NewValue: newValue,
			}
		}
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	list, ok := v.([]any)
	return ok && len(list) == 0
}

// Equal compares two normalized values. Lists compare as sets: they are equal
// when neither holds an element the other lacks. Objects compare deeply and
// everything else by value.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	la, aIsList := a.([]any)
	lb, bIsList := b.([]any)
	if aIsList && bIsList {
		return len(difference(la, lb)) == 0 && len(difference(lb, la)) == 0
	}
	return reflect.DeepEqual(a, b)
}

// difference returns the elements of a missing from b
func difference(a, b []any) []any {
	var out []any
	for _, x := range a {
		found := false
		for _, y := range b {
			if reflect.DeepEqual(x, y) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, x)
		}
	}
	return out
}

// Changed returns true if the specified field has changed
func (ct *ChangeTracker) Changed(field string) bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	_, ok := ct.changes[field]
	return ok
}

// ChangedFields returns the sorted names of all changed fields
func (ct *ChangeTracker) ChangedFields() []string {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	fields := make([]string, 0, len(ct.changes))
	for field := range ct.changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// GetChange returns the FieldChange for a specific field, or nil if unchanged
func (ct *ChangeTracker) GetChange(field string) *FieldChange {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.changes[field]
}

// HasChanges returns true if any fields have changed
func (ct *ChangeTracker) HasChanges() bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.changes) > 0
}

// Reset makes the current state the new persisted state
// This should be called after a successful save operation
func (ct *ChangeTracker) Reset() {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	ct.original = normalizeMap(ct.current)
	ct.changes = make(map[string]*FieldChange)
}

// GetChangedData returns a map of only the changed fields with their new values
func (ct *ChangeTracker) GetChangedData() map[string]any {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	result := make(map[string]any, len(ct.changes))
	for field, change := range ct.changes {
		result[field] = change.NewValue
	}
	return result
}
