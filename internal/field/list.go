package field

import (
	"encoding/json"
	"strconv"
)

// List operation names reported to observers.
const (
	OpAssign     = ""
	OpPush       = "push"
	OpPop        = "pop"
	OpShift      = "shift"
	OpUnshift    = "unshift"
	OpSplice     = "splice"
	OpFill       = "fill"
	OpCopyWithin = "copyWithin"
)

// Observer receives list mutations. changed and previous are snapshots of the
// list after and before the mutation.
type Observer func(path string, changed, previous any, op string)

// List is a tracked slice. Every mutating method notifies the observer with
// before and after snapshots.
type List struct {
	items    []any
	observer Observer
}

// NewList creates a list holding a copy of items.
func NewList(items ...any) *List {
	return &List{items: append([]any{}, items...)}
}

// Observe replaces the observer. Only the most recent owner is notified.
func (l *List) Observe(fn Observer) { l.observer = fn }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// At returns the element at i, or nil when out of range.
func (l *List) At(i int) any {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Values returns a copy of the elements.
func (l *List) Values() []any {
	return append([]any{}, l.items...)
}

// Push appends values and returns the new length.
func (l *List) Push(values ...any) int {
	prev := l.Values()
	l.items = append(l.items, values...)
	l.emit(OpPush, "", prev)
	return len(l.items)
}

// Pop removes and returns the last element.
func (l *List) Pop() any {
	if len(l.items) == 0 {
		return nil
	}
	prev := l.Values()
	last := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	l.emit(OpPop, "", prev)
	return last
}

// Shift removes and returns the first element.
func (l *List) Shift() any {
	if len(l.items) == 0 {
		return nil
	}
	prev := l.Values()
	first := l.items[0]
	l.items = append([]any{}, l.items[1:]...)
	l.emit(OpShift, "", prev)
	return first
}

// Unshift prepends values and returns the new length.
func (l *List) Unshift(values ...any) int {
	prev := l.Values()
	l.items = append(append([]any{}, values...), l.items...)
	l.emit(OpUnshift, "", prev)
	return len(l.items)
}

// Splice removes deleteCount elements at start, inserts items in their place
// and returns the removed elements. A negative start counts from the end.
func (l *List) Splice(start, deleteCount int, items ...any) []any {
	prev := l.Values()
	start = clampIndex(start, len(l.items))
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > len(l.items) {
		deleteCount = len(l.items) - start
	}
	removed := append([]any{}, l.items[start:start+deleteCount]...)
	next := make([]any, 0, len(l.items)-deleteCount+len(items))
	next = append(next, l.items[:start]...)
	next = append(next, items...)
	next = append(next, l.items[start+deleteCount:]...)
	l.items = next
	l.emit(OpSplice, "", prev)
	return removed
}

// Fill sets the elements in [start, end) to value. Negative bounds count from
// the end.
func (l *List) Fill(value any, start, end int) {
	prev := l.Values()
	start, end = clampIndex(start, len(l.items)), clampIndex(end, len(l.items))
	for i := start; i < end; i++ {
		l.items[i] = value
	}
	l.emit(OpFill, "", prev)
}

// CopyWithin copies the elements in [start, end) to target.
func (l *List) CopyWithin(target, start, end int) {
	prev := l.Values()
	n := len(l.items)
	target, start, end = clampIndex(target, n), clampIndex(start, n), clampIndex(end, n)
	count := end - start
	if n-target < count {
		count = n - target
	}
	if count > 0 {
		copy(l.items[target:target+count], prev[start:start+count])
	}
	l.emit(OpCopyWithin, "", prev)
}

// SetAt assigns the element at i, growing the list with nils when needed.
func (l *List) SetAt(i int, value any) {
	if i < 0 {
		return
	}
	prev := l.Values()
	for len(l.items) <= i {
		l.items = append(l.items, nil)
	}
	l.items[i] = value
	l.emit(OpAssign, strconv.Itoa(i), prev)
}

// MarshalJSON encodes the list as a JSON array.
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(Plain(l))
}

func (l *List) emit(op, path string, prev []any) {
	if l.observer == nil {
		return
	}
	l.observer(path, l.Values(), prev, op)
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}
