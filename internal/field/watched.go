package field

import (
	"sort"

	strutil "github.com/conduit-lang/bdo/internal/util/strings"
)

// WatchedParams overrides the reaction method names of a Watched field. Empty
// names default to "on" + Field + "Init", "Change", "Add" and "Remove".
type WatchedParams struct {
	OnInit   string
	OnChange string
	OnAdd    string
	OnRemove string
}

// Watched fires reactions on the host when its value changes. It optionally
// wraps a Property or Attribute which then holds the value and guards it.
type Watched struct {
	base
	params      WatchedParams
	sub         Field
	initialized bool
}

// NewWatched creates a watched field of object.
func NewWatched(object Host, name string, params WatchedParams) *Watched {
	w := &Watched{base: newBase(object, name), params: params}
	w.guard.disabled = true
	return w
}

// Params returns the declaration parameters.
func (w *Watched) Params() WatchedParams { return w.params }

// SubObject returns the wrapped field, or nil.
func (w *Watched) SubObject() Field { return w.sub }

// SetSubObject wraps f. A value held by the bare watched field moves into f
// when f is empty.
func (w *Watched) SetSubObject(f Field) {
	if cur := w.value.get(); cur != nil && f.ValueOf() == nil {
		f.core().value.set(cur)
	}
	w.sub = f
}

// ValueOf returns the current value.
func (w *Watched) ValueOf() any {
	if w.sub != nil {
		return w.sub.ValueOf()
	}
	return w.value.get()
}

// TypeGuard delegates to the wrapped field.
func (w *Watched) TypeGuard(value any) error {
	return w.guardCheck(value, nil)
}

func (w *Watched) guardCheck(value any, inherited error) error {
	if w.sub != nil {
		return w.sub.guardCheck(value, inherited)
	}
	return w.base.guardCheck(value, inherited)
}

// SetValue writes value and fires the init or change reaction.
func (w *Watched) SetValue(value any) {
	if err := w.guardCheck(value, nil); err != nil {
		w.report(err)
		return
	}
	w.assign(value, w.ValueOf())
}

func (w *Watched) assign(value, previous any) bool {
	if w.sub != nil {
		if !w.sub.assign(value, previous) {
			return false
		}
	} else {
		v, forced := unwrap(value)
		if !forced && Same(previous, v) {
			return false
		}
		w.value.set(v)
	}
	if !w.initialized {
		w.initialized = true
		w.react(w.reactionName(w.params.OnInit, "Init"), w.ValueOf())
	} else {
		w.react(w.reactionName(w.params.OnChange, "Change"), previous)
	}
	return true
}

// ProxyHandler fires the add reaction for every added element and then the
// remove reaction for every removed element, each in index order.
func (w *Watched) ProxyHandler(path string, changed, previous any, op string) {
	if w.sub != nil {
		w.sub.ProxyHandler(path, changed, previous, op)
	}
	next, ok := AsSlice(changed)
	if !ok {
		return
	}
	prev, _ := AsSlice(previous)
	added, removed := Diff(op, path, prev, next)
	onAdd := w.reactionName(w.params.OnAdd, "Add")
	for _, i := range sortedIndexes(added) {
		w.react(onAdd, added[i])
	}
	onRemove := w.reactionName(w.params.OnRemove, "Remove")
	for _, i := range sortedIndexes(removed) {
		w.react(onRemove, removed[i])
	}
}

func (w *Watched) reactionName(override, suffix string) string {
	if override != "" {
		return override
	}
	return "on" + strutil.UpperFirst(w.name) + suffix
}

func (w *Watched) react(name string, arg any) {
	r, ok := w.object.(Reactor)
	if !ok {
		return
	}
	if fn, ok := r.Reaction(name); ok {
		fn(arg)
	}
}

func sortedIndexes(m map[int]any) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
