package field

import (
	"strconv"
	"strings"
)

// Diff computes the elements added to and removed from a list by op, keyed by
// index. path names the assigned index for OpAssign.
func Diff(op, path string, previous, next []any) (added, removed map[int]any) {
	added, removed = make(map[int]any), make(map[int]any)
	switch op {
	case OpPush:
		for i := len(previous); i < len(next); i++ {
			added[i] = next[i]
		}
	case OpUnshift:
		for i := 0; i < len(next)-len(previous); i++ {
			added[i] = next[i]
		}
	case OpPop:
		if n := len(previous); n > 0 {
			removed[n-1] = previous[n-1]
		}
	case OpShift:
		if len(previous) > 0 {
			removed[0] = previous[0]
		}
	case OpAssign:
		if i, ok := assignedIndex(path); ok {
			if i < len(previous) && previous[i] != nil {
				removed[i] = previous[i]
			}
			if i < len(next) && next[i] != nil {
				added[i] = next[i]
			}
			// Growing past the end pads with nils which are not elements.
			return added, removed
		}
		window(previous, next, added, removed)
	default:
		window(previous, next, added, removed)
	}
	return added, removed
}

// window records the differing middle between the common prefix and the
// common suffix of previous and next.
func window(previous, next []any, added, removed map[int]any) {
	limit := len(previous)
	if len(next) < limit {
		limit = len(next)
	}
	p := 0
	for p < limit && Same(previous[p], next[p]) {
		p++
	}
	s := 0
	for s < limit-p && Same(previous[len(previous)-1-s], next[len(next)-1-s]) {
		s++
	}
	for i := p; i < len(previous)-s; i++ {
		removed[i] = previous[i]
	}
	for i := p; i < len(next)-s; i++ {
		added[i] = next[i]
	}
}

func assignedIndex(path string) (int, bool) {
	if path == "" {
		return 0, false
	}
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
		path = path[dot+1:]
	}
	i, err := strconv.Atoi(path)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
