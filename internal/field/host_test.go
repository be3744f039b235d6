package field

import (
	"fmt"

	"github.com/conduit-lang/bdo/internal/meta"
)

// testHost is a minimal Host routing writes through distributors the same way
// decorated objects do.
type testHost struct {
	class    string
	st       *meta.State
	clock    Clock
	model    bool
	calls    []string
	failures []error
	ns       map[string]any
}

func newTestHost(class string) *testHost {
	st := meta.NewState()
	st.NormalFunctionality = true
	return &testHost{class: class, st: st, clock: NewLoop(SystemClock)}
}

func (h *testHost) ClassName() string { return h.class }
func (h *testHost) Meta() *meta.State  { return h.st }
func (h *testHost) Clock() Clock       { return h.clock }
func (h *testHost) IsBDOModel() bool   { return h.model }

func (h *testHost) add(f Field) Field {
	h.st.Fields[f.Name()] = f
	return f
}

func (h *testHost) Field(name string) (Field, error) {
	if f, ok := h.st.Fields[name].(Field); ok {
		return f, nil
	}
	return h.add(NewProperty(h, name, PropertyParams{})), nil
}

func (h *testHost) slot(name string) Field {
	if d, ok := h.st.Distributors[name].(Field); ok {
		return d
	}
	f, _ := h.Field(name)
	return f
}

func (h *testHost) Get(name string) any {
	return h.slot(name).ValueOf()
}

func (h *testHost) Set(name string, value any) error {
	if b, ok := value.(*Binding); ok {
		return b.Install(h, name)
	}
	if _, forced := value.(Modification); !forced && Same(h.Get(name), value) {
		return nil
	}
	h.slot(name).SetValue(value)
	return nil
}

func (h *testHost) Reaction(name string) (func(any), bool) {
	return func(v any) {
		h.calls = append(h.calls, fmt.Sprintf("%s:%v", name, v))
	}, true
}

func (h *testHost) OnTypeCheckFail(err error) {
	h.failures = append(h.failures, err)
}

// nsHost additionally mirrors fields into an in-memory namespace.
type nsHost struct {
	*testHost
}

func newNSHost(class string) *nsHost {
	h := &nsHost{testHost: newTestHost(class)}
	h.ns = make(map[string]any)
	return h
}

func (h *nsHost) GetNamespacedStorage(key, nsProp, forceNS string) any {
	return h.ns[key]
}

func (h *nsHost) SetUpdateNamespacedStorage(key string, value any, nsProp string) {
	if value == nil {
		delete(h.ns, key)
		return
	}
	h.ns[key] = value
}
