package field

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_SetValue(t *testing.T) {
	h := newTestHost("Thing")
	p := h.add(NewProperty(h, "title", PropertyParams{Type: TypeOf[string]()}))

	require.NoError(t, h.Set("title", "hello"))
	assert.Equal(t, "hello", h.Get("title"))

	p.SetValue(42)
	assert.Equal(t, "hello", h.Get("title"), "rejected write must not change the value")
	require.Len(t, h.failures, 1)
	assert.True(t, IsTypeMismatch(h.failures[0]))
	assert.Contains(t, h.failures[0].Error(), "Thing.title")
}

func TestProperty_TypeGuard(t *testing.T) {
	tests := []struct {
		name    string
		params  PropertyParams
		value   any
		wantErr bool
	}{
		{name: "matching string", params: PropertyParams{Type: TypeOf[string]()}, value: "a"},
		{name: "wrong kind", params: PropertyParams{Type: TypeOf[string]()}, value: 1, wantErr: true},
		{name: "nil not nullable", params: PropertyParams{Type: TypeOf[string]()}, value: nil, wantErr: true},
		{name: "nil nullable", params: PropertyParams{Type: TypeOf[string](), Nullable: true}, value: nil},
		{name: "number widening", params: PropertyParams{Type: TypeOf[float64]()}, value: 3},
		{name: "tracked list", params: PropertyParams{Type: TypeOf[[]string]()}, value: NewList("a")},
		{name: "guard disabled", params: PropertyParams{Type: TypeOf[string](), DisableTypeGuard: true}, value: 1},
		{name: "untyped", params: PropertyParams{}, value: struct{}{}},
		{name: "modification unwrapped", params: PropertyParams{Type: TypeOf[string]()}, value: Modification{Value: 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProperty(newTestHost("Thing"), "x", tt.params)
			err := p.TypeGuard(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProperty_Modification(t *testing.T) {
	h := newTestHost("Thing")
	w := NewWatched(h, "title", WatchedParams{})
	w.SetSubObject(NewProperty(h, "title", PropertyParams{}))
	h.add(w)

	require.NoError(t, h.Set("title", "a"))
	require.NoError(t, h.Set("title", "a"))
	require.NoError(t, h.Set("title", Modification{Value: "a"}))

	assert.Equal(t, []string{"onTitleInit:a", "onTitleChange:a"}, h.calls)
}

func TestProperty_StoreTemporary(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := clockwork.NewFakeClockAt(start)
	loop := NewLoop(WrapClock(fake))
	h := newTestHost("Thing")
	h.clock = loop
	h.st.DefaultSettings["token"] = "none"
	p := h.add(NewProperty(h, "token", PropertyParams{StoreTemporary: 10 * time.Second})).(*Property)

	require.NoError(t, h.Set("token", "abc"))
	assert.Equal(t, start.Add(10*time.Second), p.Expires())

	fake.Advance(10 * time.Second)
	waitTask(t, loop)
	assert.Equal(t, "none", h.Get("token"))
	assert.Zero(t, loop.Pending(), "resetting to the default must not re-arm the timer")

	require.NoError(t, h.Set("token", "a"))
	fake.Advance(8 * time.Second)
	require.NoError(t, h.Set("token", "b"))
	assert.Equal(t, 1, loop.Pending())
	fake.Advance(8 * time.Second)
	assert.Zero(t, loop.RunPending())
	assert.Equal(t, "b", h.Get("token"))
	fake.Advance(3 * time.Second)
	waitTask(t, loop)
	assert.Equal(t, "none", h.Get("token"))
}

func TestProperty_StoreTemporaryNullable(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Unix(0, 0))
	loop := NewLoop(WrapClock(fake))
	h := newTestHost("Thing")
	h.clock = loop
	h.st.DefaultSettings["token"] = "none"
	h.add(NewProperty(h, "token", PropertyParams{StoreTemporary: time.Second, Nullable: true}))

	require.NoError(t, h.Set("token", "abc"))
	fake.Advance(2 * time.Second)
	waitTask(t, loop)
	assert.Nil(t, h.Get("token"))
}

func TestProperty_ExpiredReadBeforeTimer(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Unix(0, 0))
	loop := NewLoop(WrapClock(fake))
	h := newTestHost("Thing")
	h.clock = loop
	h.st.DefaultSettings["token"] = "none"
	p := h.add(NewProperty(h, "token", PropertyParams{StoreTemporary: time.Second})).(*Property)

	require.NoError(t, h.Set("token", "abc"))
	p.Dispose()
	assert.Zero(t, loop.Pending())

	fake.Advance(time.Second)
	assert.Equal(t, "abc", p.ValueOf(), "value is live until the expiry instant")
	fake.Advance(time.Millisecond)
	assert.Equal(t, "none", p.ValueOf())
}

func TestProperty_NamespacedStorage(t *testing.T) {
	h := newNSHost("Thing")
	p := NewProperty(h, "title", PropertyParams{SaveInLocalStorage: true})
	h.add(p)

	p.SetValue("a")
	assert.Equal(t, "a", h.ns["title"], "a storage miss forces the first write through")
	assert.True(t, h.st.KeyShouldBeUpdated["title"])

	h.ns["title"] = "stored"
	assert.Equal(t, "stored", p.ValueOf(), "namespaced storage wins over memory")

	list := NewList(1, 2)
	p.SetValue(list)
	assert.Equal(t, []any{1, 2}, h.ns["title"])
}

func TestProperty_NamespacedStorageAfterConstruction(t *testing.T) {
	h := newNSHost("Thing")
	h.ns["title"] = "old"
	p := NewProperty(h, "title", PropertyParams{SaveInLocalStorage: true})
	h.add(p)

	p.SetValue("new")
	assert.Equal(t, "old", h.ns["title"], "stored values are not overwritten during construction")

	h.st.ConstructionComplete = true
	p.SetValue("newer")
	assert.Equal(t, "newer", h.ns["title"])
}

func TestAttribute_Persisted(t *testing.T) {
	h := newTestHost("Thing")
	tests := []struct {
		name      string
		params    AttributeParams
		persisted bool
		server    bool
	}{
		{name: "plain", persisted: true, server: true},
		{name: "do not persist", params: AttributeParams{DoNotPersist: true}, server: true},
		{name: "temporary", params: AttributeParams{PropertyParams: PropertyParams{StoreTemporary: time.Minute}}},
		{name: "local only", params: AttributeParams{NoServerInteraction: true}, persisted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAttribute(h, "x", tt.params)
			assert.Equal(t, tt.persisted, a.Persisted())
			assert.Equal(t, tt.server, a.ServerSynced())
		})
	}
}
