package model

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/field"
	"github.com/conduit-lang/bdo/internal/storage"
)

var noteClass = decorator.BaseConstructor(decorator.Define("Note", ClientModelClass,
	decorator.Field("title", "", decorator.Attribute(field.TypeOf[string]())),
	decorator.Field("draft", nil, decorator.Attribute(nil, field.AttributeParams{DoNotPersist: true})),
	decorator.Field("secret", nil, decorator.Attribute(nil, field.AttributeParams{NoServerInteraction: true})),
	decorator.Field("tags", func() any { return []any{} }, decorator.Watched(), decorator.Attribute(nil)),
	decorator.Field("owner", nil, decorator.Attribute(nil)),
), decorator.Options{CollectionName: "notes"})

type note struct {
	*ClientModel
}

func buildNote(env *decorator.Env, params map[string]any) (*note, error) {
	n := &note{}
	n.ClientModel = NewClientModel(env, noteClass, n)
	return n, n.InvokeLifeCycle(params)
}

func newNote(t *testing.T, env *decorator.Env, params map[string]any) *note {
	n, err := buildNote(env, params)
	require.NoError(t, err)
	return n
}

type spyStore struct {
	*storage.MemoryStore
	updates []map[string]any
}

func (s *spyStore) Update(ctx context.Context, key string, changes map[string]any) error {
	s.updates = append(s.updates, changes)
	return s.MemoryStore.Update(ctx, key, changes)
}

func newEnv(t *testing.T, store storage.Store, opts ...decorator.Option) *decorator.Env {
	opts = append(opts, decorator.WithDatabases(storage.NewManager(store)))
	env := decorator.NewEnv(opts...)
	require.NoError(t, env.Provide(noteClass, func(env *decorator.Env, params map[string]any) (any, error) {
		return buildNote(env, params)
	}))
	return env
}

func TestClientModel_Save(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)
	spy := &spyStore{MemoryStore: storage.NewMemoryStore()}
	env := newEnv(t, spy, decorator.WithLogger(zap.New(core)))

	n := newNote(t, env, map[string]any{"id": "x", "title": "hello", "draft": "d", "secret": "s"})
	changes, err := n.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"id": "x", "title": "hello", "draft": "d", "secret": "s"}, changes)
	require.Len(t, spy.updates, 1)
	assert.Equal(t, map[string]any{"id": "x", "title": "hello", "secret": "s"}, spy.updates[0])

	sent := logs.FilterMessage("send to server").All()
	require.Len(t, sent, 1)
	assert.Equal(t, map[string]any{"id": "x", "title": "hello", "draft": "d"}, sent[0].ContextMap()["payload"])

	doc, err := spy.Get(ctx, "default:notes:x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "x", "title": "hello", "secret": "s"}, doc)

	_, err = n.Save(ctx)
	require.NoError(t, err)
	assert.Len(t, spy.updates, 1, "nothing left to save")

	require.NoError(t, n.Set("title", "next"))
	n.Get("tags").(*field.List).Push("a")
	_, err = n.Save(ctx, "title")
	require.NoError(t, err)
	require.Len(t, spy.updates, 2)
	assert.Equal(t, map[string]any{"title": "next"}, spy.updates[1])

	unsaved, err := n.GetUnsavedChanges(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"draft", "tags"}, keys(unsaved), "draft is never stored")
}

func TestClientModel_SaveInvalidAttribute(t *testing.T) {
	spy := &spyStore{MemoryStore: storage.NewMemoryStore()}
	env := newEnv(t, spy)
	n := newNote(t, env, map[string]any{"id": "x"})

	for _, name := range []string{"missing", "isClientModel"} {
		_, err := n.Save(context.Background(), name)
		assert.True(t, IsInvalidAttribute(err), name)
	}
	assert.Empty(t, spy.updates)
}

func TestBDOModel_Registry(t *testing.T) {
	env := newEnv(t, storage.NewMemoryStore())

	pending := newNote(t, env, nil)
	assert.True(t, pending.IsPending())
	assert.NotEqual(t, PendingPrefix, pending.ID())

	n := newNote(t, env, map[string]any{"id": "x", "title": "hello"})
	found, ok := env.Models.GetModelByID("x", "Note")
	require.True(t, ok)
	assert.Same(t, n, found)
	assert.Equal(t, "_reference:Note:x", n.ReferenceString())

	require.NoError(t, n.Set("id", "z"))
	_, ok = env.Models.GetModelByID("x", "Note")
	assert.False(t, ok)
	found, ok = env.Models.GetModelByID("z", n)
	require.True(t, ok)
	assert.Same(t, n, found)

	assert.Equal(t, []Model{n}, GetInstancesByAttributes(env, noteClass, map[string]any{"title": "hello"}))
	assert.Equal(t, []Model{n}, GetInstancesByAttributes(env, ClientModelClass, map[string]any{"title": "hello"}))
	assert.Empty(t, GetInstancesByAttributes(env, ServerModelClass, map[string]any{"title": "hello"}))

	assert.True(t, IsNotImplemented(n.Discard(context.Background())))
}

func TestGetInstanceByID(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	env := newEnv(t, store)

	owner := newNote(t, env, map[string]any{"id": "y", "title": "owner"})
	n := newNote(t, env, map[string]any{"id": "x", "title": "hello", "tags": []any{"a", "b"}})
	require.NoError(t, n.Set("owner", owner))
	_, err := owner.Save(ctx)
	require.NoError(t, err)
	_, err = n.Save(ctx)
	require.NoError(t, err)

	got, err := GetInstanceByID(ctx, env, noteClass, "x")
	require.NoError(t, err)
	assert.Same(t, n, got, "registered models are reused")

	fresh := newEnv(t, store)
	got, err = GetInstanceByID(ctx, fresh, noteClass, "x")
	require.NoError(t, err)
	require.NotNil(t, got)
	loaded := got.(*note)
	assert.Equal(t, "x", loaded.ID())
	assert.Equal(t, "hello", loaded.Get("title"))
	assert.Equal(t, []any{"a", "b"}, field.Plain(loaded.Get("tags")))

	ref, ok := loaded.Get("owner").(*note)
	require.True(t, ok, "references resolve to models")
	assert.Equal(t, "owner", ref.Get("title"))

	registered, ok := fresh.Models.GetModelByID("x", "Note")
	require.True(t, ok)
	assert.Same(t, loaded, registered)

	before := fresh.Models.Len()
	missing, err := GetInstanceByID(ctx, fresh, noteClass, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, before, fresh.Models.Len())
}

func TestGetInstanceByID_SelfReference(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	n := newNote(t, newEnv(t, store), map[string]any{"id": "x"})
	require.NoError(t, n.Set("owner", n))
	_, err := n.Save(ctx)
	require.NoError(t, err)

	got, err := GetInstanceByID(ctx, newEnv(t, store), noteClass, "x")
	require.NoError(t, err)
	assert.Same(t, got, got.(*note).Get("owner"))
}

func TestServerModel_Save(t *testing.T) {
	ctx := context.Background()
	env := decorator.NewEnv()
	class := decorator.BaseConstructor(decorator.Define("Session", ServerModelClass,
		decorator.Field("token", "", decorator.Attribute(field.TypeOf[string]())),
		decorator.Field("nonce", nil, decorator.Attribute(nil, field.AttributeParams{
			PropertyParams: field.PropertyParams{StoreTemporary: time.Minute},
		})),
	))
	s := NewServerModel(env, class, nil)
	require.NoError(t, s.InvokeLifeCycle(map[string]any{"id": "s1", "token": "abc", "nonce": "n"}))
	defer s.Dispose()

	changes, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Len(t, changes, 3)

	doc, err := env.Databases.Database("default").Collection("Session").Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "s1", "token": "abc"}, doc, "temporary attributes are not persisted")
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		ref   string
		class string
		id    string
		ok    bool
	}{
		{ref: "_reference:Note:x", class: "Note", id: "x", ok: true},
		{ref: "_reference:Note:a:b", class: "Note", id: "a:b", ok: true},
		{ref: "_reference:Note", class: "Note"},
		{ref: "Note:x"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			class, id, ok := ParseReference(tt.ref)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.class, class)
				assert.Equal(t, tt.id, id)
			}
			assert.Equal(t, tt.ref != "Note:x", IsReferenceString(tt.ref))
		})
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
