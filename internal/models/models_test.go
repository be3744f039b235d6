package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/model"
	"github.com/conduit-lang/bdo/internal/storage"
)

func newEnv(t *testing.T, store storage.Store, opts ...decorator.Option) *decorator.Env {
	opts = append(opts, decorator.WithDatabases(storage.NewManager(store)))
	env := decorator.NewEnv(opts...)
	require.NoError(t, Register(env))
	return env
}

func TestRegister(t *testing.T) {
	env := newEnv(t, storage.NewMemoryStore())

	for _, name := range []string{"BDOTest", "Test1", "Artifact", "TestComponent"} {
		_, ok := env.Class(name)
		assert.True(t, ok, name)
	}
	assert.Equal(t, []string{"test-component"}, env.Elements.(*decorator.Elements).Tags())

	_, ok := env.Schemas.Get("Test1Type")
	assert.True(t, ok)

	_, err := env.New("BDOTest", nil)
	assert.ErrorIs(t, err, decorator.ErrUnknownClass, "abstract classes have no factory")
}

func TestTest1_Defaults(t *testing.T) {
	env := newEnv(t, storage.NewMemoryStore())
	m, err := NewTest1(env, nil)
	require.NoError(t, err)

	assert.Equal(t, "test", m.Title())
	assert.True(t, m.IsPending())
	assert.Equal(t, 0, m.Tester().Len())
	assert.Equal(t, "Test1", m.Class().Collection())
	assert.True(t, m.Class().Is(BDOTestClass))
}

func TestTest1_TesterReactions(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	env := newEnv(t, storage.NewMemoryStore(), decorator.WithLogger(zap.New(core)))

	m, err := NewTest1(env, map[string]any{"id": "t1"})
	require.NoError(t, err)
	m.Tester().Push("a", "b")
	m.Tester().Pop()
	require.NoError(t, m.Set("tester", []any{"c"}))

	assert.Equal(t, 1, logs.FilterMessage("tester init").Len())
	assert.Equal(t, 2, logs.FilterMessage("tester added").Len())
	assert.Equal(t, 1, logs.FilterMessage("tester removed").Len())
	assert.Equal(t, 1, logs.FilterMessage("tester changed").Len())
	assert.Equal(t, "_reference:Test1:t1", logs.FilterMessage("tester init").All()[0].ContextMap()["model"])
}

func TestArtifact_CreatorRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	env := newEnv(t, store)

	creator, err := NewTest1(env, map[string]any{"id": "c1", "title": "maker"})
	require.NoError(t, err)
	creator.Tester().Push("x")
	_, err = creator.Save(ctx)
	require.NoError(t, err)

	artifact, err := NewArtifact(env, map[string]any{"id": "a1", "name": "tool", "creator": creator})
	require.NoError(t, err)
	assert.Same(t, creator, artifact.Creator())
	_, err = artifact.Save(ctx)
	require.NoError(t, err)

	doc, err := store.Get(ctx, "default:Artifact:a1")
	require.NoError(t, err)
	assert.Equal(t, "_reference:Test1:c1", doc["creator"])

	fresh := newEnv(t, store)
	loaded, err := model.GetInstanceByID(ctx, fresh, ArtifactClass, "a1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	a := loaded.(*Artifact)
	assert.Equal(t, "tool", a.Get("name"))
	c, ok := a.Creator().(*Test1)
	require.True(t, ok)
	assert.Equal(t, "maker", c.Title())
	assert.Equal(t, []any{"x"}, c.Tester().Values())
}

func TestTestComponent(t *testing.T) {
	env := newEnv(t, storage.NewMemoryStore())
	c, err := NewTestComponent(env, nil)
	require.NoError(t, err)

	assert.Equal(t, "lalala", c.Get("test"))
	assert.Equal(t, "TestComponent_0", c.ID())
	assert.True(t, c.IsComponent())

	v, err := env.New("TestComponent", map[string]any{"test": "other"})
	require.NoError(t, err)
	assert.Equal(t, "other", v.(*TestComponent).Get("test"))
	assert.Equal(t, "TestComponent_1", v.(*TestComponent).ID())
}
