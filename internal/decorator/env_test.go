package decorator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/bdo/internal/field"
	"github.com/conduit-lang/bdo/internal/schema"
)

func TestEnv_RegisterModelSchema(t *testing.T) {
	env := NewEnv()
	base := Define("Record", nil,
		Field("id", nil, Watched(), Attribute(field.TypeOf[string]())),
	).With(TraitModel)
	note := BaseConstructor(Define("Note", base,
		Field("tags", nil, Attribute(field.TypeOf[[]string](), field.AttributeParams{
			PropertyParams: field.PropertyParams{Nullable: true},
			Description:    "free labels",
		})),
		Field("draft", false, Property()),
	), "NoteType")

	require.NoError(t, env.Register(note))
	require.NoError(t, env.Register(note), "registering twice has no effect")

	_, ok := env.Schemas.Get("Record")
	assert.True(t, ok, "ancestors are registered too")

	typ, ok := env.Schemas.Get("NoteType")
	require.True(t, ok)
	assert.Equal(t, []schema.Field{
		{Name: "id", Type: schema.TypeID},
		{Name: "tags", Type: schema.TypeString, List: true, Nullable: true, Description: "free labels"},
	}, typ.Fields)

	c, ok := env.Class("Note")
	assert.True(t, ok)
	assert.Same(t, note, c)
}

func TestEnv_RegisterComponents(t *testing.T) {
	env := NewEnv()
	component := BaseConstructor(Define("TestComponent", nil).With(TraitComponent))
	require.NoError(t, env.Register(component))

	c, ok := env.Elements.Get("test-component")
	require.True(t, ok)
	assert.Same(t, component, c)

	clash := BaseConstructor(Define("TestComponent", nil).With(TraitComponent))
	err := env.Register(clash)
	assert.ErrorIs(t, err, ErrDuplicateElement)

	abstract := BaseConstructor(Define("AbstractComponent", nil).With(TraitComponent), Options{IsAbstract: true})
	require.NoError(t, env.Register(abstract))
	_, ok = env.Elements.Get("abstract-component")
	assert.False(t, ok, "abstract components are not defined")

	assert.Equal(t, []string{"test-component"}, env.Elements.(*Elements).Tags())
}

func TestEnv_ProvideAndNew(t *testing.T) {
	env := NewEnv()
	class := widgetClass()
	require.NoError(t, env.Provide(class, func(env *Env, params map[string]any) (any, error) {
		w := newWidget(env, class)
		return w, w.InvokeLifeCycle(params)
	}))

	v, err := env.New("Widget", map[string]any{"title": "made"})
	require.NoError(t, err)
	w, ok := v.(*widget)
	require.True(t, ok)
	assert.Equal(t, "made", w.Get("title"))

	_, err = env.New("Nope", nil)
	assert.ErrorIs(t, err, ErrUnknownClass)

	assert.True(t, env.Provided("Widget"))
	assert.False(t, env.Provided("Nope"))
	require.Len(t, env.Classes(), 1)
	assert.Same(t, class, env.Classes()[0])
}
