package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributor_AddFieldIdempotent(t *testing.T) {
	h := newTestHost("Thing")
	f, _ := h.Field("title")
	d := NewDistributor()

	d.AddField(f)
	d.AddField(f)
	assert.Len(t, d.Fields(), 1)
	assert.True(t, d.Has(f))
}

func TestDistributor_SharedValue(t *testing.T) {
	a, b := newTestHost("A"), newTestHost("B")
	wa := a.add(NewWatched(a, "title", WatchedParams{}))
	wb := b.add(NewWatched(b, "title", WatchedParams{}))

	d := NewDistributor()
	d.AddField(wa)
	d.AddField(wb)
	assert.True(t, d.DisableTypeGuard(), "bare watched members carry no type")

	d.SetValue("x")
	assert.Equal(t, "x", wa.ValueOf())
	assert.Equal(t, "x", wb.ValueOf())
	assert.Equal(t, []string{"onTitleInit:x"}, a.calls)
	assert.Equal(t, []string{"onTitleInit:x"}, b.calls)

	d.SetValue("y")
	assert.Equal(t, []string{"onTitleInit:x", "onTitleChange:x"}, b.calls)

	d.RemoveField(wb)
	assert.False(t, d.Has(wb))
	assert.Equal(t, "y", wb.ValueOf())
	d.SetValue("z")
	assert.Equal(t, "z", wa.ValueOf())
	assert.Equal(t, "y", wb.ValueOf())
}

func TestDistributor_ModelSeedsAndGuards(t *testing.T) {
	model := newTestHost("Model")
	model.model = true
	view := newTestHost("View")

	mf := model.add(NewProperty(model, "title", PropertyParams{Type: TypeOf[string]()}))
	mf.SetValue("seed")
	vf := view.add(NewProperty(view, "title", PropertyParams{Type: TypeOf[string]()}))

	d := NewDistributor()
	d.AddField(mf)
	assert.Equal(t, "seed", d.ValueOf())
	assert.False(t, d.DisableTypeGuard())
	assert.True(t, mf.DisableTypeGuard(), "the model field hands its guard over")

	d.AddField(vf)
	assert.Equal(t, "seed", vf.ValueOf())

	d.SetValue(7)
	assert.Equal(t, "seed", mf.ValueOf())
	assert.Len(t, model.failures, 1, "the model member follows the distributor's verdict")
	assert.Len(t, view.failures, 1, "the view member judges with its own guard")

	d.RemoveField(mf)
	assert.False(t, mf.DisableTypeGuard())
}

func TestDistributor_RestoresDeclaredGuard(t *testing.T) {
	model := newTestHost("Model")
	model.model = true
	model.st.DefinedAttributes.Add("title", AttributeParams{PropertyParams: PropertyParams{DisableTypeGuard: true}})
	mf := model.add(NewAttribute(model, "title", AttributeParams{PropertyParams: PropertyParams{Type: TypeOf[string]()}}))

	d := NewDistributor()
	d.AddField(mf)
	d.RemoveField(mf)
	assert.True(t, mf.DisableTypeGuard())
}

func TestDistributor_ListMutationsReachAllMembers(t *testing.T) {
	a, b := newTestHost("A"), newTestHost("B")
	wa := a.add(NewWatched(a, "items", WatchedParams{}))
	wb := b.add(NewWatched(b, "items", WatchedParams{}))
	d := NewDistributor()
	d.AddField(wa)
	d.AddField(wb)

	list := NewList()
	d.SetValue(list)
	list.Observe(d.ProxyHandler)
	a.calls, b.calls = nil, nil

	list.Push("n")
	assert.Equal(t, []string{"onItemsAdd:n"}, a.calls)
	assert.Equal(t, []string{"onItemsAdd:n"}, b.calls)
}

func TestDistributor_EmptySetValue(t *testing.T) {
	d := NewDistributor()
	d.SetValue("x")
	assert.Equal(t, "x", d.ValueOf())
	require.Empty(t, d.Fields())
}
