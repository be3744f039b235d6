package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopBinder struct{ id int }

func (nopBinder) ReflectToObject(any) {}
func (nopBinder) Uninstall()          {}

func TestDeclared_Order(t *testing.T) {
	d := NewDeclared()
	d.Add("title", 1)
	d.Add("tester", 2)
	d.Add("title", 3)

	assert.Equal(t, []string{"title", "tester"}, d.Keys())
	p, ok := d.Params("title")
	assert.True(t, ok)
	assert.Equal(t, 3, p)
	assert.Equal(t, 2, d.Len())
	assert.False(t, d.Has("missing"))
}

func TestDeclared_NilSafe(t *testing.T) {
	var d *Declared
	assert.False(t, d.Has("x"))
	assert.Nil(t, d.Keys())
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0, d.Clone().Len())
}

func TestClassMeta_Inheritance(t *testing.T) {
	root := &ClassMeta{Name: "BDOModel"}
	mid := &ClassMeta{Name: "BDOTest", CollectionName: "BDOTest", Parent: root}
	leaf := &ClassMeta{Name: "Test1", Parent: mid}

	assert.Equal(t, "BDOTest", leaf.Collection())
	assert.Equal(t, DefaultDatabaseName, leaf.Database())
	assert.Equal(t, "", root.Collection())
	assert.Equal(t, []string{"BDOModel", "BDOTest", "Test1"}, leaf.Lineage())

	leaf.DatabaseName = "games"
	assert.Equal(t, "games", leaf.Database())
}

func TestState_Bindings(t *testing.T) {
	s := NewState()
	a, b := &nopBinder{1}, &nopBinder{2}

	s.AddBinding("title", a)
	s.AddBinding("title", a)
	s.AddBinding("title", b)
	assert.Len(t, s.Bindings["title"], 2)

	s.RemoveBinding("title", a)
	assert.Len(t, s.Bindings["title"], 1)
	s.RemoveBinding("title", b)
	_, ok := s.Bindings["title"]
	assert.False(t, ok)
}

func TestState_OldSuffix(t *testing.T) {
	s := NewState()
	assert.False(t, s.HasOldStorageNsSuffix)
	s.SetOldStorageNsSuffix("")
	assert.True(t, s.HasOldStorageNsSuffix)
}
