// Package models holds the sample models and components shipped with bdo.
// The CLI registers them to demonstrate saving, hydration and schema export.
package models

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/controller"
	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/field"
	"github.com/conduit-lang/bdo/internal/model"
)

// BDOTestClass is the abstract base of the test models.
var BDOTestClass = decorator.BaseConstructor(decorator.Define("BDOTest", model.ClientModelClass,
	decorator.Field("title", "test", decorator.Attribute(field.TypeOf[string]())),
	decorator.Field("tester", func() any { return []any{} }, decorator.Watched(), decorator.Attribute(nil,
		field.AttributeParams{Description: "free form test values"},
	)),
), decorator.Options{IsAbstract: true, CollectionName: "BDOTest"})

// Test1Class is the concrete test model.
var Test1Class = decorator.BaseConstructor(decorator.Define("Test1", BDOTestClass),
	"Test1Type", decorator.Options{CollectionName: "Test1", Description: "A test model"})

// ArtifactClass is a model created by another model.
var ArtifactClass = decorator.BaseConstructor(decorator.Define("Artifact", model.ClientModelClass,
	decorator.Field("name", "", decorator.Attribute(field.TypeOf[string]())),
	decorator.Field("creator", nil, decorator.Attribute(nil, field.AttributeParams{
		PropertyParams: field.PropertyParams{Nullable: true},
	})),
), "ArtifactType")

// TestComponentClass is a component rendering a test string.
var TestComponentClass = decorator.BaseConstructor(decorator.Define("TestComponent", controller.BaseControllerClass,
	decorator.Field("test", "lalala", decorator.Property(field.PropertyParams{Type: field.TypeOf[string]()})),
).With(decorator.TraitComponent))

// BDOTest logs the reactions of its tester list.
type BDOTest struct {
	*model.ClientModel
}

func (b *BDOTest) logger() *zap.Logger {
	return b.Env().Logger.With(zap.String("model", b.ReferenceString()))
}

// OnTesterInit runs once tester has its initial value.
func (b *BDOTest) OnTesterInit(init any) {
	b.logger().Debug("tester init", zap.Any("value", init))
}

// OnTesterChange runs after tester was replaced.
func (b *BDOTest) OnTesterChange(old any) {
	b.logger().Debug("tester changed", zap.Any("old", old))
}

// OnTesterAdd runs for every value added to tester.
func (b *BDOTest) OnTesterAdd(added any) {
	b.logger().Debug("tester added", zap.Any("value", added))
}

// OnTesterRemove runs for every value removed from tester.
func (b *BDOTest) OnTesterRemove(removed any) {
	b.logger().Debug("tester removed", zap.Any("value", removed))
}

// Test1 is a concrete BDOTest.
type Test1 struct {
	*BDOTest
}

// NewTest1 constructs a Test1 from params.
func NewTest1(env *decorator.Env, params map[string]any) (*Test1, error) {
	t := &Test1{BDOTest: &BDOTest{}}
	t.ClientModel = model.NewClientModel(env, Test1Class, t)
	return t, t.InvokeLifeCycle(params)
}

// Title returns the title attribute.
func (t *Test1) Title() string {
	title, _ := t.Get("title").(string)
	return title
}

// Tester returns the tracked tester list.
func (t *Test1) Tester() *field.List {
	l, _ := t.Get("tester").(*field.List)
	return l
}

// Artifact records the model that created it.
type Artifact struct {
	*model.ClientModel
}

// NewArtifact constructs an Artifact from params.
func NewArtifact(env *decorator.Env, params map[string]any) (*Artifact, error) {
	a := &Artifact{}
	a.ClientModel = model.NewClientModel(env, ArtifactClass, a)
	return a, a.InvokeLifeCycle(params)
}

// Creator returns the creating model, nil when unset.
func (a *Artifact) Creator() model.Model {
	creator, _ := a.Get("creator").(model.Model)
	return creator
}

// TestComponent is a sample component.
type TestComponent struct {
	*controller.BaseController
}

// NewTestComponent constructs a TestComponent from params.
func NewTestComponent(env *decorator.Env, params map[string]any) (*TestComponent, error) {
	c := &TestComponent{}
	c.BaseController = controller.NewBaseController(env, TestComponentClass, c)
	return c, c.InvokeLifeCycle(params)
}

// Register provides the sample classes to env.
func Register(env *decorator.Env) error {
	if err := env.Provide(Test1Class, func(env *decorator.Env, params map[string]any) (any, error) {
		return NewTest1(env, params)
	}); err != nil {
		return err
	}
	if err := env.Provide(ArtifactClass, func(env *decorator.Env, params map[string]any) (any, error) {
		return NewArtifact(env, params)
	}); err != nil {
		return err
	}
	return env.Provide(TestComponentClass, func(env *decorator.Env, params map[string]any) (any, error) {
		return NewTestComponent(env, params)
	})
}
