// Package controller provides BaseController, the base of controllers and
// components. Every controller gets a registry id of the form
// "<ClassName>_<n>", owns named sub-controllers and forwards its lifecycle
// callbacks to them.
package controller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/decorator"
	"github.com/conduit-lang/bdo/internal/field"
	"github.com/conduit-lang/bdo/internal/registry"
)

// BaseControllerClass is the root of controller and component classes.
var BaseControllerClass = decorator.Define("BaseController", nil,
	decorator.Field("className", nil, decorator.Property(field.PropertyParams{Type: field.TypeOf[string]()})),
	decorator.Field("isBaseController", true, decorator.Property(field.PropertyParams{Type: field.TypeOf[bool]()})),
	decorator.Field("owner", nil, decorator.Property(field.PropertyParams{Nullable: true})),
	decorator.Field("id", "", decorator.Watched(), decorator.Attribute(field.TypeOf[string]())),
).With(decorator.TraitController)

// Controller is a live controller or component.
type Controller interface {
	registry.Controller
	Base() *BaseController
	ConnectedCallback()
	DisconnectedCallback()
	AdoptedCallback()
	Remove()
}

// BaseController is embedded by concrete controllers.
type BaseController struct {
	*decorator.Object

	controllers map[string]Controller
	names       []string
	listeners   map[string][]*Listener
}

// NewBaseController allocates a controller of class and registers it. self
// is the concrete value embedding the controller, nil for the controller
// itself.
func NewBaseController(env *decorator.Env, class *decorator.Class, self any) *BaseController {
	c := &BaseController{
		controllers: make(map[string]Controller),
		listeners:   make(map[string][]*Listener),
	}
	if self == nil {
		self = c
	}
	c.Object = decorator.NewObject(env, class, self)
	_ = c.Set("className", class.Name())
	id := ""
	if rc, ok := self.(registry.Controller); ok {
		env.Controllers.Add(class.Name(), rc)
		id = env.Controllers.Reserve(class.Name(), rc)
	} else {
		id = env.Controllers.NextID(class.Name())
	}
	_ = c.Set("id", id)
	return c
}

// Base returns the controller itself.
func (c *BaseController) Base() *BaseController { return c }

// ID returns the registry id
func (c *BaseController) ID() string {
	id, _ := c.Get("id").(string)
	return id
}

// Owner returns the controller that added this one, nil for components.
func (c *BaseController) Owner() Controller {
	owner, _ := c.Get("owner").(Controller)
	return owner
}

// IsComponent reports whether the controller is a component.
func (c *BaseController) IsComponent() bool {
	return c.Class().Has(decorator.TraitComponent)
}

// OnIdInit maps the first id in the registry.
func (c *BaseController) OnIdInit() {
	c.OnIdChange("")
}

// OnIdChange maps the new id in the registry.
func (c *BaseController) OnIdChange(old any) {
	oldID, _ := old.(string)
	if oldID == "" {
		if rc, ok := c.Self().(registry.Controller); ok {
			c.Env().Controllers.SetID(c.ID(), rc)
		}
		return
	}
	c.Env().Controllers.UpdateID(oldID, c.ID())
}

// Controllers returns the sub-controllers by name.
func (c *BaseController) Controllers() map[string]Controller {
	out := make(map[string]Controller, len(c.controllers))
	for name, ch := range c.controllers {
		out[name] = ch
	}
	return out
}

// Controller returns the named sub-controller.
func (c *BaseController) Controller(name string) (Controller, bool) {
	ch, ok := c.controllers[name]
	return ch, ok
}

// AddController constructs a controller of className through the factory
// of the environment and keeps it under name. The new controller is owned by
// this one.
func (c *BaseController) AddController(name, className string, params map[string]any) (Controller, error) {
	if _, exists := c.controllers[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateController, name)
	}
	merged := make(map[string]any, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["owner"] = c.Self()

	v, err := c.Env().New(className, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to add controller %q: %w", name, err)
	}
	ch, ok := v.(Controller)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotController, className)
	}
	c.controllers[name] = ch
	c.names = append(c.names, name)
	return ch, nil
}

// RemoveController removes the named sub-controller.
func (c *BaseController) RemoveController(name string) error {
	ch, ok := c.controllers[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownController, name)
	}
	ch.Remove()
	delete(c.controllers, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	return nil
}

// ConnectedCallback runs when the component or owner is attached.
func (c *BaseController) ConnectedCallback() {
	c.each(Controller.ConnectedCallback)
}

// DisconnectedCallback runs when the component or owner is detached.
func (c *BaseController) DisconnectedCallback() {
	c.each(Controller.DisconnectedCallback)
}

// AdoptedCallback runs when the component or owner moves to another
// document.
func (c *BaseController) AdoptedCallback() {
	c.each(Controller.AdoptedCallback)
}

// Remove removes every event listener, removes the sub-controllers and
// releases the controller's id.
func (c *BaseController) Remove() {
	for name, list := range c.listeners {
		for _, l := range append([]*Listener{}, list...) {
			c.RemoveEventListener(name, l)
		}
	}
	c.each(Controller.Remove)
	if rc, ok := c.Self().(registry.Controller); ok {
		c.Env().Controllers.Remove(rc)
	}
	c.Dispose()
	c.Env().Logger.Debug("removed controller",
		zap.String("class", c.ClassName()),
		zap.String("id", c.ID()),
	)
}

func (c *BaseController) each(fn func(Controller)) {
	for _, name := range append([]string{}, c.names...) {
		if ch, ok := c.controllers[name]; ok {
			fn(ch)
		}
	}
}

// GetNamespacedStorage reads key from the controller's namespace.
func (c *BaseController) GetNamespacedStorage(key, nsProp, forceNS string) any {
	return c.ReadNamespaced(key, nsProp, forceNS)
}

// SetUpdateNamespacedStorage writes key into the controller's namespace.
func (c *BaseController) SetUpdateNamespacedStorage(key string, value any, nsProp string) {
	c.WriteNamespaced(key, value, nsProp)
}

// DeleteFromNamespacedStorage deletes key, or the whole namespace for "*".
func (c *BaseController) DeleteFromNamespacedStorage(key, nsProp string) error {
	return c.DeleteNamespaced(key, nsProp)
}
