package decorator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-lang/bdo/internal/field"
	"github.com/conduit-lang/bdo/internal/i18n"
	"github.com/conduit-lang/bdo/internal/nsstorage"
	"github.com/conduit-lang/bdo/internal/registry"
	"github.com/conduit-lang/bdo/internal/schema"
	"github.com/conduit-lang/bdo/internal/storage"
)

// Factory constructs an instance of a class from construction parameters.
type Factory func(env *Env, params map[string]any) (any, error)

// Env is the process-scoped context decorated objects are created in. It
// replaces global singletons: every registry and storage an object talks to
// is reached through its Env.
//
// The objects of an Env are used from one goroutine at a time. Field
// expirations are queued on the Env's loop and delivered on that goroutine
// the next time an object is read or written, or by RunPending.
type Env struct {
	Logger      *zap.Logger
	Clock       field.Clock
	Schemas     *schema.Registry
	Models      *registry.ModelRegistry
	Controllers *registry.ControllerRegistry
	Elements    ElementRegistry
	Translator  i18n.Translator
	// Local is the synchronous namespaced storage of objects.
	Local *nsstorage.Storage
	// Databases routes model collections to stores.
	Databases *storage.Manager

	ctx        context.Context
	loop       *field.Loop
	depth      int
	mu         sync.Mutex
	classes    map[string]*Class
	registered map[*Class]bool
	factories  map[string]Factory
}

// Option configures an Env.
type Option func(*Env)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Env) { e.Logger = logger }
}

// WithClock sets the clock driving field expirations. A clock that is not a
// *field.Loop is wrapped in one.
func WithClock(clock field.Clock) Option {
	return func(e *Env) { e.Clock = clock }
}

// WithTranslator sets the translation capability
func WithTranslator(translator i18n.Translator) Option {
	return func(e *Env) { e.Translator = translator }
}

// WithLocalStorage sets the namespaced storage
func WithLocalStorage(local *nsstorage.Storage) Option {
	return func(e *Env) { e.Local = local }
}

// WithDatabases sets the database manager
func WithDatabases(databases *storage.Manager) Option {
	return func(e *Env) { e.Databases = databases }
}

// WithElements sets the component registration capability
func WithElements(elements ElementRegistry) Option {
	return func(e *Env) { e.Elements = elements }
}

// WithContext sets the context of synchronous storage calls
func WithContext(ctx context.Context) Option {
	return func(e *Env) { e.ctx = ctx }
}

// NewEnv creates an Env. Unset collaborators default to in-memory
// implementations and a no-op logger.
func NewEnv(opts ...Option) *Env {
	e := &Env{
		classes:    make(map[string]*Class),
		registered: make(map[*Class]bool),
		factories:  make(map[string]Factory),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	loop, ok := e.Clock.(*field.Loop)
	if !ok {
		loop = field.NewLoop(e.Clock)
	}
	e.Clock, e.loop = loop, loop
	if e.Schemas == nil {
		e.Schemas = schema.NewRegistry()
	}
	if e.Models == nil {
		e.Models = registry.NewModelRegistry()
	}
	if e.Controllers == nil {
		e.Controllers = registry.NewControllerRegistry()
	}
	if e.Elements == nil {
		e.Elements = NewElements()
	}
	if e.Translator == nil {
		e.Translator = i18n.NewMemory("en")
	}
	if e.Local == nil {
		e.Local = nsstorage.New(nsstorage.NewMemoryBackend(), e.Logger)
	}
	if e.Databases == nil {
		e.Databases = storage.NewManager(storage.NewMemoryStore())
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	return e
}

// Context returns the context of synchronous storage calls.
func (e *Env) Context() context.Context { return e.ctx }

// Register publishes classes and their ancestors: model classes register
// their object type and component classes their element tag. Registering a
// class twice has no effect.
func (e *Env) Register(classes ...*Class) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range classes {
		if err := e.register(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Env) register(c *Class) error {
	if c == nil || e.registered[c] {
		return nil
	}
	if err := e.register(c.parent); err != nil {
		return err
	}
	if c.Has(TraitModel) {
		if err := e.Schemas.Register(objectType(c)); err != nil {
			return fmt.Errorf("register %s: %w", c.Name(), err)
		}
	}
	if c.Has(TraitComponent) && c.Constructed() && !c.Abstract() {
		if err := e.Elements.Define(c.TagName(), c); err != nil {
			return fmt.Errorf("register %s: %w", c.Name(), err)
		}
	}
	e.classes[c.Name()] = c
	e.registered[c] = true
	e.Logger.Debug("registered class",
		zap.String("class", c.Name()),
		zap.Strings("lineage", c.Lineage()),
	)
	return nil
}

// Class returns a registered class by name.
func (e *Env) Class(name string) (*Class, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.classes[name]
	return c, ok
}

// Classes returns the registered classes sorted by name.
func (e *Env) Classes() []*Class {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Class, 0, len(e.classes))
	for _, c := range e.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Provided reports whether a factory is registered for className.
func (e *Env) Provided(className string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.factories[className]
	return ok
}

// Provide registers the factory of class and the class itself.
func (e *Env) Provide(c *Class, f Factory) error {
	if err := e.Register(c); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.factories[c.Name()] = f
	return nil
}

// New constructs an instance of the named class through its factory.
func (e *Env) New(className string, params map[string]any) (any, error) {
	e.mu.Lock()
	f, ok := e.factories[className]
	e.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	return f(e, params)
}

// objectType describes the attributes of a model class.
func objectType(c *Class) *schema.ObjectType {
	t := &schema.ObjectType{Name: c.SchemaName(), Description: c.Description()}
	for _, d := range c.decls {
		dec, ok := d.Decorator(KindAttribute)
		if !ok {
			continue
		}
		params := dec.attribute
		var f schema.Field
		if params.Type != nil {
			f.Type, f.List = schema.GraphQLType(d.Name, params.Type())
		} else {
			f.Type, f.List = schema.GraphQLType(d.Name, nil)
		}
		f.Name = d.Name
		f.Nullable = params.Nullable
		f.Description = params.Description
		t.Fields = append(t.Fields, f)
	}
	return t
}

// Loop returns the queue delivering field expirations.
func (e *Env) Loop() *field.Loop { return e.loop }

// RunPending delivers the field expirations that became due and returns how
// many ran. It does nothing while an object of the Env is being accessed.
func (e *Env) RunPending() int {
	if e.loop == nil || e.depth > 0 {
		return 0
	}
	e.depth++
	defer e.leave()
	return e.loop.RunPending()
}

// enter marks the start of an object access. The outermost access first
// delivers due expirations.
func (e *Env) enter() func() {
	e.depth++
	if e.depth == 1 && e.loop != nil {
		e.loop.RunPending()
	}
	return e.leave
}

func (e *Env) leave() { e.depth-- }
