package decorator

import (
	"github.com/conduit-lang/bdo/internal/meta"
	strutil "github.com/conduit-lang/bdo/internal/util/strings"
)

// Trait marks the role of a class. Traits are inherited.
type Trait uint8

// Class traits
const (
	TraitModel Trait = 1 << iota
	TraitController
	TraitComponent
)

// Declaration declares one field of a class.
type Declaration struct {
	Name       string
	Default    any
	Decorators []Decorator
}

// Field declares a field with a default value. A default of type func() any
// is called once per instance, so mutable defaults are not shared.
func Field(name string, def any, decorators ...Decorator) Declaration {
	return Declaration{Name: name, Default: def, Decorators: decorators}
}

// DefaultValue returns the default of a new instance.
func (d Declaration) DefaultValue() any {
	if fn, ok := d.Default.(func() any); ok {
		return fn()
	}
	return d.Default
}

// Has reports whether the declaration carries a decorator of kind k.
func (d Declaration) Has(k Kind) bool {
	_, ok := d.Decorator(k)
	return ok
}

// Decorator returns the first decorator of kind k.
func (d Declaration) Decorator(k Kind) (Decorator, bool) {
	for _, dec := range d.Decorators {
		if dec.kind == k {
			return dec, true
		}
	}
	return Decorator{}, false
}

// Options configures BaseConstructor.
type Options struct {
	// CollectionName names the collection models of the class are saved in.
	CollectionName string
	DatabaseName   string
	// IsAbstract leaves the class without construction lifecycle.
	IsAbstract  bool
	Description string
}

// Class is the field table of a decorated type. Subclasses inherit the
// declarations of their parent, in the parent's order, followed by their own.
type Class struct {
	meta   *meta.ClassMeta
	parent *Class
	decls  []Declaration
	index  map[string]int
	traits Trait

	constructed bool
	abstract    bool
	paramIndex  int
	schemaName  string
	description string
}

// Define declares a class. Redeclaring an inherited field replaces its
// default, and its decorators when new ones are given, at the inherited
// position.
func Define(name string, parent *Class, decls ...Declaration) *Class {
	if name == "" {
		panic("decorator: class name is required")
	}
	c := &Class{
		meta:  &meta.ClassMeta{Name: name},
		index: make(map[string]int),
	}
	if parent != nil {
		c.parent = parent
		c.meta.Parent = parent.meta
		c.traits = parent.traits
		for _, d := range parent.decls {
			c.declare(d)
		}
	}
	for _, d := range decls {
		c.declare(d)
	}
	return c
}

func (c *Class) declare(d Declaration) {
	i, ok := c.index[d.Name]
	if !ok {
		c.index[d.Name] = len(c.decls)
		c.decls = append(c.decls, d)
		return
	}
	if len(d.Decorators) == 0 {
		d.Decorators = c.decls[i].Decorators
	}
	c.decls[i] = d
}

// With adds traits to the class.
func (c *Class) With(traits ...Trait) *Class {
	for _, t := range traits {
		c.traits |= t
	}
	return c
}

// Has reports whether the class carries trait t.
func (c *Class) Has(t Trait) bool { return c.traits&t != 0 }

// Name returns the class name.
func (c *Class) Name() string { return c.meta.Name }

// Parent returns the parent class, or nil.
func (c *Class) Parent() *Class { return c.parent }

// Meta returns the class-level metadata.
func (c *Class) Meta() *meta.ClassMeta { return c.meta }

// Collection returns the collection name, defaulting to the class name.
func (c *Class) Collection() string {
	if name := c.meta.Collection(); name != "" {
		return name
	}
	return c.Name()
}

// Database returns the database name.
func (c *Class) Database() string { return c.meta.Database() }

// SchemaName returns the name of the published object type.
func (c *Class) SchemaName() string {
	if c.schemaName != "" {
		return c.schemaName
	}
	return c.Name()
}

// Description returns the description given to BaseConstructor.
func (c *Class) Description() string { return c.description }

// TagName returns the custom element tag of the class.
func (c *Class) TagName() string { return strutil.ToKebabCase(c.Name()) }

// Declarations returns all declarations in order.
func (c *Class) Declarations() []Declaration {
	return append([]Declaration{}, c.decls...)
}

// Declaration returns the declaration of name.
func (c *Class) Declaration(name string) (Declaration, bool) {
	i, ok := c.index[name]
	if !ok {
		return Declaration{}, false
	}
	return c.decls[i], true
}

// Names returns the declared field names in order.
func (c *Class) Names() []string {
	names := make([]string, len(c.decls))
	for i, d := range c.decls {
		names[i] = d.Name
	}
	return names
}

// Is reports whether c is other or derives from it.
func (c *Class) Is(other *Class) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Lineage returns the class names from the root ancestor down to c.
func (c *Class) Lineage() []string { return c.meta.Lineage() }

// Abstract reports whether BaseConstructor marked the class abstract.
func (c *Class) Abstract() bool { return c.abstract }

// Constructed reports whether the class, or an ancestor, carries the
// construction lifecycle.
func (c *Class) Constructed() bool { return c.constructor() != nil }

// ParamIndex returns the argument position of the construction parameters.
func (c *Class) ParamIndex() int {
	if ctor := c.constructor(); ctor != nil {
		return ctor.paramIndex
	}
	return 0
}

func (c *Class) constructor() *Class {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.constructed {
			return cur
		}
	}
	return nil
}

// BaseConstructor gives c the construction lifecycle and returns it.
//
// args are resolved by position as (name, options, index). A string first
// argument names the published object type. An Options first argument takes
// the place of the second one. A non-zero int in the first position overrides
// the index, and a non-zero int in the second position overrides both.
//
// Model classes record their collection and database names. An abstract
// class is returned without lifecycle.
func BaseConstructor(c *Class, args ...any) *Class {
	arg := func(i int) any {
		if i < len(args) {
			return args[i]
		}
		return nil
	}

	var (
		name   string
		index  int
		second = arg(1)
	)
	if v, ok := arg(2).(int); ok {
		index = v
	}
	switch v := arg(0).(type) {
	case string:
		name = v
	case int:
		if v != 0 {
			index = v
		}
	case Options, *Options:
		second = v
	}
	if v, ok := second.(int); ok && v != 0 {
		index = v
	}

	var opts *Options
	switch v := second.(type) {
	case Options:
		opts = &v
	case *Options:
		if v != nil {
			o := *v
			opts = &o
		}
	}

	if c.Has(TraitModel) {
		c.schemaName = name
		if opts != nil {
			if opts.CollectionName != "" {
				c.meta.CollectionName = opts.CollectionName
			}
			if opts.DatabaseName != "" {
				c.meta.DatabaseName = opts.DatabaseName
			}
			c.description = opts.Description
		}
	}
	if opts != nil && opts.IsAbstract {
		c.abstract = true
		return c
	}
	c.constructed = true
	c.paramIndex = index
	return c
}
