package connection

import (
	"maps"
	"slices"
	"strings"

	"github.com/compozy/pipebase/engine/core"
	"github.com/compozy/pipebase/pkg/logger"
)

// Builder collects the declarations of a connections class. Build validates them once and
// returns the immutable Class.
type Builder struct {
	name              string
	dimensions        []string
	dimsDeclared      bool
	templates         map[string]string
	templatesDeclared bool
	registry          *Registry
}

func NewBuilder(name string) *Builder {
	return &Builder{name: name, registry: NewRegistry()}
}

// Dimensions declares the quantum dimensions of the task. Declaring none is allowed.
func (b *Builder) Dimensions(dims ...string) *Builder {
	b.dimsDeclared = true
	b.dimensions = append(b.dimensions, dims...)
	return b
}

// DefaultTemplates declares the default value of every placeholder used in connection names.
func (b *Builder) DefaultTemplates(templates map[string]string) *Builder {
	b.templatesDeclared = true
	if b.templates == nil {
		b.templates = make(map[string]string, len(templates))
	}
	maps.Copy(b.templates, templates)
	return b
}

func (b *Builder) Add(attr string, c *Connection) *Builder {
	b.registry.Add(attr, c)
	return b
}

func (b *Builder) Build() (*Class, error) {
	if problems := b.registry.Problems(); len(problems) > 0 {
		return nil, core.NewDefinitionError(b.name, strings.Join(problems, "; "))
	}
	dims, err := b.buildDimensions()
	if err != nil {
		return nil, err
	}
	if err := b.checkInitDimensions(); err != nil {
		return nil, err
	}
	placeholders, err := b.collectPlaceholders()
	if err != nil {
		return nil, err
	}
	if err := b.checkTemplates(placeholders); err != nil {
		return nil, err
	}
	cls := &Class{
		name:         b.name,
		dimensions:   dims,
		order:        slices.Clone(b.registry.order),
		conns:        maps.Clone(b.registry.conns),
		roles:        make(map[Role][]string, len(b.registry.roles)),
		templates:    maps.Clone(b.templates),
		placeholders: placeholders,
		built:        true,
	}
	for role, attrs := range b.registry.roles {
		cls.roles[role] = slices.Clone(attrs)
	}
	logger.GetDefault().Debug(
		"Connections class built",
		"class", b.name,
		"connections", len(cls.order),
		"templates", len(cls.templates),
	)
	return cls, nil
}

func (b *Builder) buildDimensions() ([]string, error) {
	if !b.dimsDeclared {
		return nil, core.NewDefinitionError(b.name, "dimensions must be declared")
	}
	for _, d := range b.dimensions {
		if strings.TrimSpace(d) == "" {
			return nil, core.NewDefinitionError(b.name, "dimension names must not be empty")
		}
	}
	dims := slices.Clone(b.dimensions)
	slices.Sort(dims)
	return slices.Compact(dims), nil
}

func (b *Builder) checkInitDimensions() error {
	for _, attr := range b.registry.order {
		c := b.registry.conns[attr]
		if c.role.IsInit() && len(c.dimensions) > 0 {
			return core.NewDefinitionErrorf(b.name, "%s connection %s must not declare dimensions", c.role, attr)
		}
	}
	return nil
}

func (b *Builder) collectPlaceholders() ([]string, error) {
	var all []string
	for _, attr := range b.registry.order {
		t, err := parseTemplate(b.registry.conns[attr].name)
		if err != nil {
			return nil, &core.DefinitionError{Subject: b.name, Reason: "connection " + attr + ": " + err.Error(), Err: err}
		}
		all = append(all, t.Placeholders()...)
	}
	slices.Sort(all)
	return slices.Compact(all), nil
}

func (b *Builder) checkTemplates(placeholders []string) error {
	if len(placeholders) > 0 && !b.templatesDeclared {
		return core.NewDefinitionErrorf(
			b.name,
			"connection names use placeholders %s but no default templates are declared",
			strings.Join(placeholders, ", "),
		)
	}
	var missing []string
	for _, p := range placeholders {
		if _, ok := b.templates[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return core.NewDefinitionErrorf(b.name, "default templates are missing keys: %s", strings.Join(missing, ", "))
	}
	keys := slices.Sorted(maps.Keys(b.templates))
	keys = append(keys, placeholders...)
	slices.Sort(keys)
	var collisions []string
	for _, k := range slices.Compact(keys) {
		if _, ok := b.registry.conns[k]; ok {
			collisions = append(collisions, k)
		}
	}
	if len(collisions) > 0 {
		return core.NewDefinitionErrorf(
			b.name,
			"template keys collide with connection attributes: %s",
			strings.Join(collisions, ", "),
		)
	}
	return nil
}

// Class is a validated connections declaration shared by every task instance of one type.
type Class struct {
	name         string
	dimensions   []string
	order        []string
	conns        map[string]*Connection
	roles        map[Role][]string
	templates    map[string]string
	placeholders []string
	built        bool
}

func (c *Class) Name() string {
	return c.name
}

// Built reports whether c was produced by Builder.Build.
func (c *Class) Built() bool {
	return c != nil && c.built
}

func (c *Class) Dimensions() []string {
	return slices.Clone(c.dimensions)
}

// AllConnections returns the attribute names in declaration order.
func (c *Class) AllConnections() []string {
	return slices.Clone(c.order)
}

// Connection returns the declared descriptor of attr.
func (c *Class) Connection(attr string) (*Connection, bool) {
	conn, ok := c.conns[attr]
	return conn, ok
}

func (c *Class) Inputs() []string {
	return slices.Clone(c.roles[RoleInput])
}

func (c *Class) AuxiliaryInputs() []string {
	return slices.Clone(c.roles[RoleAuxiliaryInput])
}

func (c *Class) Outputs() []string {
	return slices.Clone(c.roles[RoleOutput])
}

func (c *Class) InitInputs() []string {
	return slices.Clone(c.roles[RoleInitInput])
}

func (c *Class) InitOutputs() []string {
	return slices.Clone(c.roles[RoleInitOutput])
}

func (c *Class) DefaultTemplates() map[string]string {
	return maps.Clone(c.templates)
}

// TemplateKeys returns the default template keys, sorted.
func (c *Class) TemplateKeys() []string {
	return slices.Sorted(maps.Keys(c.templates))
}

func (c *Class) HasTemplates() bool {
	return len(c.templates) > 0
}

// Placeholders returns every placeholder used by a connection name, sorted.
func (c *Class) Placeholders() []string {
	return slices.Clone(c.placeholders)
}
