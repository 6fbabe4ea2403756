package connection

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/compozy/pipebase/engine/core"
)

var ErrUnknownConnection = errors.New("unknown connection")

// BoundConfig is a task configuration bound to a connections class. ConnectionName returns
// the value of the connections.<key> field, a connection attribute or a template key.
type BoundConfig interface {
	ConnectionsClass() *Class
	ConnectionName(key string) (string, error)
}

// Connections is the connections class resolved against one task configuration. The
// configuration is read once at construction.
type Connections struct {
	class          *Class
	config         BoundConfig
	templateValues map[string]string
	nameOverrides  map[string]string

	mu    sync.Mutex
	cache map[string]*Connection
}

// NewConnections resolves every connection name of c from cfg.
func (c *Class) NewConnections(cfg BoundConfig) (*Connections, error) {
	if !c.Built() {
		return nil, core.NewValidationErrorf("connections class was not built")
	}
	if cfg == nil {
		return nil, core.NewValidationErrorf("%s requires a configuration", c.name)
	}
	bound := cfg.ConnectionsClass()
	if bound == nil {
		return nil, core.NewValidationErrorf("configuration is not bound to a connections class")
	}
	if bound != c {
		return nil, core.NewValidationErrorf("configuration is bound to %s, not %s", bound.name, c.name)
	}
	templateValues := make(map[string]string, len(c.templates))
	for _, key := range c.TemplateKeys() {
		v, err := cfg.ConnectionName(key)
		if err != nil {
			return nil, core.NewValidationError(fmt.Sprintf("reading template %s", key), err)
		}
		templateValues[key] = v
	}
	overrides := make(map[string]string, len(c.order))
	for _, attr := range c.order {
		tmpl, err := cfg.ConnectionName(attr)
		if err != nil {
			return nil, core.NewValidationError(fmt.Sprintf("reading name of connection %s", attr), err)
		}
		name, err := formatName(tmpl, templateValues)
		if err != nil {
			return nil, core.NewValidationError(fmt.Sprintf("resolving name of connection %s", attr), err)
		}
		overrides[attr] = name
	}
	return &Connections{
		class:          c,
		config:         cfg,
		templateValues: templateValues,
		nameOverrides:  overrides,
		cache:          make(map[string]*Connection, len(c.order)),
	}, nil
}

func (c *Connections) Class() *Class {
	return c.class
}

func (c *Connections) Config() BoundConfig {
	return c.config
}

// NameOverrides maps every attribute to its resolved dataset type name.
func (c *Connections) NameOverrides() map[string]string {
	return maps.Clone(c.nameOverrides)
}

// TemplateValues returns the template values the names were resolved with.
func (c *Connections) TemplateValues() map[string]string {
	return maps.Clone(c.templateValues)
}

func (c *Connections) Name(attr string) (string, bool) {
	name, ok := c.nameOverrides[attr]
	return name, ok
}

// Resolve returns the descriptor of attr with its resolved name. Repeated calls on the same
// Connections return the same pointer.
func (c *Connections) Resolve(attr string) (*Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if conn, ok := c.cache[attr]; ok {
		return conn, nil
	}
	base, ok := c.class.conns[attr]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no connection %q", ErrUnknownConnection, c.class.name, attr)
	}
	conn := base.withName(c.nameOverrides[attr])
	c.cache[attr] = conn
	return conn, nil
}
