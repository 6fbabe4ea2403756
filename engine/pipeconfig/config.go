package pipeconfig

import (
	"fmt"
	"maps"
	"slices"

	"github.com/compozy/pipebase/engine/connection"
	"github.com/compozy/pipebase/engine/core"
	"github.com/compozy/pipebase/engine/field"
)

// Config is one task configuration. It satisfies connection.BoundConfig.
type Config struct {
	*field.Config
	class *Class
}

var _ connection.BoundConfig = (*Config)(nil)

func (c *Config) Class() *Class {
	return c.class
}

func (c *Config) ConnectionsClass() *connection.Class {
	if c == nil || c.class == nil {
		return nil
	}
	return c.class.conns
}

// Connections returns the connections sub-configuration.
func (c *Config) Connections() (*field.Config, error) {
	return c.sub(FieldConnections)
}

// Resources returns the resources sub-configuration.
func (c *Config) Resources() (*field.Config, error) {
	return c.sub(FieldResources)
}

func (c *Config) sub(name string) (*field.Config, error) {
	if c == nil || c.Config == nil {
		return nil, core.NewValidationErrorf("task configuration was not created by a config class")
	}
	return c.Sub(name)
}

// ConnectionName returns connections.<key> as a string.
func (c *Config) ConnectionName(key string) (string, error) {
	conns, err := c.Connections()
	if err != nil {
		return "", err
	}
	v, err := conns.Get(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("connections.%s holds %T, not a string", key, v)
	}
	return s, nil
}

// HasTemplates reports whether the connections class declares default templates.
func (c *Config) HasTemplates() bool {
	return c.class != nil && c.class.conns.HasTemplates()
}

// FormatTemplateNames writes each template value into connections.<key>. Every key must be
// a declared template key.
func (c *Config) FormatTemplateNames(names map[string]string) error {
	if !c.HasTemplates() {
		return core.NewValidationErrorf("connections of this configuration declare no name templates")
	}
	templates := c.class.conns.DefaultTemplates()
	for _, key := range slices.Sorted(maps.Keys(names)) {
		if _, ok := templates[key]; !ok {
			return core.NewValidationErrorf("%s has no name template %q", c.class.conns.Name(), key)
		}
	}
	conns, err := c.Connections()
	if err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(names)) {
		if err := conns.Set(key, names[key]); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns an independent configuration bound to the same class.
func (c *Config) Copy() *Config {
	return &Config{Config: c.Config.Copy(), class: c.class}
}

// NewConnections resolves the connections class against c.
func (c *Config) NewConnections() (*connection.Connections, error) {
	cls := c.ConnectionsClass()
	if cls == nil {
		return nil, core.NewValidationErrorf("configuration is not bound to a connections class")
	}
	return cls.NewConnections(c)
}
