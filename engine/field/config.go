package field

import (
	"fmt"
	"reflect"

	"github.com/compozy/pipebase/engine/core"
)

var configType = reflect.TypeFor[*Config]()

// Config holds the values of one Schema. It is not safe for concurrent mutation; workers
// take a Copy.
type Config struct {
	schema *Schema
	path   string
	values map[string]any
}

// New creates a Config with every field set to a deep copy of its default.
func New(s *Schema) *Config {
	return newConfig(s, "")
}

func newConfig(s *Schema, path string) *Config {
	c := &Config{schema: s, path: path, values: make(map[string]any, s.Len())}
	for _, def := range s.defs {
		if def.IsConfig() {
			c.values[def.Name] = newConfig(def.Schema, c.qualify(def.Name))
			continue
		}
		v, err := core.DeepCopy(def.Default)
		if err != nil {
			v = def.Default
		}
		c.values[def.Name] = v
	}
	return c
}

func (c *Config) qualify(name string) string {
	if c.path == "" {
		return name
	}
	return c.path + "." + name
}

func (c *Config) Schema() *Schema {
	return c.schema
}

// Path is the dotted location of c inside its root config, empty for the root.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Has(name string) bool {
	_, ok := c.schema.Field(name)
	return ok
}

func (c *Config) Names() []string {
	return c.schema.Names()
}

// Get returns the value of name; sub-configurations are returned as *Config.
func (c *Config) Get(name string) (any, error) {
	if _, ok := c.schema.Field(name); !ok {
		return nil, noField(c.qualify(name))
	}
	return c.values[name], nil
}

// Sub returns the nested configuration stored in name.
func (c *Config) Sub(name string) (*Config, error) {
	def, ok := c.schema.Field(name)
	if !ok {
		return nil, noField(c.qualify(name))
	}
	if !def.IsConfig() {
		return nil, fmt.Errorf("%w: %s", ErrNotConfig, c.qualify(name))
	}
	return c.values[name].(*Config), nil
}

// FieldType returns the declared type of name, *Config for sub-configurations.
func (c *Config) FieldType(name string) (reflect.Type, error) {
	def, ok := c.schema.Field(name)
	if !ok {
		return nil, noField(c.qualify(name))
	}
	if def.IsConfig() {
		return configType, nil
	}
	return def.Type, nil
}

// Set stores value in name after converting it to the field type. A sub-configuration
// accepts a *Config of the same schema (copied) or a map merged key by key.
func (c *Config) Set(name string, value any) error {
	def, ok := c.schema.Field(name)
	if !ok {
		return noField(c.qualify(name))
	}
	if def.IsConfig() {
		return c.setSub(def, value)
	}
	if value == nil {
		if !def.Optional {
			return &AssignError{Field: c.qualify(name), Expected: def.Type}
		}
		c.values[name] = nil
		return nil
	}
	v, ok := coerce(value, def.Type)
	if !ok {
		return &AssignError{Field: c.qualify(name), Value: value, Expected: def.Type}
	}
	c.values[name] = v
	return nil
}

func (c *Config) setSub(def *FieldDef, value any) error {
	sub := c.values[def.Name].(*Config)
	switch v := value.(type) {
	case *Config:
		if v == nil || v.schema != def.Schema {
			return &AssignError{Field: c.qualify(def.Name), Value: value}
		}
		cp := v.Copy()
		cp.rebase(sub.path)
		c.values[def.Name] = cp
		return nil
	case map[string]any:
		return sub.apply(v)
	default:
		return &AssignError{Field: c.qualify(def.Name), Value: value}
	}
}

func (c *Config) rebase(path string) {
	c.path = path
	for _, def := range c.schema.defs {
		if def.IsConfig() {
			c.values[def.Name].(*Config).rebase(c.qualify(def.Name))
		}
	}
}

// apply assigns every key of doc, recursing into nested mappings.
func (c *Config) apply(doc map[string]any) error {
	for _, name := range sortedKeys(doc) {
		if err := c.Set(name, doc[name]); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a deep copy that shares nothing mutable with c.
func (c *Config) Copy() *Config {
	out := &Config{schema: c.schema, path: c.path, values: make(map[string]any, len(c.values))}
	for name, v := range c.values {
		if sub, ok := v.(*Config); ok {
			out.values[name] = sub.Copy()
			continue
		}
		cp, err := core.DeepCopy(v)
		if err != nil {
			cp = v
		}
		out.values[name] = cp
	}
	return out
}

// ToMap renders c as nested maps in a form suitable for YAML or JSON encoding.
func (c *Config) ToMap() map[string]any {
	out := make(map[string]any, len(c.values))
	for name, v := range c.values {
		if sub, ok := v.(*Config); ok {
			out[name] = sub.ToMap()
			continue
		}
		cp, err := core.DeepCopy(v)
		if err != nil {
			cp = v
		}
		out[name] = cp
	}
	return out
}
