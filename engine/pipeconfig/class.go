// Package pipeconfig builds task configuration classes bound to a connections class. Every
// such class carries a synthesized connections sub-configuration, with one name field per
// connection and one field per template key, and a resources sub-configuration.
package pipeconfig

import (
	"fmt"

	"github.com/compozy/pipebase/engine/connection"
	"github.com/compozy/pipebase/engine/core"
	"github.com/compozy/pipebase/engine/field"
	"github.com/compozy/pipebase/engine/resource"
	"github.com/compozy/pipebase/engine/schema"
	"github.com/compozy/pipebase/pkg/logger"
)

const (
	FieldConnections = "connections"
	FieldResources   = "resources"

	templateDoc = "Template parameter used to format corresponding field template parameter"
)

type options struct {
	fields []*field.FieldDef
}

type Option func(*options)

// WithFields adds task specific fields after the connections and resources fields.
func WithFields(defs ...*field.FieldDef) Option {
	return func(o *options) {
		o.fields = append(o.fields, defs...)
	}
}

// Class is a task configuration class bound to a connections class.
type Class struct {
	name        string
	conns       *connection.Class
	schema      *field.Schema
	connsSchema *field.Schema
}

func NewClass(name string, conns *connection.Class, opts ...Option) (*Class, error) {
	if conns == nil {
		return nil, core.NewDefinitionError(name, "task config must be defined with a connections class")
	}
	if !conns.Built() {
		return nil, core.NewValidationErrorf("%s: connections class was not produced by a builder", name)
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	connsSchema, err := synthesizeConnections(conns)
	if err != nil {
		return nil, &core.DefinitionError{Subject: name, Reason: err.Error(), Err: err}
	}
	s, err := field.NewSchema(
		name,
		field.Nested(
			FieldConnections,
			connsSchema,
			"Configurations describing the connections of the PipelineTask to datatypes",
		),
		field.Nested(FieldResources, resource.Schema(), "Resource requirements of the task"),
	)
	if err != nil {
		return nil, &core.DefinitionError{Subject: name, Reason: err.Error(), Err: err}
	}
	for _, def := range o.fields {
		if def != nil && (def.Name == FieldConnections || def.Name == FieldResources) {
			return nil, core.NewDefinitionErrorf(name, "field name %s is reserved", def.Name)
		}
		if err := s.Register(def); err != nil {
			return nil, &core.DefinitionError{Subject: name, Reason: err.Error(), Err: err}
		}
	}
	logger.GetDefault().Debug(
		"Task config class built",
		"class", name,
		"connections", conns.Name(),
		"fields", s.Len(),
	)
	return &Class{name: name, conns: conns, schema: s, connsSchema: connsSchema}, nil
}

func synthesizeConnections(conns *connection.Class) (*field.Schema, error) {
	s, err := field.NewSchema(conns.Name() + "Config")
	if err != nil {
		return nil, err
	}
	for _, attr := range conns.AllConnections() {
		c, _ := conns.Connection(attr)
		if err := s.Register(field.Of(attr, c.Name(), fmt.Sprintf("name for connection %s", attr))); err != nil {
			return nil, err
		}
	}
	templates := conns.DefaultTemplates()
	for _, key := range conns.TemplateKeys() {
		if err := s.Register(field.Of(key, templates[key], templateDoc)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (c *Class) Name() string {
	return c.name
}

func (c *Class) ConnectionsClass() *connection.Class {
	return c.conns
}

func (c *Class) Schema() *field.Schema {
	return c.schema
}

// ConnectionsSchema is the synthesized schema of the connections sub-configuration.
func (c *Class) ConnectionsSchema() *field.Schema {
	return c.connsSchema
}

func (c *Class) JSONSchema() schema.Schema {
	return c.schema.JSONSchema()
}

// New creates a configuration holding the defaults of every field.
func (c *Class) New() *Config {
	return &Config{Config: field.New(c.schema), class: c}
}
