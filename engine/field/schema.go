// Package field implements typed configuration objects: a Schema declares ordered, typed
// fields with defaults and documentation, and a Config holds one set of values for it.
// A field whose Schema is set holds a nested Config instead of a leaf value.
package field

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldDef declares one configuration field.
type FieldDef struct {
	Name     string
	Type     reflect.Type
	Default  any
	Doc      string
	Optional bool
	// Schema makes the field a nested sub-configuration; Type and Default are ignored.
	Schema *Schema
}

// IsConfig reports whether the field holds a nested sub-configuration.
func (d *FieldDef) IsConfig() bool {
	return d.Schema != nil
}

// Of declares a leaf field of type T.
func Of[T any](name string, def T, doc string) *FieldDef {
	return &FieldDef{Name: name, Type: reflect.TypeFor[T](), Default: def, Doc: doc}
}

// OptionalOf declares a leaf field of type T that defaults to null.
func OptionalOf[T any](name, doc string) *FieldDef {
	return &FieldDef{Name: name, Type: reflect.TypeFor[T](), Doc: doc, Optional: true}
}

// Nested declares a sub-configuration field.
func Nested(name string, schema *Schema, doc string) *FieldDef {
	return &FieldDef{Name: name, Schema: schema, Doc: doc}
}

// Schema is an ordered set of field declarations.
type Schema struct {
	name  string
	defs  []*FieldDef
	index map[string]int
}

// NewSchema creates a schema and registers defs in order.
func NewSchema(name string, defs ...*FieldDef) (*Schema, error) {
	s := &Schema{name: name, index: make(map[string]int)}
	for _, def := range defs {
		if err := s.Register(def); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) Name() string {
	return s.name
}

// Register appends a copy of def. The default of a leaf field is coerced to its type.
func (s *Schema) Register(def *FieldDef) error {
	if def == nil {
		return fmt.Errorf("schema %s: nil field definition", s.name)
	}
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("schema %s: field name must not be empty", s.name)
	}
	if _, exists := s.index[def.Name]; exists {
		return fmt.Errorf("schema %s: field %s already declared", s.name, def.Name)
	}
	stored := *def
	if !stored.IsConfig() {
		if stored.Type == nil {
			return fmt.Errorf("schema %s: field %s has no type", s.name, def.Name)
		}
		if stored.Default != nil {
			v, ok := coerce(stored.Default, stored.Type)
			if !ok {
				return fmt.Errorf(
					"schema %s: %w",
					s.name,
					&AssignError{Field: def.Name, Value: def.Default, Expected: def.Type},
				)
			}
			stored.Default = v
		}
	}
	s.index[stored.Name] = len(s.defs)
	s.defs = append(s.defs, &stored)
	return nil
}

// Field returns the declaration of name.
func (s *Schema) Field(name string) (*FieldDef, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.defs[i], true
}

// Fields returns the declarations in registration order.
func (s *Schema) Fields() []*FieldDef {
	out := make([]*FieldDef, len(s.defs))
	copy(out, s.defs)
	return out
}

// Names returns the field names in registration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.defs))
	for i, def := range s.defs {
		out[i] = def.Name
	}
	return out
}

func (s *Schema) Len() int {
	return len(s.defs)
}
