// Package overrides queues configuration changes and replays them in order against a
// configuration: YAML files, single dotted-path values and dataset name template values.
package overrides

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/compozy/pipebase/engine/core"
	"github.com/compozy/pipebase/engine/field"
	"github.com/compozy/pipebase/pkg/literal"
	"github.com/compozy/pipebase/pkg/logger"
)

// Config is the configuration surface overrides are applied to.
type Config interface {
	Load(ctx context.Context, path string) error
	Sub(name string) (*field.Config, error)
	FieldType(name string) (reflect.Type, error)
	Set(name string, value any) error
}

// TemplateFormatter is implemented by configurations whose connection names use templates.
type TemplateFormatter interface {
	HasTemplates() bool
	FormatTemplateNames(names map[string]string) error
}

type Kind int

const (
	KindFile Kind = iota
	KindValue
	KindNameSubstitution
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindValue:
		return "value"
	case KindNameSubstitution:
		return "name-substitution"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type entry struct {
	kind  Kind
	path  string
	field string
	value any
	names map[string]string
}

// Overrides is an ordered queue of overrides. The zero value is ready to use.
type Overrides struct {
	entries []entry
}

func New() *Overrides {
	return &Overrides{}
}

// AddFileOverride queues loading the YAML file at path.
func (o *Overrides) AddFileOverride(path string) {
	o.entries = append(o.entries, entry{kind: KindFile, path: path})
}

// AddValueOverride queues assigning value to the dotted field path. A string value is parsed
// as a literal when the field is not a string field.
func (o *Overrides) AddValueOverride(field string, value any) {
	o.entries = append(o.entries, entry{kind: KindValue, field: field, value: value})
}

// AddDatasetNameSubstitution queues setting connection name template values.
func (o *Overrides) AddDatasetNameSubstitution(names map[string]string) {
	o.entries = append(o.entries, entry{kind: KindNameSubstitution, names: core.CloneMap(names)})
}

func (o *Overrides) Len() int {
	return len(o.entries)
}

// ApplyTo replays every queued override against cfg in insertion order. It stops at the first
// failure, leaving the earlier overrides applied.
func (o *Overrides) ApplyTo(ctx context.Context, cfg Config) error {
	log := logger.FromContext(ctx)
	for i, e := range o.entries {
		log.Debug("Applying config override", "index", i, "kind", e.kind.String())
		var err error
		switch e.kind {
		case KindFile:
			err = cfg.Load(ctx, e.path)
		case KindValue:
			err = applyValue(cfg, e.field, e.value)
		case KindNameSubstitution:
			err = applyNames(cfg, e.names)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyValue(cfg Config, path string, value any) error {
	parts := strings.Split(path, ".")
	leaf := parts[len(parts)-1]
	var target Config = cfg
	for _, name := range parts[:len(parts)-1] {
		sub, err := target.Sub(name)
		if err != nil {
			return err
		}
		target = sub
	}
	if text, ok := value.(string); ok {
		typ, err := target.FieldType(leaf)
		if err != nil {
			return err
		}
		if typ.Kind() != reflect.String {
			parsed, err := literal.Parse(text)
			if err != nil {
				return core.NewOverrideParseError(text, err)
			}
			value = parsed
		}
	}
	return target.Set(leaf, value)
}

func applyNames(cfg Config, names map[string]string) error {
	formatter, ok := cfg.(TemplateFormatter)
	if !ok || !formatter.HasTemplates() {
		return core.NewValidationErrorf("dataset name substitution requires a config whose connections use templates")
	}
	return formatter.FormatTemplateNames(names)
}
