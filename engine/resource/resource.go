// Package resource models the resource requirements a task declares in its configuration.
// Only the shape is modelled; no activator enforces it.
package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/compozy/pipebase/engine/field"
	"github.com/compozy/pipebase/engine/schema"
	"github.com/go-viper/mapstructure/v2"
)

const (
	FieldMinMemoryMB = "minMemoryMB"
	FieldMinNumCores = "minNumCores"
)

// Requirements is the decoded form of the resources sub-configuration.
type Requirements struct {
	// MinMemoryMB is nil when the task cannot estimate its memory use.
	MinMemoryMB *int `mapstructure:"minMemoryMB" json:"minMemoryMB" yaml:"minMemoryMB" validate:"omitnil,gte=0"`
	MinNumCores int  `mapstructure:"minNumCores" json:"minNumCores" yaml:"minNumCores" validate:"gte=1"`
}

func Default() *Requirements {
	return &Requirements{MinNumCores: 1}
}

func (r *Requirements) Validate(ctx context.Context) error {
	if err := schema.NewStructValidator(r).Validate(ctx); err != nil {
		return fmt.Errorf("invalid resource requirements: %w", err)
	}
	return nil
}

var resourceSchema = sync.OnceValue(func() *field.Schema {
	s, err := field.NewSchema(
		"ResourceConfig",
		field.OptionalOf[int](FieldMinMemoryMB, "Minimal memory needed by task, can be null if estimate is unknown."),
		field.Of(FieldMinNumCores, 1, "Minimal number of cores needed by task."),
	)
	if err != nil {
		panic(err)
	}
	return s
})

// Schema returns the field schema of the resources sub-configuration.
func Schema() *field.Schema {
	return resourceSchema()
}

// Decode converts raw values into validated Requirements. Missing keys keep their defaults.
func Decode(ctx context.Context, values map[string]any) (*Requirements, error) {
	req := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           req,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resource decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("failed to decode resource requirements: %w", err)
	}
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

// FromConfig decodes a resources sub-configuration.
func FromConfig(ctx context.Context, cfg *field.Config) (*Requirements, error) {
	if cfg == nil {
		return nil, fmt.Errorf("resource configuration is nil")
	}
	return Decode(ctx, cfg.ToMap())
}
