package schema

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("parameters invalid")

// ParamsValidator checks a decoded document against a schema before it is applied.
type ParamsValidator struct {
	id     string
	params map[string]any
	schema Schema
}

func NewParamsValidator(with map[string]any, schema Schema, id string) *ParamsValidator {
	return &ParamsValidator{
		id:     id,
		params: with,
		schema: schema,
	}
}

func (v *ParamsValidator) Validate(ctx context.Context) error {
	// If there is no schema, there's nothing to validate against.
	if v.schema == nil {
		return nil
	}

	// If there is a schema, but no parameters are provided, this is an error.
	if v.params == nil {
		return fmt.Errorf("%w for %s: parameters are nil but a schema is defined", ErrInvalidParams, v.id)
	}

	if _, err := v.schema.Validate(ctx, v.params); err != nil {
		return fmt.Errorf("%w for %s: %w", ErrInvalidParams, v.id, err)
	}

	return nil
}
