package schema

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// Validator is implemented by values that check themselves before use.
type Validator interface {
	Validate(ctx context.Context) error
}

// StructValidator checks the `validate` tags of a struct.
type StructValidator struct {
	validate *validator.Validate
	value    any
}

func NewStructValidator(value any) *StructValidator {
	return &StructValidator{
		validate: validator.New(),
		value:    value,
	}
}

func (v *StructValidator) Validate(_ context.Context) error {
	return v.validate.Struct(v.value)
}
