package config

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// identifierPattern matches a field name or dataset name template key.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("value_override", validateValueOverride); err != nil {
		return err
	}
	return v.RegisterValidation("template_key", validateTemplateKey)
}

// validateValueOverride accepts "field.path=value" with identifiers on the left.
func validateValueOverride(fl validator.FieldLevel) bool {
	path, _, ok := strings.Cut(fl.Field().String(), "=")
	if !ok {
		return false
	}
	for _, part := range strings.Split(strings.TrimSpace(path), ".") {
		if !identifierPattern.MatchString(part) {
			return false
		}
	}
	return true
}

// validateTemplateKey validates the key of a dataset name template value.
func validateTemplateKey(fl validator.FieldLevel) bool {
	return identifierPattern.MatchString(fl.Field().String())
}
