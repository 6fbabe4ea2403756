package field

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNoField is returned when a name does not address a declared field.
	ErrNoField = errors.New("no such field")
	// ErrNotConfig is returned when a leaf field is addressed as a sub-configuration.
	ErrNotConfig = errors.New("field is not a sub-configuration")
)

// AssignError reports a value that cannot be stored in a field.
type AssignError struct {
	Field    string
	Value    any
	Expected reflect.Type
}

func (e *AssignError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("cannot assign null to required field %s", e.Field)
	}
	expected := "sub-configuration"
	if e.Expected != nil {
		expected = e.Expected.String()
	}
	return fmt.Sprintf("cannot assign %v (%T) to field %s of type %s", e.Value, e.Value, e.Field, expected)
}

func noField(path string) error {
	return fmt.Errorf("%w: %s", ErrNoField, path)
}
