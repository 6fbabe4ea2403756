package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// DeepCopy creates a deep copy of the supplied value using github.com/mohae/deepcopy.
//
// Maps and slices are duplicated recursively so the copy never aliases v. A nil value
// (nil map, nil slice, nil interface) copies to the zero value of T with no error.
func DeepCopy[T any](v T) (T, error) {
	var zero T
	copied := deepcopy.Copy(v)
	if copied == nil {
		return zero, nil
	}
	result, ok := copied.(T)
	if !ok {
		return zero, fmt.Errorf("failed to cast copied value to type %T", zero)
	}
	return result, nil
}

// CloneMap returns a shallow copy of m. A nil map clones to nil.
func CloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
