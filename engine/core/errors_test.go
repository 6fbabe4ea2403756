package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionError(t *testing.T) {
	t.Run("Should include subject and reason in the message", func(t *testing.T) {
		err := NewDefinitionErrorf("CalibrateConnections", "missing %s", "dimensions")
		assert.Equal(t, "definition error in CalibrateConnections: missing dimensions", err.Error())
	})
	t.Run("Should match the sentinel through wrapping", func(t *testing.T) {
		err := fmt.Errorf("declaring task: %w", NewDefinitionError("", "boom"))
		assert.ErrorIs(t, err, ErrDefinition)
		assert.NotErrorIs(t, err, ErrValidation)
		var defErr *DefinitionError
		require.ErrorAs(t, err, &defErr)
		assert.Equal(t, "boom", defErr.Reason)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Should expose the wrapped cause", func(t *testing.T) {
		cause := errors.New("unknown placeholder")
		err := NewValidationError("formatting connection names", cause)
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "unknown placeholder")
	})
}

func TestScalarError(t *testing.T) {
	t.Run("Should carry the attribute name and count", func(t *testing.T) {
		err := error(NewScalarError("calexp", 2))
		var scalarErr *ScalarError
		require.ErrorAs(t, err, &scalarErr)
		assert.Equal(t, "calexp", scalarErr.Key)
		assert.Equal(t, 2, scalarErr.Count)
		assert.ErrorIs(t, err, ErrScalar)
		assert.Equal(t, "expected scalar for dataset field calexp, received 2 data IDs", err.Error())
	})
}

func TestOverrideParseError(t *testing.T) {
	t.Run("Should name the offending text", func(t *testing.T) {
		cause := errors.New("variables not allowed")
		err := NewOverrideParseError("not-a-number", cause)
		assert.ErrorIs(t, err, ErrOverrideParse)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), `"not-a-number"`)
	})
}
