package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepCopy(t *testing.T) {
	t.Run("Should copy nested maps without aliasing", func(t *testing.T) {
		src := map[string]any{
			"connections": map[string]any{"calexp": "calexp"},
			"list":        []any{1, 2},
		}
		dst, err := DeepCopy(src)
		require.NoError(t, err)
		dst["connections"].(map[string]any)["calexp"] = "changed"
		dst["list"].([]any)[0] = 99
		assert.Equal(t, "calexp", src["connections"].(map[string]any)["calexp"])
		assert.Equal(t, 1, src["list"].([]any)[0])
	})
	t.Run("Should return the zero value for nil input", func(t *testing.T) {
		var m map[string]any
		dst, err := DeepCopy(m)
		require.NoError(t, err)
		assert.Nil(t, dst)
	})
}

func TestCloneMap(t *testing.T) {
	t.Run("Should produce an independent map", func(t *testing.T) {
		src := map[string]string{"coaddName": "deep"}
		dst := CloneMap(src)
		dst["coaddName"] = "goodSeeing"
		assert.Equal(t, "deep", src["coaddName"])
	})
	t.Run("Should keep nil as nil", func(t *testing.T) {
		assert.Nil(t, CloneMap[string, int](nil))
	})
}
