package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Run("Should render the injected build variables", func(t *testing.T) {
		orig := Version
		t.Cleanup(func() { Version = orig })
		Version = "v0.3.0"
		info := Get()
		assert.Equal(t, "v0.3.0", info.Version)
		assert.Equal(t, "v0.3.0 (commit unknown, built unknown)", info.String())
	})
}
