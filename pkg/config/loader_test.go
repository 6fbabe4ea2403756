package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	loadErr    error
	sourceType SourceType
}

func (m *mockSource) Load() (map[string]any, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data, nil
}

func (m *mockSource) Type() SourceType {
	return m.sourceType
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should load default configuration when no sources provided", func(t *testing.T) {
		cfg, err := NewService().Load(t.Context())
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
		assert.Equal(t, "yaml", cfg.Activator.OutputFormat)
	})

	t.Run("Should apply sources in precedence order", func(t *testing.T) {
		yamlSource := &mockSource{
			data: map[string]any{
				"runtime": map[string]any{
					"log_level": "warn",
					"log_json":  true,
				},
			},
			sourceType: SourceYAML,
		}
		cliSource := &mockSource{
			data: map[string]any{
				"runtime": map[string]any{
					"log_level": "debug",
				},
			},
			sourceType: SourceCLI,
		}
		loader := NewService()
		cfg, err := loader.Load(t.Context(), yamlSource, cliSource)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Runtime.LogLevel)
		assert.True(t, cfg.Runtime.LogJSON)
		assert.Equal(t, SourceCLI, loader.GetSource("runtime.log_level"))
		assert.Equal(t, SourceYAML, loader.GetSource("runtime.log_json"))
		assert.Equal(t, SourceDefault, loader.GetSource("activator.output_format"))
	})

	t.Run("Should keep template maps whole", func(t *testing.T) {
		source := &mockSource{
			data: map[string]any{
				"activator": map[string]any{
					"templates":    map[string]any{"coaddName": "deep", "band": "r"},
					"config_files": []any{"a.yaml", "b.yaml"},
					"overrides":    []any{"threshold=5"},
				},
			},
			sourceType: SourceYAML,
		}
		cfg, err := NewService().Load(t.Context(), source)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"coaddName": "deep", "band": "r"}, cfg.Activator.Templates)
		assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Activator.ConfigFiles)
		assert.Equal(t, []string{"threshold=5"}, cfg.Activator.Overrides)
	})

	t.Run("Should let environment variables win over sources", func(t *testing.T) {
		t.Setenv("PIPEBASE_LOG_LEVEL", "error")
		t.Setenv("PIPEBASE_CONFIG_FILES", "one.yaml,two.yaml")
		t.Setenv("PIPEBASE_UNMAPPED", "ignored")
		source := &mockSource{
			data:       map[string]any{"runtime": map[string]any{"log_level": "debug"}},
			sourceType: SourceCLI,
		}
		loader := NewService()
		cfg, err := loader.Load(t.Context(), source)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Runtime.LogLevel)
		assert.Equal(t, []string{"one.yaml", "two.yaml"}, cfg.Activator.ConfigFiles)
		assert.Equal(t, SourceEnv, loader.GetSource("runtime.log_level"))
	})

	t.Run("Should validate configuration after loading", func(t *testing.T) {
		source := &mockSource{
			data:       map[string]any{"activator": map[string]any{"output_format": "xml"}},
			sourceType: SourceYAML,
		}
		cfg, err := NewService().Load(t.Context(), source)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
		assert.Nil(t, cfg)
	})

	t.Run("Should handle nil sources gracefully", func(t *testing.T) {
		source := &mockSource{
			data:       map[string]any{"runtime": map[string]any{"log_source": true}},
			sourceType: SourceCLI,
		}
		cfg, err := NewService().Load(t.Context(), nil, source, nil)
		require.NoError(t, err)
		assert.True(t, cfg.Runtime.LogSource)
	})

	t.Run("Should handle source loading errors", func(t *testing.T) {
		source := &mockSource{loadErr: assert.AnError, sourceType: SourceCLI}
		cfg, err := NewService().Load(t.Context(), source)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load from source")
		assert.Nil(t, cfg)
	})
}

func TestLoader_Validate(t *testing.T) {
	t.Run("Should reject nil configuration", func(t *testing.T) {
		err := NewService().Validate(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration cannot be nil")
	})
}

func TestFlattenMap(t *testing.T) {
	t.Run("Should flatten nested maps except templates", func(t *testing.T) {
		out := flattenMap("", map[string]any{
			"runtime":   map[string]any{"log_level": "info"},
			"activator": map[string]any{"templates": map[string]any{"a": "b"}},
		})
		assert.Equal(t, map[string]any{
			"runtime.log_level":   "info",
			"activator.templates": map[string]any{"a": "b"},
		}, out)
	})
}
