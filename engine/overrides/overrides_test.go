package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/compozy/pipebase/engine/connection"
	"github.com/compozy/pipebase/engine/core"
	"github.com/compozy/pipebase/engine/field"
	"github.com/compozy/pipebase/engine/pipeconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(t *testing.T, withTemplates bool) *pipeconfig.Config {
	t.Helper()
	b := connection.NewBuilder("TestConnections").Dimensions("visit")
	if withTemplates {
		b.DefaultTemplates(map[string]string{"coaddName": "deep"}).
			Add("coadd", connection.Output("{coaddName}Coadd", "ExposureF"))
	} else {
		b.Add("calexp", connection.Input("calexp", "ExposureF"))
	}
	conns, err := b.Build()
	require.NoError(t, err)
	cls, err := pipeconfig.NewClass("TestConfig", conns, pipeconfig.WithFields(
		field.Of("count", 1, "number of passes"),
		field.Of("label", "a", "free text"),
		field.Of("scale", 1.0, "scale factor"),
		field.Of("bands", []string{"g"}, "bands"),
	))
	require.NoError(t, err)
	return cls.New()
}

func get(t *testing.T, cfg interface{ Get(string) (any, error) }, name string) any {
	t.Helper()
	v, err := cfg.Get(name)
	require.NoError(t, err)
	return v
}

func sub(t *testing.T, cfg *pipeconfig.Config, name string) *field.Config {
	t.Helper()
	out, err := cfg.Sub(name)
	require.NoError(t, err)
	return out
}

func TestOverrides_ValueOverride(t *testing.T) {
	t.Run("Should parse text into an integer field", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("count", "5")
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, 5, get(t, cfg, "count"))
	})

	t.Run("Should keep text for string fields", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("label", "5")
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, "5", get(t, cfg, "label"))
	})

	t.Run("Should parse lists and widen integers", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("bands", `["r", "i"]`)
		o.AddValueOverride("scale", "2")
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, []string{"r", "i"}, get(t, cfg, "bands"))
		assert.Equal(t, 2.0, get(t, cfg, "scale"))
	})

	t.Run("Should pass non-string values through", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("count", 9)
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, 9, get(t, cfg, "count"))
	})

	t.Run("Should fail with a parse error for non-literal text", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("count", "not-a-number")
		err := o.ApplyTo(t.Context(), cfg)
		var parseErr *core.OverrideParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "not-a-number", parseErr.Text)
		assert.ErrorIs(t, err, core.ErrOverrideParse)
	})

	t.Run("Should propagate assignment errors", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("count", "2.5")
		err := o.ApplyTo(t.Context(), cfg)
		var assignErr *field.AssignError
		assert.ErrorAs(t, err, &assignErr)
	})

	t.Run("Should walk dotted paths into sub-configurations", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("resources.minNumCores", "4")
		o.AddValueOverride("resources.minMemoryMB", "2048")
		o.AddValueOverride("connections.calexp", "calexp_v2")
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, 4, get(t, sub(t, cfg, pipeconfig.FieldResources), "minNumCores"))
		assert.Equal(t, 2048, get(t, sub(t, cfg, pipeconfig.FieldResources), "minMemoryMB"))
		assert.Equal(t, "calexp_v2", get(t, sub(t, cfg, pipeconfig.FieldConnections), "calexp"))
	})

	t.Run("Should fail with a lookup error for unknown path segments", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("missing.count", "1")
		err := o.ApplyTo(t.Context(), cfg)
		assert.ErrorIs(t, err, field.ErrNoField)
		assert.NotErrorIs(t, err, core.ErrOverrideParse)
	})

	t.Run("Should apply overrides in order with last write winning", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("count", "1")
		o.AddValueOverride("count", "2")
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, 2, get(t, cfg, "count"))
		assert.Equal(t, 2, o.Len())
	})

	t.Run("Should leave earlier overrides applied after a failure", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("count", "3")
		o.AddValueOverride("count", "oops")
		o.AddValueOverride("label", "never")
		require.Error(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, 3, get(t, cfg, "count"))
		assert.Equal(t, "a", get(t, cfg, "label"))
	})
}

func TestOverrides_FileOverride(t *testing.T) {
	t.Run("Should load files in order with later values winning", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.yaml")
		require.NoError(t, os.WriteFile(first, []byte("count: 4\nlabel: file\n"), 0o600))
		cfg := newConfig(t, false)
		o := New()
		o.AddValueOverride("count", "2")
		o.AddFileOverride(first)
		o.AddValueOverride("label", "flag")
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, 4, get(t, cfg, "count"))
		assert.Equal(t, "flag", get(t, cfg, "label"))
	})

	t.Run("Should propagate load failures", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddFileOverride(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, o.ApplyTo(t.Context(), cfg))
	})
}

func TestOverrides_NameSubstitution(t *testing.T) {
	t.Run("Should forward template values to the config", func(t *testing.T) {
		cfg := newConfig(t, true)
		o := New()
		o.AddDatasetNameSubstitution(map[string]string{"coaddName": "goodSeeing"})
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		conns, err := cfg.NewConnections()
		require.NoError(t, err)
		name, _ := conns.Name("coadd")
		assert.Equal(t, "goodSeeingCoadd", name)
	})

	t.Run("Should fail for configs without templates", func(t *testing.T) {
		cfg := newConfig(t, false)
		o := New()
		o.AddDatasetNameSubstitution(map[string]string{"coaddName": "deep"})
		assert.ErrorIs(t, o.ApplyTo(t.Context(), cfg), core.ErrValidation)
	})

	t.Run("Should fail for plain field configs", func(t *testing.T) {
		s, err := field.NewSchema("Plain", field.Of("count", 1, ""))
		require.NoError(t, err)
		o := New()
		o.AddDatasetNameSubstitution(map[string]string{"coaddName": "deep"})
		assert.ErrorIs(t, o.ApplyTo(t.Context(), field.New(s)), core.ErrValidation)
	})

	t.Run("Should not alias the queued map", func(t *testing.T) {
		cfg := newConfig(t, true)
		names := map[string]string{"coaddName": "goodSeeing"}
		o := New()
		o.AddDatasetNameSubstitution(names)
		names["coaddName"] = "changed"
		require.NoError(t, o.ApplyTo(t.Context(), cfg))
		assert.Equal(t, "goodSeeing", get(t, sub(t, cfg, pipeconfig.FieldConnections), "coaddName"))
	})
}

func TestParseValueOverride(t *testing.T) {
	t.Run("Should split field and value", func(t *testing.T) {
		field, value, err := ParseValueOverride("resources.minNumCores=4")
		require.NoError(t, err)
		assert.Equal(t, "resources.minNumCores", field)
		assert.Equal(t, "4", value)
	})

	t.Run("Should keep equals signs in the value", func(t *testing.T) {
		_, value, err := ParseValueOverride(`label="a=b"`)
		require.NoError(t, err)
		assert.Equal(t, `"a=b"`, value)
	})

	t.Run("Should reject malformed text", func(t *testing.T) {
		for _, text := range []string{"count", "=4", "a..b=1"} {
			_, _, err := ParseValueOverride(text)
			assert.Error(t, err, "text %q", text)
		}
	})
}

func TestParseNameSubstitution(t *testing.T) {
	t.Run("Should parse comma separated pairs", func(t *testing.T) {
		names, err := ParseNameSubstitution("coaddName=goodSeeing, warpType=psfMatched")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"coaddName": "goodSeeing", "warpType": "psfMatched"}, names)
	})

	t.Run("Should reject malformed pairs", func(t *testing.T) {
		_, err := ParseNameSubstitution("coaddName")
		assert.Error(t, err)
		_, err = ParseNameSubstitution(" , ")
		assert.Error(t, err)
	})
}
