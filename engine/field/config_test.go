package field

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/compozy/pipebase/engine/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	inner, err := NewSchema(
		"Inner",
		Of("threshold", 2.5, "detection threshold"),
		OptionalOf[int]("maxIter", "iteration limit"),
	)
	require.NoError(t, err)
	s, err := NewSchema(
		"Outer",
		Of("name", "calexp", "dataset name"),
		Of("count", 3, "number of passes"),
		Of("doWrite", true, "write outputs"),
		Of("bands", []string{"g", "r"}, "bands to process"),
		Of("weights", map[string]float64{"g": 1}, "band weights"),
		Nested("detection", inner, "detection settings"),
	)
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSchema_Register(t *testing.T) {
	t.Run("Should keep declaration order", func(t *testing.T) {
		s := testSchema(t)
		assert.Equal(t, []string{"name", "count", "doWrite", "bands", "weights", "detection"}, s.Names())
	})

	t.Run("Should reject duplicate names", func(t *testing.T) {
		_, err := NewSchema("S", Of("a", 1, ""), Of("a", 2, ""))
		assert.ErrorContains(t, err, "already declared")
	})

	t.Run("Should reject empty names and missing types", func(t *testing.T) {
		_, err := NewSchema("S", &FieldDef{Name: " ", Type: reflect.TypeFor[int]()})
		assert.Error(t, err)
		_, err = NewSchema("S", &FieldDef{Name: "a"})
		assert.ErrorContains(t, err, "no type")
	})

	t.Run("Should reject defaults of the wrong type", func(t *testing.T) {
		_, err := NewSchema("S", &FieldDef{Name: "a", Type: reflect.TypeFor[int](), Default: "x"})
		var assignErr *AssignError
		assert.ErrorAs(t, err, &assignErr)
	})
}

func TestConfig_Defaults(t *testing.T) {
	t.Run("Should apply defaults on creation", func(t *testing.T) {
		c := New(testSchema(t))
		v, err := c.Get("count")
		require.NoError(t, err)
		assert.Equal(t, 3, v)
		sub, err := c.Sub("detection")
		require.NoError(t, err)
		v, err = sub.Get("maxIter")
		require.NoError(t, err)
		assert.Nil(t, v)
		assert.Equal(t, "detection", sub.Path())
	})

	t.Run("Should not share mutable defaults between configs", func(t *testing.T) {
		s := testSchema(t)
		a := New(s)
		b := New(s)
		bands, err := a.Get("bands")
		require.NoError(t, err)
		bands.([]string)[0] = "z"
		other, err := b.Get("bands")
		require.NoError(t, err)
		assert.Equal(t, []string{"g", "r"}, other)
	})
}

func TestConfig_Set(t *testing.T) {
	t.Run("Should widen integers into float fields", func(t *testing.T) {
		c := New(testSchema(t))
		sub, err := c.Sub("detection")
		require.NoError(t, err)
		require.NoError(t, sub.Set("threshold", 5))
		v, _ := sub.Get("threshold")
		assert.Equal(t, 5.0, v)
	})

	t.Run("Should reject floats into integer fields", func(t *testing.T) {
		c := New(testSchema(t))
		err := c.Set("count", 5.0)
		var assignErr *AssignError
		require.ErrorAs(t, err, &assignErr)
		assert.Equal(t, "count", assignErr.Field)
		assert.Equal(t, reflect.TypeFor[int](), assignErr.Expected)
	})

	t.Run("Should reject null on required fields and accept it on optional ones", func(t *testing.T) {
		c := New(testSchema(t))
		assert.ErrorContains(t, c.Set("name", nil), "cannot assign null")
		sub, _ := c.Sub("detection")
		require.NoError(t, sub.Set("maxIter", 10))
		require.NoError(t, sub.Set("maxIter", nil))
	})

	t.Run("Should coerce lists and maps element by element", func(t *testing.T) {
		c := New(testSchema(t))
		require.NoError(t, c.Set("bands", []any{"i", "z"}))
		require.NoError(t, c.Set("weights", map[string]any{"i": 2}))
		bands, _ := c.Get("bands")
		weights, _ := c.Get("weights")
		assert.Equal(t, []string{"i", "z"}, bands)
		assert.Equal(t, map[string]float64{"i": 2}, weights)
		assert.Error(t, c.Set("bands", []any{"i", 3}))
	})

	t.Run("Should merge maps into sub-configurations", func(t *testing.T) {
		c := New(testSchema(t))
		require.NoError(t, c.Set("detection", map[string]any{"maxIter": 4}))
		sub, _ := c.Sub("detection")
		v, _ := sub.Get("maxIter")
		assert.Equal(t, 4, v)
		threshold, _ := sub.Get("threshold")
		assert.Equal(t, 2.5, threshold)
	})

	t.Run("Should report unknown fields with their path", func(t *testing.T) {
		c := New(testSchema(t))
		sub, _ := c.Sub("detection")
		err := sub.Set("missing", 1)
		assert.ErrorIs(t, err, ErrNoField)
		assert.ErrorContains(t, err, "detection.missing")
	})
}

func TestConfig_Sub(t *testing.T) {
	t.Run("Should reject leaf fields", func(t *testing.T) {
		c := New(testSchema(t))
		_, err := c.Sub("name")
		assert.ErrorIs(t, err, ErrNotConfig)
	})

	t.Run("Should report field types", func(t *testing.T) {
		c := New(testSchema(t))
		typ, err := c.FieldType("name")
		require.NoError(t, err)
		assert.Equal(t, reflect.String, typ.Kind())
		typ, err = c.FieldType("detection")
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeFor[*Config](), typ)
		_, err = c.FieldType("nope")
		assert.ErrorIs(t, err, ErrNoField)
	})
}

func TestConfig_Copy(t *testing.T) {
	t.Run("Should produce an independent copy", func(t *testing.T) {
		c := New(testSchema(t))
		cp := c.Copy()
		require.NoError(t, cp.Set("name", "deepCoadd"))
		sub, _ := cp.Sub("detection")
		require.NoError(t, sub.Set("threshold", 9.0))

		name, _ := c.Get("name")
		assert.Equal(t, "calexp", name)
		orig, _ := c.Sub("detection")
		threshold, _ := orig.Get("threshold")
		assert.Equal(t, 2.5, threshold)
	})

	t.Run("Should render nested maps", func(t *testing.T) {
		m := New(testSchema(t)).ToMap()
		assert.Equal(t, "calexp", m["name"])
		assert.Equal(t, map[string]any{"threshold": 2.5, "maxIter": nil}, m["detection"])
	})
}

func TestConfig_Load(t *testing.T) {
	t.Run("Should assign values from a YAML file", func(t *testing.T) {
		c := New(testSchema(t))
		path := writeFile(t, "name: deepCoadd\ncount: 7\ndetection:\n  maxIter: 20\n")
		require.NoError(t, c.Load(t.Context(), path))
		name, _ := c.Get("name")
		count, _ := c.Get("count")
		assert.Equal(t, "deepCoadd", name)
		assert.Equal(t, 7, count)
		sub, _ := c.Sub("detection")
		maxIter, _ := sub.Get("maxIter")
		assert.Equal(t, 20, maxIter)
	})

	t.Run("Should reject unknown keys", func(t *testing.T) {
		c := New(testSchema(t))
		path := writeFile(t, "unknown: 1\n")
		assert.Error(t, c.Load(t.Context(), path))
	})

	t.Run("Should reject type mismatches", func(t *testing.T) {
		c := New(testSchema(t))
		path := writeFile(t, "count: many\n")
		assert.Error(t, c.Load(t.Context(), path))
		count, _ := c.Get("count")
		assert.Equal(t, 3, count)
	})

	t.Run("Should accept an empty file", func(t *testing.T) {
		c := New(testSchema(t))
		assert.NoError(t, c.Load(t.Context(), writeFile(t, "")))
	})

	t.Run("Should fail for a missing file", func(t *testing.T) {
		c := New(testSchema(t))
		assert.Error(t, c.Load(t.Context(), filepath.Join(t.TempDir(), "absent.yaml")))
	})
}

func TestSchema_JSONSchema(t *testing.T) {
	t.Run("Should describe fields with defaults and nullability", func(t *testing.T) {
		js := testSchema(t).JSONSchema()
		assert.Equal(t, "object", js["type"])
		assert.Equal(t, false, js["additionalProperties"])
		assert.Equal(t, "Outer", js["title"])

		props := js.Properties()
		count := props["count"].(schema.Schema)
		assert.Equal(t, "integer", count["type"])
		assert.Equal(t, 3, count["default"])
		assert.Equal(t, "number of passes", count["description"])

		detection := props["detection"].(schema.Schema)
		maxIter := detection.Properties()["maxIter"].(schema.Schema)
		assert.Equal(t, []any{"integer", "null"}, maxIter["type"])
		assert.NotContains(t, maxIter, "default")
	})

	t.Run("Should validate documents against the generated schema", func(t *testing.T) {
		js := testSchema(t).JSONSchema()
		_, err := js.Validate(t.Context(), map[string]any{"count": 2, "bands": []any{"g"}})
		assert.NoError(t, err)
		_, err = js.Validate(t.Context(), map[string]any{"count": "two"})
		assert.Error(t, err)
	})
}
