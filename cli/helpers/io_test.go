package helpers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputWriter(t *testing.T) {
	data := map[string]any{"name": "coaddition", "dimensions": []string{"tract", "patch"}}

	t.Run("Should write indented JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatJSON).WriteData(data))
		assert.JSONEq(t, `{"name":"coaddition","dimensions":["tract","patch"]}`, buf.String())
		assert.Contains(t, buf.String(), "\n  ")
	})

	t.Run("Should write YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatYAML).WriteData(data))
		assert.Equal(t, "dimensions:\n  - tract\n  - patch\nname: coaddition\n", buf.String())
	})

	t.Run("Should align table columns", func(t *testing.T) {
		var buf bytes.Buffer
		rows := [][]string{{"NAME", "CONFIG"}, {"coaddition", "CoadditionConfig"}}
		require.NoError(t, NewOutputWriter(&buf, OutputFormatTable).WriteData(rows))
		assert.Equal(t, "NAME        CONFIG\ncoaddition  CoadditionConfig\n", buf.String())
	})

	t.Run("Should reject non-row data for tables", func(t *testing.T) {
		err := NewOutputWriter(&bytes.Buffer{}, OutputFormatTable).WriteData(data)
		assert.ErrorContains(t, err, "table output requires rows of strings")
	})
}

func TestParseOutputFormat(t *testing.T) {
	t.Run("Should accept allowed formats only", func(t *testing.T) {
		f, err := ParseOutputFormat("json", OutputFormatYAML, OutputFormatJSON)
		require.NoError(t, err)
		assert.Equal(t, OutputFormatJSON, f)

		_, err = ParseOutputFormat("table", OutputFormatYAML, OutputFormatJSON)
		var formatErr *UnsupportedFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, `unsupported output format "table" (expected one of: yaml, json)`, err.Error())
	})
}
