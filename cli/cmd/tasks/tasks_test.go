package tasks

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/compozy/pipebase/engine/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasksCommand(t *testing.T) {
	registry, err := tasks.DefaultRegistry()
	require.NoError(t, err)

	t.Run("Should list task classes as a table", func(t *testing.T) {
		cmd := NewTasksCommand(registry)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.ExecuteContext(t.Context()))
		assert.Contains(t, out.String(), "NAME")
		assert.Contains(t, out.String(), "coaddition")
		assert.Contains(t, out.String(), "CoadditionConnections")
		assert.Contains(t, out.String(), "band,patch,skymap,tract")
	})

	t.Run("Should list task classes as JSON", func(t *testing.T) {
		cmd := NewTasksCommand(registry)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--output", "json"})
		require.NoError(t, cmd.ExecuteContext(t.Context()))
		var got []map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "coaddition", got[0]["name"])
		assert.Equal(t, "CoadditionConfig", got[0]["config"])
		assert.Equal(t, true, got[0]["can_multiprocess"])
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		cmd := NewTasksCommand(registry)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--output", "xml"})
		assert.ErrorContains(t, cmd.ExecuteContext(t.Context()), "unsupported output format")
	})
}
