package cli

import (
	"fmt"

	configcmd "github.com/compozy/pipebase/cli/cmd/config"
	taskscmd "github.com/compozy/pipebase/cli/cmd/tasks"
	"github.com/compozy/pipebase/engine/pipeline"
	"github.com/compozy/pipebase/engine/tasks"
	"github.com/compozy/pipebase/pkg/config/definition"
	"github.com/compozy/pipebase/pkg/version"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "pipebase.yaml"

// RootCmd returns the pipebase command with the built-in task classes registered.
func RootCmd() *cobra.Command {
	registry, err := tasks.DefaultRegistry()
	if err != nil {
		panic(fmt.Sprintf("failed to register built-in tasks: %v", err))
	}
	return NewRootCommand(registry)
}

// NewRootCommand builds the pipebase command tree over registry.
func NewRootCommand(registry *pipeline.Registry) *cobra.Command {
	root := &cobra.Command{
		Use:           "pipebase",
		Short:         "Inspect and configure pipeline tasks",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}
	defs := definition.CreateRegistry()
	root.PersistentFlags().String("config", defaultConfigFile, "Path to the pipebase configuration file")
	root.PersistentFlags().String("log-level", getStringDefault(defs, "runtime.log_level"),
		help(defs, "runtime.log_level"))
	root.PersistentFlags().Bool("log-json", false, help(defs, "runtime.log_json"))
	root.PersistentFlags().Bool("log-source", false, help(defs, "runtime.log_source"))

	root.AddCommand(
		taskscmd.NewTasksCommand(registry),
		configcmd.NewConfigCommand(registry),
	)
	return root
}

func getStringDefault(registry *definition.Registry, path string) string {
	if val := registry.GetDefault(path); val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// help appends the environment variable of path to its help text.
func help(registry *definition.Registry, path string) string {
	field, ok := registry.GetField(path)
	if !ok {
		return ""
	}
	if field.EnvVar == "" {
		return field.Help
	}
	return fmt.Sprintf("%s (env: %s)", field.Help, field.EnvVar)
}
