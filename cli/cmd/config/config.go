package config

import (
	"fmt"
	"slices"

	"github.com/compozy/pipebase/cli/helpers"
	"github.com/compozy/pipebase/engine/overrides"
	"github.com/compozy/pipebase/engine/pipeconfig"
	"github.com/compozy/pipebase/engine/pipeline"
	pkgconfig "github.com/compozy/pipebase/pkg/config"
	"github.com/compozy/pipebase/pkg/config/definition"
	"github.com/compozy/pipebase/pkg/logger"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(registry *pipeline.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Task configuration inspection",
		Long:  `Show task configurations after overrides and print their JSON schemas.`,
	}
	cmd.AddCommand(
		NewConfigShowCommand(registry),
		NewConfigSchemaCommand(registry),
	)
	return cmd
}

// NewConfigShowCommand creates the config show subcommand
func NewConfigShowCommand(registry *pipeline.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show TASK",
		Short: "Show a task configuration after overrides",
		Long: `Build the default configuration of TASK, apply overrides and print it together
with the resolved connection dataset names.

Overrides are applied by kind: configuration files, then dataset name templates, then
single values. Entries from the pipebase configuration file come before command line ones.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, registry, args[0])
		},
	}
	defs := definition.CreateRegistry()
	cmd.Flags().StringArray("config-file", nil, help(defs, "activator.config_files"))
	cmd.Flags().StringArray("set", nil, help(defs, "activator.overrides"))
	cmd.Flags().String("names", "", help(defs, "activator.templates"))
	cmd.Flags().StringP("format", "f", "", help(defs, "activator.output_format"))
	return cmd
}

// NewConfigSchemaCommand creates the config schema subcommand
func NewConfigSchemaCommand(registry *pipeline.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "schema TASK",
		Short: "Print the JSON schema of a task configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := registry.Get(args[0])
			if err != nil {
				return err
			}
			return helpers.NewOutputWriter(cmd.OutOrStdout(), helpers.OutputFormatJSON).
				WriteData(tc.ConfigClass.JSONSchema())
		},
	}
}

// ShowResult is the document printed by config show.
type ShowResult struct {
	Task        string            `json:"task"        yaml:"task"`
	Config      map[string]any    `json:"config"      yaml:"config"`
	Connections map[string]string `json:"connections" yaml:"connections"`
}

func runShow(cmd *cobra.Command, registry *pipeline.Registry, taskName string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx).With("task", taskName)
	appCfg := pkgconfig.FromContext(ctx)
	tc, err := registry.Get(taskName)
	if err != nil {
		return err
	}
	queue, err := buildOverrides(cmd, &appCfg.Activator)
	if err != nil {
		return err
	}
	def, err := pipeline.NewTaskDef(tc, "")
	if err != nil {
		return err
	}
	log.Debug("Applying overrides", "count", queue.Len())
	if err := queue.ApplyTo(ctx, def.Config); err != nil {
		return fmt.Errorf("failed to apply overrides to %s: %w", taskName, err)
	}
	result, err := describe(taskName, def.Config)
	if err != nil {
		return err
	}
	format, err := helpers.ParseOutputFormat(
		appCfg.Activator.OutputFormat,
		helpers.OutputFormatYAML,
		helpers.OutputFormatJSON,
	)
	if err != nil {
		return err
	}
	return helpers.NewOutputWriter(cmd.OutOrStdout(), format).WriteData(result)
}

// buildOverrides queues the overrides of the application configuration followed by those
// given as flags.
func buildOverrides(cmd *cobra.Command, activator *pkgconfig.ActivatorConfig) (*overrides.Overrides, error) {
	files, err := cmd.Flags().GetStringArray("config-file")
	if err != nil {
		return nil, fmt.Errorf("failed to get config-file flag: %w", err)
	}
	values, err := cmd.Flags().GetStringArray("set")
	if err != nil {
		return nil, fmt.Errorf("failed to get set flag: %w", err)
	}
	names, err := cmd.Flags().GetString("names")
	if err != nil {
		return nil, fmt.Errorf("failed to get names flag: %w", err)
	}
	queue := overrides.New()
	for _, path := range slices.Concat(activator.ConfigFiles, files) {
		queue.AddFileOverride(path)
	}
	if len(activator.Templates) > 0 {
		queue.AddDatasetNameSubstitution(activator.Templates)
	}
	if names != "" {
		substitution, err := overrides.ParseNameSubstitution(names)
		if err != nil {
			return nil, err
		}
		queue.AddDatasetNameSubstitution(substitution)
	}
	for _, text := range slices.Concat(activator.Overrides, values) {
		path, value, err := overrides.ParseValueOverride(text)
		if err != nil {
			return nil, err
		}
		queue.AddValueOverride(path, value)
	}
	return queue, nil
}

func describe(taskName string, cfg *pipeconfig.Config) (*ShowResult, error) {
	conns, err := cfg.NewConnections()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	for _, attr := range conns.Class().AllConnections() {
		if name, ok := conns.Name(attr); ok {
			names[attr] = name
		}
	}
	return &ShowResult{Task: taskName, Config: cfg.ToMap(), Connections: names}, nil
}

func help(registry *definition.Registry, path string) string {
	field, ok := registry.GetField(path)
	if !ok {
		return ""
	}
	return field.Help
}
