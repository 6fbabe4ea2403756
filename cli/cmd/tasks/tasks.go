package tasks

import (
	"fmt"
	"strings"

	"github.com/compozy/pipebase/cli/helpers"
	"github.com/compozy/pipebase/engine/pipeline"
	"github.com/compozy/pipebase/pkg/logger"
	"github.com/spf13/cobra"
)

// NewTasksCommand creates the command listing the registered task classes.
func NewTasksCommand(registry *pipeline.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List registered task classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTasks(cmd, registry)
		},
	}
	cmd.Flags().StringP("output", "o", string(helpers.OutputFormatTable), "Output format (table, json, yaml)")
	return cmd
}

type taskSummary struct {
	Name            string   `json:"name"             yaml:"name"`
	Config          string   `json:"config"           yaml:"config"`
	Connections     string   `json:"connections"      yaml:"connections"`
	Dimensions      []string `json:"dimensions"       yaml:"dimensions"`
	CanMultiprocess bool     `json:"can_multiprocess" yaml:"can_multiprocess"`
}

func runTasks(cmd *cobra.Command, registry *pipeline.Registry) error {
	log := logger.FromContext(cmd.Context())
	name, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	format, err := helpers.ParseOutputFormat(
		name,
		helpers.OutputFormatTable,
		helpers.OutputFormatJSON,
		helpers.OutputFormatYAML,
	)
	if err != nil {
		return err
	}
	summaries := make([]taskSummary, 0)
	for _, taskName := range registry.Names() {
		tc, err := registry.Get(taskName)
		if err != nil {
			return err
		}
		conns := tc.ConfigClass.ConnectionsClass()
		summaries = append(summaries, taskSummary{
			Name:            tc.Name,
			Config:          tc.ConfigClass.Name(),
			Connections:     conns.Name(),
			Dimensions:      conns.Dimensions(),
			CanMultiprocess: tc.CanMultiprocess,
		})
	}
	log.Debug("Listing task classes", "count", len(summaries))
	out := helpers.NewOutputWriter(cmd.OutOrStdout(), format)
	if format != helpers.OutputFormatTable {
		return out.WriteData(summaries)
	}
	rows := [][]string{{"NAME", "CONFIG", "CONNECTIONS", "DIMENSIONS"}}
	for _, s := range summaries {
		rows = append(rows, []string{s.Name, s.Config, s.Connections, strings.Join(s.Dimensions, ",")})
	}
	return out.WriteData(rows)
}
