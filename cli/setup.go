package cli

import (
	"fmt"

	"github.com/compozy/pipebase/pkg/config"
	"github.com/compozy/pipebase/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// additiveFlags accumulate with the entries of the configuration file instead of replacing
// them; commands read them directly.
var additiveFlags = map[string]bool{
	"config-file": true,
	"set":         true,
	"names":       true,
}

// SetupGlobalConfig loads the application configuration for cmd, installs the logger and
// stores both in the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	flags, err := collectFlags(cmd.Flags())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg, err := config.Load(
		ctx,
		config.NewDefaultProvider(),
		config.NewYAMLProvider(path),
		config.NewCLIProvider(flags),
		config.NewEnvProvider(),
	)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, cfg.Runtime.LogSource)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)
	log.Debug("Configuration loaded", "file", path)
	return nil
}

// collectFlags returns the flags set on the command line keyed by flag name.
func collectFlags(fs *pflag.FlagSet) (map[string]any, error) {
	flags := make(map[string]any)
	var firstErr error
	fs.Visit(func(f *pflag.Flag) {
		if firstErr != nil || additiveFlags[f.Name] {
			return
		}
		switch f.Value.Type() {
		case "bool":
			v, err := fs.GetBool(f.Name)
			if err != nil {
				firstErr = err
				return
			}
			flags[f.Name] = v
		default:
			flags[f.Name] = f.Value.String()
		}
	})
	if firstErr != nil {
		return nil, fmt.Errorf("failed to read flags: %w", firstErr)
	}
	return flags, nil
}
