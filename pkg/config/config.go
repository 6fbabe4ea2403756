package config

import (
	"context"
	"time"
)

// Config is the application configuration of the pipebase command line tool.
//
// Values are resolved from, in increasing precedence: built-in defaults, the application YAML
// file, command line flags and PIPEBASE_* environment variables.
type Config struct {
	// Runtime controls logging.
	Runtime RuntimeConfig `koanf:"runtime" json:"runtime" yaml:"runtime" mapstructure:"runtime"`

	// Activator holds the task configuration overrides applied by `pipebase config show`.
	Activator ActivatorConfig `koanf:"activator" json:"activator" yaml:"activator" mapstructure:"activator"`
}

// RuntimeConfig contains logging settings.
type RuntimeConfig struct {
	// LogLevel is one of debug, info, warn, error or disabled.
	LogLevel string `koanf:"log_level" json:"log_level" yaml:"log_level" mapstructure:"log_level" env:"PIPEBASE_LOG_LEVEL" validate:"oneof=debug info warn error disabled"`

	// LogJSON switches log records to JSON.
	LogJSON bool `koanf:"log_json" json:"log_json" yaml:"log_json" mapstructure:"log_json" env:"PIPEBASE_LOG_JSON"`

	// LogSource adds the caller location to log records.
	LogSource bool `koanf:"log_source" json:"log_source" yaml:"log_source" mapstructure:"log_source" env:"PIPEBASE_LOG_SOURCE"`
}

// ActivatorConfig lists the overrides applied to a task configuration, in this order:
// config files, dataset name templates, then single values.
type ActivatorConfig struct {
	// ConfigFiles are YAML task configuration files.
	ConfigFiles []string `koanf:"config_files" json:"config_files" yaml:"config_files" mapstructure:"config_files" env:"PIPEBASE_CONFIG_FILES" validate:"dive,required"`

	// Overrides are "field.path=value" assignments.
	Overrides []string `koanf:"overrides" json:"overrides" yaml:"overrides" mapstructure:"overrides" validate:"dive,value_override"`

	// Templates are dataset name template values.
	Templates map[string]string `koanf:"templates" json:"templates" yaml:"templates" mapstructure:"templates" validate:"dive,keys,template_key,endkeys"`

	// OutputFormat is yaml or json.
	OutputFormat string `koanf:"output_format" json:"output_format" yaml:"output_format" mapstructure:"output_format" env:"PIPEBASE_OUTPUT_FORMAT" validate:"oneof=yaml json"`
}

// Service loads and validates the application configuration.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type that provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Load loads configuration using the default service.
func Load(ctx context.Context, sources ...Source) (*Config, error) {
	return NewService().Load(ctx, sources...)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			LogLevel:  "info",
			LogJSON:   false,
			LogSource: false,
		},
		Activator: ActivatorConfig{
			ConfigFiles:  []string{},
			Overrides:    []string{},
			Templates:    map[string]string{},
			OutputFormat: "yaml",
		},
	}
}
