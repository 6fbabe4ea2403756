package definition

import "reflect"

var (
	stringType      = reflect.TypeOf("")
	boolType        = reflect.TypeOf(true)
	stringSliceType = reflect.TypeOf([]string{})
	stringMapType   = reflect.TypeOf(map[string]string{})
)

// CreateRegistry creates and populates the configuration registry.
// Defaults registered here must agree with config.Default.
func CreateRegistry() *Registry {
	registry := NewRegistry()
	registerRuntimeFields(registry)
	registerActivatorFields(registry)
	return registry
}

func registerRuntimeFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "runtime.log_level",
		Default: "info",
		CLIFlag: "log-level",
		EnvVar:  "PIPEBASE_LOG_LEVEL",
		Type:    stringType,
		Help:    "Log level (debug, info, warn, error, disabled)",
	})
	registry.Register(&FieldDef{
		Path:    "runtime.log_json",
		Default: false,
		CLIFlag: "log-json",
		EnvVar:  "PIPEBASE_LOG_JSON",
		Type:    boolType,
		Help:    "Output logs in JSON format",
	})
	registry.Register(&FieldDef{
		Path:    "runtime.log_source",
		Default: false,
		CLIFlag: "log-source",
		EnvVar:  "PIPEBASE_LOG_SOURCE",
		Type:    boolType,
		Help:    "Include source file and line in logs",
	})
}

func registerActivatorFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "activator.config_files",
		Default: []string{},
		CLIFlag: "config-file",
		EnvVar:  "PIPEBASE_CONFIG_FILES",
		Type:    stringSliceType,
		Help:    "Task configuration file to apply, may be repeated",
	})
	registry.Register(&FieldDef{
		Path:    "activator.overrides",
		Default: []string{},
		CLIFlag: "set",
		Type:    stringSliceType,
		Help:    "Task configuration override as field.path=value, may be repeated",
	})
	registry.Register(&FieldDef{
		Path:    "activator.templates",
		Default: map[string]string{},
		CLIFlag: "names",
		Type:    stringMapType,
		Help:    "Dataset name template values as key=value pairs",
	})
	registry.Register(&FieldDef{
		Path:      "activator.output_format",
		Default:   "yaml",
		CLIFlag:   "format",
		Shorthand: "f",
		EnvVar:    "PIPEBASE_OUTPUT_FORMAT",
		Type:      stringType,
		Help:      "Output format: yaml or json",
	})
}
