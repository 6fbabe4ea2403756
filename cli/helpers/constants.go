package helpers

// OutputFormat represents different output formats
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatTable OutputFormat = "table"
)

// ParseOutputFormat validates a format name given on the command line.
func ParseOutputFormat(name string, allowed ...OutputFormat) (OutputFormat, error) {
	for _, f := range allowed {
		if string(f) == name {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: name, Allowed: allowed}
}
