package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// UnsupportedFormatError reports an output format a command cannot render.
type UnsupportedFormatError struct {
	Format  string
	Allowed []OutputFormat
}

func (e *UnsupportedFormatError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, f := range e.Allowed {
		names[i] = string(f)
	}
	return fmt.Sprintf("unsupported output format %q (expected one of: %s)", e.Format, strings.Join(names, ", "))
}

// OutputWriter handles different output formats
type OutputWriter struct {
	writer io.Writer
	format OutputFormat
}

// NewOutputWriter creates a new output writer
func NewOutputWriter(writer io.Writer, format OutputFormat) *OutputWriter {
	return &OutputWriter{
		writer: writer,
		format: format,
	}
}

// WriteData writes data in the specified format. Table output expects [][]string whose first
// row is the header.
func (ow *OutputWriter) WriteData(data any) error {
	switch ow.format {
	case OutputFormatJSON:
		return ow.writeJSON(data)
	case OutputFormatYAML:
		return ow.writeYAML(data)
	case OutputFormatTable:
		return ow.writeTable(data)
	default:
		return &UnsupportedFormatError{Format: string(ow.format)}
	}
}

// writeJSON writes data as JSON
func (ow *OutputWriter) writeJSON(data any) error {
	encoder := json.NewEncoder(ow.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (ow *OutputWriter) writeYAML(data any) (err error) {
	encoder := yaml.NewEncoder(ow.writer)
	encoder.SetIndent(2)
	defer func() {
		if closeErr := encoder.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return encoder.Encode(data)
}

func (ow *OutputWriter) writeTable(data any) error {
	rows, ok := data.([][]string)
	if !ok {
		return fmt.Errorf("table output requires rows of strings, got %T", data)
	}
	tw := tabwriter.NewWriter(ow.writer, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
