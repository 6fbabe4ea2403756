package field

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/compozy/pipebase/engine/schema"
	"github.com/compozy/pipebase/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML document from path and assigns its keys to c. Nested mappings address
// sub-configurations. The document is checked against the JSON schema of c before any value
// is assigned; a later assignment failure may leave c partially updated.
func (c *Config) Load(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if doc == nil {
		logger.FromContext(ctx).Debug("Config file is empty", "path", path)
		return nil
	}
	validator := schema.NewParamsValidator(doc, c.schema.JSONSchema(), path)
	if err := validator.Validate(ctx); err != nil {
		return err
	}
	if err := c.apply(doc); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	logger.FromContext(ctx).Debug("Loaded config file", "path", path, "fields", len(doc))
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
