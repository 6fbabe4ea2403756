package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kaptinlin/jsonschema"
)

// -----------------------------------------------------------------------------
// Schema
// -----------------------------------------------------------------------------

type Schema map[string]any
type Result = jsonschema.EvaluationResult

// compiledSchemaCache maps the canonical JSON of a schema to its compiled form.
var compiledSchemaCache sync.Map

func (s *Schema) String() string {
	bytes, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(bytes)
}

func (s *Schema) Compile(ctx context.Context) (*jsonschema.Schema, error) {
	if s == nil || *s == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	key := string(bytes)
	if cached, ok := compiledSchemaCache.Load(key); ok {
		currentMetrics().recordCompile(ctx, s.Title(), true)
		return cached.(*jsonschema.Schema), nil
	}
	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	currentMetrics().recordCompile(ctx, s.Title(), false)
	actual, _ := compiledSchemaCache.LoadOrStore(key, compiled)
	return actual.(*jsonschema.Schema), nil
}

func (s *Schema) Validate(ctx context.Context, value any) (*Result, error) {
	compiled, err := s.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	if compiled == nil {
		return nil, nil
	}
	start := time.Now()
	result := compiled.Validate(value)
	currentMetrics().recordValidation(ctx, s.Title(), time.Since(start), result.Valid)
	if result.Valid {
		return result, nil
	}
	return nil, fmt.Errorf("schema validation failed: %v", result.Errors)
}

// Title returns the schema title, the name of the config class for generated schemas.
func (s *Schema) Title() string {
	if s != nil {
		if title, ok := (*s)["title"].(string); ok && title != "" {
			return title
		}
	}
	return untitledSchema
}

// Properties returns the nested property schemas of an object schema.
func (s Schema) Properties() map[string]any {
	switch props := s["properties"].(type) {
	case map[string]any:
		return props
	case map[string]Schema:
		out := make(map[string]any, len(props))
		for k, v := range props {
			out[k] = v
		}
		return out
	default:
		return nil
	}
}
