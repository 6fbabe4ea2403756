package field

import (
	"reflect"

	"github.com/compozy/pipebase/engine/schema"
)

// JSONSchema describes s as a closed JSON object schema.
func (s *Schema) JSONSchema() schema.Schema {
	props := make(map[string]any, len(s.defs))
	for _, def := range s.defs {
		props[def.Name] = def.jsonSchema()
	}
	out := schema.Schema{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if s.name != "" {
		out["title"] = s.name
	}
	return out
}

func (d *FieldDef) jsonSchema() schema.Schema {
	var out schema.Schema
	if d.IsConfig() {
		out = d.Schema.JSONSchema()
		delete(out, "title")
	} else {
		out = typeSchema(d.Type)
		if d.Default != nil {
			out["default"] = d.Default
		}
		if d.Optional {
			if t, ok := out["type"].(string); ok {
				out["type"] = []any{t, "null"}
			}
		}
	}
	if d.Doc != "" {
		out["description"] = d.Doc
	}
	return out
}

func typeSchema(t reflect.Type) schema.Schema {
	switch t.Kind() {
	case reflect.String:
		return schema.Schema{"type": "string"}
	case reflect.Bool:
		return schema.Schema{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return schema.Schema{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return schema.Schema{"type": "number"}
	case reflect.Slice, reflect.Array:
		return schema.Schema{"type": "array", "items": map[string]any(typeSchema(t.Elem()))}
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return schema.Schema{
				"type":                 "object",
				"additionalProperties": map[string]any(typeSchema(t.Elem())),
			}
		}
	}
	return schema.Schema{}
}
