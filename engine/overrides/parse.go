package overrides

import (
	"fmt"
	"strings"
)

// ParseValueOverride splits "a.b=value" into its field path and raw value text.
func ParseValueOverride(text string) (string, string, error) {
	field, value, ok := strings.Cut(text, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return "", "", fmt.Errorf("invalid value override %q: expected field=value", text)
	}
	for _, part := range strings.Split(field, ".") {
		if part == "" {
			return "", "", fmt.Errorf("invalid value override %q: empty path segment", text)
		}
	}
	return field, value, nil
}

// ParseNameSubstitution parses "key=value,key2=value2" into a template value map.
func ParseNameSubstitution(text string) (map[string]string, error) {
	names := make(map[string]string)
	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid name substitution %q: expected key=value", item)
		}
		names[key] = strings.TrimSpace(value)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("empty name substitution %q", text)
	}
	return names, nil
}
