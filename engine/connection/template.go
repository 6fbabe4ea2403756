package connection

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// nameTemplate is a parsed dataset name. Placeholders are written {key}; {{ and }} stand for
// literal braces. Positional fields and format options are not supported.
type nameTemplate struct {
	text     string
	segments []segment
}

type segment struct {
	literal     string
	placeholder string
}

func parseTemplate(text string) (*nameTemplate, error) {
	t := &nameTemplate{text: text}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch ch {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unbalanced '{' in name template %q", text)
			}
			key := text[i+1 : i+1+end]
			if err := checkPlaceholder(key, text); err != nil {
				return nil, err
			}
			flush()
			t.segments = append(t.segments, segment{placeholder: key})
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' in name template %q", text)
		default:
			lit.WriteByte(ch)
		}
	}
	flush()
	return t, nil
}

func checkPlaceholder(key, text string) error {
	if key == "" {
		return fmt.Errorf("positional placeholder {} in name template %q", text)
	}
	if strings.ContainsAny(key, ":!") {
		return fmt.Errorf("format options in placeholder {%s} of name template %q", key, text)
	}
	if !isIdentifier(key) {
		return fmt.Errorf("placeholder {%s} of name template %q is not an identifier", key, text)
	}
	return nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return s != ""
}

// Placeholders returns the distinct placeholder keys, sorted.
func (t *nameTemplate) Placeholders() []string {
	var keys []string
	for _, seg := range t.segments {
		if seg.placeholder != "" {
			keys = append(keys, seg.placeholder)
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// Format substitutes values into t. Every placeholder must have a value; extra values are
// ignored.
func (t *nameTemplate) Format(values map[string]string) (string, error) {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.placeholder == "" {
			sb.WriteString(seg.literal)
			continue
		}
		v, ok := values[seg.placeholder]
		if !ok {
			return "", fmt.Errorf("no value for placeholder {%s} in name template %q", seg.placeholder, t.text)
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

func formatName(text string, values map[string]string) (string, error) {
	t, err := parseTemplate(text)
	if err != nil {
		return "", err
	}
	return t.Format(values)
}
