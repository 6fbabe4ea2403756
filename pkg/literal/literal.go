// Package literal parses text holding a single literal value: numbers, booleans, null,
// quoted strings, and lists or objects built only from literals.
//
// The grammar is the HCL expression syntax restricted to constant values. Nothing is ever
// evaluated: identifiers, operators, function calls and template interpolations are rejected,
// so parsing untrusted override text is safe. Values use the HCL spellings: true, false,
// null, "x" and [1, 2]; True, None, 'x' and (1, 2) are rejected.
package literal

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// ErrNotLiteral is returned when the text parses as an expression that is not a literal.
var ErrNotLiteral = errors.New("not a literal value")

const sourceName = "<literal>"

// Parse converts text into a Go value.
//
// Integers become int (float64 when they overflow int), numbers written with a fraction or
// exponent become float64, lists become []any and objects become map[string]any.
func Parse(text string) (any, error) {
	src := []byte(text)
	expr, diags := hclsyntax.ParseExpression(src, sourceName, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}
	p := &parser{src: src}
	return p.convert(expr)
}

type parser struct {
	src []byte
}

func (p *parser) convert(expr hclsyntax.Expression) (any, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return p.literalValue(e)
	case *hclsyntax.TemplateExpr:
		return p.quotedString(e)
	case *hclsyntax.TupleConsExpr:
		out := make([]any, 0, len(e.Exprs))
		for _, item := range e.Exprs {
			v, err := p.convert(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *hclsyntax.ObjectConsExpr:
		out := make(map[string]any, len(e.Items))
		for _, item := range e.Items {
			key, err := p.objectKey(item.KeyExpr)
			if err != nil {
				return nil, err
			}
			v, err := p.convert(item.ValueExpr)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	case *hclsyntax.UnaryOpExpr:
		return p.negation(e)
	default:
		return nil, p.notLiteral(expr)
	}
}

func (p *parser) literalValue(e *hclsyntax.LiteralValueExpr) (any, error) {
	v := e.Val
	if v.IsNull() {
		return nil, nil
	}
	switch v.Type() {
	case cty.Bool:
		return v.True(), nil
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		return p.number(e.SrcRange, v.AsBigFloat()), nil
	default:
		return nil, p.notLiteral(e)
	}
}

// number keeps the distinction between 5 and 5.0 that cty loses, based on the source text.
func (p *parser) number(rng hcl.Range, f *big.Float) any {
	text := string(rng.SliceBytes(p.src))
	if !strings.ContainsAny(text, ".eE") && f.IsInt() {
		if i, err := strconv.ParseInt(text, 10, strconv.IntSize); err == nil {
			return int(i)
		}
	}
	out, _ := f.Float64()
	return out
}

func (p *parser) quotedString(e *hclsyntax.TemplateExpr) (any, error) {
	var sb strings.Builder
	for _, part := range e.Parts {
		lit, ok := part.(*hclsyntax.LiteralValueExpr)
		if !ok || lit.Val.IsNull() || lit.Val.Type() != cty.String {
			return nil, fmt.Errorf("%w: string interpolation is not allowed", ErrNotLiteral)
		}
		sb.WriteString(lit.Val.AsString())
	}
	return sb.String(), nil
}

func (p *parser) objectKey(expr hclsyntax.Expression) (string, error) {
	if k, ok := expr.(*hclsyntax.ObjectConsKeyExpr); ok {
		if !k.ForceNonLiteral {
			if name := hcl.ExprAsKeyword(k.Wrapped); name != "" {
				return name, nil
			}
		}
		expr = k.Wrapped
	}
	v, err := p.convert(expr)
	if err != nil {
		return "", err
	}
	switch key := v.(type) {
	case string:
		return key, nil
	case int:
		return strconv.Itoa(key), nil
	case bool:
		return strconv.FormatBool(key), nil
	default:
		return "", fmt.Errorf("%w: object key must be a string, got %T", ErrNotLiteral, v)
	}
}

func (p *parser) negation(e *hclsyntax.UnaryOpExpr) (any, error) {
	if e.Op != hclsyntax.OpNegate {
		return nil, p.notLiteral(e)
	}
	lit, ok := e.Val.(*hclsyntax.LiteralValueExpr)
	if !ok || lit.Val.IsNull() || lit.Val.Type() != cty.Number {
		return nil, p.notLiteral(e)
	}
	switch n := p.number(lit.SrcRange, lit.Val.AsBigFloat()).(type) {
	case int:
		return -n, nil
	case float64:
		return -n, nil
	default:
		return nil, p.notLiteral(e)
	}
}

func (p *parser) notLiteral(expr hclsyntax.Expression) error {
	rng := expr.Range()
	return fmt.Errorf("%w: %q", ErrNotLiteral, string(rng.SliceBytes(p.src)))
}
