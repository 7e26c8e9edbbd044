// Copyright Framelab Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/framelab/rowset/pkg/expr"
	"github.com/framelab/rowset/pkg/rowfilter"
)

// parseSelector parses a textual row selector into a form accepted by the
// selection factory.  Positional selectors are a comma-separated mix of row
// numbers and spans ("3", "-1", "2:8:2", "0,1,5:8"); everything else is
// parsed as a boolean filter expression over column names ("A > 4",
// "A >= 2 & !(B == 7)").  The empty string and "all" select every row.
func parseSelector(input string) (any, error) {
	trimmed := strings.TrimSpace(input)
	//
	if trimmed == "" || trimmed == "all" {
		return nil, nil
	}
	// Expressions are recognized by their operators; spans and row numbers
	// never contain them.
	if strings.ContainsAny(trimmed, "<>=!&|()") {
		return parseExpression(trimmed)
	}
	//
	return parsePositional(trimmed)
}

// parsePositional parses a comma-separated mix of row numbers and spans.  A
// lone row number stays scalar, so that downstream error messages talk about
// a row rather than a list.
func parsePositional(input string) (any, error) {
	items := strings.Split(input, ",")
	list := make([]any, len(items))
	//
	for i, item := range items {
		item = strings.TrimSpace(item)
		//
		if strings.Contains(item, ":") {
			span, err := parseSpan(item)
			if err != nil {
				return nil, err
			}

			list[i] = span
		} else {
			n, err := strconv.Atoi(item)
			if err != nil {
				return nil, fmt.Errorf("invalid row number %q", item)
			}

			list[i] = n
		}
	}
	//
	if len(list) == 1 {
		return list[0], nil
	}
	//
	return list, nil
}

// parseSpan parses "a:b", "a:b:c" and their open forms (":", "2:", ":8").
func parseSpan(item string) (rowfilter.Span, error) {
	var span = rowfilter.SpanAll()
	//
	parts := strings.Split(item, ":")
	if len(parts) > 3 {
		return span, fmt.Errorf("invalid span %q", item)
	}
	//
	bounds := make([]*int, 3)
	//
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		//
		n, err := strconv.Atoi(part)
		if err != nil {
			return span, fmt.Errorf("invalid span bound %q", part)
		}
		//
		bounds[i] = &n
	}
	//
	switch {
	case bounds[0] != nil && bounds[1] != nil:
		span = rowfilter.NewSpan(*bounds[0], *bounds[1])
	case bounds[0] != nil:
		span = rowfilter.SpanFrom(*bounds[0])
	case bounds[1] != nil:
		span = rowfilter.SpanUpTo(*bounds[1])
	}
	//
	if bounds[2] != nil {
		span = span.WithStep(*bounds[2])
	}
	//
	return span, nil
}

// ===================================================================
// Expressions
// ===================================================================

// exprParser is a recursive descent parser for filter expressions, with the
// grammar (loosest binding first): disjunction "|", conjunction "&",
// negation "!", then parenthesized groups and comparisons between a column
// name and an integer literal.
type exprParser struct {
	input string
	pos   int
}

func parseExpression(input string) (expr.Expr, error) {
	p := &exprParser{input: input}
	//
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	//
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing input %q", p.input[p.pos:])
	}
	//
	return e, nil
}

func (p *exprParser) parseOr() (expr.Expr, error) {
	args, err := p.parseNary("|", p.parseAnd)
	if err != nil {
		return nil, err
	}
	//
	if len(args) == 1 {
		return args[0], nil
	}
	//
	return expr.NewOr(args...), nil
}

func (p *exprParser) parseAnd() (expr.Expr, error) {
	args, err := p.parseNary("&", p.parseUnary)
	if err != nil {
		return nil, err
	}
	//
	if len(args) == 1 {
		return args[0], nil
	}
	//
	return expr.NewAnd(args...), nil
}

// parseNary parses one or more operands joined by the given single-character
// operator.
func (p *exprParser) parseNary(op string, operand func() (expr.Expr, error)) ([]expr.Expr, error) {
	var args []expr.Expr
	//
	for {
		arg, err := operand()
		if err != nil {
			return nil, err
		}
		//
		args = append(args, arg)
		//
		p.skipSpace()
		if !p.consume(op) {
			return args, nil
		}
	}
}

func (p *exprParser) parseUnary() (expr.Expr, error) {
	p.skipSpace()
	// Take care not to swallow the "!" of a "!=" comparison.
	if strings.HasPrefix(p.input[p.pos:], "!") && !strings.HasPrefix(p.input[p.pos:], "!=") {
		p.pos++
		//
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		//
		return expr.NewNot(arg), nil
	}
	//
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (expr.Expr, error) {
	p.skipSpace()
	//
	if p.consume("(") {
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		//
		p.skipSpace()
		if !p.consume(")") {
			return nil, fmt.Errorf("expected ')' at offset %d", p.pos)
		}
		//
		return e, nil
	}
	//
	return p.parseComparison()
}

func (p *exprParser) parseComparison() (expr.Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	//
	p.skipSpace()
	//
	op, ok := p.parseCmpOp()
	if !ok {
		// A bare term, e.g. a boolean column used directly as a filter.
		return lhs, nil
	}
	//
	rhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	//
	return expr.NewCmp(op, lhs, rhs), nil
}

func (p *exprParser) parseCmpOp() (expr.CmpOp, bool) {
	ops := []struct {
		text string
		op   expr.CmpOp
	}{
		{"==", expr.EQ}, {"!=", expr.NEQ}, {"<=", expr.LTEQ},
		{">=", expr.GTEQ}, {"<", expr.LT}, {">", expr.GT},
	}
	//
	for _, candidate := range ops {
		if p.consume(candidate.text) {
			return candidate.op, true
		}
	}
	//
	return 0, false
}

// parseTerm parses a column name or an integer literal.
func (p *exprParser) parseTerm() (expr.Expr, error) {
	p.skipSpace()
	//
	start := p.pos
	rest := p.input[p.pos:]
	//
	switch {
	case len(rest) == 0:
		return nil, fmt.Errorf("unexpected end of expression")
	case rest[0] == '-' || unicode.IsDigit(rune(rest[0])):
		p.pos++
		for p.pos < len(p.input) && unicode.IsDigit(rune(p.input[p.pos])) {
			p.pos++
		}
		//
		n, err := strconv.ParseInt(p.input[start:p.pos], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q", p.input[start:p.pos])
		}
		//
		return expr.NewConst(n), nil
	case unicode.IsLetter(rune(rest[0])) || rest[0] == '_':
		p.pos++
		for p.pos < len(p.input) && isIdentRune(rune(p.input[p.pos])) {
			p.pos++
		}
		//
		return expr.NewColumn(p.input[start:p.pos]), nil
	}
	//
	return nil, fmt.Errorf("unexpected character %q at offset %d", rest[0], p.pos)
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) consume(token string) bool {
	if strings.HasPrefix(p.input[p.pos:], token) {
		p.pos += len(token)
		return true
	}

	return false
}
