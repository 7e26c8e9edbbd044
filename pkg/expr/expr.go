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
package expr

import (
	"fmt"
	"strings"

	"github.com/framelab/rowset/pkg/frame"
)

// ============================================================================
// Expressions
// ============================================================================

// Expr is an expression evaluated row-by-row against a frame.  Boolean values
// are represented as 0/1 integers during evaluation.  Expressions are
// immutable once constructed.
type Expr interface {
	// Kind resolves the type of this expression against a given frame,
	// returning an error if the expression is ill-typed (e.g. accesses an
	// unknown column, or applies a logical operator to integer operands).
	Kind(fr *frame.Frame) (frame.Kind, error)
	// EvalAt evaluates this expression at a given visible row of a frame.
	EvalAt(fr *frame.Frame, row uint) (int64, error)
	// String returns this expression in concrete syntax.
	String() string
}

// ColumnAccess reads the value of a named column at the current row.
type ColumnAccess struct{ Column string }

// Const is an integer constant.
type Const struct{ Value int64 }

// CmpOp identifies a comparison operator.
type CmpOp uint8

// Comparison operators supported by Cmp expressions.
const (
	LT CmpOp = iota
	LTEQ
	GT
	GTEQ
	EQ
	NEQ
)

// Cmp compares two integer subexpressions, yielding a boolean.
type Cmp struct {
	Op       CmpOp
	Lhs, Rhs Expr
}

// And is the n-ary logical conjunction of boolean subexpressions.
type And struct{ Args []Expr }

// Or is the n-ary logical disjunction of boolean subexpressions.
type Or struct{ Args []Expr }

// Not is the logical negation of a boolean subexpression.
type Not struct{ Arg Expr }

// ============================================================================
// Constructors
// ============================================================================

// NewColumn constructs a column access expression.
func NewColumn(name string) Expr { return &ColumnAccess{name} }

// NewConst constructs an integer constant expression.
func NewConst(value int64) Expr { return &Const{value} }

// NewCmp constructs a comparison expression.
func NewCmp(op CmpOp, lhs Expr, rhs Expr) Expr { return &Cmp{op, lhs, rhs} }

// NewAnd constructs the conjunction of one or more boolean expressions.
func NewAnd(args ...Expr) Expr { return &And{args} }

// NewOr constructs the disjunction of one or more boolean expressions.
func NewOr(args ...Expr) Expr { return &Or{args} }

// NewNot constructs the negation of a boolean expression.
func NewNot(arg Expr) Expr { return &Not{arg} }

// ============================================================================
// Concrete syntax
// ============================================================================

func (e *ColumnAccess) String() string {
	return e.Column
}

func (e *Const) String() string {
	return fmt.Sprintf("%d", e.Value)
}

func (op CmpOp) String() string {
	switch op {
	case LT:
		return "<"
	case LTEQ:
		return "<="
	case GT:
		return ">"
	case GTEQ:
		return ">="
	case EQ:
		return "=="
	case NEQ:
		return "!="
	}

	return "?"
}

func (e *Cmp) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Lhs, e.Op, e.Rhs)
}

func (e *And) String() string {
	return naryString(e.Args, " && ")
}

func (e *Or) String() string {
	return naryString(e.Args, " || ")
}

func (e *Not) String() string {
	return fmt.Sprintf("!%s", e.Arg)
}

func naryString(args []Expr, op string) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, arg := range args {
		if i != 0 {
			builder.WriteString(op)
		}

		builder.WriteString(arg.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
