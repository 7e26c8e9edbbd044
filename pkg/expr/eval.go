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

	"github.com/framelab/rowset/pkg/frame"
)

// ============================================================================
// Type resolution
// ============================================================================

// Kind resolves a column access to the kind of the accessed column.
func (e *ColumnAccess) Kind(fr *frame.Frame) (frame.Kind, error) {
	col, ok := fr.ColumnByName(e.Column)
	if !ok {
		return 0, fmt.Errorf("unknown column %s", e.Column)
	}

	return fr.ColumnByIndex(col).Kind(), nil
}

// Kind resolves a constant, which is always an integer.
func (e *Const) Kind(fr *frame.Frame) (frame.Kind, error) {
	return frame.IntKind, nil
}

// Kind resolves a comparison, which requires integer operands and yields a
// boolean.
func (e *Cmp) Kind(fr *frame.Frame) (frame.Kind, error) {
	for _, arg := range []Expr{e.Lhs, e.Rhs} {
		kind, err := arg.Kind(fr)
		if err != nil {
			return 0, err
		} else if kind != frame.IntKind {
			return 0, fmt.Errorf("comparison requires integer operands, got %s (%s)", kind, arg)
		}
	}

	return frame.BoolKind, nil
}

// Kind resolves a conjunction, which requires boolean operands.
func (e *And) Kind(fr *frame.Frame) (frame.Kind, error) {
	return naryBoolKind(fr, e.Args)
}

// Kind resolves a disjunction, which requires boolean operands.
func (e *Or) Kind(fr *frame.Frame) (frame.Kind, error) {
	return naryBoolKind(fr, e.Args)
}

// Kind resolves a negation, which requires a boolean operand.
func (e *Not) Kind(fr *frame.Frame) (frame.Kind, error) {
	return naryBoolKind(fr, []Expr{e.Arg})
}

func naryBoolKind(fr *frame.Frame, args []Expr) (frame.Kind, error) {
	for _, arg := range args {
		kind, err := arg.Kind(fr)
		if err != nil {
			return 0, err
		} else if kind != frame.BoolKind {
			return 0, fmt.Errorf("logical operator requires boolean operands, got %s (%s)", kind, arg)
		}
	}

	return frame.BoolKind, nil
}

// ============================================================================
// Evaluation
// ============================================================================

// EvalAt evaluates a column access by reading the column at the given visible
// row, with booleans read as 0/1.
func (e *ColumnAccess) EvalAt(fr *frame.Frame, row uint) (int64, error) {
	col, ok := fr.ColumnByName(e.Column)
	if !ok {
		return 0, fmt.Errorf("unknown column %s", e.Column)
	}
	//
	if fr.ColumnByIndex(col).Kind() == frame.BoolKind {
		if fr.BoolAt(col, row) {
			return 1, nil
		}

		return 0, nil
	}

	return fr.IntAt(col, row), nil
}

// EvalAt evaluates a constant, which simply returns that constant.
func (e *Const) EvalAt(fr *frame.Frame, row uint) (int64, error) {
	return e.Value, nil
}

// EvalAt evaluates a comparison at a given row by first evaluating both of
// its operands at that row.
func (e *Cmp) EvalAt(fr *frame.Frame, row uint) (int64, error) {
	lhs, err := e.Lhs.EvalAt(fr, row)
	if err != nil {
		return 0, err
	}
	//
	rhs, err := e.Rhs.EvalAt(fr, row)
	if err != nil {
		return 0, err
	}
	//
	var holds bool
	//
	switch e.Op {
	case LT:
		holds = lhs < rhs
	case LTEQ:
		holds = lhs <= rhs
	case GT:
		holds = lhs > rhs
	case GTEQ:
		holds = lhs >= rhs
	case EQ:
		holds = lhs == rhs
	case NEQ:
		holds = lhs != rhs
	}
	//
	if holds {
		return 1, nil
	}

	return 0, nil
}

// EvalAt evaluates a conjunction at a given row, short-circuiting on the
// first false operand.
func (e *And) EvalAt(fr *frame.Frame, row uint) (int64, error) {
	for _, arg := range e.Args {
		val, err := arg.EvalAt(fr, row)
		if err != nil || val == 0 {
			return 0, err
		}
	}

	return 1, nil
}

// EvalAt evaluates a disjunction at a given row, short-circuiting on the
// first true operand.
func (e *Or) EvalAt(fr *frame.Frame, row uint) (int64, error) {
	for _, arg := range e.Args {
		val, err := arg.EvalAt(fr, row)
		if err != nil || val != 0 {
			return val, err
		}
	}

	return 0, nil
}

// EvalAt evaluates a negation at a given row.
func (e *Not) EvalAt(fr *frame.Frame, row uint) (int64, error) {
	val, err := e.Arg.EvalAt(fr, row)
	if err != nil {
		return 0, err
	} else if val == 0 {
		return 1, nil
	}

	return 0, nil
}

// EvalBool eagerly evaluates a boolean expression over every visible row of a
// frame, producing the resulting mask.  The expression must resolve to a
// boolean type.
func EvalBool(e Expr, fr *frame.Frame) ([]bool, error) {
	kind, err := e.Kind(fr)
	if err != nil {
		return nil, err
	} else if kind != frame.BoolKind {
		return nil, fmt.Errorf("expression %s is not boolean (type %s)", e, kind)
	}
	//
	mask := make([]bool, fr.NumRows())
	//
	for i := uint(0); i < fr.NumRows(); i++ {
		val, err := e.EvalAt(fr, i)
		if err != nil {
			return nil, err
		}

		mask[i] = val != 0
	}
	//
	return mask, nil
}
