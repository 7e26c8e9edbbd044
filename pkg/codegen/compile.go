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
package codegen

import (
	"fmt"

	"github.com/framelab/rowset/pkg/expr"
	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/rowindex"
)

// opcode identifies a single operation of the filter stack machine.
type opcode uint8

const (
	// opConst pushes an immediate value.
	opConst opcode = iota
	// opColumn pushes the value of a column at the current row (bools as 0/1).
	opColumn
	// Binary comparisons, popping two operands and pushing 0/1.
	opLt
	opLtEq
	opGt
	opGtEq
	opEq
	opNeq
	// Binary logical operators, popping two 0/1 operands.
	opAnd
	opOr
	// Unary logical negation.
	opNot
)

// instruction is one operation of a compiled filter program, with its
// immediate operands.
type instruction struct {
	op opcode
	// Immediate value (opConst only).
	value int64
	// Column index (opColumn only).
	column uint
	// Column kind (opColumn only).
	kind frame.Kind
}

// Program is a boolean expression compiled into a flat postfix instruction
// sequence, evaluated row-by-row by a small stack machine.  A program is
// bound to the frame it was compiled against and is not safe for concurrent
// use (the evaluation stack is reused across rows).
type Program struct {
	fr    *frame.Frame
	code  []instruction
	stack []int64
}

// CompileExpr compiles a boolean expression into a Program against a given
// frame.  Column names are resolved at compile time, hence running the
// program cannot fail.
func CompileExpr(e expr.Expr, fr *frame.Frame) (*Program, error) {
	kind, err := e.Kind(fr)
	if err != nil {
		return nil, err
	} else if kind != frame.BoolKind {
		return nil, fmt.Errorf("expression %s is not boolean (type %s)", e, kind)
	}
	//
	p := &Program{fr: fr}
	if err := p.emit(e); err != nil {
		return nil, err
	}
	//
	return p, nil
}

// Predicate returns the compiled program as a row predicate.
func (p *Program) Predicate() rowindex.Predicate {
	return func(row uint) bool {
		return p.run(row)
	}
}

// emit flattens an expression into postfix instructions.
func (p *Program) emit(e expr.Expr) error {
	switch e := e.(type) {
	case *expr.Const:
		p.code = append(p.code, instruction{op: opConst, value: e.Value})
	case *expr.ColumnAccess:
		col, ok := p.fr.ColumnByName(e.Column)
		if !ok {
			return fmt.Errorf("unknown column %s", e.Column)
		}

		p.code = append(p.code, instruction{op: opColumn, column: col, kind: p.fr.ColumnByIndex(col).Kind()})
	case *expr.Cmp:
		if err := p.emitAll(e.Lhs, e.Rhs); err != nil {
			return err
		}

		p.code = append(p.code, instruction{op: cmpOpcode(e.Op)})
	case *expr.And:
		return p.emitNary(e.Args, opAnd)
	case *expr.Or:
		return p.emitNary(e.Args, opOr)
	case *expr.Not:
		if err := p.emit(e.Arg); err != nil {
			return err
		}

		p.code = append(p.code, instruction{op: opNot})
	default:
		return fmt.Errorf("cannot compile expression %s", e)
	}
	//
	return nil
}

func (p *Program) emitAll(exprs ...expr.Expr) error {
	for _, e := range exprs {
		if err := p.emit(e); err != nil {
			return err
		}
	}

	return nil
}

// emitNary flattens an n-ary logical operator into a left fold of the binary
// opcode.
func (p *Program) emitNary(args []expr.Expr, op opcode) error {
	for i, arg := range args {
		if err := p.emit(arg); err != nil {
			return err
		}
		//
		if i != 0 {
			p.code = append(p.code, instruction{op: op})
		}
	}

	return nil
}

func cmpOpcode(op expr.CmpOp) opcode {
	switch op {
	case expr.LT:
		return opLt
	case expr.LTEQ:
		return opLtEq
	case expr.GT:
		return opGt
	case expr.GTEQ:
		return opGtEq
	case expr.EQ:
		return opEq
	case expr.NEQ:
		return opNeq
	}

	panic(fmt.Sprintf("unknown comparison operator %d", op))
}

// run executes the program at a given visible row.
func (p *Program) run(row uint) bool {
	stack := p.stack[:0]
	//
	for _, insn := range p.code {
		switch insn.op {
		case opConst:
			stack = append(stack, insn.value)
		case opColumn:
			var val int64
			//
			if insn.kind == frame.BoolKind {
				if p.fr.BoolAt(insn.column, row) {
					val = 1
				}
			} else {
				val = p.fr.IntAt(insn.column, row)
			}
			//
			stack = append(stack, val)
		case opNot:
			top := len(stack) - 1
			if stack[top] == 0 {
				stack[top] = 1
			} else {
				stack[top] = 0
			}
		default:
			// Binary operators
			rhs := stack[len(stack)-1]
			lhs := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1] = applyBinary(insn.op, lhs, rhs)
		}
	}
	// Retain the stack buffer for the next row.
	p.stack = stack
	//
	return stack[0] != 0
}

func applyBinary(op opcode, lhs int64, rhs int64) int64 {
	var holds bool
	//
	switch op {
	case opLt:
		holds = lhs < rhs
	case opLtEq:
		holds = lhs <= rhs
	case opGt:
		holds = lhs > rhs
	case opGtEq:
		holds = lhs >= rhs
	case opEq:
		holds = lhs == rhs
	case opNeq:
		holds = lhs != rhs
	case opAnd:
		holds = lhs != 0 && rhs != 0
	case opOr:
		holds = lhs != 0 || rhs != 0
	}
	//
	if holds {
		return 1
	}

	return 0
}
