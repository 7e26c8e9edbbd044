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
package rowfilter

import (
	"fmt"

	"github.com/framelab/rowset/pkg/codegen"
	"github.com/framelab/rowset/pkg/expr"
	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/rowindex"
)

// FilterNode selects the rows for which a boolean expression holds.  This is
// equivalent to first evaluating the expression as a boolean column and then
// selecting through it as a mask.
//
// Two execution strategies exist.  Under the eager strategy the expression is
// evaluated immediately into a mask; since that mask is relative to the
// immediate source (not yet a finished index), this node applies inversion
// and uplift itself rather than through the shared composition path.  Under
// the compiled strategy (in effect whenever the context carries a Compiler),
// the node reserves a generated-function name at construction and registers
// itself for code emission; at finalization it retrieves the compiled
// predicate by that name and derives the index from it.
type FilterNode struct {
	base
	expr expr.Expr
	// Reserved generated-function name (compiled strategy only).
	fnname string
}

// NewFilter constructs a filter selection node from a boolean expression.
func NewFilter(ee *Engine, e expr.Expr) (*FilterNode, error) {
	kind, err := e.Kind(ee.Frame())
	if err != nil {
		return nil, valueErrorf("%s", err)
	} else if kind != frame.BoolKind {
		return nil, typeErrorf("filter expression %s is not boolean (type %s)", e, kind)
	}
	//
	p := &FilterNode{base: base{engine: ee}, expr: e}
	//
	if c := ee.Compiler(); c != nil {
		p.fnname = c.ReserveName("make_rowindex")
		c.Register(p)
	}
	//
	return p, nil
}

// FunctionName returns the generated-function name reserved for this node,
// or the empty string under the eager strategy.
func (p *FilterNode) FunctionName() string {
	return p.fnname
}

// Execute computes and stores this node's indices.  The source index is
// declared "not yet known" rather than absent, since a mask (or compiled
// predicate) only becomes an index at finalization.
func (p *FilterNode) Execute() error {
	p.begin()
	//
	ee := p.engine
	ee.SetSourcePending()
	//
	target := ee.Frame().Index()
	//
	final, err := p.makeFinal()
	if err != nil {
		return err
	}
	//
	ee.SetFinalIndex(final, target)
	ee.SetCurrentIndex(final)
	//
	return nil
}

// makeFinal computes the final index under whichever strategy is in effect.
func (p *FilterNode) makeFinal() (*rowindex.RowIndex, error) {
	ee := p.engine
	nrows := ee.NumRows()
	//
	if c := ee.Compiler(); c != nil {
		fn, err := c.Result(p.fnname)
		if err != nil {
			return nil, err
		}

		return rowindex.FromPredicate(fn, nrows), nil
	}
	// Eager strategy: evaluate into a mask, then invert and uplift here.
	mask, err := expr.EvalBool(p.expr, ee.Frame())
	if err != nil {
		return nil, valueErrorf("%s", err)
	}
	//
	ri := rowindex.FromBools(mask)
	if p.inverse {
		ri = ri.Inverse(nrows)
	}
	//
	if cur := ee.CurrentIndex(); cur != nil {
		ri = ri.Uplift(cur)
	}
	//
	return ri, nil
}

// GenerateCode emits this node's loop fragments into the compiling engine.
// The node contributes a running output counter, the guarded
// append-and-increment statement, and the output-count store; the engine owns
// iteration, naming and compilation.
func (p *FilterNode) GenerateCode(eng *codegen.Engine) error {
	l := eng.Loop(p.fnname)
	l.AddPreamble("j := uint(0)")
	l.AddBody(
		fmt.Sprintf("if %s {", p.expr),
		"\tout[j] = uint32(i)",
		"\tj++",
		"}",
	)
	l.AddEpilogue("*nOuts = j")
	l.SetExtraParams("out []uint32, nOuts *uint")
	//
	return l.Compile(p.expr)
}
