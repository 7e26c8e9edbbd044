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

	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/rowindex"
)

// Node represents one resolved row selector, applied to some target frame.
// Its primary function is to compute a final RowIndex and place it into the
// evaluation context.  The target frame may itself be a view, in which case
// the computed index is uplifted to address the underlying column storage.
//
// Nodes are constructed through the factory function New, executed exactly
// once, and discarded.
type Node interface {
	// Execute computes this node's source index, composes the final index
	// against any index already in effect on the target frame, and writes
	// both into the evaluation context.  Must not be called more than once.
	Execute() error
	// Negate toggles row-set negation on this node.  Negation is applied in
	// the coordinate space of the immediate source, before any uplift.
	Negate()
}

// base carries the state shared by every node: the evaluation context and the
// inversion flag.
type base struct {
	engine   *Engine
	inverse  bool
	executed bool
}

// Negate toggles row-set negation on this node.
func (p *base) Negate() {
	p.inverse = !p.inverse
}

// execute writes the given source index into the context, derives the final
// index from it, and writes that back too.  This is the shared execution path
// for every variant except the sorted-order node (which bypasses composition)
// and the filter node (whose mask is not yet a finished index when inversion
// applies).
func (p *base) execute(source *rowindex.RowIndex) error {
	p.begin()
	//
	ee := p.engine
	ee.SetSourceIndex(source)
	//
	target := ee.Frame().Index()
	final := p.finalIndex(source)
	ee.SetFinalIndex(final, target)
	ee.SetCurrentIndex(final)
	//
	return nil
}

// begin marks this node as executed, enforcing the execute-once contract.
func (p *base) begin() {
	if p.executed {
		panic("row filter node executed more than once")
	}

	p.executed = true
}

// finalIndex composes a source index with the target frame's pre-existing
// index and the inversion flag.  An absent (nil) source denotes the identity
// selection: the final index is then the pre-existing index unchanged, or the
// empty index under negation.  Otherwise negation applies first, in source
// coordinates, and only then is the result uplifted to the ancestor view.
func (p *base) finalIndex(source *rowindex.RowIndex) *rowindex.RowIndex {
	target := p.engine.Frame().Index()
	//
	if source == nil {
		if p.inverse {
			return rowindex.FromSlice(0, 0, 0)
		}

		return target
	}
	//
	final := source
	if p.inverse {
		final = final.Inverse(p.engine.NumRows())
	}
	//
	if target != nil {
		final = final.Uplift(target)
	}
	//
	return final
}

// ===================================================================
// All
// ===================================================================

// AllNode represents selection of every row of the target frame.  Although
// this is expressible as a slice, it is kept distinct so that downstream
// consumers can special-case the absence of any filtering.
type AllNode struct {
	base
}

// NewAll constructs a node selecting every row of the target frame.
func NewAll(ee *Engine) *AllNode {
	return &AllNode{base{engine: ee}}
}

// Execute computes and stores this node's indices.
func (p *AllNode) Execute() error {
	return p.execute(nil)
}

// ===================================================================
// Slice
// ===================================================================

// SliceNode selects the rows [start + i*step for i in 0..count).  The step
// may be positive, negative or zero; however, every generated position must
// lie within the target frame's rows.
type SliceNode struct {
	base
	start uint
	count uint
	step  int
}

// NewSlice constructs a slice selection node.  All generated positions must
// be non-negative; violating this is a programming error in the caller.
func NewSlice(ee *Engine, start uint, count uint, step int) *SliceNode {
	if count > 0 && int(start)+int(count-1)*step < 0 {
		panic(fmt.Sprintf("slice (%d,%d,%d) generates negative positions", start, count, step))
	}

	return &SliceNode{base{engine: ee}, start, count, step}
}

// Slice returns the (start, count, step) triple of this node.
func (p *SliceNode) Slice() (uint, uint, int) {
	return p.start, p.count, p.step
}

// Execute computes and stores this node's indices.
func (p *SliceNode) Execute() error {
	return p.execute(rowindex.FromSlice(p.start, p.count, p.step))
}

// ===================================================================
// Array
// ===================================================================

// ArrayNode selects rows via an explicit list of already-normalized row
// positions.  Positions are not re-validated here; bounds are the caller's
// responsibility.
type ArrayNode struct {
	base
	positions []uint32
}

// NewArray constructs an explicit-positions selection node.
func NewArray(ee *Engine, positions []uint32) *ArrayNode {
	return &ArrayNode{base{engine: ee}, positions}
}

// Positions returns the row positions selected by this node.
func (p *ArrayNode) Positions() []uint32 {
	return p.positions
}

// Execute computes and stores this node's indices.
func (p *ArrayNode) Execute() error {
	return p.execute(rowindex.FromArray(p.positions))
}

// ===================================================================
// MultiSlice
// ===================================================================

// MultiSliceNode selects rows via a list of slices, given as three parallel
// arrays where each triple (bases[i], counts[i], steps[i]) describes one
// slice.  The counts and steps arrays may be shorter than bases, in which
// case their missing trailing entries default to 1.  This generalizes both
// SliceNode and ArrayNode.
type MultiSliceNode struct {
	base
	bases  []uint
	counts []uint
	steps  []int
}

// NewMultiSlice constructs a slice-list selection node.
func NewMultiSlice(ee *Engine, bases []uint, counts []uint, steps []int) *MultiSliceNode {
	return &MultiSliceNode{base{engine: ee}, bases, counts, steps}
}

// SliceList returns the parallel (bases, counts, steps) arrays of this node.
func (p *MultiSliceNode) SliceList() ([]uint, []uint, []int) {
	return p.bases, p.counts, p.steps
}

// Execute computes and stores this node's indices.
func (p *MultiSliceNode) Execute() error {
	return p.execute(rowindex.FromSliceList(p.bases, p.counts, p.steps))
}

// ===================================================================
// Boolean column
// ===================================================================

// BoolColumnNode selects the rows for which the provided mask frame holds
// true.  The mask must be a single boolean column of exactly the target
// frame's length; the factory checks this during classification, hence a
// violation here is a programming error.
type BoolColumnNode struct {
	base
	mask *frame.Frame
}

// NewBoolColumn constructs a mask selection node.
func NewBoolColumn(ee *Engine, mask *frame.Frame) *BoolColumnNode {
	if mask.Width() != 1 || mask.NumRows() != ee.NumRows() {
		panic(fmt.Sprintf("mask frame has shape (%d,%d), expected (%d,1)",
			mask.NumRows(), mask.Width(), ee.NumRows()))
	}

	return &BoolColumnNode{base{engine: ee}, mask}
}

// Execute computes and stores this node's indices.
func (p *BoolColumnNode) Execute() error {
	return p.execute(rowindex.FromBools(p.mask.BoolValues(0)))
}

// ===================================================================
// Integer column
// ===================================================================

// IntColumnNode treats the provided single integer column as a row index.
// Unlike the other variants, the bounds check happens here rather than in the
// factory, since it requires first materializing the index's maximum.
type IntColumnNode struct {
	base
	col *frame.Frame
}

// NewIntColumn constructs an integer-column selection node.
func NewIntColumn(ee *Engine, col *frame.Frame) *IntColumnNode {
	if col.Width() != 1 {
		panic(fmt.Sprintf("selector frame has %d columns, expected 1", col.Width()))
	}

	return &IntColumnNode{base{engine: ee}, col}
}

// Execute computes and stores this node's indices, failing if any value in
// the column is not a valid row position for the target frame.
func (p *IntColumnNode) Execute() error {
	nrows := p.engine.NumRows()
	//
	ri, err := rowindex.FromInts(p.col.IntValues(0))
	if err != nil {
		return valueErrorf("%s", err)
	} else if ri.Len() > 0 && ri.Max() >= nrows {
		return valueErrorf("the data column contains index %d which is not allowed for a frame with %s",
			ri.Max(), pluralForm(nrows, "row"))
	}
	//
	return p.execute(ri)
}
