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
	"sort"

	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/rowindex"
)

// SortNode represents a precomputed (stable, ascending) ordering of one
// column of the target frame.  The ordering is computed over visible rows
// and expressed against the underlying storage, hence it already accounts
// for whatever view is in effect and never needs uplifting.
type SortNode struct {
	engine *Engine
	col    uint
}

// NewSort constructs a sort computation over the given column of the target
// frame.
func NewSort(ee *Engine, col uint) *SortNode {
	if col >= ee.Frame().Width() {
		panic(fmt.Sprintf("column %d out-of-bounds (frame has %d columns)", col, ee.Frame().Width()))
	}

	return &SortNode{ee, col}
}

// Engine returns the evaluation context of this sort.
func (p *SortNode) Engine() *Engine {
	return p.engine
}

// MakeRowIndex computes the resulting row order of this sort.
func (p *SortNode) MakeRowIndex() *rowindex.RowIndex {
	fr := p.engine.Frame()
	nrows := fr.NumRows()
	//
	order := make([]uint32, nrows)
	for i := range order {
		order[i] = uint32(i)
	}
	//
	switch fr.ColumnByIndex(p.col).Kind() {
	case frame.IntKind:
		values := fr.IntValues(p.col)
		sort.SliceStable(order, func(i, j int) bool {
			return values[order[i]] < values[order[j]]
		})
	case frame.BoolKind:
		values := fr.BoolValues(p.col)
		sort.SliceStable(order, func(i, j int) bool {
			return !values[order[i]] && values[order[j]]
		})
	}
	//
	ri := rowindex.FromArray(order)
	// When sorting a view, express the order against the underlying storage.
	if idx := fr.Index(); idx != nil {
		ri = ri.Uplift(idx)
	}
	//
	return ri
}

// SortedNode resolves a selection driven by a precomputed sort order.  It
// bypasses the shared composition rule entirely: its final index is taken
// directly from the sort computation, and the pre-existing index on the
// target is recorded separately for later uplift consumers rather than being
// combined here.
type SortedNode struct {
	base
	sort *SortNode
}

// NewSorted constructs a node whose selection is the given sort's order.
func NewSorted(sn *SortNode) *SortedNode {
	return &SortedNode{base{engine: sn.engine}, sn}
}

// Execute stores the sort order as this operation's final index.
func (p *SortedNode) Execute() error {
	p.begin()
	//
	ee := p.engine
	target := ee.Frame().Index()
	final := p.sort.MakeRowIndex()
	//
	ee.SetSourcePending()
	ee.SetFinalIndex(final, target)
	ee.SetCurrentIndex(final)
	//
	return nil
}
