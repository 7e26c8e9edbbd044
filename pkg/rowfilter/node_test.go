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
	"testing"

	"github.com/framelab/rowset/pkg/codegen"
	"github.com/framelab/rowset/pkg/expr"
	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/rowindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viewEngine constructs an engine over a five-row view of a ten-row frame,
// exposing the even rows 0,2,4,6,8.
func viewEngine() *Engine {
	fr := frame.FromInts("A", []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	return NewEngine(fr.Apply(rowindex.FromSlice(0, 5, 2)))
}

// resolve classifies and executes a selector, returning the resulting final
// index.
func resolve(t *testing.T, selector any, ee *Engine, negate bool) *rowindex.RowIndex {
	t.Helper()
	//
	node, err := New(selector, ee)
	require.NoError(t, err)
	//
	if negate {
		node.Negate()
	}
	//
	require.NoError(t, node.Execute())
	//
	return ee.FinalIndex()
}

func TestExecute_All(t *testing.T) {
	ee := tenRows()
	final := resolve(t, nil, ee, false)
	// No pre-existing index, nothing selected away.
	assert.Nil(t, final)
	assert.Nil(t, ee.SourceIndex())
	assert.Same(t, ee.Frame(), ee.Materialize())
}

func TestExecute_AllOnView(t *testing.T) {
	ee := viewEngine()
	final := resolve(t, nil, ee, false)
	// The view's pre-existing index passes through unchanged.
	assert.Same(t, ee.Frame().Index(), final)
}

func TestExecute_AllNegated(t *testing.T) {
	final := resolve(t, nil, tenRows(), true)
	//
	require.NotNil(t, final)
	assert.Equal(t, uint(0), final.Len())
}

func TestExecute_AllNegatedOnView(t *testing.T) {
	// Negating "everything" yields the empty index even on a view.
	final := resolve(t, nil, viewEngine(), true)
	//
	require.NotNil(t, final)
	assert.Equal(t, uint(0), final.Len())
}

func TestExecute_Slice(t *testing.T) {
	ee := tenRows()
	final := resolve(t, NewSpan(2, 8).WithStep(2), ee, false)
	//
	assert.True(t, final.Equal(rowindex.FromSlice(2, 3, 2)))
	assert.Same(t, final, ee.SourceIndex())
	assert.Same(t, final, ee.CurrentIndex())
}

func TestExecute_SliceNegated(t *testing.T) {
	// Rows 2,4,6 knocked out of 0..9.
	final := resolve(t, NewSpan(2, 8).WithStep(2), tenRows(), true)
	//
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{0, 1, 3, 5, 7, 8, 9})))
}

func TestExecute_SliceOnView(t *testing.T) {
	// Rows 1..3 of the view are frame rows 2,4,6.
	final := resolve(t, NewSpan(1, 4), viewEngine(), false)
	//
	assert.True(t, final.Equal(rowindex.FromSlice(2, 3, 2)))
}

func TestExecute_SliceNegatedOnView(t *testing.T) {
	// Negation happens in view coordinates first: view rows {1,2,3}
	// complement to {0,4}, which uplift to frame rows {0,8}.
	final := resolve(t, NewSpan(1, 4), viewEngine(), true)
	//
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{0, 8})))
}

func TestExecute_Array(t *testing.T) {
	final := resolve(t, []any{7, 0, 3}, tenRows(), false)
	//
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{7, 0, 3})))
}

func TestExecute_ArrayOnView(t *testing.T) {
	final := resolve(t, []any{4, 1}, viewEngine(), false)
	//
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{8, 2})))
}

func TestExecute_MultiSlice(t *testing.T) {
	final := resolve(t, []any{0, 1, 2, 5, NewSpan(7, 10)}, tenRows(), false)
	//
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{0, 1, 2, 5, 7, 8, 9})))
}

func TestExecute_BoolColumn(t *testing.T) {
	mask := make([]bool, 10)
	mask[1], mask[4], mask[9] = true, true, true
	//
	final := resolve(t, mask, tenRows(), false)
	//
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{1, 4, 9})))
}

func TestExecute_BoolColumnNegated(t *testing.T) {
	mask := make([]bool, 10)
	for i := 0; i < 8; i++ {
		mask[i] = true
	}
	//
	final := resolve(t, mask, tenRows(), true)
	//
	assert.True(t, final.Equal(rowindex.FromSlice(8, 2, 1)))
}

func TestExecute_IntColumn(t *testing.T) {
	final := resolve(t, []int64{9, 9, 0}, tenRows(), false)
	// Repetition and arbitrary order are allowed.
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{9, 9, 0})))
}

func TestExecute_IntColumnOutOfRange(t *testing.T) {
	node, err := New([]int64{0, 10}, tenRows())
	require.NoError(t, err)
	// Validation is post-hoc: the error only surfaces on execution.
	err = node.Execute()
	assert.ErrorIs(t, err, ErrValueConstraint)
	assert.ErrorContains(t, err, "contains index 10")
	assert.ErrorContains(t, err, "10 rows")
}

func TestExecute_IntColumnNegative(t *testing.T) {
	node, err := New([]int64{3, -1}, tenRows())
	require.NoError(t, err)
	//
	err = node.Execute()
	assert.ErrorIs(t, err, ErrValueConstraint)
}

func TestExecute_Twice(t *testing.T) {
	ee := tenRows()
	node, err := New(3, ee)
	require.NoError(t, err)
	require.NoError(t, node.Execute())
	//
	assert.PanicsWithValue(t, "row filter node executed more than once", func() {
		_ = node.Execute()
	})
}

func TestExecute_DoubleNegation(t *testing.T) {
	ee := tenRows()
	node, err := New(NewSpan(0, 5), ee)
	require.NoError(t, err)
	//
	node.Negate()
	node.Negate()
	require.NoError(t, node.Execute())
	//
	assert.True(t, ee.FinalIndex().Equal(rowindex.FromSlice(0, 5, 1)))
}

func TestExecute_Materialize(t *testing.T) {
	ee := tenRows()
	resolve(t, []any{1, 3, 5}, ee, false)
	//
	out := ee.Materialize()
	assert.Equal(t, []int64{1, 3, 5}, out.IntValues(0))
}

// ===================================================================
// Filters
// ===================================================================

func gt4() expr.Expr {
	return expr.NewCmp(expr.GT, expr.NewColumn("A"), expr.NewConst(4))
}

func TestExecute_Filter(t *testing.T) {
	ee := tenRows()
	final := resolve(t, gt4(), ee, false)
	//
	assert.True(t, final.Equal(rowindex.FromSlice(5, 5, 1)))
	// Filters declare their source pending rather than known.
	assert.True(t, ee.SourcePending())
	assert.Nil(t, ee.SourceIndex())
}

func TestExecute_FilterNegated(t *testing.T) {
	final := resolve(t, gt4(), tenRows(), true)
	//
	assert.True(t, final.Equal(rowindex.FromSlice(0, 5, 1)))
}

func TestExecute_FilterOnView(t *testing.T) {
	// Visible values are 0,2,4,6,8; those above 4 sit at frame rows 6,8.
	final := resolve(t, gt4(), viewEngine(), false)
	//
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{6, 8})))
}

func TestExecute_FilterNegatedOnView(t *testing.T) {
	final := resolve(t, gt4(), viewEngine(), true)
	//
	assert.True(t, final.Equal(rowindex.FromArray([]uint32{0, 2, 4})))
}

func TestExecute_FilterCallable(t *testing.T) {
	// A callable returning an expression behaves exactly like the expression.
	selector := Callable(func(p *expr.Proxy) any {
		return expr.NewCmp(expr.GT, p.Col("A"), expr.NewConst(4))
	})
	//
	direct := resolve(t, gt4(), tenRows(), false)
	viaFn := resolve(t, selector, tenRows(), false)
	//
	assert.True(t, direct.Equal(viaFn))
}

func TestExecute_FilterCompiled(t *testing.T) {
	fr := frame.FromInts("A", []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	compiler := codegen.NewEngine(fr)
	ee := NewCompilingEngine(fr, compiler)
	//
	node, err := New(gt4(), ee)
	require.NoError(t, err)
	// Compilation happens between classification and execution.
	require.NoError(t, compiler.Generate())
	require.NoError(t, node.Execute())
	//
	assert.True(t, ee.FinalIndex().Equal(rowindex.FromSlice(5, 5, 1)))
}

func TestExecute_FilterCompiledBeforeGeneration(t *testing.T) {
	fr := frame.FromInts("A", []int64{1, 2, 3})
	ee := NewCompilingEngine(fr, codegen.NewEngine(fr))
	//
	node, err := New(gt4(), ee)
	require.NoError(t, err)
	// Executing without generating first must fail, not fall back.
	assert.Error(t, node.Execute())
}

func TestExecute_FilterCompiledMatchesEager(t *testing.T) {
	data := []int64{5, 3, 8, 1, 9, 2, 7, 0, 6, 4}
	e := expr.NewAnd(
		expr.NewCmp(expr.GTEQ, expr.NewColumn("A"), expr.NewConst(2)),
		expr.NewNot(expr.NewCmp(expr.EQ, expr.NewColumn("A"), expr.NewConst(7))),
	)
	// Eager strategy.
	eager := NewEngine(frame.FromInts("A", data))
	eagerFinal := resolve(t, e, eager, false)
	// Compiled strategy.
	fr := frame.FromInts("A", data)
	compiler := codegen.NewEngine(fr)
	compiled := NewCompilingEngine(fr, compiler)
	//
	node, err := New(e, compiled)
	require.NoError(t, err)
	require.NoError(t, compiler.Generate())
	require.NoError(t, node.Execute())
	//
	assert.True(t, eagerFinal.Equal(compiled.FinalIndex()))
}

// ===================================================================
// Sorted order
// ===================================================================

func TestExecute_Sorted(t *testing.T) {
	ee := NewEngine(frame.FromInts("A", []int64{3, 1, 4, 1, 5}))
	//
	sorted := NewSorted(NewSort(ee, 0))
	require.NoError(t, sorted.Execute())
	// Stable: the two equal values keep their original relative order.
	assert.True(t, ee.FinalIndex().Equal(rowindex.FromArray([]uint32{1, 3, 0, 2, 4})))
	assert.True(t, ee.SourcePending())
}

func TestExecute_SortedOnView(t *testing.T) {
	fr := frame.FromInts("A", []int64{9, 2, 7, 4, 5})
	ee := NewEngine(fr.Apply(rowindex.FromArray([]uint32{0, 2, 4})))
	//
	sorted := NewSorted(NewSort(ee, 0))
	require.NoError(t, sorted.Execute())
	// Visible values 9,7,5 sort to frame rows 4,2,0.  The sort order is
	// already expressed against the underlying frame, so no uplift applies.
	assert.True(t, ee.FinalIndex().Equal(rowindex.FromArray([]uint32{4, 2, 0})))
}

func TestExecute_SortedBools(t *testing.T) {
	ee := NewEngine(frame.FromBools("B", []bool{true, false, true, false}))
	//
	sorted := NewSorted(NewSort(ee, 0))
	require.NoError(t, sorted.Execute())
	// false sorts before true, stably.
	assert.True(t, ee.FinalIndex().Equal(rowindex.FromArray([]uint32{1, 3, 0, 2})))
}
