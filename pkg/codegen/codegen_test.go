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
	"os"
	"path/filepath"
	"testing"

	"github.com/framelab/rowset/pkg/expr"
	"github.com/framelab/rowset/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() *frame.Frame {
	return frame.New(
		frame.NewIntColumn("A", []int64{1, 5, 3, 9, 7}),
		frame.NewBoolColumn("B", []bool{true, false, true, false, true}),
	)
}

func evalAll(t *testing.T, e expr.Expr, fr *frame.Frame) []bool {
	t.Helper()
	//
	program, err := CompileExpr(e, fr)
	require.NoError(t, err)
	//
	fn := program.Predicate()
	out := make([]bool, fr.NumRows())
	//
	for i := uint(0); i < fr.NumRows(); i++ {
		out[i] = fn(i)
	}
	//
	return out
}

func TestCompileExpr(t *testing.T) {
	fr := testFrame()

	tests := []struct {
		name     string
		expr     expr.Expr
		expected []bool
	}{
		{"gt", expr.NewCmp(expr.GT, expr.NewColumn("A"), expr.NewConst(4)), []bool{false, true, false, true, true}},
		{"mask", expr.NewColumn("B"), []bool{true, false, true, false, true}},
		{"and", expr.NewAnd(expr.NewColumn("B"), expr.NewCmp(expr.LT, expr.NewColumn("A"), expr.NewConst(5))), []bool{true, false, true, false, false}},
		{"or", expr.NewOr(expr.NewColumn("B"), expr.NewCmp(expr.EQ, expr.NewColumn("A"), expr.NewConst(9))), []bool{true, false, true, true, true}},
		{"not", expr.NewNot(expr.NewColumn("B")), []bool{false, true, false, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalAll(t, tt.expr, fr))
		})
	}
}

// Compiled and eager evaluation must agree on every row.
func TestCompileExpr_MatchesEager(t *testing.T) {
	fr := testFrame()
	e := expr.NewOr(
		expr.NewAnd(expr.NewColumn("B"), expr.NewCmp(expr.GTEQ, expr.NewColumn("A"), expr.NewConst(3))),
		expr.NewCmp(expr.NEQ, expr.NewColumn("A"), expr.NewConst(5)),
	)
	//
	mask, err := expr.EvalBool(e, fr)
	require.NoError(t, err)
	assert.Equal(t, mask, evalAll(t, e, fr))
}

func TestCompileExpr_Errors(t *testing.T) {
	fr := testFrame()
	//
	_, err := CompileExpr(expr.NewColumn("A"), fr)
	assert.ErrorContains(t, err, "is not boolean")
	//
	_, err = CompileExpr(expr.NewColumn("C"), fr)
	assert.ErrorContains(t, err, "unknown column C")
}

func TestReserveName(t *testing.T) {
	eng := NewEngine(testFrame())
	assert.Equal(t, "make_rowindex_0", eng.ReserveName("make_rowindex"))
	assert.Equal(t, "make_rowindex_1", eng.ReserveName("make_rowindex"))
	assert.Equal(t, "other_0", eng.ReserveName("other"))
}

func TestResult_BeforeGeneration(t *testing.T) {
	eng := NewEngine(testFrame())
	_, err := eng.Result("make_rowindex_0")
	assert.ErrorContains(t, err, "before generation")
}

type exprGenerator struct {
	name string
	expr expr.Expr
}

func (g *exprGenerator) GenerateCode(eng *Engine) error {
	l := eng.Loop(g.name)
	l.AddPreamble("j := uint(0)")
	l.AddBody("if "+g.expr.String()+" {", "\tout[j] = uint32(i)", "\tj++", "}")
	l.AddEpilogue("*nOuts = j")
	l.SetExtraParams("out []uint32, nOuts *uint")
	//
	return l.Compile(g.expr)
}

func TestGenerate(t *testing.T) {
	fr := testFrame()
	eng := NewEngine(fr)
	//
	name := eng.ReserveName("make_rowindex")
	e := expr.NewCmp(expr.GT, expr.NewColumn("A"), expr.NewConst(4))
	eng.Register(&exprGenerator{name, e})
	//
	require.NoError(t, eng.Generate())
	//
	fn, err := eng.Result(name)
	require.NoError(t, err)
	assert.False(t, fn(0))
	assert.True(t, fn(1))
	//
	source, err := eng.Source(name)
	require.NoError(t, err)
	assert.Contains(t, source, "func make_rowindex_0(nrows uint, out []uint32, nOuts *uint) {")
	assert.Contains(t, source, "j := uint(0)")
	assert.Contains(t, source, "if (A > 4) {")
	assert.Contains(t, source, "*nOuts = j")
}

func TestWriteSource(t *testing.T) {
	fr := testFrame()
	eng := NewEngine(fr)
	//
	name := eng.ReserveName("make_rowindex")
	e := expr.NewCmp(expr.GT, expr.NewColumn("A"), expr.NewConst(4))
	eng.Register(&exprGenerator{name, e})
	//
	require.NoError(t, eng.Generate())
	//
	path := filepath.Join(t.TempDir(), "filters.go")
	require.NoError(t, eng.WriteSource(name, path))
	//
	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	//
	source := string(bytes)
	assert.Contains(t, source, "package filters")
	assert.Contains(t, source, "func make_rowindex_0(nrows uint, out []uint32, nOuts *uint) {")
	assert.Contains(t, source, "if (A > 4) {")
}

func TestWriteSource_UnknownName(t *testing.T) {
	eng := NewEngine(testFrame())
	require.NoError(t, eng.Generate())
	//
	err := eng.WriteSource("nope", filepath.Join(t.TempDir(), "filters.go"))
	assert.ErrorContains(t, err, "no generated function")
}

func TestResult_UnknownName(t *testing.T) {
	eng := NewEngine(testFrame())
	require.NoError(t, eng.Generate())
	//
	_, err := eng.Result("nope")
	assert.ErrorContains(t, err, "no compiled function")
}
