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
	"iter"

	"github.com/framelab/rowset/pkg/expr"
	"github.com/framelab/rowset/pkg/frame"
)

// Name given to the single column of a frame synthesized from a flat numeric
// array selector.
const selectorColumn = "selector"

// New classifies an arbitrary row selector and constructs the node resolving
// it against the given evaluation context.  Supported selector shapes are:
// nil (select all); a single integer, Span or Range; a []any list mixing
// integers, Spans and Ranges; an iter.Seq[any] producing such a list; a flat
// boolean or integer array (one-dimensional, or two-dimensional with one axis
// of length 1); a single-column frame holding a boolean mask or integer
// positions; a boolean expression; or a Callable returning any of the above.
//
// Boolean literals are rejected, since a bool is too easily confused with the
// row numbers 0 and 1.
func New(selector any, ee *Engine) (Node, error) {
	return newNode(selector, ee, false)
}

func newNode(selector any, ee *Engine, nested bool) (Node, error) {
	if selector == nil {
		return NewAll(ee), nil
	}
	//
	switch s := selector.(type) {
	case bool:
		return nil, typeErrorf("boolean value cannot be used as a row selector")
	case int:
		return listNode(ee, []any{s}, false)
	case int64:
		return listNode(ee, []any{s}, false)
	case uint:
		return listNode(ee, []any{s}, false)
	case Span:
		return listNode(ee, []any{s}, false)
	case Range:
		return listNode(ee, []any{s}, false)
	case []any:
		return listNode(ee, s, false)
	case iter.Seq[any]:
		// Materialize the sequence up front; there is no other way to ensure
		// the produced positions are valid.
		var list []any
		for v := range s {
			list = append(list, v)
		}

		return listNode(ee, list, true)
	case []bool:
		return boolArrayNode(ee, s)
	case []int64:
		return frameNode(ee, frame.FromInts(selectorColumn, s))
	case []int:
		values := make([]int64, len(s))
		for i, v := range s {
			values[i] = int64(v)
		}

		return frameNode(ee, frame.FromInts(selectorColumn, values))
	case [][]bool:
		flat, err := flatten2D(s)
		if err != nil {
			return nil, err
		}

		return boolArrayNode(ee, flat)
	case [][]int64:
		flat, err := flatten2D(s)
		if err != nil {
			return nil, err
		}

		return frameNode(ee, frame.FromInts(selectorColumn, flat))
	case *frame.Frame:
		return frameNode(ee, s)
	case Callable:
		if nested {
			return nil, typeErrorf("unexpected result produced by the row selector function: "+
				"a callable may not return another callable")
		}

		return newNode(s(expr.NewProxy(ee.Frame())), ee, true)
	case expr.Expr:
		return NewFilter(ee, s)
	}
	//
	if nested {
		return nil, typeErrorf("unexpected result produced by the row selector function: %v (%T)",
			selector, selector)
	}
	//
	return nil, typeErrorf("unexpected row selector: %v (%T)", selector, selector)
}

// listNode decomposes a list of mixed integers, Spans and Ranges into the
// most specific node able to represent it: All when the whole frame is
// covered in original order, Slice for a single run, Array for loose
// positions, and MultiSlice otherwise.
func listNode(ee *Engine, list []any, fromGenerator bool) (Node, error) {
	var (
		nrows  = ee.NumRows()
		bases  []uint
		counts []uint
		steps  []int
	)
	//
	for i, elem := range list {
		var (
			start, count uint
			step         int
		)
		//
		switch e := elem.(type) {
		case int:
			b, err := normalizeScalar(int64(e), nrows)
			if err != nil {
				return nil, err
			}

			bases = append(bases, b)

			continue
		case int64:
			b, err := normalizeScalar(e, nrows)
			if err != nil {
				return nil, err
			}

			bases = append(bases, b)

			continue
		case uint:
			b, err := normalizeScalar(int64(e), nrows)
			if err != nil {
				return nil, err
			}

			bases = append(bases, b)

			continue
		case Span:
			var err error
			//
			start, count, step, err = e.normalize(nrows)
			if err != nil {
				return nil, valueErrorf("%s", err)
			}
		case Range:
			var ok bool
			//
			start, count, step, ok = e.normalize(nrows)
			if !ok {
				return nil, valueErrorf("invalid %s for a frame with %s", e, pluralForm(nrows, "row"))
			}
		default:
			if fromGenerator {
				return nil, valueErrorf("invalid row selector %v generated at position %d", elem, i)
			}

			return nil, valueErrorf("invalid row selector %v at element %d of the selector list", elem, i)
		}
		//
		switch count {
		case 0:
			// Contributes nothing.
		case 1:
			// Degenerates to a single position.
			bases = append(bases, start)
		default:
			// A genuine multi-row slice.  Keep counts/steps index-aligned
			// with bases: every base accumulated so far carries an implicit
			// count and step of 1, so both lists are padded up to len(bases)
			// before the new triple is appended.
			for len(counts) < len(bases) {
				counts = append(counts, 1)
				steps = append(steps, 1)
			}
			//
			bases = append(bases, start)
			counts = append(counts, count)
			steps = append(steps, step)
		}
	}
	// Collapse to the most specific representation.
	if len(counts) == 0 {
		if len(bases) == 1 {
			if bases[0] == 0 && nrows == 1 {
				return NewAll(ee), nil
			}

			return NewSlice(ee, bases[0], 1, 1), nil
		}
		//
		positions := make([]uint32, len(bases))
		for i, b := range bases {
			positions[i] = uint32(b)
		}
		//
		return NewArray(ee, positions), nil
	} else if len(bases) == 1 {
		if bases[0] == 0 && counts[0] == nrows && steps[0] == 1 {
			return NewAll(ee), nil
		}

		return NewSlice(ee, bases[0], counts[0], steps[0]), nil
	}
	//
	return NewMultiSlice(ee, bases, counts, steps), nil
}

// normalizeScalar validates a single row number against the frame's row
// count, resolving negative numbers relative to the end.
func normalizeScalar(v int64, nrows uint) (uint, error) {
	if v < -int64(nrows) || v >= int64(nrows) {
		return 0, valueErrorf("row %d is invalid for a frame with %s", v, pluralForm(nrows, "row"))
	}
	//
	if v < 0 {
		v += int64(nrows)
	}
	//
	return uint(v), nil
}

// boolArrayNode converts a flat boolean mask into a single-column frame and
// re-dispatches it, having first checked its length against the target.
func boolArrayNode(ee *Engine, mask []bool) (Node, error) {
	if uint(len(mask)) != ee.NumRows() {
		return nil, valueErrorf("cannot apply a boolean mask of length %d to a frame with %s",
			len(mask), pluralForm(ee.NumRows(), "row"))
	}

	return frameNode(ee, frame.FromBools(selectorColumn, mask))
}

// frameNode resolves a single-column frame selector into a mask or
// integer-column node according to the column's type.
func frameNode(ee *Engine, fr *frame.Frame) (Node, error) {
	if fr.Width() != 1 {
		return nil, valueErrorf("a selector frame should hold a single column, got %d columns", fr.Width())
	}
	//
	switch fr.ColumnByIndex(0).Kind() {
	case frame.BoolKind:
		if fr.NumRows() != ee.NumRows() {
			return nil, valueErrorf("selector frame has %s, but is applied to a frame with %s",
				pluralForm(fr.NumRows(), "row"), pluralForm(ee.NumRows(), "row"))
		}

		return NewBoolColumn(ee, fr), nil
	case frame.IntKind:
		return NewIntColumn(ee, fr), nil
	}
	//
	return nil, typeErrorf("a selector frame should hold either a boolean or an integer column, "+
		"however it has type %s", fr.ColumnByIndex(0).Kind())
}

// flatten2D transposes a two-dimensional array with one axis of length 1
// into a flat array.
func flatten2D[T any](arr [][]T) ([]T, error) {
	if len(arr) == 0 {
		return nil, valueErrorf("only a single-dimensional array is allowed as a row selector, " +
			"got an empty two-dimensional array")
	} else if len(arr) == 1 {
		return arr[0], nil
	}
	//
	flat := make([]T, len(arr))
	//
	for i, row := range arr {
		if len(row) != 1 {
			return nil, valueErrorf("only a single-dimensional array is allowed as a row selector, "+
				"got %dx%d", len(arr), len(row))
		}

		flat[i] = row[0]
	}
	//
	return flat, nil
}
