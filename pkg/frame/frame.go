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
package frame

import (
	"fmt"

	"github.com/framelab/rowset/pkg/rowindex"
)

// Frame is a table of named, typed columns of equal height.  A frame is
// either plain, in which case its visible rows are exactly its stored rows,
// or a view, in which case visible rows are mapped through a RowIndex onto
// the underlying column storage.
type Frame struct {
	// Columns making up this frame, all of equal height.
	columns []Column
	// Number of visible rows.
	nrows uint
	// View index mapping visible rows onto column storage, or nil if this
	// frame is not a view.  Positions in this index always address the
	// original (non-view) storage directly.
	index *rowindex.RowIndex
}

// New constructs a frame from the given columns, which must all have the same
// height.  Mismatched heights or duplicate column names are programming
// errors.
func New(columns ...Column) *Frame {
	p := &Frame{columns: columns}
	//
	for i, c := range columns {
		if i == 0 {
			p.nrows = c.Height()
		} else if c.Height() != p.nrows {
			panic(fmt.Sprintf("column %s has height %d, expected %d", c.Name(), c.Height(), p.nrows))
		}
		//
		for _, d := range columns[:i] {
			if d.Name() == c.Name() {
				panic(fmt.Sprintf("duplicate column %s", c.Name()))
			}
		}
	}
	// done
	return p
}

// FromBools constructs a single-column frame holding the given boolean data.
func FromBools(name string, data []bool) *Frame {
	return New(NewBoolColumn(name, data))
}

// FromInts constructs a single-column frame holding the given integer data.
func FromInts(name string, data []int64) *Frame {
	return New(NewIntColumn(name, data))
}

// NumRows returns the number of visible rows in this frame.
func (p *Frame) NumRows() uint {
	return p.nrows
}

// Width returns the number of columns in this frame.
func (p *Frame) Width() uint {
	return uint(len(p.columns))
}

// Index returns the view index of this frame, or nil if this frame is not a
// view.
func (p *Frame) Index() *rowindex.RowIndex {
	return p.index
}

// ColumnByIndex returns the ith column of this frame.
func (p *Frame) ColumnByIndex(index uint) Column {
	return p.columns[index]
}

// ColumnByName returns the index of the column with the given name, or false
// if no such column exists.
func (p *Frame) ColumnByName(name string) (uint, bool) {
	for i, c := range p.columns {
		if c.Name() == name {
			return uint(i), true
		}
	}
	// Column does not exist
	return 0, false
}

// HasColumn checks whether this frame has a column with the given name.
func (p *Frame) HasColumn(name string) bool {
	_, ok := p.ColumnByName(name)
	return ok
}

// BoolAt returns the value of the given boolean column at the given visible
// row.  Accessing a non-boolean column this way is a programming error.
func (p *Frame) BoolAt(col uint, row uint) bool {
	c, ok := p.columns[col].(*BoolColumn)
	if !ok {
		panic(fmt.Sprintf("column %s is not boolean", p.columns[col].Name()))
	}

	return c.Get(p.resolve(row))
}

// IntAt returns the value of the given integer column at the given visible
// row.  Accessing a non-integer column this way is a programming error.
func (p *Frame) IntAt(col uint, row uint) int64 {
	c, ok := p.columns[col].(*IntColumn)
	if !ok {
		panic(fmt.Sprintf("column %s is not integer", p.columns[col].Name()))
	}

	return c.Get(p.resolve(row))
}

// BoolValues materializes the visible values of the given boolean column.
func (p *Frame) BoolValues(col uint) []bool {
	values := make([]bool, p.nrows)
	for i := uint(0); i < p.nrows; i++ {
		values[i] = p.BoolAt(col, i)
	}

	return values
}

// IntValues materializes the visible values of the given integer column.
func (p *Frame) IntValues(col uint) []int64 {
	values := make([]int64, p.nrows)
	for i := uint(0); i < p.nrows; i++ {
		values[i] = p.IntAt(col, i)
	}

	return values
}

// Apply produces a view of this frame's column storage through the given
// index.  The index must already address the original storage directly (that
// is, it must have been uplifted through any index in effect on this frame).
// A nil index denotes the identity selection and returns this frame as is.
func (p *Frame) Apply(ri *rowindex.RowIndex) *Frame {
	if ri == nil {
		return p
	}

	return &Frame{columns: p.columns, nrows: ri.Len(), index: ri}
}

// resolve maps a visible row onto its storage position.
func (p *Frame) resolve(row uint) uint {
	if row >= p.nrows {
		panic(fmt.Sprintf("row %d out-of-bounds (frame has %d rows)", row, p.nrows))
	}
	//
	if p.index != nil {
		return p.index.Get(row)
	}

	return row
}
