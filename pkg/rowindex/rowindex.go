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
package rowindex

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Predicate determines whether a given row should be selected or not.
type Predicate func(uint) bool

// kind distinguishes the two physical representations of a RowIndex.
type kind uint8

const (
	sliceKind kind = iota
	arrayKind
)

// RowIndex is an immutable addressing of a subset (or permutation) of the rows
// of some frame.  A RowIndex is stored either as a slice triple (start, count,
// step), or as an explicit ordered array of row positions.  Once constructed,
// a RowIndex is never mutated and, hence, can be freely shared across frames.
type RowIndex struct {
	kind kind
	// Slice representation.  The positions denoted are
	// [start + i*step for i in 0..count), where step may be negative or zero.
	start uint
	count uint
	step  int
	// Array representation, positions in selection order.
	positions []uint32
	// Largest position addressed by this index (zero when empty).
	max uint
}

// FromSlice constructs a RowIndex from a slice triple.  All positions denoted
// by the triple must be non-negative, hence start + (count-1)*step >= 0 is
// required.  Violating this is a programming error.
func FromSlice(start uint, count uint, step int) *RowIndex {
	if count > 0 && int(start)+int(count-1)*step < 0 {
		panic(fmt.Sprintf("slice (%d,%d,%d) generates negative positions", start, count, step))
	}
	//
	max := start
	if count > 0 && step > 0 {
		max = start + (count-1)*uint(step)
	} else if count == 0 {
		max = 0
	}
	//
	return &RowIndex{kind: sliceKind, start: start, count: count, step: step, max: max}
}

// FromArray constructs a RowIndex from an explicit ordered array of row
// positions.  The array is not copied and must not be modified afterwards.
func FromArray(positions []uint32) *RowIndex {
	var max uint

	for _, p := range positions {
		if uint(p) > max {
			max = uint(p)
		}
	}
	//
	return &RowIndex{kind: arrayKind, positions: positions, max: max}
}

// FromSliceList constructs a RowIndex from a list of slice triples, given as
// three parallel arrays.  The counts and steps arrays may be shorter than
// bases, in which case missing trailing entries default to 1.  A single-triple
// list collapses to the plain slice representation.
func FromSliceList(bases []uint, counts []uint, steps []int) *RowIndex {
	if len(counts) > len(bases) || len(steps) > len(bases) {
		panic("counts/steps arrays longer than bases")
	}
	// Determine ith triple, defaulting missing counts/steps.
	triple := func(i int) (uint, uint, int) {
		count, step := uint(1), 1
		if i < len(counts) {
			count = counts[i]
		}

		if i < len(steps) {
			step = steps[i]
		}

		return bases[i], count, step
	}
	//
	switch len(bases) {
	case 0:
		return FromSlice(0, 0, 0)
	case 1:
		return FromSlice(triple(0))
	}
	// General case: expand into an explicit array.
	var total uint

	for i := range bases {
		_, count, _ := triple(i)
		total += count
	}
	//
	positions := make([]uint32, 0, total)
	//
	for i := range bases {
		base, count, step := triple(i)
		for j := uint(0); j < count; j++ {
			pos := int(base) + int(j)*step
			if pos < 0 {
				panic(fmt.Sprintf("slice (%d,%d,%d) generates negative positions", base, count, step))
			}

			positions = append(positions, uint32(pos))
		}
	}
	//
	return FromArray(positions)
}

// FromBools constructs a RowIndex selecting exactly those rows for which the
// given mask holds true, in ascending order.
func FromBools(mask []bool) *RowIndex {
	bits := bitset.New(uint(len(mask)))
	//
	for i, b := range mask {
		if b {
			bits.Set(uint(i))
		}
	}
	//
	positions := make([]uint32, 0, bits.Count())
	//
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		positions = append(positions, uint32(i))
	}
	//
	return FromArray(positions)
}

// FromInts constructs a RowIndex whose positions are taken verbatim from the
// given values.  Values must be non-negative; the resulting maximum position
// is queryable via Max and it is the caller's responsibility to check it
// against the applicable row count.
func FromInts(values []int64) (*RowIndex, error) {
	positions := make([]uint32, len(values))
	//
	for i, v := range values {
		if v < 0 {
			return nil, fmt.Errorf("negative row position %d at element %d", v, i)
		}

		positions[i] = uint32(v)
	}
	//
	return FromArray(positions), nil
}

// FromPredicate constructs a RowIndex selecting exactly those rows in [0,
// nrows) for which the given predicate holds, in ascending order.
func FromPredicate(fn Predicate, nrows uint) *RowIndex {
	var positions []uint32
	//
	for i := uint(0); i < nrows; i++ {
		if fn(i) {
			positions = append(positions, uint32(i))
		}
	}
	//
	return FromArray(positions)
}

// Len returns the number of rows selected by this index.
func (p *RowIndex) Len() uint {
	if p.kind == sliceKind {
		return p.count
	}

	return uint(len(p.positions))
}

// Get returns the row position at the given selection index.
func (p *RowIndex) Get(i uint) uint {
	if p.kind == sliceKind {
		if i >= p.count {
			panic(fmt.Sprintf("index %d out-of-bounds (count %d)", i, p.count))
		}

		return uint(int(p.start) + int(i)*p.step)
	}

	return uint(p.positions[i])
}

// Max returns the largest row position addressed by this index, or zero if
// the index is empty.
func (p *RowIndex) Max() uint {
	return p.max
}

// IsSlice reports whether this index is held in the slice representation.
func (p *RowIndex) IsSlice() bool {
	return p.kind == sliceKind
}

// Slice returns the triple of a slice-represented index, and panics otherwise.
func (p *RowIndex) Slice() (uint, uint, int) {
	if p.kind != sliceKind {
		panic("not a slice index")
	}

	return p.start, p.count, p.step
}

// Uplift reinterprets the positions of this index as being relative to the
// given parent index, producing an index valid against the parent's own
// source frame.  A nil parent represents the identity, in which case this
// index is returned as is.
func (p *RowIndex) Uplift(parent *RowIndex) *RowIndex {
	if parent == nil {
		return p
	}
	// Composing two slices yields another slice.
	if p.kind == sliceKind && parent.kind == sliceKind {
		start := int(parent.start) + int(p.start)*parent.step
		if start < 0 {
			panic("uplift generates negative positions")
		}

		return FromSlice(uint(start), p.count, p.step*parent.step)
	}
	// Otherwise, materialize.
	n := p.Len()
	positions := make([]uint32, n)
	//
	for i := uint(0); i < n; i++ {
		positions[i] = uint32(parent.Get(p.Get(i)))
	}
	//
	return FromArray(positions)
}

// Inverse produces the complementary index over [0, nrows): all positions not
// present in this index, in ascending order.
func (p *RowIndex) Inverse(nrows uint) *RowIndex {
	bits := bitset.New(nrows)
	//
	for i, n := uint(0), p.Len(); i < n; i++ {
		bits.Set(p.Get(i))
	}
	//
	positions := make([]uint32, 0, nrows-bits.Count())
	//
	for i := uint(0); i < nrows; i++ {
		if !bits.Test(i) {
			positions = append(positions, uint32(i))
		}
	}
	// Collapse back to a slice when the complement is a unit-step run.
	if ri, ok := fromUnitRun(positions); ok {
		return ri
	}

	return FromArray(positions)
}

// Equal compares two indices for semantic equality, that is, whether they
// denote the same positions in the same order (regardless of representation).
func (p *RowIndex) Equal(other *RowIndex) bool {
	n := p.Len()
	if n != other.Len() {
		return false
	}
	//
	for i := uint(0); i < n; i++ {
		if p.Get(i) != other.Get(i) {
			return false
		}
	}
	//
	return true
}

func (p *RowIndex) String() string {
	if p.kind == sliceKind {
		return fmt.Sprintf("slice(%d,%d,%d)", p.start, p.count, p.step)
	}
	//
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, pos := range p.positions {
		if i != 0 {
			builder.WriteString(",")
		}

		fmt.Fprintf(&builder, "%d", pos)
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}

// fromUnitRun checks whether the given ascending positions form a contiguous
// unit-step run and, if so, returns the equivalent slice index.
func fromUnitRun(positions []uint32) (*RowIndex, bool) {
	if len(positions) == 0 {
		return FromSlice(0, 0, 0), true
	}
	//
	for i := 1; i < len(positions); i++ {
		if positions[i] != positions[i-1]+1 {
			return nil, false
		}
	}
	//
	return FromSlice(uint(positions[0]), uint(len(positions)), 1), true
}
