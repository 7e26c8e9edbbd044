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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positionsOf(ri *RowIndex) []uint {
	ps := make([]uint, ri.Len())
	for i := uint(0); i < ri.Len(); i++ {
		ps[i] = ri.Get(i)
	}

	return ps
}

func TestFromSlice(t *testing.T) {
	ri := FromSlice(2, 3, 2)
	assert.Equal(t, uint(3), ri.Len())
	assert.Equal(t, []uint{2, 4, 6}, positionsOf(ri))
	assert.Equal(t, uint(6), ri.Max())
	assert.True(t, ri.IsSlice())
}

func TestFromSlice_NegativeStep(t *testing.T) {
	ri := FromSlice(9, 3, -4)
	assert.Equal(t, []uint{9, 5, 1}, positionsOf(ri))
	assert.Equal(t, uint(9), ri.Max())
}

func TestFromSlice_ZeroStep(t *testing.T) {
	ri := FromSlice(5, 4, 0)
	assert.Equal(t, []uint{5, 5, 5, 5}, positionsOf(ri))
}

func TestFromSlice_Invalid(t *testing.T) {
	assert.Panics(t, func() { FromSlice(1, 3, -1) })
}

func TestFromArray(t *testing.T) {
	ri := FromArray([]uint32{3, 0, 7, 7})
	assert.Equal(t, uint(4), ri.Len())
	assert.Equal(t, []uint{3, 0, 7, 7}, positionsOf(ri))
	assert.Equal(t, uint(7), ri.Max())
	assert.False(t, ri.IsSlice())
}

func TestFromSliceList(t *testing.T) {
	tests := []struct {
		name     string
		bases    []uint
		counts   []uint
		steps    []int
		expected []uint
	}{
		{"empty", nil, nil, nil, []uint{}},
		{"single", []uint{4}, []uint{3}, []int{1}, []uint{4, 5, 6}},
		{"defaults", []uint{0, 2, 5}, nil, nil, []uint{0, 2, 5}},
		{"mixed", []uint{0, 5}, []uint{2, 3}, []int{1, 2}, []uint{0, 1, 5, 7, 9}},
		{"trailing defaults", []uint{0, 4, 9}, []uint{3}, []int{1}, []uint{0, 1, 2, 4, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ri := FromSliceList(tt.bases, tt.counts, tt.steps)
			assert.Equal(t, tt.expected, positionsOf(ri))
		})
	}
}

func TestFromSliceList_SingleCollapsesToSlice(t *testing.T) {
	ri := FromSliceList([]uint{2}, []uint{4}, []int{3})
	require.True(t, ri.IsSlice())
	//
	start, count, step := ri.Slice()
	assert.Equal(t, uint(2), start)
	assert.Equal(t, uint(4), count)
	assert.Equal(t, 3, step)
}

func TestFromBools(t *testing.T) {
	ri := FromBools([]bool{true, false, false, true, true})
	assert.Equal(t, []uint{0, 3, 4}, positionsOf(ri))
}

func TestFromInts(t *testing.T) {
	ri, err := FromInts([]int64{5, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 1, 3}, positionsOf(ri))
	assert.Equal(t, uint(5), ri.Max())
}

func TestFromInts_Negative(t *testing.T) {
	_, err := FromInts([]int64{0, -2})
	assert.ErrorContains(t, err, "negative row position -2 at element 1")
}

func TestFromPredicate(t *testing.T) {
	ri := FromPredicate(func(i uint) bool { return i%3 == 0 }, 10)
	assert.Equal(t, []uint{0, 3, 6, 9}, positionsOf(ri))
}

func TestUplift_SliceSlice(t *testing.T) {
	parent := FromSlice(10, 20, 2)
	child := FromSlice(1, 3, 1)
	// child rows 1,2,3 of parent => 12,14,16
	ri := child.Uplift(parent)
	require.True(t, ri.IsSlice())
	assert.Equal(t, []uint{12, 14, 16}, positionsOf(ri))
}

func TestUplift_ArrayParent(t *testing.T) {
	parent := FromArray([]uint32{5, 8, 13, 21})
	child := FromSlice(1, 2, 1)
	ri := child.Uplift(parent)
	assert.Equal(t, []uint{8, 13}, positionsOf(ri))
}

func TestUplift_NilParent(t *testing.T) {
	child := FromSlice(1, 2, 1)
	assert.Same(t, child, child.Uplift(nil))
}

func TestInverse(t *testing.T) {
	ri := FromArray([]uint32{1, 4}).Inverse(6)
	assert.Equal(t, []uint{0, 2, 3, 5}, positionsOf(ri))
}

func TestInverse_CollapsesToSlice(t *testing.T) {
	// Complement of {0,1,2} over 10 rows is the run 3..9.
	ri := FromSlice(0, 3, 1).Inverse(10)
	require.True(t, ri.IsSlice())
	assert.Equal(t, []uint{3, 4, 5, 6, 7, 8, 9}, positionsOf(ri))
}

func TestInverse_Involution(t *testing.T) {
	tests := []struct {
		name  string
		index *RowIndex
		nrows uint
	}{
		{"array", FromArray([]uint32{0, 2, 5, 6}), 8},
		{"slice", FromSlice(2, 3, 2), 10},
		{"empty", FromSlice(0, 0, 0), 5},
		{"full", FromSlice(0, 5, 1), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			twice := tt.index.Inverse(tt.nrows).Inverse(tt.nrows)
			assert.True(t, tt.index.Equal(twice), "got %s", twice)
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, FromSlice(3, 4, 1).Equal(FromArray([]uint32{3, 4, 5, 6})))
	assert.False(t, FromSlice(3, 4, 1).Equal(FromArray([]uint32{3, 4, 5})))
	assert.False(t, FromArray([]uint32{1, 2}).Equal(FromArray([]uint32{2, 1})))
}

func TestString(t *testing.T) {
	assert.Equal(t, "slice(2,3,2)", FromSlice(2, 3, 2).String())
	assert.Equal(t, "[1,2,5]", FromArray([]uint32{1, 2, 5}).String())
}
