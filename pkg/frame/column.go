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

// Kind identifies the type of data held in a column.
type Kind uint8

const (
	// BoolKind identifies columns (and expressions) of boolean values.
	BoolKind Kind = iota
	// IntKind identifies columns (and expressions) of integer values.
	IntKind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	}

	return "unknown"
}

// Column describes a given typed column and provides a mechanism for
// accessing its raw values.  Raw values are addressed by physical storage
// position; mapping visible rows through a view index is the job of the
// enclosing Frame.
type Column interface {
	// Name returns the name of this column.
	Name() string
	// Height returns the number of stored rows in this column.
	Height() uint
	// Kind returns the type of data held in this column.
	Kind() Kind
}

// ===================================================================
// Boolean columns
// ===================================================================

// BoolColumn is a column backed by an array of boolean values.
type BoolColumn struct {
	name string
	data []bool
}

// NewBoolColumn constructs a boolean column backed by the given data.  The
// data is not copied and must not be modified afterwards.
func NewBoolColumn(name string, data []bool) *BoolColumn {
	return &BoolColumn{name, data}
}

// Name returns the name of this column.
func (p *BoolColumn) Name() string {
	return p.name
}

// Height returns the number of stored rows in this column.
func (p *BoolColumn) Height() uint {
	return uint(len(p.data))
}

// Kind returns BoolKind.
func (p *BoolColumn) Kind() Kind {
	return BoolKind
}

// Get returns the value at the given storage position.
func (p *BoolColumn) Get(row uint) bool {
	return p.data[row]
}

// ===================================================================
// Integer columns
// ===================================================================

// IntColumn is a column backed by an array of 64-bit integer values.
type IntColumn struct {
	name string
	data []int64
}

// NewIntColumn constructs an integer column backed by the given data.  The
// data is not copied and must not be modified afterwards.
func NewIntColumn(name string, data []int64) *IntColumn {
	return &IntColumn{name, data}
}

// Name returns the name of this column.
func (p *IntColumn) Name() string {
	return p.name
}

// Height returns the number of stored rows in this column.
func (p *IntColumn) Height() uint {
	return uint(len(p.data))
}

// Kind returns IntKind.
func (p *IntColumn) Kind() Kind {
	return IntKind
}

// Get returns the value at the given storage position.
func (p *IntColumn) Get(row uint) int64 {
	return p.data[row]
}
