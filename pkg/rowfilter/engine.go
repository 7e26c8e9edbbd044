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
	"github.com/framelab/rowset/pkg/codegen"
	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/rowindex"
)

// Compiler is the capability required of an evaluation context for the
// compiled filter strategy.  It is satisfied by *codegen.Engine.
type Compiler interface {
	// ReserveName reserves a fresh generated-function name.
	ReserveName(prefix string) string
	// Register adds a node for later code emission.
	Register(g codegen.Generator)
	// Loop starts a new loop function with the given reserved name.
	Loop(name string) *codegen.Loop
	// Result returns the compiled predicate for a generated function name.
	Result(name string) (rowindex.Predicate, error)
}

// Engine is the evaluation context for a single row-selection operation.  It
// holds the target frame and receives the operation's source and final
// indices as the selected node executes.  An engine is used for exactly one
// selection operation and is not safe for concurrent use.
type Engine struct {
	// Target frame rows are being selected from.
	fr *frame.Frame
	// Optional compiled-execution capability.
	compiler Compiler
	// Source index slot, filled during execution.
	source *rowindex.RowIndex
	// Set when the source index is declared "not yet known", which is
	// distinct from an absent source index.
	sourcePending bool
	// Final index slot, filled during execution.
	final *rowindex.RowIndex
	// The target frame's own index at the time the final index was set,
	// recorded for later uplift consumers.
	finalTarget *rowindex.RowIndex
	// Index in effect for expression evaluation within this operation.
	current *rowindex.RowIndex
}

// NewEngine constructs an evaluation context for selecting rows from the
// given frame.
func NewEngine(fr *frame.Frame) *Engine {
	return &Engine{fr: fr, current: fr.Index()}
}

// NewCompilingEngine constructs an evaluation context whose filter
// expressions execute via the compiled strategy.
func NewCompilingEngine(fr *frame.Frame, compiler Compiler) *Engine {
	p := NewEngine(fr)
	p.compiler = compiler
	//
	return p
}

// Frame returns the target frame of this operation.
func (p *Engine) Frame() *frame.Frame {
	return p.fr
}

// NumRows returns the number of visible rows in the target frame.
func (p *Engine) NumRows() uint {
	return p.fr.NumRows()
}

// Compiler returns the compiled-execution capability of this context, or nil
// when filter expressions must be evaluated eagerly.
func (p *Engine) Compiler() Compiler {
	return p.compiler
}

// SetSourceIndex stores the source index computed by the executing node.  A
// nil index denotes the identity selection.
func (p *Engine) SetSourceIndex(ri *rowindex.RowIndex) {
	p.source = ri
	p.sourcePending = false
}

// SetSourcePending declares that the source index is not yet known (compiled
// strategy).
func (p *Engine) SetSourcePending() {
	p.source = nil
	p.sourcePending = true
}

// SourceIndex returns the source index slot (nil for identity selection).
func (p *Engine) SourceIndex() *rowindex.RowIndex {
	return p.source
}

// SourcePending reports whether the source index was declared not yet known.
func (p *Engine) SourcePending() bool {
	return p.sourcePending
}

// SetFinalIndex stores the final index computed by the executing node,
// together with the target index it was composed against.
func (p *Engine) SetFinalIndex(final *rowindex.RowIndex, target *rowindex.RowIndex) {
	p.final = final
	p.finalTarget = target
}

// FinalIndex returns the final index slot (nil for identity selection).
func (p *Engine) FinalIndex() *rowindex.RowIndex {
	return p.final
}

// TargetIndex returns the pre-existing index the final index was composed
// against, as recorded by SetFinalIndex.
func (p *Engine) TargetIndex() *rowindex.RowIndex {
	return p.finalTarget
}

// SetCurrentIndex updates the index in effect for expression evaluation
// within this operation.
func (p *Engine) SetCurrentIndex(ri *rowindex.RowIndex) {
	p.current = ri
}

// CurrentIndex returns the index in effect for expression evaluation within
// this operation.
func (p *Engine) CurrentIndex() *rowindex.RowIndex {
	return p.current
}

// Materialize applies the operation's final index to the target frame,
// producing the selected view.
func (p *Engine) Materialize() *frame.Frame {
	return p.fr.Apply(p.final)
}
