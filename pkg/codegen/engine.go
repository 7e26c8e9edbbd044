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
	"fmt"

	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/rowindex"
	log "github.com/sirupsen/logrus"
)

// Generator is implemented by nodes which emit filter code into the engine
// during generation.
type Generator interface {
	// GenerateCode emits this node's loop fragments into the engine and
	// compiles its predicate.
	GenerateCode(*Engine) error
}

// Engine orchestrates the compiled execution strategy for filter expressions.
// Nodes reserve a unique generated-function name, register themselves, and
// emit loop-body fragments during generation; the engine owns iteration
// structure, naming, and compilation.  Compilation is synchronous: Generate
// must have completed before any Result call.
type Engine struct {
	// Frame which compiled predicates read from.
	fr *frame.Frame
	// Per-prefix counters backing name reservation.
	counters map[string]uint
	// Nodes registered for code generation, in registration order.
	nodes []Generator
	// Loops under construction, keyed by function name.
	loops map[string]*Loop
	// Set once Generate has run.
	generated bool
}

// NewEngine constructs a compiling engine for the given frame.
func NewEngine(fr *frame.Frame) *Engine {
	return &Engine{
		fr:       fr,
		counters: make(map[string]uint),
		loops:    make(map[string]*Loop),
	}
}

// Frame returns the frame compiled predicates are bound to.
func (p *Engine) Frame() *frame.Frame {
	return p.fr
}

// ReserveName reserves a fresh function name with the given prefix.
func (p *Engine) ReserveName(prefix string) string {
	n := p.counters[prefix]
	p.counters[prefix] = n + 1
	//
	return fmt.Sprintf("%s_%d", prefix, n)
}

// Register adds a node to be visited during code generation.
func (p *Engine) Register(g Generator) {
	p.nodes = append(p.nodes, g)
}

// Loop starts a new loop function with the given (reserved) name, returning
// its builder.
func (p *Engine) Loop(name string) *Loop {
	if _, ok := p.loops[name]; ok {
		panic(fmt.Sprintf("loop %s already exists", name))
	}
	//
	l := &Loop{engine: p, name: name}
	p.loops[name] = l
	//
	return l
}

// Generate visits every registered node, assembling and compiling its loop.
func (p *Engine) Generate() error {
	for _, g := range p.nodes {
		if err := g.GenerateCode(p); err != nil {
			return err
		}
	}
	//
	log.Debugf("generated %d filter function(s)", len(p.loops))
	//
	p.generated = true
	//
	return nil
}

// Result returns the compiled predicate for a previously generated function
// name.
func (p *Engine) Result(name string) (rowindex.Predicate, error) {
	if !p.generated {
		return nil, fmt.Errorf("function %s requested before generation", name)
	}
	//
	l, ok := p.loops[name]
	if !ok || l.program == nil {
		return nil, fmt.Errorf("no compiled function %s", name)
	}
	//
	return l.program.Predicate(), nil
}

// Source returns the generated source listing for a previously generated
// function name.
func (p *Engine) Source(name string) (string, error) {
	if l, ok := p.loops[name]; ok {
		return l.Source(), nil
	}

	return "", fmt.Errorf("no generated function %s", name)
}

// WriteSource writes a previously generated function, as a complete source
// file, to the given path.
func (p *Engine) WriteSource(name string, path string) error {
	l, ok := p.loops[name]
	if !ok {
		return fmt.Errorf("no generated function %s", name)
	}

	return l.WriteSource(path)
}
