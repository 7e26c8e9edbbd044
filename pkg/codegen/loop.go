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
	"strings"

	"github.com/consensys/bavard"
	"github.com/framelab/rowset/pkg/expr"
)

// loopTemplate renders a single generated filter-loop function.
const loopTemplate = `
func {{.Name}}({{.Params}}) {
{{- range .Preamble}}
	{{.}}
{{- end}}
	for i := uint(0); i < nrows; i++ {
{{- range .Body}}
		{{.}}
{{- end}}
	}
{{- range .Epilogue}}
	{{.}}
{{- end}}
}
`

// Loop builds one generated per-row loop function.  A node contributes
// preamble, main-loop and epilogue fragments, plus any extra parameters the
// function must accept beyond the row count; the loop owns the surrounding
// iteration structure.
type Loop struct {
	engine *Engine
	name   string
	// Source fragments, one line each.
	preamble []string
	body     []string
	epilogue []string
	// Extra function parameters beyond "nrows uint".
	params string
	// Compiled program, set by Compile.
	program *Program
}

// Name returns the generated function name of this loop.
func (l *Loop) Name() string {
	return l.name
}

// Params returns the full parameter list of the generated function.
func (l *Loop) Params() string {
	if l.params == "" {
		return "nrows uint"
	}

	return "nrows uint, " + l.params
}

// Preamble returns the lines emitted before the loop.
func (l *Loop) Preamble() []string { return l.preamble }

// Body returns the lines emitted inside the per-row loop.
func (l *Loop) Body() []string { return l.body }

// Epilogue returns the lines emitted after the loop.
func (l *Loop) Epilogue() []string { return l.epilogue }

// AddPreamble appends lines before the loop.
func (l *Loop) AddPreamble(lines ...string) {
	l.preamble = append(l.preamble, lines...)
}

// AddBody appends lines inside the per-row loop.
func (l *Loop) AddBody(lines ...string) {
	l.body = append(l.body, lines...)
}

// AddEpilogue appends lines after the loop.
func (l *Loop) AddEpilogue(lines ...string) {
	l.epilogue = append(l.epilogue, lines...)
}

// SetExtraParams declares parameters the generated function accepts in
// addition to the row count.
func (l *Loop) SetExtraParams(params string) {
	l.params = params
}

// Compile compiles the given boolean expression, making this loop's
// predicate available from the engine once generation completes.
func (l *Loop) Compile(e expr.Expr) error {
	program, err := CompileExpr(e, l.engine.fr)
	if err != nil {
		return err
	}
	//
	l.program = program
	//
	return nil
}

// Source assembles the generated function's source listing.
func (l *Loop) Source() string {
	var builder strings.Builder
	//
	builder.WriteString("func " + l.name + "(" + l.Params() + ") {\n")
	//
	for _, line := range l.preamble {
		builder.WriteString("\t" + line + "\n")
	}
	//
	builder.WriteString("\tfor i := uint(0); i < nrows; i++ {\n")
	//
	for _, line := range l.body {
		builder.WriteString("\t\t" + line + "\n")
	}
	//
	builder.WriteString("\t}\n")
	//
	for _, line := range l.epilogue {
		builder.WriteString("\t" + line + "\n")
	}
	//
	builder.WriteString("}\n")
	//
	return builder.String()
}

// WriteSource emits the generated function as a Go source file at the given
// path.  The listing is illustrative (column references are left symbolic),
// hence formatting and import resolution are disabled.
func (l *Loop) WriteSource(path string) error {
	return bavard.GenerateFromString(path, []string{loopTemplate}, l,
		bavard.Apache2("Framelab Software Inc.", 2026),
		bavard.Package("filters"),
		bavard.GeneratedBy("framelab/rowset"),
		bavard.Format(false),
		bavard.Import(false),
	)
}
