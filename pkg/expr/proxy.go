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
package expr

import (
	"github.com/framelab/rowset/pkg/frame"
)

// Proxy exposes the column scope of the frame currently being selected from.
// It is handed to callable row selectors, allowing them to build expressions
// (or any other selector) against the columns of that frame.
type Proxy struct {
	fr *frame.Frame
}

// NewProxy constructs a proxy for the given frame.
func NewProxy(fr *frame.Frame) *Proxy {
	return &Proxy{fr}
}

// Frame returns the frame this proxy ranges over.
func (p *Proxy) Frame() *frame.Frame {
	return p.fr
}

// NumRows returns the number of visible rows in the proxied frame.
func (p *Proxy) NumRows() uint {
	return p.fr.NumRows()
}

// Col builds a column access expression for the named column.  The name is
// not resolved here; an unknown column surfaces when the resulting expression
// is typed or evaluated.
func (p *Proxy) Col(name string) Expr {
	return NewColumn(name)
}
