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
	"fmt"
	"strings"

	"github.com/framelab/rowset/pkg/expr"
)

// Callable is a row selector computed on demand.  It receives a proxy for the
// column scope of the frame being selected from, and may return any other
// selector shape.  A callable may not itself return a callable.
type Callable = func(*expr.Proxy) any

// ===================================================================
// Spans
// ===================================================================

// Span selects a run of rows with stop-exclusive semantics: start, stop and
// step may each be left open, negative start/stop address rows from the end,
// and out-of-range bounds are clamped rather than rejected.  The zero value
// selects every row.
type Span struct {
	start, stop, step          int
	hasStart, hasStop, hasStep bool
}

// NewSpan constructs the span of rows [start, stop) with unit step.
func NewSpan(start int, stop int) Span {
	return Span{start: start, stop: stop, hasStart: true, hasStop: true}
}

// SpanFrom constructs the span of rows from start to the end of the frame.
func SpanFrom(start int) Span {
	return Span{start: start, hasStart: true}
}

// SpanUpTo constructs the span of rows from the beginning of the frame up to
// (but excluding) stop.
func SpanUpTo(stop int) Span {
	return Span{stop: stop, hasStop: true}
}

// SpanAll constructs the span of every row.
func SpanAll() Span {
	return Span{}
}

// WithStep returns this span with the given step.
func (s Span) WithStep(step int) Span {
	s.step, s.hasStep = step, true
	return s
}

func (s Span) String() string {
	var builder strings.Builder
	//
	if s.hasStart {
		fmt.Fprintf(&builder, "%d", s.start)
	}
	//
	builder.WriteString(":")
	//
	if s.hasStop {
		fmt.Fprintf(&builder, "%d", s.stop)
	}
	//
	if s.hasStep {
		fmt.Fprintf(&builder, ":%d", s.step)
	}
	//
	return builder.String()
}

// normalize resolves this span against a given row count into a (start,
// count, step) triple whose generated positions all lie in [0, nrows).
func (s Span) normalize(nrows uint) (uint, uint, int, error) {
	n := int(nrows)
	//
	step := 1
	if s.hasStep {
		step = s.step
	}
	//
	if step == 0 {
		return 0, 0, 0, fmt.Errorf("span %s has zero step", s)
	}
	// Defaults depend on the direction of travel.
	var start, stop int
	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}
	//
	if s.hasStart {
		start = clampBound(s.start, n, step)
	}
	//
	if s.hasStop {
		stop = clampBound(s.stop, n, step)
	}
	// Number of generated positions.
	var count int
	//
	if step > 0 && stop > start {
		count = (stop - start + step - 1) / step
	} else if step < 0 && stop < start {
		count = (start - stop - step - 1) / (-step)
	}
	//
	if count == 0 {
		return 0, 0, step, nil
	}
	//
	return uint(start), uint(count), step, nil
}

// clampBound resolves one span bound against a row count: negative bounds
// address rows from the end, and anything out of range is clamped to the
// nearest addressable position for the given direction of travel.
func clampBound(bound int, n int, step int) int {
	if bound < 0 {
		bound += n
		if bound < 0 {
			if step > 0 {
				return 0
			}

			return -1
		}
	} else if bound >= n {
		if step > 0 {
			return n
		}

		return n - 1
	}
	//
	return bound
}

// ===================================================================
// Ranges
// ===================================================================

// Range selects the rows {Start + i*Step} strictly below Stop (or strictly
// above, for negative steps).  Unlike a Span, a range whose positions fall
// outside the frame is rejected rather than clamped.  A zero Step denotes the
// default of 1.
type Range struct {
	Start int
	Stop  int
	Step  int
}

// NewRange constructs the range of rows [start, stop) with unit step.
func NewRange(start int, stop int) Range {
	return Range{start, stop, 1}
}

func (r Range) String() string {
	if r.Step == 0 || r.Step == 1 {
		return fmt.Sprintf("range(%d,%d)", r.Start, r.Stop)
	}

	return fmt.Sprintf("range(%d,%d,%d)", r.Start, r.Stop, r.Step)
}

// normalize resolves this range against a given row count into a (start,
// count, step) triple, returning false if any generated position falls
// outside [0, nrows).
func (r Range) normalize(nrows uint) (uint, uint, int, bool) {
	n := int(nrows)
	//
	step := r.Step
	if step == 0 {
		step = 1
	}
	// Number of positions the range denotes.
	var count int
	//
	if step > 0 && r.Stop > r.Start {
		count = (r.Stop - r.Start + step - 1) / step
	} else if step < 0 && r.Stop < r.Start {
		count = (r.Start - r.Stop - step - 1) / (-step)
	}
	//
	if count == 0 {
		return 0, 0, step, true
	}
	// A negative start addresses rows from the end.
	first := r.Start
	if first < 0 {
		first += n
	}
	//
	last := first + (count-1)*step
	if first < 0 || first >= n || last < 0 || last >= n {
		return 0, 0, 0, false
	}
	//
	return uint(first), uint(count), step, true
}
