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
	"errors"
	"fmt"
)

// ErrTypeMismatch is reported when a selector's shape is fundamentally wrong
// for row selection, e.g. a boolean literal, a wrongly typed column, or an
// unrecognized selector shape.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrValueConstraint is reported when a selector has the right shape but a
// value is out-of-bounds or inconsistent, e.g. an out-of-range row number or
// a mask of the wrong length.
var ErrValueConstraint = errors.New("value constraint")

func typeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}

func valueErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValueConstraint, fmt.Sprintf(format, args...))
}

// pluralForm renders a count with a (regular) noun, e.g. "1 row" / "5 rows".
func pluralForm(n uint, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}

	return fmt.Sprintf("%d %ss", n, noun)
}
