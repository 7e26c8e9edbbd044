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
package cmd

import (
	"testing"

	"github.com/framelab/rowset/pkg/expr"
	"github.com/framelab/rowset/pkg/rowfilter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector_All(t *testing.T) {
	for _, input := range []string{"", "all", "  all  "} {
		selector, err := parseSelector(input)
		require.NoError(t, err)
		assert.Nil(t, selector)
	}
}

func TestParseSelector_Positional(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"3", 3},
		{"-1", -1},
		{"2:8", rowfilter.NewSpan(2, 8)},
		{"2:8:2", rowfilter.NewSpan(2, 8).WithStep(2)},
		{"2:", rowfilter.SpanFrom(2)},
		{":8", rowfilter.SpanUpTo(8)},
		{":", rowfilter.SpanAll()},
		{"::-1", rowfilter.SpanAll().WithStep(-1)},
		{"0, 1, 5:8", []any{0, 1, rowfilter.NewSpan(5, 8)}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			selector, err := parseSelector(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, selector)
		})
	}
}

func TestParseSelector_Expression(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"A > 4", "(A > 4)"},
		{"A>4", "(A > 4)"},
		{"A != -2", "(A != -2)"},
		{"A >= 2 & !(A == 7)", "((A >= 2) && !(A == 7))"},
		{"A < 1 | A > 8", "((A < 1) || (A > 8))"},
		{"!B", "!B"},
		{"(A <= 3)", "(A <= 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			selector, err := parseSelector(tt.input)
			require.NoError(t, err)
			//
			e, ok := selector.(expr.Expr)
			require.True(t, ok, "expected expression, got %T", selector)
			assert.Equal(t, tt.expected, e.String())
		})
	}
}

func TestParseSelector_Invalid(t *testing.T) {
	for _, input := range []string{"x", "1:2:3:4", "1,y", "A >", "A > 4)", "(A > 4", "A @ 4"} {
		t.Run(input, func(t *testing.T) {
			_, err := parseSelector(input)
			assert.Error(t, err)
		})
	}
}
