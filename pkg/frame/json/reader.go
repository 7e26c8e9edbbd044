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
package json

import (
	stdjson "encoding/json"
	"fmt"
	"sort"

	"github.com/framelab/rowset/pkg/frame"
	"github.com/segmentio/encoding/json"
)

// FromBytes parses a frame expressed in JSON notation.  For example, {"X":
// [0, 1], "Y": [true, false]} is a frame holding an integer and a boolean
// column of two rows each.  A column holds booleans if its first value is a
// boolean, and integers otherwise.  Since JSON objects carry no order of
// their own, columns are ordered alphabetically by name.
func FromBytes(data []byte) (*frame.Frame, error) {
	var rawData map[string][]stdjson.RawMessage
	//
	if err := json.Unmarshal(data, &rawData); err != nil {
		return nil, err
	}
	// Impose a deterministic column order.
	names := make([]string, 0, len(rawData))
	for name := range rawData {
		names = append(names, name)
	}

	sort.Strings(names)
	//
	columns := make([]frame.Column, len(names))
	//
	for i, name := range names {
		col, err := parseColumn(name, rawData[name])
		// error check
		if err != nil {
			return nil, err
		}
		// Ragged columns cannot form a frame.
		if i != 0 && col.Height() != columns[0].Height() {
			return nil, fmt.Errorf("column %s has %d rows, expected %d",
				name, col.Height(), columns[0].Height())
		}
		//
		columns[i] = col
	}
	//
	return frame.New(columns...), nil
}

func parseColumn(name string, values []stdjson.RawMessage) (frame.Column, error) {
	// An empty column defaults to integer.
	if len(values) > 0 && isBoolLiteral(values[0]) {
		data := make([]bool, len(values))
		//
		for i, raw := range values {
			if err := json.Unmarshal(raw, &data[i]); err != nil {
				return nil, fmt.Errorf("column %s holds a non-boolean value %s at row %d", name, raw, i)
			}
		}
		//
		return frame.NewBoolColumn(name, data), nil
	}
	//
	data := make([]int64, len(values))
	//
	for i, raw := range values {
		if err := json.Unmarshal(raw, &data[i]); err != nil {
			return nil, fmt.Errorf("column %s holds a non-integer value %s at row %d", name, raw, i)
		}
	}
	//
	return frame.NewIntColumn(name, data), nil
}

func isBoolLiteral(raw stdjson.RawMessage) bool {
	return len(raw) > 0 && (raw[0] == 't' || raw[0] == 'f')
}
