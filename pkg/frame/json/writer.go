package json

import (
	"strconv"
	"strings"

	"github.com/framelab/rowset/pkg/frame"
)

// ToJsonString converts the visible rows of a frame into a JSON string.
func ToJsonString(fr *frame.Frame) string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i := uint(0); i < fr.Width(); i++ {
		ith := fr.ColumnByIndex(i)
		//
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString("\"")
		builder.WriteString(ith.Name())
		builder.WriteString("\": [")
		//
		switch ith.Kind() {
		case frame.BoolKind:
			for j, value := range fr.BoolValues(i) {
				if j != 0 {
					builder.WriteString(", ")
				}

				builder.WriteString(strconv.FormatBool(value))
			}
		case frame.IntKind:
			for j, value := range fr.IntValues(i) {
				if j != 0 {
					builder.WriteString(", ")
				}

				builder.WriteString(strconv.FormatInt(value, 10))
			}
		}
		//
		builder.WriteString("]")
	}
	//
	builder.WriteString("}")
	// Done
	return builder.String()
}
