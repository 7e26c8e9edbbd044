package cmd

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/frame/json"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected uint flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Parse a frame file using a parser based on the extension of the filename.
func readFrameFile(filename string) *frame.Frame {
	bytes, err := os.ReadFile(filename)
	if err == nil {
		// Check file extension
		ext := path.Ext(filename)
		//
		switch ext {
		case ".json":
			fr, err := json.FromBytes(bytes)
			if err == nil {
				return fr
			}

			fmt.Println(err)
			os.Exit(2)
		default:
			err = fmt.Errorf("unknown frame file format: %s", ext)
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return nil
}

// Print the visible rows of a frame as an aligned table, clipping output to
// the width of the terminal (when attached to one).
func printFrame(fr *frame.Frame) {
	maxWidth := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		maxWidth = w
	}
	// Render all cells up front so columns can be aligned.
	cells := make([][]string, fr.Width())
	widths := make([]int, fr.Width())
	//
	for i := uint(0); i < fr.Width(); i++ {
		cells[i] = renderColumn(fr, i)
		widths[i] = len(fr.ColumnByIndex(i).Name())
		//
		for _, cell := range cells[i] {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	// Header
	var line strings.Builder
	//
	for i := uint(0); i < fr.Width(); i++ {
		fmt.Fprintf(&line, " %*s", widths[i], fr.ColumnByIndex(i).Name())
	}
	//
	printClipped(line.String(), maxWidth)
	// Rows
	for row := uint(0); row < fr.NumRows(); row++ {
		line.Reset()
		//
		for i := uint(0); i < fr.Width(); i++ {
			fmt.Fprintf(&line, " %*s", widths[i], cells[i][row])
		}
		//
		printClipped(line.String(), maxWidth)
	}
}

func renderColumn(fr *frame.Frame, col uint) []string {
	cells := make([]string, fr.NumRows())
	//
	switch fr.ColumnByIndex(col).Kind() {
	case frame.BoolKind:
		for row, value := range fr.BoolValues(col) {
			cells[row] = strconv.FormatBool(value)
		}
	case frame.IntKind:
		for row, value := range fr.IntValues(col) {
			cells[row] = strconv.FormatInt(value, 10)
		}
	}
	//
	return cells
}

func printClipped(line string, maxWidth int) {
	if len(line) > maxWidth {
		line = line[:maxWidth]
	}

	fmt.Println(line)
}
