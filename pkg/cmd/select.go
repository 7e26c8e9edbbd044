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
	"fmt"
	"os"

	"github.com/framelab/rowset/pkg/codegen"
	"github.com/framelab/rowset/pkg/frame"
	"github.com/framelab/rowset/pkg/frame/json"
	"github.com/framelab/rowset/pkg/rowfilter"
	"github.com/framelab/rowset/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select [flags] frame_file selector",
	Short: "Select rows of a frame.",
	Long: `Select rows of a frame according to a given selector.
	Frames are given as JSON files.  Selectors are row numbers, spans
	(e.g. "2:8:2"), comma-separated lists thereof, or boolean filter
	expressions over column names (e.g. "A >= 2 & !(B == 7)").`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		invert := GetFlag(cmd, "invert")
		compile := GetFlag(cmd, "compile")
		// Compiled predicates are applied directly, hence cannot be negated.
		if invert && compile {
			fmt.Println("--invert cannot be combined with --compile")
			os.Exit(1)
		}
		// Parse frame
		fr := readFrameFile(args[0])
		// Parse selector
		selector, err := parseSelector(args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		// Go!
		ee, err := runSelection(fr, selector, invert, compile)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		out := ee.Materialize()
		//
		if GetFlag(cmd, "json") {
			fmt.Println(json.ToJsonString(out))
		} else {
			printFrame(out)
		}
	},
}

// runSelection resolves a selector against a frame under the requested
// strategy, returning the evaluation context holding the final index.
func runSelection(fr *frame.Frame, selector any, invert bool, compile bool) (*rowfilter.Engine, error) {
	var (
		ee       *rowfilter.Engine
		compiler *codegen.Engine
	)
	//
	if compile {
		compiler = codegen.NewEngine(fr)
		ee = rowfilter.NewCompilingEngine(fr, compiler)
	} else {
		ee = rowfilter.NewEngine(fr)
	}
	//
	stats := util.NewPerfStats()
	//
	node, err := rowfilter.New(selector, ee)
	if err != nil {
		return nil, err
	}
	//
	if invert {
		node.Negate()
	}
	//
	if compiler != nil {
		if err := compiler.Generate(); err != nil {
			return nil, err
		}
	}
	//
	if err := node.Execute(); err != nil {
		return nil, err
	}
	//
	stats.Log("selection")
	//
	return ee, nil
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().Bool("invert", false, "select the complement of the selector")
	selectCmd.Flags().Bool("compile", false, "resolve filter expressions via generated code")
	selectCmd.Flags().Bool("json", false, "write the selected rows as JSON")
}
