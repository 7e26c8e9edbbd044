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
	"github.com/framelab/rowset/pkg/rowfilter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] frame_file selector",
	Short: "Generate filter source for a selector.",
	Long: `Generate the filter function a given selector compiles to against a
	given frame, writing it out as a source file (or to stdout).  Only
	filter-expression selectors compile; positional selectors resolve
	directly and have no generated form.`,
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
		// Parse frame
		fr := readFrameFile(args[0])
		// Parse selector
		selector, err := parseSelector(args[1])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		compiler := codegen.NewEngine(fr)
		ee := rowfilter.NewCompilingEngine(fr, compiler)
		//
		node, err := rowfilter.New(selector, ee)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		filter, ok := node.(*rowfilter.FilterNode)
		if !ok {
			fmt.Printf("selector %q is not a filter expression\n", args[1])
			os.Exit(1)
		}
		//
		if err := compiler.Generate(); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		// Write out generated source.
		filename := GetString(cmd, "output")
		//
		if filename == "" {
			source, err := compiler.Source(filter.FunctionName())
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}

			fmt.Println(source)
		} else if err := compiler.WriteSource(filter.FunctionName(), filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("output", "o", "", "write generated source to a file")
}
