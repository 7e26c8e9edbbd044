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

	"github.com/framelab/rowset/pkg/frame/json"
	"github.com/framelab/rowset/pkg/rowfilter"
	"github.com/framelab/rowset/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort [flags] frame_file column",
	Short: "Sort rows of a frame.",
	Long:  `Reorder the rows of a frame by a stable ascending sort of the given column.`,
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
		// Resolve column
		col, ok := fr.ColumnByName(args[1])
		if !ok {
			fmt.Printf("unknown column %s\n", args[1])
			os.Exit(2)
		}
		//
		ee := rowfilter.NewEngine(fr)
		stats := util.NewPerfStats()
		//
		node := rowfilter.NewSorted(rowfilter.NewSort(ee, col))
		if err := node.Execute(); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		stats.Log("sort")
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

func init() {
	rootCmd.AddCommand(sortCmd)
	sortCmd.Flags().Bool("json", false, "write the sorted rows as JSON")
}
