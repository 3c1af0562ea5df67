// Copyright hdlc Contributors
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

	"github.com/spf13/cobra"

	"github.com/hdlverse/hdlc/pkg/hdl/testscript"
)

// testCmd implements the "test" subcommand: run a .tst test
// script and diff its output against the compare-to golden file.
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run a test script and diff against its golden output.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		path := GetString(cmd, "test-file")
		if path == "" {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		result, errs := testscript.Run(path, searchPath(cmd))
		if len(errs) > 0 {
			reportErrors(errs)
			os.Exit(1)
		}

		if !result.Passed {
			fmt.Printf("FAIL %s: line %d: %s\n", path, result.FirstDiffLine, result.Message)
			os.Exit(1)
		}

		fmt.Printf("PASS %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().String("test-file", "", "path to the .tst test script")
}
