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

	"github.com/hdlverse/hdlc/pkg/hdl/elaborate"
	"github.com/hdlverse/hdlc/pkg/hdl/resolver"
)

// checkCmd implements the "check" subcommand: parse, resolve and
// elaborate a top-level chip, producing no output beyond diagnostics.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse, resolve, and elaborate a chip definition.",
	Long:  `Parse, resolve and elaborate the chip named by --top-level-file; report any error and exit non-zero.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		top := GetString(cmd, "top-level-file")
		if top == "" {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		set, name, errs := resolver.Resolve(top, searchPath(cmd))
		if len(errs) > 0 {
			reportErrors(errs)
			os.Exit(1)
		}

		if _, errs := elaborate.Elaborate(set, name); len(errs) > 0 {
			reportErrors(errs)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("top-level-file", "", "path to the top-level .hdl chip file")
}
