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

	"github.com/hdlverse/hdlc/pkg/hdl/romgen"
)

// romCmd implements the "rom" subcommand: read a thumb-binary
// object file and emit ROM HDL to stdout.
var romCmd = &cobra.Command{
	Use:   "rom PATH",
	Short: "Read a thumb-binary object file and emit ROM HDL to stdout.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		offset := int(GetUint(cmd, "rom-offset"))

		words, err := romgen.ReadWords(args[0], offset)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		name := GetString(cmd, "chip-name")

		fmt.Print(romgen.Emit(name, words))
	},
}

func init() {
	rootCmd.AddCommand(romCmd)
	romCmd.Flags().Uint("rom-offset", romgen.DefaultOffset, "byte offset of the word stream within the thumb-binary file")
	romCmd.Flags().String("chip-name", "Rom", "name of the emitted ROM chip")
}
