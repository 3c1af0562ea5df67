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

// Package cmd implements hdlc's command-line surface: check,
// test, synth-vhdl, and rom, built on cobra with logrus for diagnostics.
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd is the base command when hdlc is invoked with no subcommand.
var rootCmd = &cobra.Command{
	Use:   "hdlc",
	Short: "A compiler and simulator for a Nand2Tetris-derived HDL.",
	Long: `hdlc elaborates chip definitions into a netlist, simulates them,
runs Nand2Tetris-compatible test scripts, and synthesises VHDL.`,
}

// Execute adds all child commands to the root command and runs it. This is
// called by cmd/hdlc's main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringArrayP("search-path", "I", nil, "additional directory to search for chip definitions")

	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
}

func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}
