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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hdlverse/hdlc/pkg/hdl/elaborate"
	"github.com/hdlverse/hdlc/pkg/hdl/parser"
	"github.com/hdlverse/hdlc/pkg/hdl/resolver"
	"github.com/hdlverse/hdlc/pkg/hdl/vhdl"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
	"github.com/hdlverse/hdlc/pkg/source"
)

// synthVhdlCmd implements the "synth-vhdl" subcommand: elaborate
// a chip and emit VHDL plus a Quartus/Modelsim project scaffold. Both
// argument shapes are accepted: "synth-vhdl PATH OUTDIR" and
// "synth-vhdl --output-dir OUTDIR PATH".
var synthVhdlCmd = &cobra.Command{
	Use:   "synth-vhdl",
	Short: "Elaborate a chip and synthesise VHDL plus a project scaffold.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		top, outDir := parseSynthArgs(cmd, args)
		if outDir == "" {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		set, name, errs := resolver.Resolve(top, searchPath(cmd))
		if len(errs) > 0 {
			reportErrors(errs)
			os.Exit(1)
		}

		chip, errs := elaborate.Elaborate(set, name)
		if len(errs) > 0 {
			reportErrors(errs)
			os.Exit(1)
		}

		design, err := vhdl.Emit(chip)
		if err != nil {
			reportErrors([]*hdlerr.Error{hdlerr.New(hdlerr.IoError, nil, source.Span{}, "%v", err)})
			os.Exit(1)
		}

		scaffold, err := vhdl.Scaffold(design.EntityName, nil)
		if err != nil {
			reportErrors([]*hdlerr.Error{hdlerr.New(hdlerr.IoError, nil, source.Span{}, "%v", err)})
			os.Exit(1)
		}

		// All-or-nothing: stage every artifact before writing any
		// of them to outDir.
		artifacts := map[string]string{
			design.EntityName + ".vhd": design.Source,
			design.EntityName + ".tcl": scaffold,
		}

		if testFile := GetString(cmd, "test-file"); testFile != "" {
			script, errs := parser.ParseTestScript(mustReadFile(testFile))
			if len(errs) > 0 {
				reportErrors(errs)
				os.Exit(1)
			}

			tb, err := vhdl.GenerateTestbench(chip, script)
			if err != nil {
				reportErrors([]*hdlerr.Error{hdlerr.New(hdlerr.IoError, nil, source.Span{}, "%v", err)})
				os.Exit(1)
			}

			artifacts[tb.EntityName+"_tb.vhd"] = tb.Source
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			reportErrors([]*hdlerr.Error{hdlerr.New(hdlerr.IoError, nil, source.Span{}, "%v", err)})
			os.Exit(1)
		}

		for name, content := range artifacts {
			if err := os.WriteFile(filepath.Join(outDir, name), []byte(content), 0o644); err != nil {
				reportErrors([]*hdlerr.Error{hdlerr.New(hdlerr.IoError, nil, source.Span{}, "%v", err)})
				os.Exit(1)
			}
		}
	},
}

func parseSynthArgs(cmd *cobra.Command, args []string) (top, outDir string) {
	if d := GetString(cmd, "output-dir"); d != "" {
		return args[0], d
	}

	if len(args) == 2 {
		return args[0], args[1]
	}

	return args[0], ""
}

func mustReadFile(path string) *source.File {
	bytes, err := os.ReadFile(path)
	if err != nil {
		reportErrors([]*hdlerr.Error{hdlerr.New(hdlerr.IoError, nil, source.Span{}, "%s: %v", path, err)})
		os.Exit(1)
	}

	return source.NewFile(path, bytes)
}

func init() {
	rootCmd.AddCommand(synthVhdlCmd)
	synthVhdlCmd.Flags().String("output-dir", "", "directory to write VHDL and scaffold into")
	synthVhdlCmd.Flags().String("test-file", "", "optional .tst script to also emit a Modelsim testbench from")
}
