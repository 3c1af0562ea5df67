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

// Package testscript interprets the .tst dialect against the
// simulator, producing a formatted .out file and diffing it against a
// compare-to golden file.
package testscript

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hdlverse/hdlc/pkg/hdl/ast"
	"github.com/hdlverse/hdlc/pkg/hdl/elaborate"
	"github.com/hdlverse/hdlc/pkg/hdl/parser"
	"github.com/hdlverse/hdlc/pkg/hdl/resolver"
	"github.com/hdlverse/hdlc/pkg/hdl/sim"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
	"github.com/hdlverse/hdlc/pkg/source"
)

// Result reports the outcome of running one test script.
type Result struct {
	Passed bool

	OutputFile  string
	CompareFile string

	// FirstDiffLine is the 1-indexed line at which Output first diverges
	// from Compare, or 0 if the run passed or no compare-to was declared.
	FirstDiffLine int
	Message       string
}

// Run parses, interprets and (if compare-to was declared) diffs the test
// script at path. searchPath is consulted, after the script's own
// directory, to resolve any chip loaded by the script.
func Run(path string, searchPath []string) (*Result, []*hdlerr.Error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, []*hdlerr.Error{ioError(path, err)}
	}

	script, errs := parser.ParseTestScript(source.NewFile(path, bytes))
	if len(errs) > 0 {
		return nil, errs
	}

	r := &runner{baseDir: filepath.Dir(path), searchPath: searchPath}

	for _, cmd := range script.Commands {
		if errs := r.exec(cmd); len(errs) > 0 {
			return nil, errs
		}
	}

	return r.finish()
}

type runner struct {
	baseDir    string
	searchPath []string

	sim  *sim.Simulator
	spec []ast.OutputSpec
	rows []string

	outputFile  string
	compareFile string
}

func (r *runner) exec(cmd ast.Command) []*hdlerr.Error {
	switch c := cmd.(type) {
	case ast.LoadCmd:
		return r.load(c)
	case ast.OutputFileCmd:
		r.outputFile = filepath.Join(r.baseDir, c.Name)
		return nil
	case ast.CompareToCmd:
		r.compareFile = filepath.Join(r.baseDir, c.Name)
		return nil
	case ast.OutputListCmd:
		r.spec = c.Specs
		r.rows = append(r.rows, headerRow(c.Specs))
		return nil
	case ast.SetCmd:
		return r.set(c)
	case ast.EvalCmd:
		r.mustSim().Eval()
		return nil
	case ast.TickCmd:
		r.mustSim().Tick()
		return nil
	case ast.TockCmd:
		r.mustSim().Tock()
		return nil
	case ast.OutputCmd:
		return r.output()
	default:
		return []*hdlerr.Error{hdlerr.NewInPath(hdlerr.ParseError, nil, "unsupported test-script command %T", c)}
	}
}

func (r *runner) mustSim() *sim.Simulator {
	if r.sim == nil {
		panic("test script issued a simulator command before load")
	}

	return r.sim
}

func (r *runner) load(c ast.LoadCmd) []*hdlerr.Error {
	topFile := filepath.Join(r.baseDir, c.File)

	set, topName, errs := resolver.Resolve(topFile, r.searchPath)
	if len(errs) > 0 {
		return errs
	}

	chip := set.Chips[topName]
	if len(chip.Generics) != len(c.Widths) {
		return []*hdlerr.Error{
			hdlerr.New(hdlerr.ArityMismatch, nil, c.Sp,
				"%s declares %d generic parameter(s), load<...> supplied %d", topName, len(chip.Generics), len(c.Widths)),
		}
	}

	generics := make(map[string]uint, len(chip.Generics))
	for i, name := range chip.Generics {
		generics[name] = c.Widths[i]
	}

	netChip, errs := elaborate.ElaborateWithGenerics(set, topName, generics)
	if len(errs) > 0 {
		return errs
	}

	s, err := sim.NewSimulator(netChip)
	if err != nil {
		return []*hdlerr.Error{hdlerr.New(hdlerr.CombinationalLoop, nil, c.Sp, "%v", err)}
	}

	r.sim = s

	return nil
}

func (r *runner) set(c ast.SetCmd) []*hdlerr.Error {
	s := r.mustSim()

	full, err := s.Signal(c.Name)
	if err != nil {
		return []*hdlerr.Error{hdlerr.New(hdlerr.UnknownPort, nil, c.Sp, "%v", err)}
	}

	lo, hi := 0, len(full)-1
	if c.Slice != nil {
		lo64, _ := c.Slice.Lo.Eval(nil)
		lo = int(lo64)
		hi = lo

		if c.Slice.Hi != nil {
			hi64, _ := c.Slice.Hi.Eval(nil)
			hi = int(hi64)
		}
	}

	if lo < 0 || hi >= len(full) || lo > hi {
		return []*hdlerr.Error{hdlerr.New(hdlerr.OutOfRangeSlice, nil, c.Sp, "set %s[%d..%d]: out of range for a %d-bit signal", c.Name, lo, hi, len(full))}
	}

	for i := lo; i <= hi; i++ {
		full[i] = boolBitFromUint(c.Value, uint(i-lo))
	}

	if err := s.SetInput(c.Name, full); err != nil {
		return []*hdlerr.Error{hdlerr.New(hdlerr.UnknownPort, nil, c.Sp, "%v", err)}
	}

	return nil
}

func boolBitFromUint(v uint64, bit uint) sim.Bit {
	if v&(1<<bit) != 0 {
		return sim.One
	}

	return sim.Zero
}

func (r *runner) output() []*hdlerr.Error {
	s := r.mustSim()

	var b strings.Builder

	b.WriteByte('|')

	for _, spec := range r.spec {
		bits, err := s.Signal(spec.Name)
		if err != nil {
			return []*hdlerr.Error{hdlerr.NewInPath(hdlerr.UnknownPort, nil, "%v", err)}
		}

		if spec.Slice != nil {
			lo64, _ := spec.Slice.Lo.Eval(nil)
			lo := int(lo64)
			hi := lo

			if spec.Slice.Hi != nil {
				hi64, _ := spec.Slice.Hi.Eval(nil)
				hi = int(hi64)
			}

			if lo >= 0 && hi < len(bits) && lo <= hi {
				bits = bits[lo : hi+1]
			}
		}

		b.WriteString(formatField(bits, spec))
		b.WriteByte('|')
	}

	r.rows = append(r.rows, b.String())

	return nil
}

func (r *runner) finish() (*Result, []*hdlerr.Error) {
	if r.outputFile == "" {
		return &Result{Passed: true}, nil
	}

	content := strings.Join(r.rows, "\n")
	if len(r.rows) > 0 {
		content += "\n"
	}

	if err := os.WriteFile(r.outputFile, []byte(content), 0o644); err != nil {
		return nil, []*hdlerr.Error{ioError(r.outputFile, err)}
	}

	result := &Result{Passed: true, OutputFile: r.outputFile, CompareFile: r.compareFile}

	if r.compareFile == "" {
		return result, nil
	}

	golden, err := os.ReadFile(r.compareFile)
	if err != nil {
		return nil, []*hdlerr.Error{ioError(r.compareFile, err)}
	}

	diffLine, msg := diff(content, string(golden))
	if diffLine > 0 {
		result.Passed = false
		result.FirstDiffLine = diffLine
		result.Message = msg
	}

	return result, nil
}

// diff compares two test outputs line by line, ignoring trailing whitespace
// and line-ending differences, returning the first 1-indexed
// line at which they differ, or 0 if they match.
func diff(actual, golden string) (int, string) {
	actualLines := splitTrimmed(actual)
	goldenLines := splitTrimmed(golden)

	n := len(actualLines)
	if len(goldenLines) > n {
		n = len(goldenLines)
	}

	for i := 0; i < n; i++ {
		a, g := "", ""
		if i < len(actualLines) {
			a = actualLines[i]
		}

		if i < len(goldenLines) {
			g = goldenLines[i]
		}

		if a != g {
			return i + 1, "line " + strconv.Itoa(i+1) + ": expected " + strconv.Quote(g) + ", got " + strconv.Quote(a)
		}
	}

	return 0, ""
}

func splitTrimmed(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")

	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}

	return lines
}

func ioError(path string, err error) *hdlerr.Error {
	return hdlerr.New(hdlerr.IoError, nil, source.Span{}, "%s: %v", path, err)
}
