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

package ast

import "github.com/hdlverse/hdlc/pkg/source"

// Script is a parsed test-script file (.tst), a flat sequence of commands
// executed in order by the test runner.
type Script struct {
	Commands []Command
}

// Command is one instruction of the test-script dialect.
type Command interface {
	Span() source.Span
	isCommand()
}

type CmdBase struct{ Sp source.Span }

func (c CmdBase) Span() source.Span { return c.Sp }

// LoadCmd is "load<W,...>? FILE" — loads a chip (with optional generic
// width bindings) as the top-level device under test.
type LoadCmd struct {
	CmdBase
	Widths []uint
	File   string
}

func (LoadCmd) isCommand() {}

// OutputFileCmd is "output-file NAME".
type OutputFileCmd struct {
	CmdBase
	Name string
}

func (OutputFileCmd) isCommand() {}

// CompareToCmd is "compare-to NAME".
type CompareToCmd struct {
	CmdBase
	Name string
}

func (CompareToCmd) isCommand() {}

// OutputSpec is one column of an "output-list" directive:
// "name%fmt.intw.fracw".
type OutputSpec struct {
	Name  string
	Slice *Slice
	Fmt   byte // 'B', 'D', or 'X'
	IntW  uint
	FracW uint
}

// OutputListCmd is "output-list SPEC,...".
type OutputListCmd struct {
	CmdBase
	Specs []OutputSpec
}

func (OutputListCmd) isCommand() {}

// SetCmd is "set IDENT VALUE", optionally targeting a sub-range of IDENT.
type SetCmd struct {
	CmdBase
	Name  string
	Slice *Slice
	Value uint64
}

func (SetCmd) isCommand() {}

// EvalCmd is "eval": run a combinational step.
type EvalCmd struct{ CmdBase }

func (EvalCmd) isCommand() {}

// TickCmd is "tick": the first half of a clock cycle.
type TickCmd struct{ CmdBase }

func (TickCmd) isCommand() {}

// TockCmd is "tock": the second half of a clock cycle.
type TockCmd struct{ CmdBase }

func (TockCmd) isCommand() {}

// OutputCmd is "output": append a formatted row to the output file.
type OutputCmd struct{ CmdBase }

func (OutputCmd) isCommand() {}
