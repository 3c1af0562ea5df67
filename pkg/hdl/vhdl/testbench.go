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

package vhdl

import (
	"fmt"
	"strings"

	"github.com/hdlverse/hdlc/pkg/hdl/ast"
	"github.com/hdlverse/hdlc/pkg/hdl/netlist"
	"github.com/hdlverse/hdlc/pkg/hdl/sim"
)

// Testbench is a rendered Modelsim testbench for one chip plus the test
// script that exercises it.
type Testbench struct {
	EntityName string
	Source     string
}

// GenerateTestbench replays script against chip with its own simulator to
// capture the exact expected bit values at each "output" command, then
// emits a self-checking Modelsim testbench asserting those values. Any
// "load" command in script is ignored: chip is already the design under
// test.
func GenerateTestbench(chip *netlist.Chip, script *ast.Script) (*Testbench, error) {
	entityName := mangle(chip.Name)

	s, err := sim.NewSimulator(chip)
	if err != nil {
		return nil, err
	}

	tb := &tbBuilder{chip: chip, sim: s, entityName: entityName}

	for _, cmd := range script.Commands {
		if err := tb.exec(cmd); err != nil {
			return nil, err
		}
	}

	data := struct {
		EntityName      string
		SignalsBlock    string
		PortMapBlock    string
		StimulusBlock   string
	}{
		EntityName:    entityName,
		SignalsBlock:  renderTBSignals(chip, tb.hasClock),
		PortMapBlock:  renderPortMap(chip, tb.hasClock),
		StimulusBlock: strings.Join(tb.stmts, "\n"),
	}

	var b strings.Builder
	if err := testbenchTemplate.Execute(&b, data); err != nil {
		return nil, err
	}

	return &Testbench{EntityName: entityName, Source: b.String()}, nil
}

type tbBuilder struct {
	chip       *netlist.Chip
	sim        *sim.Simulator
	entityName string
	spec       []ast.OutputSpec
	stmts      []string
	hasClock   bool
}

func (tb *tbBuilder) exec(cmd ast.Command) error {
	switch c := cmd.(type) {
	case ast.LoadCmd:
		return nil
	case ast.OutputFileCmd, ast.CompareToCmd:
		return nil
	case ast.OutputListCmd:
		tb.spec = c.Specs
		return nil
	case ast.SetCmd:
		return tb.set(c)
	case ast.EvalCmd:
		tb.sim.Eval()
		tb.stmts = append(tb.stmts, "        wait for 1 ns;")
		return nil
	case ast.TickCmd:
		tb.hasClock = true
		tb.sim.Tick()
		tb.stmts = append(tb.stmts, "        clk <= '0'; wait for 5 ns;")
		return nil
	case ast.TockCmd:
		tb.hasClock = true
		tb.sim.Tock()
		tb.stmts = append(tb.stmts, "        clk <= '1'; wait for 5 ns;")
		return nil
	case ast.OutputCmd:
		return tb.output()
	default:
		return fmt.Errorf("unsupported test-script command %T in testbench generation", c)
	}
}

func (tb *tbBuilder) set(c ast.SetCmd) error {
	full, err := tb.sim.Signal(c.Name)
	if err != nil {
		return err
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

	for i := lo; i <= hi; i++ {
		if c.Value&(1<<uint(i-lo)) != 0 {
			full[i] = sim.One
		} else {
			full[i] = sim.Zero
		}
	}

	if err := tb.sim.SetInput(c.Name, full); err != nil {
		return err
	}

	tb.stmts = append(tb.stmts, fmt.Sprintf("        %s <= %s;", tbSignal(c.Name), bitsLiteral(full)))

	return nil
}

func (tb *tbBuilder) output() error {
	for _, spec := range tb.spec {
		bits, err := tb.sim.Signal(spec.Name)
		if err != nil {
			return err
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

		if hasUnknownBit(bits) {
			continue // no defined value to assert against
		}

		tb.stmts = append(tb.stmts, fmt.Sprintf(
			`        assert %s = %s report "mismatch on %s" severity error;`,
			tbSignal(spec.Name), bitsLiteral(bits), spec.Name))
	}

	return nil
}

func hasUnknownBit(bits []sim.Bit) bool {
	for _, b := range bits {
		if b == sim.Unknown {
			return true
		}
	}

	return false
}

func tbSignal(name string) string { return "tb_" + mangle(name) }

// bitsLiteral renders bits as a VHDL std_logic_vector literal, MSB first.
// Testbench port-mirror signals are always forced-vector (even width 1,
// matching the DUT's own length-1-vector ports), so this never needs the
// bare '0'/'1' scalar form.
func bitsLiteral(bits []sim.Bit) string {
	out := make([]byte, len(bits))

	for i, b := range bits {
		if b == sim.One {
			out[len(bits)-1-i] = '1'
		} else {
			out[len(bits)-1-i] = '0'
		}
	}

	return `"` + string(out) + `"`
}

func renderTBSignals(chip *netlist.Chip, hasClock bool) string {
	var lines []string

	if hasClock {
		lines = append(lines, "    signal clk : std_logic := '0';")
	}

	for _, p := range chip.Inputs {
		lines = append(lines, fmt.Sprintf("    signal %s : %s;", tbSignal(p.Name), busWidth(p.Width)))
	}

	for _, p := range chip.Outputs {
		lines = append(lines, fmt.Sprintf("    signal %s : %s;", tbSignal(p.Name), busWidth(p.Width)))
	}

	return strings.Join(lines, "\n")
}

func renderPortMap(chip *netlist.Chip, hasClock bool) string {
	var entries []string

	for _, p := range chip.Inputs {
		entries = append(entries, fmt.Sprintf("%s => %s", mangle(p.Name), tbSignal(p.Name)))
	}

	for _, p := range chip.Outputs {
		entries = append(entries, fmt.Sprintf("%s => %s", mangle(p.Name), tbSignal(p.Name)))
	}

	if hasClock {
		entries = append(entries, "clk => clk")
	}

	for i, e := range entries {
		sep := ","
		if i == len(entries)-1 {
			sep = ""
		}

		entries[i] = "            " + e + sep
	}

	return strings.Join(entries, "\n")
}
