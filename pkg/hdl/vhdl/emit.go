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

// Package vhdl translates an elaborated netlist.Chip into a VHDL entity and
// architecture, plus a Quartus/Modelsim project scaffold and, when a test
// script is available, a Modelsim testbench asserting against its expected
// outputs.
package vhdl

import (
	"fmt"
	"strings"

	"github.com/hdlverse/hdlc/pkg/hdl/netlist"
	"github.com/hdlverse/hdlc/pkg/hdl/primitive"
)

// Design is the rendered VHDL source for one elaborated chip.
type Design struct {
	EntityName string
	Source     string
}

// Emit renders chip's entity and architecture: ports mirror the
// chip's own ports, widened to length-1 vectors for uniformity, plus a
// synthesized "clk" input when the chip contains any sequential primitive
// — the same convention the classic n2v (Nand2VHDL) tool uses, which is
// also where the "_n2v" mangling suffix comes from.
func Emit(chip *netlist.Chip) (*Design, error) {
	entityName := mangle(chip.Name)
	ports := buildEntity(chip)

	if hasSequential(chip) {
		ports = append(ports, portModel{Name: "clk", Width: 1, Dir: "in", Scalar: true})
	}

	arch := buildArchitecture(entityName, chip)

	data := struct {
		EntityName     string
		PortsBlock     string
		SignalsBlock   string
		AssignsBlock   string
		ProcessesBlock string
	}{
		EntityName:     entityName,
		PortsBlock:     renderPorts(ports),
		SignalsBlock:   renderTypesAndSignals(arch),
		AssignsBlock:   renderAssigns(arch.Assigns),
		ProcessesBlock: renderProcesses(arch),
	}

	var b strings.Builder
	if err := designTemplate.Execute(&b, data); err != nil {
		return nil, err
	}

	return &Design{EntityName: entityName, Source: b.String()}, nil
}

// Scaffold renders the Quartus/Modelsim TCL project file for a design. No
// VHDL compilation happens here; it is a template fill.
func Scaffold(entityName string, extraFiles []string) (string, error) {
	var b strings.Builder

	err := tclTemplate.Execute(&b, struct {
		EntityName string
		Extra      []string
	}{entityName, extraFiles})

	return b.String(), err
}

func hasSequential(chip *netlist.Chip) bool {
	for _, inst := range chip.Instances {
		if inst.Kind == primitive.KindDFF || inst.Kind == primitive.KindRAM {
			return true
		}
	}

	return false
}

func renderPorts(ports []portModel) string {
	lines := make([]string, len(ports))

	for i, p := range ports {
		sep := ";"
		if i == len(ports)-1 {
			sep = ""
		}

		width := busWidth(p.Width)
		if p.Scalar {
			width = "std_logic"
		}

		lines[i] = fmt.Sprintf("        %s : %s %s%s", p.Name, p.Dir, width, sep)
	}

	return strings.Join(lines, "\n")
}

func renderTypesAndSignals(arch archModel) string {
	var lines []string

	for _, t := range arch.TypeDecls {
		lines = append(lines, "    "+t)
	}

	for _, s := range arch.Signals {
		typ := vecWidth(s.Width)
		if s.ForceVector {
			typ = busWidth(s.Width)
		}

		if s.Init != "" {
			lines = append(lines, fmt.Sprintf("    signal %s : %s := %s;", s.Name, typ, s.Init))
			continue
		}

		lines = append(lines, fmt.Sprintf("    signal %s : %s;", s.Name, typ))
	}

	for _, m := range arch.MemDecls {
		lines = append(lines, "    "+m)
	}

	return strings.Join(lines, "\n")
}

func renderAssigns(assigns []string) string {
	lines := make([]string, len(assigns))

	for i, a := range assigns {
		lines[i] = "    " + a
	}

	return strings.Join(lines, "\n")
}

func renderProcesses(arch archModel) string {
	var b strings.Builder

	for _, r := range arch.Registers {
		fmt.Fprintf(&b, "    process(clk)\n    begin\n        if rising_edge(clk) then\n            if %s = '1' then\n                %s <= %s;\n            end if;\n        end if;\n    end process;\n", r.Load, r.Sig, r.D)
		fmt.Fprintf(&b, "    %s <= %s;\n", r.Q, r.Sig)
	}

	for _, ram := range arch.Rams {
		fmt.Fprintf(&b, "    process(clk)\n    begin\n        if rising_edge(clk) then\n            if %s = '1' then\n                %s(to_integer(unsigned(%s))) <= %s;\n            end if;\n        end if;\n    end process;\n", ram.Load, ram.Mem, ram.Addr, ram.Din)
		fmt.Fprintf(&b, "    %s <= %s(to_integer(unsigned(%s)));\n", ram.Dout, ram.Mem, ram.Addr)
	}

	return b.String()
}
