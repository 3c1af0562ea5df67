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

	"github.com/hdlverse/hdlc/pkg/hdl/netlist"
	"github.com/hdlverse/hdlc/pkg/hdl/primitive"
)

// portModel is one entity port.
type portModel struct {
	Name  string
	Width uint
	Dir   string // "in" or "out"

	// Scalar marks a port that must stay a bare std_logic rather than a
	// length-1 vector, namely the synthesized "clk" input: rising_edge
	// requires a std_logic, not a std_logic_vector.
	Scalar bool
}

// signalModel is one internal architecture signal declaration.
type signalModel struct {
	Name  string
	Width uint
	Init  string // "" for no initial value

	// ForceVector keeps a width-1 bus declared (and indexable) as
	// std_logic_vector(0 downto 0) rather than collapsing to a bare
	// std_logic, for buses this package's own code later indexes
	// positionally (port mirrors, RAM address/data buses).
	ForceVector bool
}

// ramModel describes one RAM primitive instance's synchronous-write,
// asynchronous-read behaviour.
type ramModel struct {
	Type, Mem, Addr, Din, Dout, Load string
	Depth, Width                    uint
}

// regModel describes one DFF primitive instance.
type regModel struct {
	Sig, D, Load, Q string
}

// archModel is the fully-resolved model fed to the architecture template:
// every VHDL statement has already been rendered to text so the template
// itself stays a dumb fill.
type archModel struct {
	EntityName string
	Signals    []signalModel
	Assigns    []string
	Registers  []regModel
	Rams       []ramModel

	// TypeDecls and MemDecls hold the array-type and memory-signal
	// declarations RAM instances need, kept apart from Signals since a RAM's
	// storage isn't a std_logic(_vector) signal.
	TypeDecls []string
	MemDecls  []string
}

func netName(id netlist.NetID) string { return fmt.Sprintf("net_%d", id) }

func vecWidth(w uint) string {
	if w <= 1 {
		return "std_logic"
	}

	return fmt.Sprintf("std_logic_vector(%d downto 0)", w-1)
}

// busWidth always renders as a vector, even at width 1, so every port is
// emitted as a length-1 vector for uniformity — used anywhere this package
// later indexes the signal positionally.
func busWidth(w uint) string {
	return fmt.Sprintf("std_logic_vector(%d downto 0)", w-1)
}

// buildEntity maps chip's ports to VHDL entity ports, mangling any name
// that collides with a reserved word.
func buildEntity(chip *netlist.Chip) []portModel {
	ports := make([]portModel, 0, len(chip.Inputs)+len(chip.Outputs))

	for _, p := range chip.Inputs {
		ports = append(ports, portModel{Name: mangle(p.Name), Width: p.Width, Dir: "in"})
	}

	for _, p := range chip.Outputs {
		ports = append(ports, portModel{Name: mangle(p.Name), Width: p.Width, Dir: "out"})
	}

	return ports
}

// buildArchitecture flattens chip's primitive instances and driver table
// into concurrent VHDL statements plus the register/RAM processes they
// need.
func buildArchitecture(entityName string, chip *netlist.Chip) archModel {
	m := archModel{EntityName: entityName}

	for id := 2; id < chip.NumNets; id++ {
		m.Signals = append(m.Signals, signalModel{Name: netName(netlist.NetID(id)), Width: 1})
	}

	m.Signals = append(m.Signals,
		signalModel{Name: netName(netlist.ZeroNet), Width: 1, Init: "'0'"},
		signalModel{Name: netName(netlist.OneNet), Width: 1, Init: "'1'"},
	)

	for id, d := range chip.Drivers {
		if d.Kind != netlist.DriverInput {
			continue
		}

		port := mangle(d.InputName)
		m.Assigns = append(m.Assigns, fmt.Sprintf("%s <= %s(%d);", netName(netlist.NetID(id)), port, d.InputBit))
	}

	for _, p := range chip.Outputs {
		ids := chip.OutputNets[p.Name]
		port := mangle(p.Name)

		for bit, id := range ids {
			m.Assigns = append(m.Assigns, fmt.Sprintf("%s(%d) <= %s;", port, bit, netName(id)))
		}
	}

	for idx, inst := range chip.Instances {
		switch inst.Kind {
		case primitive.KindNand:
			a, b, out := inst.Inputs["a"], inst.Inputs["b"], inst.Outputs["out"]
			for i := range out {
				m.Assigns = append(m.Assigns, fmt.Sprintf("%s <= not (%s and %s);", netName(out[i]), netName(a[i]), netName(b[i])))
			}
		case primitive.KindDFF:
			m.Registers = append(m.Registers, buildRegister(idx, inst))
		case primitive.KindRAM:
			ram := buildRAM(idx, inst)
			m.Rams = append(m.Rams, ram)
			m.Signals = append(m.Signals,
				signalModel{Name: ram.Addr, Width: ram.addrWidth(), ForceVector: true},
				signalModel{Name: ram.Din, Width: ram.Width, ForceVector: true},
				signalModel{Name: ram.Dout, Width: ram.Width, ForceVector: true},
				signalModel{Name: ram.Load, Width: 1},
			)
			m.TypeDecls = append(m.TypeDecls, fmt.Sprintf("type %s is array (0 to %d) of %s;", ram.Type, ram.Depth-1, busWidth(ram.Width)))
			m.MemDecls = append(m.MemDecls, fmt.Sprintf("signal %s : %s := (others => (others => '0'));", ram.Mem, ram.Type))
			m.Assigns = append(m.Assigns, ramBitAssigns(inst, ram)...)
		}
	}

	return m
}

func buildRegister(idx int, inst netlist.Instance) regModel {
	return regModel{
		Sig:  fmt.Sprintf("reg_%d", idx),
		D:    netName(inst.Inputs["in"][0]),
		Load: netName(inst.Inputs["load"][0]),
		Q:    netName(inst.Outputs["out"][0]),
	}
}

func buildRAM(idx int, inst netlist.Instance) ramModel {
	a := inst.Generics["A"]
	w := inst.Generics["W"]

	return ramModel{
		Type:  fmt.Sprintf("ram_type_%d", idx),
		Mem:   fmt.Sprintf("ram_mem_%d", idx),
		Addr:  fmt.Sprintf("ram_addr_%d", idx),
		Din:   fmt.Sprintf("ram_in_%d", idx),
		Dout:  fmt.Sprintf("ram_out_%d", idx),
		Load:  fmt.Sprintf("ram_load_%d", idx),
		Depth: uint(1) << a,
		Width: w,
	}
}

func (r ramModel) addrWidth() uint {
	w := uint(0)
	for d := r.Depth; d > 1; d >>= 1 {
		w++
	}

	return w
}

func ramBitAssigns(inst netlist.Instance, ram ramModel) []string {
	var lines []string

	for i, id := range inst.Inputs["address"] {
		lines = append(lines, fmt.Sprintf("%s(%d) <= %s;", ram.Addr, i, netName(id)))
	}

	for i, id := range inst.Inputs["in"] {
		lines = append(lines, fmt.Sprintf("%s(%d) <= %s;", ram.Din, i, netName(id)))
	}

	lines = append(lines, fmt.Sprintf("%s <= %s;", ram.Load, netName(inst.Inputs["load"][0])))

	for i, id := range inst.Outputs["out"] {
		lines = append(lines, fmt.Sprintf("%s <= %s(%d);", netName(id), ram.Dout, i))
	}

	return lines
}
