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

package sim

import (
	"fmt"

	"github.com/hdlverse/hdlc/pkg/hdl/netlist"
	"github.com/hdlverse/hdlc/pkg/hdl/primitive"
)

// Simulator holds the live state of one elaborated chip: every net's
// current ternary value, plus the committed and pending state of its
// sequential primitives.
type Simulator struct {
	chip  *netlist.Chip
	order []int

	nets []Bit

	inputNets map[string][]netlist.NetID

	dffState   map[int]Bit
	dffPending map[int]Bit

	ramState   map[int][][]Bit
	ramPending map[int]*ramWrite
}

type ramWrite struct {
	addr int
	data []Bit
}

// NewSimulator prepares a chip for evaluation, computing its combinational
// evaluation order once up front.
func NewSimulator(chip *netlist.Chip) (*Simulator, error) {
	order, err := chip.CombinationalOrder()
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		chip:       chip,
		order:      order,
		nets:       make([]Bit, chip.NumNets),
		inputNets:  buildInputIndex(chip),
		dffState:   map[int]Bit{},
		dffPending: map[int]Bit{},
		ramState:   map[int][][]Bit{},
		ramPending: map[int]*ramWrite{},
	}

	for i := range s.nets {
		s.nets[i] = Unknown
	}

	s.nets[netlist.ZeroNet] = Zero
	s.nets[netlist.OneNet] = One

	for idx, inst := range chip.Instances {
		switch inst.Kind {
		case primitive.KindDFF:
			s.dffState[idx] = Zero
		case primitive.KindRAM:
			a := inst.Generics["A"]
			w := inst.Generics["W"]
			words := make([][]Bit, 1<<a)

			for i := range words {
				word := make([]Bit, w)
				for b := range word {
					word[b] = Zero
				}

				words[i] = word
			}

			s.ramState[idx] = words
		}
	}

	return s, nil
}

func buildInputIndex(chip *netlist.Chip) map[string][]netlist.NetID {
	idx := map[string][]netlist.NetID{}

	for _, p := range chip.Inputs {
		idx[p.Name] = make([]netlist.NetID, p.Width)
	}

	for id, d := range chip.Drivers {
		if d.Kind != netlist.DriverInput {
			continue
		}

		if bits, ok := idx[d.InputName]; ok && d.InputBit < len(bits) {
			bits[d.InputBit] = netlist.NetID(id)
		}
	}

	return idx
}

// SetInput assigns the ternary value of every bit of input port name.
func (s *Simulator) SetInput(name string, bits []Bit) error {
	nets, ok := s.inputNets[name]
	if !ok {
		return fmt.Errorf("no such input port %q", name)
	}

	if len(bits) != len(nets) {
		return fmt.Errorf("input %q is %d bits wide, got %d", name, len(nets), len(bits))
	}

	for i, id := range nets {
		s.nets[id] = bits[i]
	}

	return nil
}

// Output returns the current value of every bit of output port name.
func (s *Simulator) Output(name string) ([]Bit, error) {
	nets, ok := s.chip.OutputNets[name]
	if !ok {
		return nil, fmt.Errorf("no such output port %q", name)
	}

	bits := make([]Bit, len(nets))
	for i, id := range nets {
		bits[i] = s.nets[id]
	}

	return bits, nil
}

// Signal returns the current value of named port, whether it is an input
// or an output. The test runner's output-list directive may name either.
func (s *Simulator) Signal(name string) ([]Bit, error) {
	if bits, err := s.Output(name); err == nil {
		return bits, nil
	}

	if nets, ok := s.inputNets[name]; ok {
		bits := make([]Bit, len(nets))
		for i, id := range nets {
			bits[i] = s.nets[id]
		}

		return bits, nil
	}

	return nil, fmt.Errorf("no such signal %q", name)
}

// Eval runs one combinational settle: sequential primitives expose their
// currently committed state on their output pins, then every Nand gate is
// evaluated in dependency order.
func (s *Simulator) Eval() {
	for idx, inst := range s.chip.Instances {
		switch inst.Kind {
		case primitive.KindDFF:
			s.nets[inst.Outputs["out"][0]] = s.dffState[idx]
		case primitive.KindRAM:
			s.evalRAMRead(idx, inst)
		}
	}

	for _, idx := range s.order {
		inst := s.chip.Instances[idx]

		a := inst.Inputs["a"]
		b := inst.Inputs["b"]
		out := inst.Outputs["out"]

		for i := range out {
			s.nets[out[i]] = nandBit(s.nets[a[i]], s.nets[b[i]])
		}
	}
}

func (s *Simulator) evalRAMRead(idx int, inst netlist.Instance) {
	addr, known := s.decodeAddress(inst.Inputs["address"])

	out := inst.Outputs["out"]

	if !known {
		for _, id := range out {
			s.nets[id] = Unknown
		}

		return
	}

	word := s.ramState[idx][addr]
	for i, id := range out {
		s.nets[id] = word[i]
	}
}

func (s *Simulator) decodeAddress(nets []netlist.NetID) (int, bool) {
	addr := 0

	for i, id := range nets {
		v := s.nets[id]
		if v == Unknown {
			return 0, false
		}

		if v == One {
			addr |= 1 << uint(i)
		}
	}

	return addr, true
}

// Tick samples every sequential primitive's inputs against the currently
// settled combinational state, without yet exposing the new values: a half
// clock edge.
func (s *Simulator) Tick() {
	s.Eval()

	for idx, inst := range s.chip.Instances {
		switch inst.Kind {
		case primitive.KindDFF:
			load := s.nets[inst.Inputs["load"][0]]
			data := s.nets[inst.Inputs["in"][0]]

			switch load {
			case One:
				s.dffPending[idx] = data
			case Zero:
				s.dffPending[idx] = s.dffState[idx]
			default:
				s.dffPending[idx] = Unknown
			}
		case primitive.KindRAM:
			load := s.nets[inst.Inputs["load"][0]]
			if load != One {
				delete(s.ramPending, idx)
				continue
			}

			addr, known := s.decodeAddress(inst.Inputs["address"])
			if !known {
				continue
			}

			data := make([]Bit, len(inst.Inputs["in"]))
			for i, id := range inst.Inputs["in"] {
				data[i] = s.nets[id]
			}

			s.ramPending[idx] = &ramWrite{addr: addr, data: data}
		}
	}
}

// Tock commits whatever Tick sampled and re-settles the combinational
// logic so downstream reads see the new state: the second half of a clock
// edge.
func (s *Simulator) Tock() {
	for idx, pending := range s.dffPending {
		s.dffState[idx] = pending
	}

	for idx, w := range s.ramPending {
		s.ramState[idx][w.addr] = w.data
	}

	s.ramPending = map[int]*ramWrite{}

	s.Eval()
}
