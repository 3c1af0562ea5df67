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
	"github.com/hdlverse/hdlc/pkg/util"
)

// Row is one exhaustive input assignment and the outputs it produces,
// each slice ordered bit 0 first within each port, ports in declaration
// order.
type Row struct {
	Inputs  []Bit
	Outputs []Bit
}

// TruthTable exhaustively evaluates chip over every assignment of its
// input bits. It only makes sense for purely combinational chips: a chip
// containing a DFF or RAM has outputs that depend on history, not just on
// the current inputs, so the call fails if any sequential instance is
// present.
func TruthTable(chip *netlist.Chip) ([]Row, error) {
	for _, inst := range chip.Instances {
		if inst.Kind == primitive.KindDFF || inst.Kind == primitive.KindRAM {
			return nil, fmt.Errorf("%s: truth table requires a purely combinational chip, found sequential instance %q", chip.Name, inst.Name)
		}
	}

	numInputs := uint(0)
	for _, p := range chip.Inputs {
		numInputs += p.Width
	}

	if numInputs > 24 {
		return nil, fmt.Errorf("%s: %d input bits is too large to enumerate exhaustively", chip.Name, numInputs)
	}

	total := uint(1) << numInputs

	rows := util.ParallelMap(total, func(i uint) Row {
		s, err := NewSimulator(chip)
		if err != nil {
			return Row{}
		}

		inputs := assignInputs(chip, i)

		offset := uint(0)
		for _, p := range chip.Inputs {
			_ = s.SetInput(p.Name, inputs[offset:offset+p.Width])
			offset += p.Width
		}

		s.Eval()

		outputs := make([]Bit, 0, numOutputBits(chip))
		for _, p := range chip.Outputs {
			bits, _ := s.Output(p.Name)
			outputs = append(outputs, bits...)
		}

		return Row{Inputs: inputs, Outputs: outputs}
	})

	return rows, nil
}

func numOutputBits(chip *netlist.Chip) uint {
	n := uint(0)
	for _, p := range chip.Outputs {
		n += p.Width
	}

	return n
}

// assignInputs decodes row i (0 <= i < 2^numInputBits) into a bit-0-first
// assignment across all input ports in declaration order. Row i is read in
// natural binary order with the first declared port as the most
// significant (slowest-changing) component and the last declared port as
// the least significant, so the first input port's own bit 0 sits at
// shift numInputs-p.Width, not at shift 0.
func assignInputs(chip *netlist.Chip, i uint) []Bit {
	numInputs := uint(0)
	for _, p := range chip.Inputs {
		numInputs += p.Width
	}

	bits := make([]Bit, 0, numInputs)

	shift := numInputs

	for _, p := range chip.Inputs {
		shift -= p.Width

		for b := uint(0); b < p.Width; b++ {
			bits = append(bits, boolBit(i&(1<<(shift+b)) != 0))
		}
	}

	return bits
}
