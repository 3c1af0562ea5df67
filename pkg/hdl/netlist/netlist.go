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

// Package netlist defines the flattened intermediate representation the
// elaborator produces: every non-primitive chip has been fully
// inlined away, leaving only primitive instances wired together by
// single-bit nets, each driven by exactly one source.
package netlist

import "github.com/hdlverse/hdlc/pkg/hdl/primitive"

// NetID indexes a single bit of wiring. Net 0 is reserved for the constant
// zero bit and is always present; net 1 is reserved for the constant one
// bit.
type NetID int

// Reserved constant nets, always allocated first by a Builder.
const (
	ZeroNet NetID = 0
	OneNet  NetID = 1
)

// DriverKind distinguishes what feeds a given net bit.
type DriverKind int

// The three ways a net bit can be driven ("every net bit has
// exactly one driver: a primitive output pin, a top-level input, or a
// constant").
const (
	DriverConst DriverKind = iota
	DriverInput
	DriverInstance
)

// Driver records the single source of one net bit.
type Driver struct {
	Kind DriverKind

	// DriverConst
	ConstValue bool

	// DriverInput
	InputName string
	InputBit  int

	// DriverInstance
	Instance int
	Pin      string
	PinBit   int
}

// Port describes one top-level input or output, in bit-0-is-LSB order.
type Port struct {
	Name  string
	Width uint
}

// Instance is a single primitive gate/register/memory in the flattened
// design, with every pin bound to concrete net IDs.
type Instance struct {
	Kind     primitive.Kind
	Name     string // originating part name, for diagnostics and VHDL labels
	Generics map[string]uint
	Inputs   map[string][]NetID
	Outputs  map[string][]NetID
}

// Chip is the fully elaborated, flattened design for one top-level chip
// instantiation (a chip plus a concrete binding of its generics).
type Chip struct {
	Name      string
	Generics  map[string]uint
	Inputs    []Port
	Outputs   []Port
	Instances []Instance

	// NumNets is the total number of allocated single-bit nets, including
	// the two reserved constants.
	NumNets int
	// Drivers is indexed by NetID and gives that net's sole driver.
	Drivers []Driver

	// OutputNets maps each output port to its driving net IDs, bit 0 first.
	OutputNets map[string][]NetID
}

// InputBit returns the net ID carrying bit i of input port name.
func (c *Chip) InputBit(name string, i int) (NetID, bool) {
	for _, in := range c.Inputs {
		if in.Name != name {
			continue
		}

		for id, d := range c.Drivers {
			if d.Kind == DriverInput && d.InputName == name && d.InputBit == i {
				return NetID(id), true
			}
		}
	}

	return 0, false
}
