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

package netlist

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Builder accumulates nets and instances while the elaborator flattens one
// top-level chip, enforcing the one-driver-per-bit invariant as
// each net is assigned. The driven set is a dense bitmap rather than a
// []bool: a design's net count runs into the thousands for anything built
// out of 16-bit buses, and every bit needs exactly one membership test per
// connection made.
type Builder struct {
	drivers   []Driver
	driven    *bitset.BitSet
	instances []Instance
}

// NewBuilder starts a builder with the two reserved constant nets already
// allocated and driven.
func NewBuilder() *Builder {
	b := &Builder{driven: bitset.New(0)}

	zero := b.AllocNet()
	one := b.AllocNet()

	_ = b.SetDriver(zero, Driver{Kind: DriverConst, ConstValue: false})
	_ = b.SetDriver(one, Driver{Kind: DriverConst, ConstValue: true})

	return b
}

// AllocNet reserves a new, as-yet-undriven net bit.
func (b *Builder) AllocNet() NetID {
	id := NetID(len(b.drivers))
	b.drivers = append(b.drivers, Driver{})

	return id
}

// IsDriven reports whether id already has a driver assigned.
func (b *Builder) IsDriven(id NetID) bool {
	return b.driven.Test(uint(id))
}

// SetDriver assigns id's sole driver. It is an error to call this twice for
// the same net; callers translate that into a
// located hdlerr.Error.
func (b *Builder) SetDriver(id NetID, d Driver) error {
	if b.driven.Test(uint(id)) {
		return fmt.Errorf("net %d already has a driver", id)
	}

	b.drivers[id] = d
	b.driven.Set(uint(id))

	return nil
}

// AddInstance records one primitive instance and returns its index, used as
// Driver.Instance for any net this instance drives.
func (b *Builder) AddInstance(inst Instance) int {
	b.instances = append(b.instances, inst)
	return len(b.instances) - 1
}

// Undriven returns every net ID that never received a driver.
func (b *Builder) Undriven() []NetID {
	var out []NetID

	for id := 0; id < len(b.drivers); id++ {
		if !b.driven.Test(uint(id)) {
			out = append(out, NetID(id))
		}
	}

	return out
}

// Build finalizes the chip. Callers must have already verified there are no
// undriven nets.
func (b *Builder) Build(name string, generics map[string]uint, inputs, outputs []Port, outputNets map[string][]NetID) *Chip {
	return &Chip{
		Name:       name,
		Generics:   generics,
		Inputs:     inputs,
		Outputs:    outputs,
		Instances:  b.instances,
		NumNets:    len(b.drivers),
		Drivers:    b.drivers,
		OutputNets: outputNets,
	}
}
