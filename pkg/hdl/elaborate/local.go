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

package elaborate

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/hdlverse/hdlc/pkg/hdl/netlist"
)

// localCtx accumulates one chip's elaborated body in its own private net
// numbering, mirroring netlist.Builder's shape (reserved const nets first,
// one-driver-per-bit enforcement, a dense driven bitmap) so the same
// inlining logic can later splice it, as a unit, into either another
// localCtx or the final global netlist.Builder.
type localCtx struct {
	nextID    netlist.NetID
	driven    *bitset.BitSet
	drivers   map[netlist.NetID]netlist.Driver
	instances []netlist.Instance
	bits      map[string]map[int]netlist.NetID
}

func newLocalCtx() *localCtx {
	c := &localCtx{
		driven:  bitset.New(0),
		drivers: map[netlist.NetID]netlist.Driver{},
		bits:    map[string]map[int]netlist.NetID{},
	}

	zero := c.AllocNet()
	one := c.AllocNet()

	_ = c.SetDriver(zero, netlist.Driver{Kind: netlist.DriverConst, ConstValue: false})
	_ = c.SetDriver(one, netlist.Driver{Kind: netlist.DriverConst, ConstValue: true})

	return c
}

func (c *localCtx) AllocNet() netlist.NetID {
	id := c.nextID
	c.nextID++

	return id
}

func (c *localCtx) SetDriver(id netlist.NetID, d netlist.Driver) error {
	if c.driven.Test(uint(id)) {
		return errMultipleDrivers
	}

	c.drivers[id] = d
	c.driven.Set(uint(id))

	return nil
}

func (c *localCtx) AddInstance(inst netlist.Instance) int {
	c.instances = append(c.instances, inst)
	return len(c.instances) - 1
}

// bit returns the net allocated to hold bit index of the named signal,
// allocating it on first reference regardless of whether that reference is
// a read or a write (allows a wire's driving part to textually
// follow its use, e.g. combinational feedback into a register).
func (c *localCtx) bit(name string, index int) netlist.NetID {
	m, ok := c.bits[name]
	if !ok {
		m = map[int]netlist.NetID{}
		c.bits[name] = m
	}

	if id, ok := m[index]; ok {
		return id
	}

	id := c.AllocNet()
	m[index] = id

	return id
}

var errMultipleDrivers = &localError{"net already driven"}

type localError struct{ msg string }

func (e *localError) Error() string { return e.msg }
