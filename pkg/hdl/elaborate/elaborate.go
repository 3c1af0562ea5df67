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

// Package elaborate binds generics, unrolls generate loops, and inlines a
// resolved chip tree into a single flat netlist.Chip. Every
// (chip, generic binding) pair is elaborated into a reusable template at
// most once per top-level Elaborate call; each instantiation site
// then inlines a fresh copy of that template's nets into the final design.
package elaborate

import (
	"fmt"
	"sort"

	"github.com/hdlverse/hdlc/pkg/hdl/netlist"
	"github.com/hdlverse/hdlc/pkg/hdl/resolver"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
	"github.com/hdlverse/hdlc/pkg/source"
)

// Elaborate flattens the chip named topName (found in set) into a
// netlist.Chip. The top-level chip must not itself be generic: there is no
// caller to supply its generic arguments.
func Elaborate(set *resolver.Set, topName string) (*netlist.Chip, []*hdlerr.Error) {
	chip, ok := set.Chips[topName]
	if !ok {
		return nil, []*hdlerr.Error{hdlerr.NewInPath(hdlerr.UnknownChip, nil, "unknown top-level chip %q", topName)}
	}

	if len(chip.Generics) > 0 {
		return nil, []*hdlerr.Error{
			hdlerr.New(hdlerr.ArityMismatch, nil, chip.Sp, "top-level chip %q must not declare generic parameters", topName),
		}
	}

	return ElaborateWithGenerics(set, topName, map[string]uint{})
}

// ElaborateWithGenerics flattens topName with an explicit generic binding,
// used by the test runner's "load<W,...>" command to exercise a
// generic chip directly without a wrapping instantiation.
func ElaborateWithGenerics(set *resolver.Set, topName string, generics map[string]uint) (*netlist.Chip, []*hdlerr.Error) {
	chip, ok := set.Chips[topName]
	if !ok {
		return nil, []*hdlerr.Error{hdlerr.NewInPath(hdlerr.UnknownChip, nil, "unknown top-level chip %q", topName)}
	}

	if len(chip.Generics) != len(generics) {
		return nil, []*hdlerr.Error{
			hdlerr.New(hdlerr.ArityMismatch, nil, chip.Sp, "chip %q declares %d generic parameter(s), got %d", topName, len(chip.Generics), len(generics)),
		}
	}

	e := newElaborator(set)

	tmpl, errs := e.buildTemplate(chip, generics, nil)
	if len(errs) > 0 {
		return nil, errs
	}

	b := netlist.NewBuilder()

	inputNets := make([]netlist.NetID, tmpl.numInputBits)
	for i := range inputNets {
		slot := tmpl.inputOrder[i]
		id := b.AllocNet()

		if err := b.SetDriver(id, netlist.Driver{Kind: netlist.DriverInput, InputName: slot.port, InputBit: slot.bit}); err != nil {
			panic("unreachable: fresh net already driven")
		}

		inputNets[i] = id
	}

	outputs, ierr := inlineTemplate(b, tmpl, inputNets, nil)
	if ierr != nil {
		return nil, []*hdlerr.Error{hdlerr.NewInPath(hdlerr.MultipleDrivers, nil, "%s: %v", topName, ierr)}
	}

	result := b.Build(chip.Name, nil, tmpl.inputPorts, tmpl.outputPorts, outputs)

	if _, err := result.CombinationalOrder(); err != nil {
		if loopErr, ok := err.(*netlist.CombinationalLoopError); ok {
			return nil, []*hdlerr.Error{describeLoop(result, loopErr)}
		}

		return nil, []*hdlerr.Error{hdlerr.New(hdlerr.CombinationalLoop, nil, source.Span{}, "%v", err)}
	}

	return result, nil
}

func describeLoop(chip *netlist.Chip, loopErr *netlist.CombinationalLoopError) *hdlerr.Error {
	names := make([]string, len(loopErr.Path))
	for i, idx := range loopErr.Path {
		names[i] = chip.Instances[idx].Name
	}

	return hdlerr.New(hdlerr.CombinationalLoop, nil, source.Span{}, "combinational loop through: %v", names)
}

// elaborator holds the memoization cache used across one Elaborate call.
type elaborator struct {
	set   *resolver.Set
	cache map[string]*template
}

func newElaborator(set *resolver.Set) *elaborator {
	return &elaborator{set: set, cache: map[string]*template{}}
}

func genericKey(name string, generics map[string]uint, order []string) string {
	key := name

	for _, g := range order {
		key += fmt.Sprintf("|%s=%d", g, generics[g])
	}

	return key
}

func sortedGenericNames(generics map[string]uint) []string {
	names := make([]string, 0, len(generics))
	for n := range generics {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}
