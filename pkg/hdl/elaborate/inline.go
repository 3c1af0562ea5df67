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

import "github.com/hdlverse/hdlc/pkg/hdl/netlist"

// sink is anything a template can be inlined into: either the final
// netlist.Builder (for the top-level chip) or another template's localCtx
// (for a chip instantiated inside another chip).
type sink interface {
	AllocNet() netlist.NetID
	SetDriver(netlist.NetID, netlist.Driver) error
	AddInstance(netlist.Instance) int
}

// inlineTemplate splices tmpl's private net numbering into s: net 0/1
// always mean the reserved constants in every scope, so they pass through
// unchanged; input nets are supplied by the caller; every other local net
// gets a fresh net in s, except an output bit the caller already resolved
// a destination for (outputOverride), which reuses that destination's net
// directly so the identity is shared rather than aliased after the fact.
func inlineTemplate(s sink, tmpl *template, callerInputs []netlist.NetID, outputOverride map[string][]netlist.NetID) (map[string][]netlist.NetID, error) {
	mapping := make([]netlist.NetID, tmpl.localNets)
	mapping[netlist.ZeroNet] = netlist.ZeroNet
	mapping[netlist.OneNet] = netlist.OneNet

	// Input placeholders occupy local IDs [2, 2+numInputBits) in the exact
	// order captured by inputOrder.
	for i := 0; i < tmpl.numInputBits; i++ {
		mapping[2+i] = callerInputs[i]
	}

	outputLocal := map[netlist.NetID]struct {
		pin string
		bit int
	}{}

	for pin, ids := range tmpl.outputNets {
		for bit, id := range ids {
			outputLocal[id] = struct {
				pin string
				bit int
			}{pin, bit}
		}
	}

	for i := 2 + tmpl.numInputBits; i < tmpl.localNets; i++ {
		id := netlist.NetID(i)

		if info, ok := outputLocal[id]; ok {
			if ov, ok := outputOverride[info.pin]; ok && int(ov[info.bit]) >= 0 {
				mapping[i] = ov[info.bit]
				continue
			}
		}

		mapping[i] = s.AllocNet()
	}

	instanceIndex := make([]int, len(tmpl.instances))

	for i, inst := range tmpl.instances {
		remapped := netlist.Instance{
			Kind:     inst.Kind,
			Name:     inst.Name,
			Generics: inst.Generics,
			Inputs:   map[string][]netlist.NetID{},
			Outputs:  map[string][]netlist.NetID{},
		}

		for pin, ids := range inst.Inputs {
			bits := make([]netlist.NetID, len(ids))
			for b, id := range ids {
				bits[b] = mapping[id]
			}

			remapped.Inputs[pin] = bits
		}

		for pin, ids := range inst.Outputs {
			bits := make([]netlist.NetID, len(ids))
			for b, id := range ids {
				bits[b] = mapping[id]
			}

			remapped.Outputs[pin] = bits
		}

		instanceIndex[i] = s.AddInstance(remapped)
	}

	for id := netlist.NetID(2); int(id) < tmpl.localNets; id++ {
		d, ok := tmpl.drivers[id]
		if !ok || d.Kind != netlist.DriverInstance {
			continue
		}

		remapped := netlist.Driver{Kind: netlist.DriverInstance, Instance: instanceIndex[d.Instance], Pin: d.Pin, PinBit: d.PinBit}
		if err := s.SetDriver(mapping[id], remapped); err != nil {
			return nil, err
		}
	}

	outputs := map[string][]netlist.NetID{}

	for pin, ids := range tmpl.outputNets {
		bits := make([]netlist.NetID, len(ids))
		for b, id := range ids {
			bits[b] = mapping[id]
		}

		outputs[pin] = bits
	}

	return outputs, nil
}
