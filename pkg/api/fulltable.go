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

// Package api exposes the core compiler/simulator as a small set of pure
// functions with no filesystem dependency, for embedding behind whatever
// front end wants it (a CLI, a web-assembly bridge, or anything else that
// just needs a truth table for a chip).
package api

import (
	"github.com/segmentio/encoding/json"

	"github.com/hdlverse/hdlc/pkg/hdl/elaborate"
	"github.com/hdlverse/hdlc/pkg/hdl/resolver"
	"github.com/hdlverse/hdlc/pkg/hdl/sim"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
)

// tableWire is full_table's wire encoding: a two-element JSON array,
// [port_names, rows], matching exactly rather than a named object.
type tableWire [2]any

// FullTable elaborates the single chip defined by source (which must not
// reference anything beyond primitives and the bundled stdlib — it has no
// search path to consult) and returns the JSON encoding of its exhaustive
// truth table: port names in declaration order, then one row per input
// assignment with every bit 0, 1, or null.
//
// FullTable is a pure function of its argument: no disk access, no shared
// state survives the call.
func FullTable(source string) ([]byte, error) {
	set, top, errs := resolver.ResolveFromSource("<full_table>", []byte(source))
	if len(errs) > 0 {
		return nil, firstError(errs)
	}

	chip, errs := elaborate.Elaborate(set, top)
	if len(errs) > 0 {
		return nil, firstError(errs)
	}

	rows, err := sim.TruthTable(chip)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(chip.Inputs)+len(chip.Outputs))
	for _, p := range chip.Inputs {
		names = append(names, p.Name)
	}

	for _, p := range chip.Outputs {
		names = append(names, p.Name)
	}

	widths := make([]uint, 0, len(names))
	for _, p := range chip.Inputs {
		widths = append(widths, p.Width)
	}

	for _, p := range chip.Outputs {
		widths = append(widths, p.Width)
	}

	wireRows := make([][][]*int, len(rows))

	for i, row := range rows {
		all := append(append([]sim.Bit{}, row.Inputs...), row.Outputs...)
		wireRows[i] = splitColumns(all, widths)
	}

	wire := tableWire{names, wireRows}

	return json.Marshal(wire)
}

// splitColumns slices a flat, port-concatenated bit vector back into one
// []*int per port, each LSB first with unknowns rendered as a JSON null
// ("0|1|null").
func splitColumns(bits []sim.Bit, widths []uint) [][]*int {
	cols := make([][]*int, len(widths))

	offset := 0

	for i, w := range widths {
		col := make([]*int, w)

		for b := uint(0); b < w; b++ {
			col[b] = bitToJSON(bits[offset+int(b)])
		}

		cols[i] = col
		offset += int(w)
	}

	return cols
}

func bitToJSON(b sim.Bit) *int {
	switch b {
	case sim.Zero:
		z := 0
		return &z
	case sim.One:
		o := 1
		return &o
	default:
		return nil
	}
}

func firstError(errs []*hdlerr.Error) error {
	if len(errs) == 0 {
		return nil
	}

	return errs[0]
}
