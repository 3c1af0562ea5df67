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
	"testing"

	"github.com/hdlverse/hdlc/pkg/hdl/netlist"
	"github.com/hdlverse/hdlc/pkg/hdl/primitive"
)

func TestTruthTableNand(t *testing.T) {
	chip := nandChip(t)

	rows, err := TruthTable(chip)
	if err != nil {
		t.Fatalf("TruthTable returned an error: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	want := map[[2]Bit]Bit{
		{Zero, Zero}: One,
		{One, Zero}:  One,
		{Zero, One}:  One,
		{One, One}:   Zero,
	}

	for _, r := range rows {
		key := [2]Bit{r.Inputs[0], r.Inputs[1]}
		if r.Outputs[0] != want[key] {
			t.Errorf("row %v: out = %v, want %v", r.Inputs, r.Outputs[0], want[key])
		}
	}
}

func TestTruthTableRowOrder(t *testing.T) {
	chip := nandChip(t)

	rows, err := TruthTable(chip)
	if err != nil {
		t.Fatalf("TruthTable returned an error: %v", err)
	}

	// Natural binary order: the first declared input port ("a") is the
	// most significant, slowest-changing component of the row index, and
	// the last declared port ("b") is the least significant.
	want := [][2]Bit{
		{Zero, Zero},
		{Zero, One},
		{One, Zero},
		{One, One},
	}

	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}

	for i, row := range rows {
		got := [2]Bit{row.Inputs[0], row.Inputs[1]}
		if got != want[i] {
			t.Errorf("row %d: inputs = %v, want %v", i, got, want[i])
		}
	}
}

func TestTruthTableRejectsSequentialChip(t *testing.T) {
	chip := dffChip(t)

	_, err := TruthTable(chip)
	if err == nil {
		t.Fatalf("expected TruthTable to reject a chip containing a DFF")
	}
}

func TestTruthTableRejectsRAM(t *testing.T) {
	b := netlist.NewBuilder()
	in := b.AllocNet()
	load := b.AllocNet()
	addr := b.AllocNet()
	out := b.AllocNet()

	for _, n := range []netlist.NetID{in, load, addr} {
		if err := b.SetDriver(n, netlist.Driver{Kind: netlist.DriverInput}); err != nil {
			t.Fatalf("SetDriver: %v", err)
		}
	}

	idx := b.AddInstance(netlist.Instance{
		Kind:     primitive.KindRAM,
		Name:     "ram0",
		Generics: map[string]uint{"A": 1, "W": 1},
		Inputs:   map[string][]netlist.NetID{"in": {in}, "load": {load}, "address": {addr}},
		Outputs:  map[string][]netlist.NetID{"out": {out}},
	})

	if err := b.SetDriver(out, netlist.Driver{Kind: netlist.DriverInstance, Instance: idx, Pin: "out"}); err != nil {
		t.Fatalf("SetDriver(out): %v", err)
	}

	chip := b.Build("RAM1", nil, nil, []netlist.Port{{Name: "out", Width: 1}}, map[string][]netlist.NetID{"out": {out}})

	if _, err := TruthTable(chip); err == nil {
		t.Fatalf("expected TruthTable to reject a chip containing RAM")
	}
}
