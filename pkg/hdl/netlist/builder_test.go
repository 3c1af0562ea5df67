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

import "testing"

func TestNewBuilderReservesConstants(t *testing.T) {
	b := NewBuilder()

	if !b.IsDriven(ZeroNet) || !b.IsDriven(OneNet) {
		t.Fatalf("reserved constant nets must already be driven")
	}

	if b.drivers[ZeroNet].ConstValue != false || b.drivers[OneNet].ConstValue != true {
		t.Fatalf("constant nets have the wrong values: %+v", b.drivers[:2])
	}
}

func TestBuilderAllocNetIsUndrivenUntilSet(t *testing.T) {
	b := NewBuilder()

	id := b.AllocNet()
	if b.IsDriven(id) {
		t.Fatalf("a freshly allocated net must start undriven")
	}

	if err := b.SetDriver(id, Driver{Kind: DriverInput, InputName: "a", InputBit: 0}); err != nil {
		t.Fatalf("SetDriver returned an unexpected error: %v", err)
	}

	if !b.IsDriven(id) {
		t.Fatalf("net should be driven after SetDriver")
	}
}

func TestBuilderRejectsDoubleDrive(t *testing.T) {
	b := NewBuilder()

	id := b.AllocNet()
	if err := b.SetDriver(id, Driver{Kind: DriverInput, InputName: "a"}); err != nil {
		t.Fatalf("first SetDriver failed: %v", err)
	}

	if err := b.SetDriver(id, Driver{Kind: DriverInput, InputName: "b"}); err == nil {
		t.Fatalf("expected an error driving an already-driven net twice")
	}
}

func TestBuilderUndriven(t *testing.T) {
	b := NewBuilder()

	a := b.AllocNet()
	bNet := b.AllocNet()

	if err := b.SetDriver(a, Driver{Kind: DriverInput, InputName: "a"}); err != nil {
		t.Fatalf("SetDriver failed: %v", err)
	}

	undriven := b.Undriven()
	if len(undriven) != 1 || undriven[0] != bNet {
		t.Fatalf("Undriven() = %v, want [%d]", undriven, bNet)
	}
}

func TestBuilderAddInstanceAndBuild(t *testing.T) {
	b := NewBuilder()

	in := b.AllocNet()
	out := b.AllocNet()

	if err := b.SetDriver(in, Driver{Kind: DriverInput, InputName: "in"}); err != nil {
		t.Fatalf("SetDriver(in) failed: %v", err)
	}

	idx := b.AddInstance(Instance{
		Name:    "g0",
		Inputs:  map[string][]NetID{"a": {in}, "b": {in}},
		Outputs: map[string][]NetID{"out": {out}},
	})

	if idx != 0 {
		t.Fatalf("AddInstance index = %d, want 0", idx)
	}

	if err := b.SetDriver(out, Driver{Kind: DriverInstance, Instance: idx, Pin: "out", PinBit: 0}); err != nil {
		t.Fatalf("SetDriver(out) failed: %v", err)
	}

	chip := b.Build("Test", nil,
		[]Port{{Name: "in", Width: 1}},
		[]Port{{Name: "out", Width: 1}},
		map[string][]NetID{"out": {out}})

	if chip.NumNets != 4 {
		t.Errorf("NumNets = %d, want 4", chip.NumNets)
	}

	if len(chip.Instances) != 1 {
		t.Fatalf("len(Instances) = %d, want 1", len(chip.Instances))
	}

	if chip.OutputNets["out"][0] != out {
		t.Errorf("OutputNets[out] = %v, want [%d]", chip.OutputNets["out"], out)
	}
}
