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

package primitive

import "testing"

func TestIsPrimitive(t *testing.T) {
	for _, name := range []string{"Nand", "DFF", "RAM"} {
		if !IsPrimitive(name) {
			t.Errorf("IsPrimitive(%q) = false, want true", name)
		}
	}

	if IsPrimitive("Not") {
		t.Errorf("IsPrimitive(%q) = true, want false (Not is a bundled stdlib chip, not a primitive)", "Not")
	}
}

func TestLookupNandDefaults(t *testing.T) {
	spec, ok := Lookup("Nand")
	if !ok {
		t.Fatalf("Lookup(Nand) failed")
	}

	if spec.Defaults["W"] != 1 {
		t.Errorf("Nand default width = %d, want 1", spec.Defaults["W"])
	}

	if spec.Kind != KindNand || spec.Sequential {
		t.Errorf("Nand spec = %+v, want combinational KindNand", spec)
	}
}

func TestLookupRAMIsSequentialWithTwoGenerics(t *testing.T) {
	spec, ok := Lookup("RAM")
	if !ok {
		t.Fatalf("Lookup(RAM) failed")
	}

	if !spec.Sequential || spec.Kind != KindRAM {
		t.Errorf("RAM spec = %+v, want a sequential KindRAM", spec)
	}

	if len(spec.Generics) != 2 {
		t.Errorf("len(Generics) = %d, want 2 (A, W)", len(spec.Generics))
	}
}

func TestLookupUnknownFails(t *testing.T) {
	if _, ok := Lookup("Frobnicator"); ok {
		t.Errorf("Lookup of an unknown primitive unexpectedly succeeded")
	}
}

func TestStdlibSourceBundlesKnownChips(t *testing.T) {
	for _, name := range []string{"Not", "And", "Or", "Xor", "Mux", "DMux", "Register", "Bit"} {
		if _, ok := StdlibSource(name); !ok {
			t.Errorf("StdlibSource(%q) missing from the embedded bundle", name)
		}
	}
}

func TestStdlibSourceUnknownFails(t *testing.T) {
	if _, ok := StdlibSource("NoSuchChip"); ok {
		t.Errorf("StdlibSource of a nonexistent chip unexpectedly succeeded")
	}
}
