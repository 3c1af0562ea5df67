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

package vhdl

import "testing"

func TestMangleReservedWord(t *testing.T) {
	for _, name := range []string{"in", "out", "process", "IN", "Out"} {
		got := mangle(name)
		if got != name+"_n2v" {
			t.Errorf("mangle(%q) = %q, want %q", name, got, name+"_n2v")
		}
	}
}

func TestMangleLeavesOrdinaryNamesAlone(t *testing.T) {
	for _, name := range []string{"sel", "address", "Register", "myChip"} {
		if got := mangle(name); got != name {
			t.Errorf("mangle(%q) = %q, want unchanged", name, got)
		}
	}
}
