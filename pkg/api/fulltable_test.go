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

package api

import (
	"encoding/json"
	"testing"
)

func TestFullTableNot(t *testing.T) {
	out, err := FullTable(`CHIP Not1 {
    IN in;
    OUT out;
    PARTS:
    Nand(a=in, b=in, out=out);
}`)
	if err != nil {
		t.Fatalf("FullTable returned an error: %v", err)
	}

	var wire [2]json.RawMessage
	if err := json.Unmarshal(out, &wire); err != nil {
		t.Fatalf("failed to decode wire envelope: %v", err)
	}

	var names []string
	if err := json.Unmarshal(wire[0], &names); err != nil {
		t.Fatalf("failed to decode port names: %v", err)
	}

	if len(names) != 2 || names[0] != "in" || names[1] != "out" {
		t.Fatalf("names = %v, want [in out]", names)
	}

	var rows [][][]*int
	if err := json.Unmarshal(wire[1], &rows); err != nil {
		t.Fatalf("failed to decode rows: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	want := map[int]int{0: 1, 1: 0}

	for _, row := range rows {
		in := *row[0][0]
		out := *row[1][0]

		if out != want[in] {
			t.Errorf("in=%d: out=%d, want %d", in, out, want[in])
		}
	}
}

func TestFullTableRowOrder(t *testing.T) {
	out, err := FullTable(`CHIP Main {
    IN a, b;
    OUT out;
    PARTS:
    Nand(a=a, b=b, out=out);
}`)
	if err != nil {
		t.Fatalf("FullTable returned an error: %v", err)
	}

	var wire [2]json.RawMessage
	if err := json.Unmarshal(out, &wire); err != nil {
		t.Fatalf("failed to decode wire envelope: %v", err)
	}

	var rows [][][]*int
	if err := json.Unmarshal(wire[1], &rows); err != nil {
		t.Fatalf("failed to decode rows: %v", err)
	}

	// Natural binary order: the first declared input port ("a") is the
	// most significant, slowest-changing component of the row index.
	want := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}

	for i, row := range rows {
		got := [2]int{*row[0][0], *row[1][0]}
		if got != want[i] {
			t.Errorf("row %d: [a,b] = %v, want %v", i, got, want[i])
		}
	}
}

func TestFullTableRejectsUnknownChip(t *testing.T) {
	_, err := FullTable(`CHIP Main {
    IN a;
    OUT out;
    PARTS:
    Frobnicator(in=a, out=out);
}`)
	if err == nil {
		t.Fatalf("expected an error for an unresolvable chip reference")
	}
}

func TestFullTableRejectsSequentialChip(t *testing.T) {
	_, err := FullTable(`CHIP Main {
    IN in, load;
    OUT out;
    PARTS:
    DFF(in=in, load=load, out=out);
}`)
	if err == nil {
		t.Fatalf("expected an error: truth tables require a purely combinational chip")
	}
}
