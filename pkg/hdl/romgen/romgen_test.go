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

package romgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadWordsSkipsOffsetAndDecodesLittleEndian(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bin")

	header := make([]byte, DefaultOffset)
	body := []byte{0x01, 0x00, 0xFF, 0xFF, 0x34, 0x12}

	if err := os.WriteFile(path, append(header, body...), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	words, err := ReadWords(path, DefaultOffset)
	if err != nil {
		t.Fatalf("ReadWords returned an error: %v", err)
	}

	want := []uint16{1, 0xFFFF, 0x1234}
	if len(words) != len(want) {
		t.Fatalf("len(words) = %d, want %d", len(words), len(want))
	}

	for i, w := range want {
		if words[i] != w {
			t.Errorf("words[%d] = %#x, want %#x", i, words[i], w)
		}
	}
}

func TestReadWordsRejectsOffsetPastEOF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.bin")

	if err := os.WriteFile(path, []byte{0, 1, 2}, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := ReadWords(path, 100); err == nil {
		t.Fatalf("expected an error for an offset past end of file")
	}
}

func TestAddressWidthIsAlwaysAtLeastOne(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{256, 8},
	}

	for _, c := range cases {
		if got := addressWidth(c.n); got != c.want {
			t.Errorf("addressWidth(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestEmitStructure(t *testing.T) {
	src := Emit("Rom3", []uint16{10, 20, 30})

	if !strings.Contains(src, "CHIP Rom3 {") {
		t.Errorf("missing chip header:\n%s", src)
	}

	// 3 words needs 2 address bits (4 leaves), per addressWidth.
	if !strings.Contains(src, "IN address[2];") {
		t.Errorf("expected a 2-bit address input:\n%s", src)
	}

	if !strings.Contains(src, "OUT out[16];") {
		t.Errorf("expected a 16-bit output:\n%s", src)
	}

	for _, lit := range []string{"a=10", "b=20", "a=30", "b=0"} {
		if !strings.Contains(src, lit) {
			t.Errorf("missing leaf literal %q:\n%s", lit, src)
		}
	}

	if n := strings.Count(src, "Mux16("); n != 4 {
		t.Errorf("Mux16 instance count = %d, want 4 (2 leaf-pair muxes + 1 combining mux + 1 final pass-through)", n)
	}
}

func TestEmitSingleWordStillGetsOneAddressBit(t *testing.T) {
	src := Emit("Rom1", []uint16{42})

	if !strings.Contains(src, "IN address[1];") {
		t.Errorf("expected a 1-bit address input even for a single-word ROM:\n%s", src)
	}
}
