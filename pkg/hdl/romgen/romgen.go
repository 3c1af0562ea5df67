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

// Package romgen implements the "rom" CLI subcommand: reading a
// compiled thumb-binary object file and emitting a read-only memory chip,
// in HDL source form, whose output is the corresponding Nand2Tetris-style
// 16-bit word at each address.
//
// There is no primitive with baked-in initial contents in this compiler's
// closed primitive set, so the ROM is synthesized the classic
// n2v way: a balanced binary tree of bit-wise 2-to-1 multiplexers,
// selecting down to a single literal word per leaf.
package romgen

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

// DefaultOffset is the thumb-binary header length (in bytes) this tool
// skips before the word stream starts, derived from readelf against the
// toolchain's own object layout ("Open question"). Callers should
// treat it as configurable, not hard-coded.
const DefaultOffset = 34

// WordWidth is the width, in bits, of one ROM word.
const WordWidth = 16

// ReadWords reads path, skips offset header bytes, and decodes the
// remainder as little-endian 16-bit words.
func ReadWords(path string, offset int) ([]uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("%s: offset %d exceeds file length %d", path, offset, len(data))
	}

	body := data[offset:]

	words := make([]uint16, len(body)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(body[2*i : 2*i+2])
	}

	return words, nil
}

// Emit renders chipName as a self-contained .hdl chip definition whose
// "out[16]" pin reflects words[address] for every address in range, and
// zero for any address beyond len(words) up to the next power of two (the
// tree must be a complete binary tree). The tree is built entirely out of
// the bundled Mux16 library chip, so the emitted source resolves against
// the compiler's own primitive set with no extra files.
func Emit(chipName string, words []uint16) string {
	addrWidth := addressWidth(len(words))
	leafCount := 1 << addrWidth

	padded := make([]uint16, leafCount)
	copy(padded, words)

	var b strings.Builder

	fmt.Fprintf(&b, "// Generated ROM: %d word(s) (%d address bit(s)).\n", len(words), addrWidth)
	fmt.Fprintf(&b, "CHIP %s {\n", chipName)
	fmt.Fprintf(&b, "    IN address[%d];\n", addrWidth)
	fmt.Fprintf(&b, "    OUT out[%d];\n", WordWidth)
	fmt.Fprintf(&b, "    PARTS:\n")

	level := make([]string, leafCount)
	for i, w := range padded {
		level[i] = fmt.Sprintf("%d", w)
	}

	for stage := 0; stage < addrWidth; stage++ {
		next := make([]string, len(level)/2)

		for i := 0; i < len(next); i++ {
			wireName := fmt.Sprintf("s%d_%d", stage, i)
			fmt.Fprintf(&b, "    Mux16(a=%s, b=%s, sel=address[%d], out=%s);\n",
				level[2*i], level[2*i+1], stage, wireName)
			next[i] = wireName
		}

		level = next
	}

	fmt.Fprintf(&b, "    Mux16(a=%s, b=%s, sel=false, out=out);\n", level[0], level[0])
	fmt.Fprintf(&b, "}\n")

	return b.String()
}

// addressWidth returns the number of address bits needed to index n
// distinct words, never less than 1: every port must be at least 1 bit
// wide, so even a single-word ROM gets one (unused) address bit.
func addressWidth(n int) int {
	w := 1
	for (1 << w) < n {
		w++
	}

	return w
}
