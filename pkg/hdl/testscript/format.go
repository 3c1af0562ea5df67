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

package testscript

import (
	"strconv"
	"strings"

	"github.com/hdlverse/hdlc/pkg/hdl/ast"
	"github.com/hdlverse/hdlc/pkg/hdl/sim"
)

// formatField renders one output-list column per "%fmt.intw.fracw": fmt
// selects the base (B binary, D decimal, X hex), intw is the field's
// right-justified width, and fracw is a run of padding spaces after the
// value. A column containing any unknown bit renders as "x" repeated to
// fill intw, since no numeric interpretation is defined for it.
func formatField(bits []sim.Bit, spec ast.OutputSpec) string {
	var text string

	if hasUnknown(bits) {
		text = strings.Repeat("x", max(1, int(spec.IntW)))
	} else {
		text = formatKnown(bits, spec.Fmt)
	}

	if int(spec.IntW) > len(text) {
		text = strings.Repeat(" ", int(spec.IntW)-len(text)) + text
	}

	return text + strings.Repeat(" ", int(spec.FracW))
}

// headerRow renders the "|name |" column-header line the classic
// Nand2Tetris test harness prints above its data rows, so compare-to has
// something to diff even on the very first line.
func headerRow(specs []ast.OutputSpec) string {
	var b strings.Builder

	b.WriteByte('|')

	for _, spec := range specs {
		width := int(spec.IntW + spec.FracW)
		name := spec.Name

		if width > len(name) {
			name += strings.Repeat(" ", width-len(name))
		}

		b.WriteString(name)
		b.WriteByte('|')
	}

	return b.String()
}

func hasUnknown(bits []sim.Bit) bool {
	for _, b := range bits {
		if b == sim.Unknown {
			return true
		}
	}

	return false
}

func formatKnown(bits []sim.Bit, fmtChar byte) string {
	var unsigned uint64

	for i, b := range bits {
		if b == sim.One {
			unsigned |= 1 << uint(i)
		}
	}

	switch fmtChar {
	case 'B':
		return binaryString(bits)
	case 'X':
		return strings.ToUpper(strconv.FormatUint(unsigned, 16))
	default: // 'D': two's-complement signed decimal, per classic n2t test harness.
		if len(bits) > 0 && bits[len(bits)-1] == sim.One {
			signed := int64(unsigned) - (int64(1) << uint(len(bits)))
			return strconv.FormatInt(signed, 10)
		}

		return strconv.FormatUint(unsigned, 10)
	}
}

func binaryString(bits []sim.Bit) string {
	out := make([]byte, len(bits))

	for i, b := range bits {
		if b == sim.One {
			out[len(bits)-1-i] = '1'
		} else {
			out[len(bits)-1-i] = '0'
		}
	}

	return string(out)
}
