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

import "strings"

// reserved holds the VHDL-93 keywords most likely to collide with chip and
// port names drawn from Nand2Tetris convention ("in", "out", "loop", ...).
// It is not exhaustive of the full VHDL grammar, only of the words this
// package's identifier sources can plausibly produce.
var reserved = map[string]bool{
	"in": true, "out": true, "inout": true, "buffer": true, "linkage": true,
	"signal": true, "entity": true, "architecture": true, "process": true,
	"begin": true, "end": true, "loop": true, "for": true, "if": true,
	"then": true, "else": true, "elsif": true, "case": true, "when": true,
	"others": true, "downto": true, "to": true, "range": true, "type": true,
	"is": true, "of": true, "use": true, "library": true, "component": true,
	"port": true, "generic": true, "map": true, "and": true, "or": true,
	"not": true, "nand": true, "nor": true, "xor": true, "xnor": true,
	"variable": true, "constant": true, "function": true, "procedure": true,
	"return": true, "null": true, "wait": true, "array": true, "record": true,
	"bit": true, "natural": true, "integer": true, "positive": true,
	"unsigned": true, "signed": true, "std_logic": true, "std_logic_vector": true,
}

// mangle deterministically renames name if it collides (case-insensitively,
// as VHDL identifiers do) with a reserved word.
func mangle(name string) string {
	if reserved[strings.ToLower(name)] {
		return name + "_n2v"
	}

	return name
}
