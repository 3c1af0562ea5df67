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

// Package primitive defines the closed enumeration of built-in chips the
// elaborator knows semantics for, plus a small bundled library of
// derived .hdl chips (Not, And, Mux, Register, ...) embedded into the
// binary and consulted by the resolver when a name isn't a primitive and
// isn't found on the user's search path.
package primitive

import (
	"embed"

	"github.com/hdlverse/hdlc/pkg/hdl/ast"
)

//go:embed stdlib/*.hdl
var stdlibFS embed.FS

// Kind distinguishes the small number of primitive evaluation strategies
// the simulator must special-case; every other chip is either user-defined
// or one of the bundled stdlib chips built entirely out of these three.
type Kind int

// The closed set of primitive evaluation strategies.
const (
	KindNand Kind = iota
	KindDFF
	KindRAM
)

// Spec describes one primitive chip: its generic parameters (with
// defaults, since e.g. Nand's width defaults to 1 when omitted), its ports
// (whose widths may reference those generics), and whether it is
// sequential (breaks combinational cycles, step 6 / §9).
type Spec struct {
	Name       string
	Generics   []string
	Defaults   map[string]uint
	Inputs     []ast.Port
	Outputs    []ast.Port
	Sequential bool
	Kind       Kind
}

func w(name string) ast.Expr { return ast.IdentExpr{Name: name} }

var registry = buildRegistry()

func buildRegistry() map[string]*Spec {
	reg := map[string]*Spec{}

	reg["Nand"] = &Spec{
		Name:     "Nand",
		Generics: []string{"W"},
		Defaults: map[string]uint{"W": 1},
		Inputs: []ast.Port{
			{Name: "a", Width: w("W")},
			{Name: "b", Width: w("W")},
		},
		Outputs: []ast.Port{{Name: "out", Width: w("W")}},
		Kind:    KindNand,
	}

	reg["DFF"] = &Spec{
		Name:       "DFF",
		Inputs:     []ast.Port{{Name: "in"}, {Name: "load"}},
		Outputs:    []ast.Port{{Name: "out"}},
		Sequential: true,
		Kind:       KindDFF,
	}

	reg["RAM"] = &Spec{
		Name:     "RAM",
		Generics: []string{"A", "W"},
		Inputs: []ast.Port{
			{Name: "in", Width: w("W")},
			{Name: "load"},
			{Name: "address", Width: w("A")},
		},
		Outputs:    []ast.Port{{Name: "out", Width: w("W")}},
		Sequential: true,
		Kind:       KindRAM,
	}

	return reg
}

// IsPrimitive reports whether name is one of the built-in primitives.
func IsPrimitive(name string) bool {
	_, ok := registry[name]
	return ok
}

// Lookup returns the Spec for a primitive name.
func Lookup(name string) (*Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// StdlibSource returns the embedded .hdl source for one of the bundled
// library chips (e.g. "Not", "And", "Mux", "Register"), or false if name
// isn't part of the bundle.
func StdlibSource(name string) ([]byte, bool) {
	bytes, err := stdlibFS.ReadFile("stdlib/" + name + ".hdl")
	if err != nil {
		return nil, false
	}

	return bytes, true
}
