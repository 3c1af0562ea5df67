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

// Package ast defines the concrete syntax tree produced by pkg/hdl/parser
// for both chip definition files (.hdl) and test scripts (.tst).
package ast

import "github.com/hdlverse/hdlc/pkg/source"

// Expr is a width/generic expression: an integer literal, a generic
// identifier, or a simple arithmetic combination of the two.
type Expr interface {
	// Eval resolves this expression to a concrete value given bindings for
	// every generic identifier in scope.
	Eval(generics map[string]uint) (uint, error)
	Span() source.Span
}

// ConstExpr is an integer literal.
type ConstExpr struct {
	Value uint
	Sp    source.Span
}

// Eval implements Expr.
func (e ConstExpr) Eval(map[string]uint) (uint, error) { return e.Value, nil }

// Span implements Expr.
func (e ConstExpr) Span() source.Span { return e.Sp }

// IdentExpr references a generic parameter or generate loop variable by
// name.
type IdentExpr struct {
	Name string
	Sp   source.Span
}

// Eval implements Expr.
func (e IdentExpr) Eval(generics map[string]uint) (uint, error) {
	if v, ok := generics[e.Name]; ok {
		return v, nil
	}

	return 0, unboundGenericError(e.Name)
}

// Span implements Expr.
func (e IdentExpr) Span() source.Span { return e.Sp }

// BinExpr is a simple arithmetic expression over generics, e.g. "W-1",
// "W+1".
type BinExpr struct {
	Op       byte // '+' or '-'
	Lhs, Rhs Expr
	Sp       source.Span
}

// Eval implements Expr.
func (e BinExpr) Eval(generics map[string]uint) (uint, error) {
	l, err := e.Lhs.Eval(generics)
	if err != nil {
		return 0, err
	}

	r, err := e.Rhs.Eval(generics)
	if err != nil {
		return 0, err
	}

	switch e.Op {
	case '+':
		return l + r, nil
	case '-':
		if r > l {
			return 0, negativeWidthError(e.Sp)
		}

		return l - r, nil
	default:
		panic("unreachable: unknown binary operator")
	}
}

// Span implements Expr.
func (e BinExpr) Span() source.Span { return e.Sp }

// Port is a single input or output port: a name and an (optional) width
// expression. A nil Width means a 1-bit port.
type Port struct {
	Name  string
	Width Expr
	Sp    source.Span
}

// Slice identifies a bit range "[lo..hi]" or single index "[i]" (Hi == nil).
type Slice struct {
	Lo, Hi Expr
	Sp     source.Span
}

// SigExpr is a signal expression appearing on either side of a mapping: a
// (possibly sliced) bus reference, or a true/false/integer literal.
type SigExpr interface {
	Span() source.Span
	isSigExpr()
}

// SigRef references a named bus, optionally sliced.
type SigRef struct {
	Name  string
	Slice *Slice
	Sp    source.Span
}

func (SigRef) isSigExpr()          {}
func (s SigRef) Span() source.Span { return s.Sp }

// SigBool is the "true"/"false" literal, which elaborates to an all-ones or
// all-zeros value over whatever width the context demands.
type SigBool struct {
	Value bool
	Sp    source.Span
}

func (SigBool) isSigExpr()          {}
func (s SigBool) Span() source.Span { return s.Sp }

// SigInt is an integer literal interpreted as a bit-width-sized value.
type SigInt struct {
	Value uint64
	Sp    source.Span
}

func (SigInt) isSigExpr()          {}
func (s SigInt) Span() source.Span { return s.Sp }

// Mapping binds one port (or a contiguous sub-range of it) of the callee to
// a signal expression in the caller's scope.
type Mapping struct {
	Port      string
	PortSlice *Slice
	Value     SigExpr
	Sp        source.Span
}

// BodyItem is either a Part instantiation or a Generate block.
type BodyItem interface {
	Span() source.Span
	isBodyItem()
}

// Part is a reference to a chip (or primitive) by name, with optional
// generic arguments and a port-name -> signal-expression mapping.
type Part struct {
	Chip        string
	GenericArgs []Expr
	Mappings    []Mapping
	Sp          source.Span
}

func (Part) isBodyItem()          {}
func (p Part) Span() source.Span { return p.Sp }

// Generate is a structural "FOR i IN e1 TO e2 GENERATE { body }" loop,
// unrolled by the elaborator.
type Generate struct {
	Var      string
	From, To Expr
	Body     []BodyItem
	Sp       source.Span
}

func (Generate) isBodyItem()          {}
func (g Generate) Span() source.Span { return g.Sp }

// Chip is a single parsed chip definition.
type Chip struct {
	Name     string
	Generics []string
	Inputs   []Port
	Outputs  []Port
	Body     []BodyItem
	Sp       source.Span
	// Filename this chip was parsed from, retained for the resolver's
	// file-per-chip convention ("Foo" => "Foo.hdl").
	Filename string
}

func unboundGenericError(name string) error {
	return &exprError{"unbound generic identifier: " + name}
}

func negativeWidthError(source.Span) error {
	return &exprError{"width expression evaluates to a negative value"}
}

type exprError struct{ msg string }

func (e *exprError) Error() string { return e.msg }
