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

// Package hdlerr defines the closed taxonomy of error kinds produced by the
// compiler pipeline, each carrying either a source location or an
// elaboration path (a stack of chip names with their generic bindings).
package hdlerr

import (
	"fmt"
	"strings"

	"github.com/hdlverse/hdlc/pkg/source"
)

// Kind enumerates the fixed set of error categories the pipeline can
// produce. This is a taxonomy, not a Go type hierarchy: every error in the
// compiler is represented by the single Error struct below, tagged with one
// of these kinds.
type Kind int

// The complete error taxonomy.
const (
	LexError Kind = iota
	ParseError
	UnknownChip
	RedefinedChip
	UnknownPort
	WidthConflict
	UnassignedWidth
	OutOfRangeSlice
	ArityMismatch
	CyclicDefinition
	CombinationalLoop
	Undriven
	MultipleDrivers
	PrimitiveMisuse
	TestMismatch
	IoError
)

// String renders the error kind's canonical name.
func (k Kind) String() string {
	names := [...]string{
		"LexError", "ParseError", "UnknownChip", "RedefinedChip", "UnknownPort",
		"WidthConflict", "UnassignedWidth", "OutOfRangeSlice", "ArityMismatch",
		"CyclicDefinition", "CombinationalLoop", "Undriven", "MultipleDrivers",
		"PrimitiveMisuse", "TestMismatch", "IoError",
	}

	if int(k) < 0 || int(k) >= len(names) {
		return "UnknownError"
	}

	return names[k]
}

// Frame identifies one entry in an elaboration path: the chip being
// elaborated, and the concrete generic arguments it was bound with.
type Frame struct {
	Chip     string
	Generics []uint
}

func (f Frame) String() string {
	if len(f.Generics) == 0 {
		return f.Chip
	}

	parts := make([]string, len(f.Generics))
	for i, g := range f.Generics {
		parts[i] = fmt.Sprintf("%d", g)
	}

	return fmt.Sprintf("%s<%s>", f.Chip, strings.Join(parts, ","))
}

// Error is the single concrete error type produced anywhere in the pipeline.
// It always carries a Kind, a human message, and either a source Span (for
// lex/parse-time errors) or a Path of elaboration Frames (for errors
// discovered while elaborating a chip instantiated deep inside others).
type Error struct {
	Kind Kind
	File *source.File
	Span source.Span
	Path []Frame
	Msg  string
}

// New constructs an error anchored on a source span.
func New(kind Kind, file *source.File, span source.Span, format string, args ...any) *Error {
	return &Error{kind, file, span, nil, fmt.Sprintf(format, args...)}
}

// NewInPath constructs an error anchored on an elaboration path rather than
// a single source location, used once elaboration has inlined past the
// point where a single file/span still makes sense (e.g. a driver-check
// failure discovered after several levels of inlining).
func NewInPath(kind Kind, path []Frame, format string, args ...any) *Error {
	cp := make([]Frame, len(path))
	copy(cp, path)

	return &Error{kind, nil, source.Span{}, cp, fmt.Sprintf(format, args...)}
}

// FromSyntax wraps a lexer/parser source.SyntaxError as a tagged Error.
func FromSyntax(kind Kind, err *source.SyntaxError) *Error {
	return &Error{kind, err.File(), err.Span(), nil, err.Message()}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var where string

	switch {
	case e.File != nil:
		line := e.File.FindLine(e.Span.Start())
		where = fmt.Sprintf("%s:%d:%d", e.File.Filename(), line.Number(), line.Column(e.Span.Start()))
	case len(e.Path) > 0:
		frames := make([]string, len(e.Path))
		for i, f := range e.Path {
			frames[i] = f.String()
		}

		where = strings.Join(frames, " -> ")
	default:
		where = "<unknown>"
	}

	return fmt.Sprintf("%s: %s: %s", where, e.Kind, e.Msg)
}
