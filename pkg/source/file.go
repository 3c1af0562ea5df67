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

package source

import (
	"fmt"
	"os"
)

// ReadFiles reads zero or more files from disk into Files, stopping at the
// first I/O error.
func ReadFiles(filenames ...string) ([]File, error) {
	files := make([]File, len(filenames))

	for i, n := range filenames {
		bytes, err := os.ReadFile(n)
		if err != nil {
			return nil, err
		}

		files[i] = *NewFile(n, bytes)
	}

	return files, nil
}

// Line identifies one physical line within a File: its 1-indexed line
// number, and the span of the original text it covers.
type Line struct {
	text   []rune
	span   Span
	number int
}

// Number returns the 1-indexed line number.
func (l *Line) Number() int { return l.number }

// Start returns the rune offset of the first rune on this line.
func (l *Line) Start() int { return l.span.start }

// Column computes the 1-indexed column of an absolute offset known to lie on
// this line.
func (l *Line) Column(offset int) int {
	return offset - l.span.start + 1
}

// String returns the text of this line, excluding its terminating newline.
func (l *Line) String() string {
	return string(l.text[l.span.start:l.span.end])
}

// File represents a single named source document (an .hdl file, a .tst test
// script, or in-memory source handed to the pure full_table API).
type File struct {
	filename string
	contents []rune
}

// NewFile constructs a File from raw bytes, decoding them as UTF-8 runes so
// that spans are measured consistently regardless of multi-byte content.
func NewFile(filename string, bytes []byte) *File {
	return &File{filename, []rune(string(bytes))}
}

// Filename returns the name under which this file was read (or a synthetic
// name such as "<string>" for in-memory sources).
func (f *File) Filename() string { return f.filename }

// Contents returns the full decoded text of this file.
func (f *File) Contents() []rune { return f.contents }

// SyntaxErrorf constructs a SyntaxError over a span of this file.
func (f *File) SyntaxErrorf(span Span, format string, args ...any) *SyntaxError {
	return &SyntaxError{f, span, fmt.Sprintf(format, args...)}
}

// FindLine locates the physical line enclosing a given offset into this
// file's contents. An offset beyond the end of the file resolves to the last
// line, which is useful when reporting errors anchored on EOF.
func (f *File) FindLine(offset int) Line {
	start := 0
	number := 1

	for i := 0; i < len(f.contents); i++ {
		if i == offset {
			return Line{f.contents, Span{start, endOfLine(i, f.contents)}, number}
		} else if f.contents[i] == '\n' {
			number++
			start = i + 1
		}
	}

	return Line{f.contents, Span{start, len(f.contents)}, number}
}

func endOfLine(index int, text []rune) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}

	return len(text)
}

// SyntaxError pairs a message with the span of source text it refers to and
// the file that span lies within. It implements error, and
// hdlerr.FromSyntax wraps one as a tagged hdlerr.Error. The lexer, parser
// and elaborator do not build SyntaxErrors; they report hdlerr.Error values
// directly.
type SyntaxError struct {
	file *File
	span Span
	msg  string
}

// File returns the source file this error refers to.
func (e *SyntaxError) File() *File { return e.file }

// Span returns the span of text this error refers to.
func (e *SyntaxError) Span() Span { return e.span }

// Message returns the human-readable message.
func (e *SyntaxError) Message() string { return e.msg }

// Error implements the error interface, reporting file:line:column.
func (e *SyntaxError) Error() string {
	line := e.file.FindLine(e.span.Start())
	return fmt.Sprintf("%s:%d:%d: %s", e.file.Filename(), line.Number(), line.Column(e.span.Start()), e.msg)
}
