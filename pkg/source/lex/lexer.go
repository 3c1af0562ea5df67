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

package lex

import "github.com/hdlverse/hdlc/pkg/source"

// Token associates a lexical category with the span of source text it came
// from. The Kind field is an opaque small integer defined by whichever
// package configures the Lexer (see pkg/hdl/lexer, which defines one set
// for chip files and one for test scripts).
type Token struct {
	Kind uint
	Span source.Span
}

// Rule maps characters accepted by a Scanner onto a token kind.
type Rule[T any] struct {
	scan Scanner[T]
	kind uint
}

// NewRule constructs a lexing rule.
func NewRule[T any](scan Scanner[T], kind uint) Rule[T] {
	return Rule[T]{scan, kind}
}

// Lexer tokenises a sequence of items by repeatedly applying the first
// matching rule (rules are tried in order, so more specific rules should be
// listed before more general ones).
type Lexer[T any] struct {
	items []T
	index int
	rules []Rule[T]
	ahead []Token
}

// NewLexer constructs a lexer over items, configured with the supplied
// rules.
func NewLexer[T any](items []T, rules ...Rule[T]) *Lexer[T] {
	return &Lexer[T]{items, 0, rules, nil}
}

// Index reports the current position within the original item sequence.
func (l *Lexer[T]) Index() uint { return uint(l.index) }

// Remaining reports how many items have not yet been consumed into a token.
// A non-zero value after the caller believes lexing is complete indicates
// unrecognised input.
func (l *Lexer[T]) Remaining() uint {
	return uint(max(0, len(l.items)-l.index))
}

// HasNext reports whether another token is available.
func (l *Lexer[T]) HasNext() bool {
	l.fill()
	return len(l.ahead) > 0
}

// Next consumes and returns the next token.
func (l *Lexer[T]) Next() Token {
	tok := l.ahead[0]
	l.ahead = l.ahead[1:]

	if l.index == len(l.items) {
		l.index++
	} else {
		l.index = tok.Span.End()
	}

	return tok
}

// Collect drains every remaining token into a slice.
func (l *Lexer[T]) Collect() []Token {
	var tokens []Token

	for l.HasNext() {
		tokens = append(tokens, l.Next())
	}

	return tokens
}

func (l *Lexer[T]) fill() {
	if len(l.ahead) != 0 || l.index > len(l.items) {
		return
	}

	for _, r := range l.rules {
		if n := r.scan(l.items[l.index:]); n > 0 {
			end := min(len(l.items), l.index+int(n))
			l.ahead = append(l.ahead, Token{r.kind, source.NewSpan(l.index, end)})
			return
		}
	}
}
