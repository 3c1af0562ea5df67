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

// Package lexer tokenises .hdl chip-definition source text, built on the
// generic scanner combinators in pkg/source/lex.
package lexer

import (
	"github.com/hdlverse/hdlc/pkg/hdlerr"
	"github.com/hdlverse/hdlc/pkg/source"
	"github.com/hdlverse/hdlc/pkg/source/lex"
)

// Token kinds produced by Lex. Reserved words are emitted as their own kind
// rather than as IDENTIFIER so the parser can match on them directly.
const (
	EOF uint = iota
	WHITESPACE
	LINE_COMMENT
	BLOCK_COMMENT
	IDENTIFIER
	NUMBER
	// Reserved words.
	CHIP
	IN
	OUT
	PARTS
	FOR
	TO
	GENERATE
	TRUE
	FALSE
	// Punctuation.
	LCURLY
	RCURLY
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LANGLE
	RANGLE
	COMMA
	SEMICOLON
	EQUALS
	DOTDOT
	MINUS
	PLUS
	COLON
)

var keywords = map[string]uint{
	"CHIP":     CHIP,
	"IN":       IN,
	"OUT":      OUT,
	"PARTS":    PARTS,
	"FOR":      FOR,
	"TO":       TO,
	"GENERATE": GENERATE,
	"true":     TRUE,
	"false":    FALSE,
}

var (
	whitespace = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))
	digit      = lex.Within('0', '9')
	number     = lex.AtLeastOne(digit)

	identStart = lex.Or(lex.Unit('_'), lex.Within('a', 'z'), lex.Within('A', 'Z'))
	identRest  = lex.Many(lex.Or(lex.Unit('_'), lex.Within('a', 'z'), lex.Within('A', 'Z'), digit))
	identifier = lex.And(identStart, identRest)

	lineComment  = lex.And(lex.Unit('/', '/'), lex.Until('\n'))
	blockComment = blockCommentScanner
)

// blockCommentScanner matches "/* ... */" with no nesting: the first "*/"
// found closes the comment. Nesting is not supported; flat comments are
// simpler to lex with a single combinator and match what most HDL/assembly
// dialects in the pack do for comments.
func blockCommentScanner(items []rune) uint {
	if len(items) < 2 || items[0] != '/' || items[1] != '*' {
		return 0
	}

	for i := 2; i+1 < len(items); i++ {
		if items[i] == '*' && items[i+1] == '/' {
			return uint(i + 2)
		}
	}
	// Unterminated: consume everything, caller reports the error.
	return uint(len(items))
}

var rules = []lex.Rule[rune]{
	lex.NewRule(lineComment, LINE_COMMENT),
	lex.NewRule(Scanner(blockComment), BLOCK_COMMENT),
	lex.NewRule(lex.Unit('.', '.'), DOTDOT),
	lex.NewRule(lex.Unit('{'), LCURLY),
	lex.NewRule(lex.Unit('}'), RCURLY),
	lex.NewRule(lex.Unit('('), LPAREN),
	lex.NewRule(lex.Unit(')'), RPAREN),
	lex.NewRule(lex.Unit('['), LBRACKET),
	lex.NewRule(lex.Unit(']'), RBRACKET),
	lex.NewRule(lex.Unit('<'), LANGLE),
	lex.NewRule(lex.Unit('>'), RANGLE),
	lex.NewRule(lex.Unit(','), COMMA),
	lex.NewRule(lex.Unit(';'), SEMICOLON),
	lex.NewRule(lex.Unit(':'), COLON),
	lex.NewRule(lex.Unit('='), EQUALS),
	lex.NewRule(lex.Unit('-'), MINUS),
	lex.NewRule(lex.Unit('+'), PLUS),
	lex.NewRule(whitespace, WHITESPACE),
	lex.NewRule(number, NUMBER),
	lex.NewRule(identifier, IDENTIFIER),
	lex.NewRule(lex.Eof[rune](), EOF),
}

// Scanner adapts a raw func(items []rune) uint into a lex.Scanner[rune];
// used only for the hand-written block-comment scanner above, which needs
// lookahead the combinators don't directly express.
func Scanner(f func([]rune) uint) lex.Scanner[rune] {
	return f
}

// Lex tokenises an entire .hdl source file, reclassifying bare identifiers
// that match a reserved word, and dropping whitespace/comment tokens from
// the returned stream. An unterminated block comment or any unrecognised
// character is reported as a LexError.
func Lex(file *source.File) ([]lex.Token, *hdlerr.Error) {
	lexer := lex.NewLexer(file.Contents(), rules...)
	tokens := lexer.Collect()

	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		end := start + int(lexer.Remaining())

		return nil, hdlerr.New(hdlerr.LexError, file, source.NewSpan(start, end), "unrecognised input")
	}

	out := make([]lex.Token, 0, len(tokens))

	for _, t := range tokens {
		switch t.Kind {
		case WHITESPACE, LINE_COMMENT:
			continue
		case BLOCK_COMMENT:
			text := file.Contents()[t.Span.Start():t.Span.End()]
			if len(text) < 4 || text[len(text)-2] != '*' || text[len(text)-1] != '/' {
				return nil, hdlerr.New(hdlerr.LexError, file, t.Span, "unterminated block comment")
			}

			continue
		case IDENTIFIER:
			word := string(file.Contents()[t.Span.Start():t.Span.End()])
			if kw, ok := keywords[word]; ok {
				t.Kind = kw
			}
		}

		out = append(out, t)
	}

	return out, nil
}
