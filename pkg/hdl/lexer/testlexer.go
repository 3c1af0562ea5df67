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

package lexer

import (
	"github.com/hdlverse/hdlc/pkg/hdlerr"
	"github.com/hdlverse/hdlc/pkg/source"
	"github.com/hdlverse/hdlc/pkg/source/lex"
)

// Token kinds for the test-script dialect. Unlike the chip
// lexer, a single WORD class covers identifiers, numbers and filenames
// alike (each hyphenated command name and every value happens to be
// expressible as letters/digits/_/./-// with no embedded whitespace). A
// "name%fmt.intw.fracw" output spec lexes as WORD, TPERCENT, WORD; the
// parser is responsible for splitting a WORD's text on '.' where the
// grammar calls for it.
const (
	TEOF uint = iota
	TWHITESPACE
	TLINE_COMMENT
	TBLOCK_COMMENT
	TWORD
	TLANGLE
	TRANGLE
	TLBRACKET
	TRBRACKET
	TCOMMA
	TSEMICOLON
	TPERCENT
	// Reserved command words.
	TLOAD
	TOUTPUT_FILE
	TCOMPARE_TO
	TOUTPUT_LIST
	TSET
	TEVAL
	TTICK
	TTOCK
	TOUTPUT
)

var testKeywords = map[string]uint{
	"load":        TLOAD,
	"output-file": TOUTPUT_FILE,
	"compare-to":  TCOMPARE_TO,
	"output-list": TOUTPUT_LIST,
	"set":         TSET,
	"eval":        TEVAL,
	"tick":        TTICK,
	"tock":        TTOCK,
	"output":      TOUTPUT,
}

var testWordChar = lex.Or(
	lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Within('0', '9'),
	lex.Unit('_'), lex.Unit('.'), lex.Unit('/'), lex.Unit('-'))

var testWord = lex.AtLeastOne(testWordChar)

var testRules = []lex.Rule[rune]{
	lex.NewRule(lineComment, TLINE_COMMENT),
	lex.NewRule(Scanner(blockComment), TBLOCK_COMMENT),
	lex.NewRule(lex.Unit('<'), TLANGLE),
	lex.NewRule(lex.Unit('>'), TRANGLE),
	lex.NewRule(lex.Unit('['), TLBRACKET),
	lex.NewRule(lex.Unit(']'), TRBRACKET),
	lex.NewRule(lex.Unit(','), TCOMMA),
	lex.NewRule(lex.Unit(';'), TSEMICOLON),
	lex.NewRule(lex.Unit('%'), TPERCENT),
	lex.NewRule(whitespace, TWHITESPACE),
	lex.NewRule(testWord, TWORD),
	lex.NewRule(lex.Eof[rune](), TEOF),
}

// LexTestScript tokenises a .tst source file.
func LexTestScript(file *source.File) ([]lex.Token, *hdlerr.Error) {
	lexer := lex.NewLexer(file.Contents(), testRules...)
	tokens := lexer.Collect()

	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		end := start + int(lexer.Remaining())

		return nil, hdlerr.New(hdlerr.LexError, file, source.NewSpan(start, end), "unrecognised input")
	}

	out := make([]lex.Token, 0, len(tokens))

	for _, t := range tokens {
		switch t.Kind {
		case TWHITESPACE, TLINE_COMMENT:
			continue
		case TBLOCK_COMMENT:
			text := file.Contents()[t.Span.Start():t.Span.End()]
			if len(text) < 4 || text[len(text)-2] != '*' || text[len(text)-1] != '/' {
				return nil, hdlerr.New(hdlerr.LexError, file, t.Span, "unterminated block comment")
			}

			continue
		case TWORD:
			word := string(file.Contents()[t.Span.Start():t.Span.End()])
			if kw, ok := testKeywords[word]; ok {
				t.Kind = kw
			}
		}

		out = append(out, t)
	}

	return out, nil
}
