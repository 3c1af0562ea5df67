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

package parser

import (
	"strconv"
	"strings"

	"github.com/hdlverse/hdlc/pkg/hdl/ast"
	"github.com/hdlverse/hdlc/pkg/hdl/lexer"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
	"github.com/hdlverse/hdlc/pkg/source"
	"github.com/hdlverse/hdlc/pkg/source/lex"
)

// TestParser parses the test-script dialect into an ast.Script.
type TestParser struct {
	file   *source.File
	tokens []lex.Token
	index  int
	errors []*hdlerr.Error
}

// ParseTestScript lexes and parses a .tst file.
func ParseTestScript(file *source.File) (*ast.Script, []*hdlerr.Error) {
	tokens, lerr := lexer.LexTestScript(file)
	if lerr != nil {
		return nil, []*hdlerr.Error{lerr}
	}

	p := &TestParser{file: file, tokens: tokens}
	script := p.parseScript()

	return script, p.errors
}

func (p *TestParser) peek() lex.Token {
	if p.index < len(p.tokens) {
		return p.tokens[p.index]
	}

	return p.tokens[len(p.tokens)-1]
}

func (p *TestParser) peekKind() uint { return p.peek().Kind }

func (p *TestParser) next() lex.Token {
	t := p.peek()
	if p.index < len(p.tokens)-1 {
		p.index++
	}

	return t
}

func (p *TestParser) text(t lex.Token) string {
	return string(p.file.Contents()[t.Span.Start():t.Span.End()])
}

func (p *TestParser) errorf(span source.Span, format string, args ...any) {
	p.errors = append(p.errors, hdlerr.New(hdlerr.ParseError, p.file, span, format, args...))
}

func (p *TestParser) expect(kind uint, what string) lex.Token {
	t := p.peek()
	if t.Kind != kind {
		p.errorf(t.Span, "expected %s", what)
		return t
	}

	return p.next()
}

func (p *TestParser) recover() {
	for {
		switch p.peekKind() {
		case lexer.TCOMMA, lexer.TSEMICOLON:
			p.next()
			return
		case lexer.TEOF:
			return
		default:
			p.next()
		}
	}
}

func (p *TestParser) parseScript() *ast.Script {
	script := &ast.Script{}

	for p.peekKind() != lexer.TEOF {
		if p.peekKind() == lexer.TCOMMA || p.peekKind() == lexer.TSEMICOLON {
			p.next()
			continue
		}

		before := len(p.errors)
		cmd := p.parseCommand()

		if len(p.errors) == before {
			script.Commands = append(script.Commands, cmd)
		} else {
			p.recover()
		}
	}

	return script
}

func (p *TestParser) parseCommand() ast.Command {
	start := p.peek().Span

	switch p.peekKind() {
	case lexer.TLOAD:
		p.next()

		var widths []uint

		if p.peekKind() == lexer.TLANGLE {
			p.next()

			for {
				t := p.expect(lexer.TWORD, "generic width")

				v, err := strconv.ParseUint(p.text(t), 10, 64)
				if err != nil {
					p.errorf(t.Span, "expected a positive integer width")
				}

				widths = append(widths, uint(v))

				if p.peekKind() != lexer.TCOMMA {
					break
				}

				p.next()
			}

			p.expect(lexer.TRANGLE, "'>'")
		}

		fileTok := p.expect(lexer.TWORD, "chip file name")

		return ast.LoadCmd{ast.CmdBase{start.Union(fileTok.Span)}, widths, p.text(fileTok)}
	case lexer.TOUTPUT_FILE:
		p.next()

		nameTok := p.expect(lexer.TWORD, "output file name")

		return ast.OutputFileCmd{ast.CmdBase{start.Union(nameTok.Span)}, p.text(nameTok)}
	case lexer.TCOMPARE_TO:
		p.next()

		nameTok := p.expect(lexer.TWORD, "golden file name")

		return ast.CompareToCmd{ast.CmdBase{start.Union(nameTok.Span)}, p.text(nameTok)}
	case lexer.TOUTPUT_LIST:
		p.next()
		return p.parseOutputList(start)
	case lexer.TSET:
		p.next()
		return p.parseSet(start)
	case lexer.TEVAL:
		t := p.next()
		return ast.EvalCmd{ast.CmdBase{t.Span}}
	case lexer.TTICK:
		t := p.next()
		return ast.TickCmd{ast.CmdBase{t.Span}}
	case lexer.TTOCK:
		t := p.next()
		return ast.TockCmd{ast.CmdBase{t.Span}}
	case lexer.TOUTPUT:
		t := p.next()
		return ast.OutputCmd{ast.CmdBase{t.Span}}
	default:
		t := p.next()
		p.errorf(t.Span, "expected a test-script command")

		return nil
	}
}

func (p *TestParser) parseOutputList(start source.Span) ast.Command {
	var specs []ast.OutputSpec

	end := start

	for {
		nameTok := p.expect(lexer.TWORD, "column name")
		spec := ast.OutputSpec{Name: p.text(nameTok)}
		end = nameTok.Span

		if p.peekKind() == lexer.TLBRACKET {
			spec.Slice = p.parseTestSlice()
			end = spec.Slice.Sp
		}

		p.expect(lexer.TPERCENT, "'%'")

		fmtTok := p.expect(lexer.TWORD, "format spec (e.g. B2.1.2)")
		end = fmtTok.Span
		p.parseFormatSpec(fmtTok, &spec)
		specs = append(specs, spec)

		if p.peekKind() != lexer.TCOMMA {
			break
		}

		p.next()
	}

	return ast.OutputListCmd{ast.CmdBase{start.Union(end)}, specs}
}

// parseFormatSpec decodes "Bintw.fracw" / "Dintw.fracw" / "Xintw.fracw".
func (p *TestParser) parseFormatSpec(tok lex.Token, spec *ast.OutputSpec) {
	text := p.text(tok)
	if len(text) == 0 {
		p.errorf(tok.Span, "empty format spec")
		return
	}

	spec.Fmt = text[0]
	if spec.Fmt != 'B' && spec.Fmt != 'D' && spec.Fmt != 'X' {
		p.errorf(tok.Span, "unknown output format '%c' (expected B, D or X)", spec.Fmt)
	}

	parts := strings.Split(text[1:], ".")

	if len(parts) > 0 && parts[0] != "" {
		if v, err := strconv.ParseUint(parts[0], 10, 64); err == nil {
			spec.IntW = uint(v)
		} else {
			p.errorf(tok.Span, "invalid integer field width")
		}
	}

	if len(parts) > 1 {
		if v, err := strconv.ParseUint(parts[1], 10, 64); err == nil {
			spec.FracW = uint(v)
		} else {
			p.errorf(tok.Span, "invalid fractional field width")
		}
	}
}

func (p *TestParser) parseSet(start source.Span) ast.Command {
	nameTok := p.expect(lexer.TWORD, "signal name")
	cmd := ast.SetCmd{Name: p.text(nameTok)}

	if p.peekKind() == lexer.TLBRACKET {
		cmd.Slice = p.parseTestSlice()
	}

	valTok, value := p.parseScalarValue()
	cmd.Value = value
	cmd.CmdBase = ast.CmdBase{start.Union(valTok.Span)}

	return cmd
}

// parseTestSlice decodes "[lo]" or "[lo..hi]" where lo/hi are encoded in a
// single WORD token (the test lexer's WORD class swallows '.' characters).
func (p *TestParser) parseTestSlice() *ast.Slice {
	start := p.next().Span // '['
	bodyTok := p.expect(lexer.TWORD, "slice index")
	body := p.text(bodyTok)

	var lo, hi ast.Expr

	if idx := strings.Index(body, ".."); idx >= 0 {
		lo = p.constExprFrom(bodyTok.Span, body[:idx])
		hi = p.constExprFrom(bodyTok.Span, body[idx+2:])
	} else {
		lo = p.constExprFrom(bodyTok.Span, body)
	}

	end := p.expect(lexer.TRBRACKET, "']'").Span

	return &ast.Slice{Lo: lo, Hi: hi, Sp: start.Union(end)}
}

func (p *TestParser) constExprFrom(span source.Span, text string) ast.Expr {
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		p.errorf(span, "expected an integer index, got %q", text)
	}

	return ast.ConstExpr{Value: uint(v), Sp: span}
}

// parseScalarValue decodes a decimal, "0x"-prefixed hex, or
// "%fmt"-prefixed value, ("Values are decimal or hex.").
func (p *TestParser) parseScalarValue() (lex.Token, uint64) {
	if p.peekKind() == lexer.TPERCENT {
		p.next()

		tok := p.expect(lexer.TWORD, "value")
		text := p.text(tok)

		if len(text) == 0 {
			p.errorf(tok.Span, "empty value")
			return tok, 0
		}

		base := 10
		if text[0] == 'X' || text[0] == 'x' {
			base = 16
		} else if text[0] == 'B' || text[0] == 'b' {
			base = 2
		}

		v, err := strconv.ParseUint(text[1:], base, 64)
		if err != nil {
			p.errorf(tok.Span, "invalid %c-formatted value %q", text[0], text)
		}

		return tok, v
	}

	tok := p.expect(lexer.TWORD, "value")
	text := p.text(tok)

	var (
		v   uint64
		err error
	)

	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		v, err = strconv.ParseUint(text[2:], 16, 64)
	default:
		v, err = strconv.ParseUint(text, 10, 64)
	}

	if err != nil {
		p.errorf(tok.Span, "invalid numeric value %q", text)
	}

	return tok, v
}
