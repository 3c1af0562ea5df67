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

// Package parser implements the recursive-descent parser for .hdl chip
// files, built directly on the token stream produced by pkg/hdl/lexer.
package parser

import (
	"strconv"

	"github.com/hdlverse/hdlc/pkg/hdl/ast"
	"github.com/hdlverse/hdlc/pkg/hdl/lexer"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
	"github.com/hdlverse/hdlc/pkg/source"
	"github.com/hdlverse/hdlc/pkg/source/lex"
)

// Parser holds the token stream for a single .hdl file plus a cursor into
// it.
type Parser struct {
	file   *source.File
	tokens []lex.Token
	index  int
	errors []*hdlerr.Error
}

// ParseChipFile lexes and parses a single chip definition from file.
func ParseChipFile(file *source.File) (*ast.Chip, []*hdlerr.Error) {
	tokens, lerr := lexer.Lex(file)
	if lerr != nil {
		return nil, []*hdlerr.Error{lerr}
	}

	p := &Parser{file: file, tokens: tokens}
	chip := p.parseChip()
	chip.Filename = file.Filename()

	return chip, p.errors
}

// ---------------------------------------------------------------------
// Token cursor helpers
// ---------------------------------------------------------------------

func (p *Parser) peek() lex.Token {
	if p.index < len(p.tokens) {
		return p.tokens[p.index]
	}

	return p.tokens[len(p.tokens)-1] // EOF sentinel
}

func (p *Parser) peekKind() uint { return p.peek().Kind }

func (p *Parser) next() lex.Token {
	t := p.peek()
	if p.index < len(p.tokens)-1 {
		p.index++
	}

	return t
}

func (p *Parser) text(t lex.Token) string {
	return string(p.file.Contents()[t.Span.Start():t.Span.End()])
}

func (p *Parser) errorf(span source.Span, format string, args ...any) {
	p.errors = append(p.errors, hdlerr.New(hdlerr.ParseError, p.file, span, format, args...))
}

// expect consumes the next token if it has the given kind, else records an
// error and returns the token anyway (so callers can keep going).
func (p *Parser) expect(kind uint, what string) lex.Token {
	t := p.peek()
	if t.Kind != kind {
		p.errorf(t.Span, "expected %s", what)
		return t
	}

	return p.next()
}

// recover skips tokens up to (and including) the next SEMICOLON, or until
// RCURLY/EOF, implementing the body-scope error recovery asks
// for.
func (p *Parser) recover() {
	for {
		switch p.peekKind() {
		case lexer.SEMICOLON:
			p.next()
			return
		case lexer.RCURLY, lexer.EOF:
			return
		default:
			p.next()
		}
	}
}

// ---------------------------------------------------------------------
// chip := 'CHIP' ident generics? '{' 'IN' ports ';' 'OUT' ports ';' 'PARTS' ':' body '}'
// ---------------------------------------------------------------------

func (p *Parser) parseChip() *ast.Chip {
	start := p.peek().Span
	chip := &ast.Chip{}

	p.expect(lexer.CHIP, "'CHIP'")

	nameTok := p.expect(lexer.IDENTIFIER, "chip name")
	chip.Name = p.text(nameTok)

	if p.peekKind() == lexer.LANGLE {
		chip.Generics = p.parseGenerics()
	}

	p.expect(lexer.LCURLY, "'{'")
	p.expect(lexer.IN, "'IN'")
	chip.Inputs = p.parsePorts()
	p.expect(lexer.SEMICOLON, "';'")
	p.expect(lexer.OUT, "'OUT'")
	chip.Outputs = p.parsePorts()
	p.expect(lexer.SEMICOLON, "';'")
	p.expect(lexer.PARTS, "'PARTS'")
	p.expect(lexer.COLON, "':'")
	chip.Body = p.parseBody()
	end := p.expect(lexer.RCURLY, "'}'").Span

	chip.Sp = start.Union(end)

	return chip
}

func (p *Parser) parseGenerics() []string {
	var names []string

	p.next() // '<'

	for {
		tok := p.expect(lexer.IDENTIFIER, "generic parameter name")
		names = append(names, p.text(tok))

		if p.peekKind() != lexer.COMMA {
			break
		}

		p.next()
	}

	p.expect(lexer.RANGLE, "'>'")

	return names
}

func (p *Parser) parsePorts() []ast.Port {
	var ports []ast.Port

	for {
		ports = append(ports, p.parsePort())

		if p.peekKind() != lexer.COMMA {
			break
		}

		p.next()
	}

	return ports
}

func (p *Parser) parsePort() ast.Port {
	nameTok := p.expect(lexer.IDENTIFIER, "port name")
	port := ast.Port{Name: p.text(nameTok), Sp: nameTok.Span}

	if p.peekKind() == lexer.LBRACKET {
		p.next()

		port.Width = p.parseExpr()
		end := p.expect(lexer.RBRACKET, "']'").Span
		port.Sp = port.Sp.Union(end)
	}

	return port
}

// body := (part | generate) ';'? ...
func (p *Parser) parseBody() []ast.BodyItem {
	var items []ast.BodyItem

	for p.peekKind() != lexer.RCURLY && p.peekKind() != lexer.EOF {
		before := len(p.errors)
		item := p.parseBodyItem()

		if len(p.errors) == before {
			items = append(items, item)
		} else {
			p.recover()
			continue
		}

		if p.peekKind() == lexer.SEMICOLON {
			p.next()
		}
	}

	return items
}

func (p *Parser) parseBodyItem() ast.BodyItem {
	if p.peekKind() == lexer.FOR {
		return p.parseGenerate()
	}

	return p.parsePart()
}

// generate := 'FOR' ident 'IN' expr 'TO' expr 'GENERATE' '{' body '}'
func (p *Parser) parseGenerate() ast.BodyItem {
	start := p.peek().Span

	p.next() // FOR

	varTok := p.expect(lexer.IDENTIFIER, "generate loop variable")
	p.expect(lexer.IN, "'IN'")

	from := p.parseExpr()

	p.expect(lexer.TO, "'TO'")

	to := p.parseExpr()

	p.expect(lexer.GENERATE, "'GENERATE'")
	p.expect(lexer.LCURLY, "'{'")

	body := p.parseBody()

	end := p.expect(lexer.RCURLY, "'}'").Span

	return ast.Generate{
		Var:  p.text(varTok),
		From: from,
		To:   to,
		Body: body,
		Sp:   start.Union(end),
	}
}

// part := ident generics_args? '(' mapping (',' mapping)* ')'
func (p *Parser) parsePart() ast.BodyItem {
	nameTok := p.expect(lexer.IDENTIFIER, "part/chip name")
	part := ast.Part{Chip: p.text(nameTok), Sp: nameTok.Span}

	if p.peekKind() == lexer.LANGLE {
		p.next()

		for {
			part.GenericArgs = append(part.GenericArgs, p.parseExpr())

			if p.peekKind() != lexer.COMMA {
				break
			}

			p.next()
		}

		p.expect(lexer.RANGLE, "'>'")
	}

	p.expect(lexer.LPAREN, "'('")

	if p.peekKind() != lexer.RPAREN {
		for {
			part.Mappings = append(part.Mappings, p.parseMapping())

			if p.peekKind() != lexer.COMMA {
				break
			}

			p.next()
		}
	}

	end := p.expect(lexer.RPAREN, "')'").Span
	part.Sp = part.Sp.Union(end)

	return part
}

// mapping := ident slice? '=' sigexpr
func (p *Parser) parseMapping() ast.Mapping {
	nameTok := p.expect(lexer.IDENTIFIER, "port name")
	m := ast.Mapping{Port: p.text(nameTok), Sp: nameTok.Span}

	if p.peekKind() == lexer.LBRACKET {
		m.PortSlice = p.parseSlice()
	}

	p.expect(lexer.EQUALS, "'='")

	m.Value = p.parseSigExpr()
	m.Sp = m.Sp.Union(m.Value.Span())

	return m
}

// sigexpr := ident slice? | 'true' | 'false' | intlit
func (p *Parser) parseSigExpr() ast.SigExpr {
	switch p.peekKind() {
	case lexer.TRUE:
		t := p.next()
		return ast.SigBool{Value: true, Sp: t.Span}
	case lexer.FALSE:
		t := p.next()
		return ast.SigBool{Value: false, Sp: t.Span}
	case lexer.NUMBER:
		t := p.next()
		v, _ := strconv.ParseUint(p.text(t), 10, 64)

		return ast.SigInt{Value: v, Sp: t.Span}
	default:
		nameTok := p.expect(lexer.IDENTIFIER, "signal reference")
		ref := ast.SigRef{Name: p.text(nameTok), Sp: nameTok.Span}

		if p.peekKind() == lexer.LBRACKET {
			ref.Slice = p.parseSlice()
			ref.Sp = ref.Sp.Union(ref.Slice.Sp)
		}

		return ref
	}
}

// slice := '[' expr ('..' expr)? ']'
func (p *Parser) parseSlice() *ast.Slice {
	start := p.next().Span // '['

	lo := p.parseExpr()

	var hi ast.Expr

	if p.peekKind() == lexer.DOTDOT {
		p.next()

		hi = p.parseExpr()
	}

	end := p.expect(lexer.RBRACKET, "']'").Span

	return &ast.Slice{Lo: lo, Hi: hi, Sp: start.Union(end)}
}

// expr := additive over integer literals and generic identifiers
func (p *Parser) parseExpr() ast.Expr {
	lhs := p.parseExprAtom()

	for p.peekKind() == lexer.PLUS || p.peekKind() == lexer.MINUS {
		opTok := p.next()

		op := byte('+')
		if opTok.Kind == lexer.MINUS {
			op = '-'
		}

		rhs := p.parseExprAtom()
		lhs = ast.BinExpr{Op: op, Lhs: lhs, Rhs: rhs, Sp: lhs.Span().Union(rhs.Span())}
	}

	return lhs
}

func (p *Parser) parseExprAtom() ast.Expr {
	switch p.peekKind() {
	case lexer.NUMBER:
		t := p.next()
		v, _ := strconv.ParseUint(p.text(t), 10, 64)

		return ast.ConstExpr{Value: uint(v), Sp: t.Span}
	default:
		t := p.expect(lexer.IDENTIFIER, "identifier or integer literal")
		return ast.IdentExpr{Name: p.text(t), Sp: t.Span}
	}
}
