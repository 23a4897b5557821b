// Package parser implements a recursive-descent parser standing in for the
// LR(1) driver spec.md §1 names as an external collaborator. It turns a
// lexer.Token stream into the position-annotated internal/ast tree the
// semantic core consumes.
package parser

import (
	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/lexer"
)

// Parser walks a fixed token slice, looking at most one token past the
// current one.
type Parser struct {
	toks []lexer.Token
	pos  int
	sink *errors.Sink
}

// Parse lexes and parses src in one step, returning the program and every
// diagnostic the lexer or parser raised.
func Parse(src []byte) (*ast.Program, []*errors.Report) {
	lx := lexer.New(lexer.Normalize(src))
	toks, lexReports := lx.Tokens()
	p := &Parser{toks: toks, sink: &errors.Sink{}}
	prog := p.parseProgram()
	reports := append(lexReports, p.sink.Reports()...)
	return prog, reports
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lexer.Kind, what string) lexer.Token {
	if p.at(k) {
		return p.advance()
	}
	p.sink.Add(errors.New(errors.KindSemanticError, errors.PAR001, p.cur().Pos,
		"expected %s, got %q", what, p.cur().Text))
	return p.cur()
}

// syncToSemi skips tokens until past the next Semi or EOF, the parser's
// only recovery strategy: a malformed class/feature does not abort the
// whole parse, it just loses the rest of its own declaration.
func (p *Parser) syncToSemi() {
	for !p.at(lexer.Semi) && !p.at(lexer.EOF) {
		p.advance()
	}
	if p.at(lexer.Semi) {
		p.advance()
	}
}

func (p *Parser) parseProgram() *ast.Program {
	pos := p.cur().Pos
	prog := &ast.Program{Pos: pos}
	for !p.at(lexer.EOF) {
		if !p.at(lexer.KwClass) {
			p.sink.Add(errors.New(errors.KindSemanticError, errors.PAR003, p.cur().Pos,
				"expected class declaration, got %q", p.cur().Text))
			p.syncToSemi()
			continue
		}
		prog.Classes = append(prog.Classes, p.parseClass())
	}
	return prog
}

func (p *Parser) parseClass() *ast.Class {
	pos := p.cur().Pos
	p.advance() // class
	name := p.expect(lexer.TypeID, "a type name").Text

	c := &ast.Class{Name: name, Pos: pos}
	if p.at(lexer.KwInherits) {
		p.advance()
		c.Parent = p.expect(lexer.TypeID, "a parent type name").Text
		c.HasParent = true
	}

	p.expect(lexer.LBrace, "'{'")
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		p.parseFeature(c)
		p.expect(lexer.Semi, "';'")
	}
	p.expect(lexer.RBrace, "'}'")
	p.expect(lexer.Semi, "';'")
	return c
}

func (p *Parser) parseFeature(c *ast.Class) {
	pos := p.cur().Pos
	name := p.expect(lexer.ObjectID, "a feature name").Text

	if p.at(lexer.LParen) {
		c.Methods = append(c.Methods, p.parseMethod(name, pos))
		return
	}

	p.expect(lexer.Colon, "':'")
	typeName := p.expect(lexer.TypeID, "a type name").Text
	attr := &ast.Attribute{Name: name, Type: typeName, Pos: pos}
	if p.at(lexer.Assign) {
		p.advance()
		attr.Init = p.parseExpr()
	}
	c.Attributes = append(c.Attributes, attr)
}

func (p *Parser) parseMethod(name string, pos ast.Pos) *ast.Method {
	p.advance() // (
	var formals []*ast.Formal
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		fpos := p.cur().Pos
		fname := p.expect(lexer.ObjectID, "a formal name").Text
		p.expect(lexer.Colon, "':'")
		ftype := p.expect(lexer.TypeID, "a type name").Text
		formals = append(formals, &ast.Formal{Name: fname, Type: ftype, Pos: fpos})
		if p.at(lexer.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	p.expect(lexer.Colon, "':'")
	returnType := p.expect(lexer.TypeID, "a return type").Text
	p.expect(lexer.LBrace, "'{'")
	body := p.parseExpr()
	p.expect(lexer.RBrace, "'}'")
	return &ast.Method{Name: name, Formals: formals, ReturnType: returnType, Body: body, Pos: pos}
}

// parseArgs parses a parenthesized, comma-separated argument list.
func (p *Parser) parseArgs() []ast.Expr {
	p.expect(lexer.LParen, "'('")
	var args []ast.Expr
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		args = append(args, p.parseExpr())
		if p.at(lexer.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	return args
}
