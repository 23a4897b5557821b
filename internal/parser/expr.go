package parser

import (
	"github.com/cool-lang/coolc/internal/ast"
	"github.com/cool-lang/coolc/internal/errors"
	"github.com/cool-lang/coolc/internal/lexer"
)

// parseExpr is the entry point for COOL's expression grammar, in
// increasing-precedence order: assignment and `not` bind loosest,
// dispatch (`.`/`@`) binds tightest.
func (p *Parser) parseExpr() ast.Expr {
	if p.at(lexer.ObjectID) && p.toks[p.pos+1].Kind == lexer.Assign {
		pos := p.cur().Pos
		name := p.advance().Text
		p.advance() // <-
		n := &ast.Assign{Name: name, Expr: p.parseExpr()}
		n.Pos = pos
		return n
	}
	if p.at(lexer.KwNot) {
		pos := p.cur().Pos
		p.advance()
		n := &ast.Not{Expr: p.parseExpr()}
		n.Pos = pos
		return n
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdd()
	for p.at(lexer.Lt) || p.at(lexer.Le) || p.at(lexer.Eq) {
		pos := p.cur().Pos
		op := binOpFor(p.advance().Kind)
		right := p.parseAdd()
		n := &ast.BinOp{Op: op, Left: left, Right: right}
		n.Pos = pos
		left = n
	}
	return left
}

func (p *Parser) parseAdd() ast.Expr {
	left := p.parseMul()
	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		pos := p.cur().Pos
		op := binOpFor(p.advance().Kind)
		right := p.parseMul()
		n := &ast.BinOp{Op: op, Left: left, Right: right}
		n.Pos = pos
		left = n
	}
	return left
}

func (p *Parser) parseMul() ast.Expr {
	left := p.parseUnary()
	for p.at(lexer.Star) || p.at(lexer.Slash) {
		pos := p.cur().Pos
		op := binOpFor(p.advance().Kind)
		right := p.parseUnary()
		n := &ast.BinOp{Op: op, Left: left, Right: right}
		n.Pos = pos
		left = n
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(lexer.KwIsvoid) {
		pos := p.cur().Pos
		p.advance()
		n := &ast.IsVoid{Expr: p.parseUnary()}
		n.Pos = pos
		return n
	}
	if p.at(lexer.Tilde) {
		pos := p.cur().Pos
		p.advance()
		n := &ast.Complement{Expr: p.parseUnary()}
		n.Pos = pos
		return n
	}
	return p.parseDispatchChain()
}

// parseDispatchChain handles `.`/`@` dispatch chaining, left-associative:
// `a.m1().m2()` dispatches m1 on a, then m2 on the result.
func (p *Parser) parseDispatchChain() ast.Expr {
	e := p.parsePrimary()
	for {
		switch {
		case p.at(lexer.At):
			pos := p.cur().Pos
			p.advance()
			typeName := p.expect(lexer.TypeID, "a type name").Text
			p.expect(lexer.Dot, "'.'")
			method := p.expect(lexer.ObjectID, "a method name").Text
			args := p.parseArgs()
			n := &ast.StaticDispatch{Receiver: e, Type: typeName, Method: method, Args: args}
			n.Pos = pos
			e = n
		case p.at(lexer.Dot):
			pos := p.cur().Pos
			p.advance()
			method := p.expect(lexer.ObjectID, "a method name").Text
			args := p.parseArgs()
			n := &ast.Dispatch{Receiver: e, Method: method, Args: args}
			n.Pos = pos
			e = n
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case lexer.IntLit:
		p.advance()
		n := &ast.IntLit{Value: tok.IntVal}
		n.Pos = tok.Pos
		return n
	case lexer.StringLit:
		p.advance()
		n := &ast.StringLit{Value: tok.Text}
		n.Pos = tok.Pos
		return n
	case lexer.BoolLit:
		p.advance()
		n := &ast.BoolLit{Value: tok.BoolVal}
		n.Pos = tok.Pos
		return n
	case lexer.KwNew:
		p.advance()
		typeName := p.expect(lexer.TypeID, "a type name")
		n := &ast.New{Type: typeName.Text}
		n.Pos = tok.Pos
		return n
	case lexer.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(lexer.RParen, "')'")
		return e
	case lexer.LBrace:
		return p.parseBlock()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwLet:
		return p.parseLet()
	case lexer.KwCase:
		return p.parseCase()
	case lexer.ObjectID:
		p.advance()
		if tok.Text == "self" {
			if p.at(lexer.LParen) {
				args := p.parseArgs()
				n := &ast.SelfDispatch{Method: "self", Args: args}
				n.Pos = tok.Pos
				return n
			}
			n := &ast.Self{}
			n.Pos = tok.Pos
			return n
		}
		if p.at(lexer.LParen) {
			args := p.parseArgs()
			n := &ast.SelfDispatch{Method: tok.Text, Args: args}
			n.Pos = tok.Pos
			return n
		}
		n := &ast.Ident{Name: tok.Text}
		n.Pos = tok.Pos
		return n
	}

	p.sink.Add(errors.New(errors.KindSemanticError, errors.PAR005, tok.Pos,
		"unexpected token %q in expression", tok.Text))
	p.advance()
	n := &ast.IntLit{Value: 0}
	n.Pos = tok.Pos
	return n
}

func (p *Parser) parseBlock() ast.Expr {
	pos := p.cur().Pos
	p.advance() // {
	var exprs []ast.Expr
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		exprs = append(exprs, p.parseExpr())
		p.expect(lexer.Semi, "';'")
	}
	p.expect(lexer.RBrace, "'}'")
	n := &ast.Block{Exprs: exprs}
	n.Pos = pos
	return n
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.cur().Pos
	p.advance()
	cond := p.parseExpr()
	p.expect(lexer.KwThen, "'then'")
	then := p.parseExpr()
	p.expect(lexer.KwElse, "'else'")
	els := p.parseExpr()
	p.expect(lexer.KwFi, "'fi'")
	n := &ast.If{Cond: cond, Then: then, Else: els}
	n.Pos = pos
	return n
}

func (p *Parser) parseWhile() ast.Expr {
	pos := p.cur().Pos
	p.advance()
	cond := p.parseExpr()
	p.expect(lexer.KwLoop, "'loop'")
	body := p.parseExpr()
	p.expect(lexer.KwPool, "'pool'")
	n := &ast.While{Cond: cond, Body: body}
	n.Pos = pos
	return n
}

func (p *Parser) parseLet() ast.Expr {
	pos := p.cur().Pos
	p.advance()
	var bindings []*ast.LetBinding
	for {
		bpos := p.cur().Pos
		name := p.expect(lexer.ObjectID, "a variable name").Text
		p.expect(lexer.Colon, "':'")
		typeName := p.expect(lexer.TypeID, "a type name").Text
		b := &ast.LetBinding{Name: name, Type: typeName, Pos: bpos}
		if p.at(lexer.Assign) {
			p.advance()
			b.Init = p.parseExpr()
		}
		bindings = append(bindings, b)
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.KwIn, "'in'")
	body := p.parseExpr()
	n := &ast.Let{Bindings: bindings, Body: body}
	n.Pos = pos
	return n
}

func (p *Parser) parseCase() ast.Expr {
	pos := p.cur().Pos
	p.advance()
	scrutinee := p.parseExpr()
	p.expect(lexer.KwOf, "'of'")
	var branches []*ast.CaseBranch
	for !p.at(lexer.KwEsac) && !p.at(lexer.EOF) {
		bpos := p.cur().Pos
		name := p.expect(lexer.ObjectID, "a variable name").Text
		p.expect(lexer.Colon, "':'")
		typeName := p.expect(lexer.TypeID, "a type name").Text
		p.expect(lexer.DArrow, "'=>'")
		body := p.parseExpr()
		p.expect(lexer.Semi, "';'")
		branches = append(branches, &ast.CaseBranch{Name: name, Type: typeName, Body: body, Pos: bpos})
	}
	p.expect(lexer.KwEsac, "'esac'")
	n := &ast.Case{Scrutinee: scrutinee, Branches: branches}
	n.Pos = pos
	return n
}

func binOpFor(k lexer.Kind) ast.BinOpKind {
	switch k {
	case lexer.Plus:
		return ast.OpAdd
	case lexer.Minus:
		return ast.OpSub
	case lexer.Star:
		return ast.OpMul
	case lexer.Slash:
		return ast.OpDiv
	case lexer.Lt:
		return ast.OpLt
	case lexer.Le:
		return ast.OpLe
	case lexer.Eq:
		return ast.OpEq
	}
	return ast.OpAdd
}
