package parser

import (
	"zephyr/internal/ast"
	"zephyr/internal/diag"
	"zephyr/internal/token"
)

// parseBlock parses `{ stmt* }` into a StmtBlock.
func (p *Parser) parseBlock() ast.StmtID {
	start := p.cur.Span
	if !p.expect(token.LBrace, diag.SynUnclosedBrace, "expected `{`") {
		p.sync()
		return p.builder.Stmts.NewBlock(start, nil)
	}

	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) && p.errs < p.maxErrs {
		stmt := p.parseStmt()
		if stmt.IsValid() {
			stmts = append(stmts, stmt)
		}
	}
	end := p.cur.Span
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected `}` to close block")

	return p.builder.Stmts.NewBlock(start.Cover(end), stmts)
}

func (p *Parser) parseStmt() ast.StmtID {
	switch p.cur.Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.LBrace:
		return p.parseBlock()
	default:
		return p.parseExprOrAssign()
	}
}

func (p *Parser) parseLet() ast.StmtID {
	start := p.cur.Span
	p.next() // let
	if !p.at(token.Ident) {
		p.errorAt(p.cur.Span, diag.SynExpectIdentifier, "expected binding name after `let`")
		p.sync()
		return ast.NoStmtID
	}
	name := p.intern(p.cur.Text)
	p.next()

	typeID := ast.NoTypeID
	if p.eat(token.Colon) {
		typeID = p.parseType()
	}

	value := ast.NoExprID
	if p.eat(token.Assign) {
		value = p.parseExpr()
	}
	end := p.cur.Span
	p.eat(token.Semicolon)

	return p.builder.Stmts.NewLet(start.Cover(end), name, typeID, value)
}

func (p *Parser) parseReturn() ast.StmtID {
	start := p.cur.Span
	p.next() // return

	value := ast.NoExprID
	if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
		value = p.parseExpr()
	}
	end := p.cur.Span
	p.eat(token.Semicolon)

	return p.builder.Stmts.NewReturn(start.Cover(end), value)
}

func (p *Parser) parseIf() ast.StmtID {
	start := p.cur.Span
	p.next() // if
	cond := p.parseCondExpr()
	then := p.parseBlock()

	els := ast.NoStmtID
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	}
	return p.builder.Stmts.NewIf(start, cond, then, els)
}

func (p *Parser) parseWhile() ast.StmtID {
	start := p.cur.Span
	p.next() // while
	cond := p.parseCondExpr()
	body := p.parseBlock()
	return p.builder.Stmts.NewWhile(start, cond, body)
}

func (p *Parser) parseFor() ast.StmtID {
	start := p.cur.Span
	p.next() // for
	if !p.at(token.Ident) {
		p.errorAt(p.cur.Span, diag.SynExpectIdentifier, "expected loop binding after `for`")
		p.sync()
		return ast.NoStmtID
	}
	binding := p.intern(p.cur.Text)
	p.next()
	if !p.expect(token.KwIn, diag.SynForMissingIn, "expected `in` in for loop") {
		p.sync()
		return ast.NoStmtID
	}
	iterable := p.parseCondExpr()
	body := p.parseBlock()
	return p.builder.Stmts.NewFor(start, binding, iterable, body)
}

// parseExprOrAssign parses an expression statement, turning it into an
// assignment when an assignment operator follows.
func (p *Parser) parseExprOrAssign() ast.StmtID {
	start := p.cur.Span
	target := p.parseExpr()
	if !target.IsValid() {
		p.sync()
		return ast.NoStmtID
	}

	if p.cur.IsAssignOp() {
		op := assignOpFor(p.cur.Kind)
		p.next()
		value := p.parseExpr()
		end := p.cur.Span
		p.eat(token.Semicolon)

		if !assignable(p.builder, target) {
			p.errorAt(start, diag.SynUnexpectedToken, "left side of assignment must be a name, field or index")
		}
		return p.builder.Stmts.NewAssign(start.Cover(end), target, op, value)
	}

	end := p.cur.Span
	p.eat(token.Semicolon)
	return p.builder.Stmts.NewExpr(start.Cover(end), target)
}

func assignOpFor(k token.Kind) ast.AssignOp {
	switch k {
	case token.PlusEq:
		return ast.AssignAdd
	case token.MinusEq:
		return ast.AssignSub
	case token.StarEq:
		return ast.AssignMul
	case token.SlashEq:
		return ast.AssignDiv
	}
	return ast.AssignSet
}

// assignable reports whether the expression is a valid assignment target:
// an identifier or a member/index chain rooted at one.
func assignable(b *ast.Builder, id ast.ExprID) bool {
	for id.IsValid() {
		expr := b.Exprs.Get(id)
		if expr == nil {
			return false
		}
		switch expr.Kind {
		case ast.ExprIdent:
			return true
		case ast.ExprMember:
			data, _ := b.Exprs.Member(id)
			id = data.Object
		case ast.ExprIndex:
			data, _ := b.Exprs.Index(id)
			id = data.Object
		default:
			return false
		}
	}
	return false
}
