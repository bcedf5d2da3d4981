package parser

import (
	"zephyr/internal/ast"
	"zephyr/internal/diag"
	"zephyr/internal/source"
	"zephyr/internal/token"
)

// Binding powers, loosest first.
const (
	precNone = iota
	precOr
	precAnd
	precEquality
	precCompare
	precAdditive
	precMultiplicative
)

func binaryPrec(k token.Kind) (int, ast.ExprBinaryOp) {
	switch k {
	case token.OrOr:
		return precOr, ast.ExprBinaryLogicalOr
	case token.AndAnd:
		return precAnd, ast.ExprBinaryLogicalAnd
	case token.Eq:
		return precEquality, ast.ExprBinaryEq
	case token.NotEq:
		return precEquality, ast.ExprBinaryNotEq
	case token.Less:
		return precCompare, ast.ExprBinaryLess
	case token.LessEq:
		return precCompare, ast.ExprBinaryLessEq
	case token.Greater:
		return precCompare, ast.ExprBinaryGreater
	case token.GreaterEq:
		return precCompare, ast.ExprBinaryGreaterEq
	case token.Plus:
		return precAdditive, ast.ExprBinaryAdd
	case token.Minus:
		return precAdditive, ast.ExprBinarySub
	case token.Star:
		return precMultiplicative, ast.ExprBinaryMul
	case token.Slash:
		return precMultiplicative, ast.ExprBinaryDiv
	case token.Percent:
		return precMultiplicative, ast.ExprBinaryMod
	}
	return precNone, 0
}

func (p *Parser) parseExpr() ast.ExprID {
	return p.parseBinary(precNone)
}

func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	left := p.parseUnary()
	for {
		prec, op := binaryPrec(p.cur.Kind)
		if prec == precNone || prec <= minPrec {
			return left
		}
		span := p.cur.Span
		p.next()
		right := p.parseBinary(prec)
		left = p.builder.Exprs.NewBinary(span, op, left, right)
	}
}

func (p *Parser) parseUnary() ast.ExprID {
	switch p.cur.Kind {
	case token.Minus:
		span := p.cur.Span
		p.next()
		return p.builder.Exprs.NewUnary(span, ast.ExprUnaryNeg, p.parseUnary())
	case token.Bang:
		span := p.cur.Span
		p.next()
		return p.builder.Exprs.NewUnary(span, ast.ExprUnaryNot, p.parseUnary())
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any chain of
// member access, method calls and indexing.
func (p *Parser) parsePostfix() ast.ExprID {
	expr := p.parsePrimary()
	for expr.IsValid() {
		switch p.cur.Kind {
		case token.Dot:
			p.next()
			if !p.at(token.Ident) {
				p.errorAt(p.cur.Span, diag.SynExpectIdentifier, "expected field or method name after `.`")
				return expr
			}
			span := p.cur.Span
			name := p.intern(p.cur.Text)
			p.next()
			if p.at(token.LParen) {
				args := p.parseArgs()
				expr = p.builder.Exprs.NewMethodCall(span, expr, name, args)
			} else {
				expr = p.builder.Exprs.NewMember(span, expr, name)
			}
		case token.LBracket:
			span := p.cur.Span
			p.next()
			index := p.parseExpr()
			p.expect(token.RBracket, diag.SynUnclosedBracket, "expected `]` to close index")
			expr = p.builder.Exprs.NewIndex(span, expr, index)
		default:
			return expr
		}
	}
	return expr
}

func (p *Parser) parseArgs() []ast.ExprID {
	p.next() // (
	var args []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg := p.parseExpr()
		if !arg.IsValid() {
			break
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected `)` to close arguments")
	return args
}

func (p *Parser) parsePrimary() ast.ExprID {
	switch p.cur.Kind {
	case token.Ident:
		span := p.cur.Span
		name := p.intern(p.cur.Text)
		p.next()
		switch p.cur.Kind {
		case token.LParen:
			args := p.parseArgs()
			return p.builder.Exprs.NewCall(span, name, args)
		case token.LBrace:
			// Struct literals are banned in if/while/for headers, where the
			// brace already means the body.
			if !p.noStructLit {
				return p.parseStructLit(span, name)
			}
		}
		return p.builder.Exprs.NewIdent(span, name)
	case token.Int:
		lit := p.builder.Exprs.NewLiteral(p.cur.Span, ast.ExprLitInt, p.intern(p.cur.Text))
		p.next()
		return lit
	case token.Float:
		lit := p.builder.Exprs.NewLiteral(p.cur.Span, ast.ExprLitFloat, p.intern(p.cur.Text))
		p.next()
		return lit
	case token.String:
		lit := p.builder.Exprs.NewLiteral(p.cur.Span, ast.ExprLitString, p.intern(p.cur.Text))
		p.next()
		return lit
	case token.KwTrue, token.KwFalse:
		text := "false"
		if p.cur.Kind == token.KwTrue {
			text = "true"
		}
		lit := p.builder.Exprs.NewLiteral(p.cur.Span, ast.ExprLitBool, p.intern(text))
		p.next()
		return lit
	case token.LParen:
		p.next()
		expr := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected `)`")
		return expr
	}
	p.errorAt(p.cur.Span, diag.SynExpectExpression, "expected expression")
	p.next()
	return ast.NoExprID
}

func (p *Parser) parseStructLit(span source.Span, name source.StringID) ast.ExprID {
	p.next() // {
	var fields []ast.StructLitField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Ident) {
			p.errorAt(p.cur.Span, diag.SynExpectFieldName, "expected field name in struct literal")
			break
		}
		fieldName := p.intern(p.cur.Text)
		p.next()
		if !p.expect(token.Colon, diag.SynExpectExpression, "expected `:` after field name") {
			break
		}
		value := p.parseExpr()
		fields = append(fields, ast.StructLitField{Name: fieldName, Value: value})
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected `}` to close struct literal")
	return p.builder.Exprs.NewStructLit(span, name, fields)
}

// parseCondExpr parses a loop/if condition with struct literals disabled.
func (p *Parser) parseCondExpr() ast.ExprID {
	p.noStructLit = true
	expr := p.parseExpr()
	p.noStructLit = false
	return expr
}
