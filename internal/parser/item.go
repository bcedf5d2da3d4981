package parser

import (
	"zephyr/internal/ast"
	"zephyr/internal/diag"
	"zephyr/internal/source"
	"zephyr/internal/token"
)

// parseItem handles one top-level declaration: attributes, struct or fn.
func (p *Parser) parseItem() ast.ItemID {
	derives := p.parseAttributes()

	switch p.cur.Kind {
	case token.KwStruct:
		return p.parseStruct(derives)
	case token.KwFn:
		if len(derives) > 0 {
			p.errorAt(p.cur.Span, diag.SynUnexpectedToken, "attributes are only allowed on structs")
		}
		return p.parseFn()
	default:
		p.errorAt(p.cur.Span, diag.SynUnexpectedTopLevel, "expected `fn` or `struct` at top level")
		p.next()
		p.sync()
		return ast.NoItemID
	}
}

// parseAttributes consumes `@derive(Name, ...)` lines before an item and
// returns the derive names. Unknown attributes are skipped.
func (p *Parser) parseAttributes() []source.StringID {
	var derives []source.StringID
	for p.at(token.At) {
		p.next()
		if !p.at(token.Ident) {
			p.errorAt(p.cur.Span, diag.SynExpectIdentifier, "expected attribute name after `@`")
			p.sync()
			return derives
		}
		name := p.cur.Text
		p.next()
		if !p.eat(token.LParen) {
			continue
		}
		for !p.at(token.RParen) && !p.at(token.EOF) {
			if p.at(token.Ident) && name == "derive" {
				derives = append(derives, p.intern(p.cur.Text))
			}
			p.next()
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnclosedParen, "expected `)` to close attribute")
	}
	return derives
}

func (p *Parser) parseStruct(derives []source.StringID) ast.ItemID {
	start := p.cur.Span
	p.next() // struct
	if !p.at(token.Ident) {
		p.errorAt(p.cur.Span, diag.SynExpectIdentifier, "expected struct name")
		p.sync()
		return ast.NoItemID
	}
	name := p.intern(p.cur.Text)
	p.next()

	if !p.expect(token.LBrace, diag.SynUnclosedBrace, "expected `{` after struct name") {
		p.sync()
		return ast.NoItemID
	}

	var fields []ast.StructField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.at(token.Ident) {
			p.errorAt(p.cur.Span, diag.SynExpectFieldName, "expected field name")
			p.sync()
			break
		}
		fieldSpan := p.cur.Span
		fieldName := p.intern(p.cur.Text)
		p.next()
		if !p.expect(token.Colon, diag.SynExpectType, "expected `:` and a type after field name") {
			p.sync()
			break
		}
		fieldType := p.parseType()
		fields = append(fields, ast.StructField{Name: fieldName, Type: fieldType, Span: fieldSpan})
		if !p.eat(token.Comma) {
			break
		}
	}
	end := p.cur.Span
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected `}` to close struct body")

	return p.builder.Items.NewStruct(start.Cover(end), name, fields, derives)
}

func (p *Parser) parseFn() ast.ItemID {
	start := p.cur.Span
	p.next() // fn
	if !p.at(token.Ident) {
		p.errorAt(p.cur.Span, diag.SynExpectIdentifier, "expected function name")
		p.sync()
		return ast.NoItemID
	}
	name := p.intern(p.cur.Text)
	p.next()

	if !p.expect(token.LParen, diag.SynUnclosedParen, "expected `(` after function name") {
		p.sync()
		return ast.NoItemID
	}

	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if !p.at(token.Ident) {
			p.errorAt(p.cur.Span, diag.SynExpectParamName, "expected parameter name")
			break
		}
		param := ast.Param{Name: p.intern(p.cur.Text), Span: p.cur.Span}
		p.next()
		if p.eat(token.Colon) {
			param.Type = p.parseType()
		}
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected `)` to close parameter list")

	ret := ast.NoTypeID
	if p.eat(token.Arrow) {
		ret = p.parseType()
	}

	body := p.parseBlock()
	end := p.cur.Span

	return p.builder.Items.NewFn(start.Cover(end), name, params, ret, body)
}

// parseType parses `Name` or `Name<T, ...>`.
func (p *Parser) parseType() ast.TypeID {
	if !p.at(token.Ident) {
		p.errorAt(p.cur.Span, diag.SynExpectType, "expected type name")
		return ast.NoTypeID
	}
	span := p.cur.Span
	name := p.intern(p.cur.Text)
	p.next()

	var args []ast.TypeID
	if p.eat(token.Less) {
		for !p.at(token.Greater) && !p.at(token.EOF) {
			arg := p.parseType()
			if !arg.IsValid() {
				break
			}
			args = append(args, arg)
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.Greater, diag.SynExpectType, "expected `>` to close type arguments")
	}
	return p.builder.Types.New(span, name, args)
}
