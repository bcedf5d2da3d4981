// Package parser builds the arena AST from tokens.
package parser

import (
	"zephyr/internal/ast"
	"zephyr/internal/diag"
	"zephyr/internal/lexer"
	"zephyr/internal/source"
	"zephyr/internal/token"
)

// Options configures a parse run.
type Options struct {
	// Reporter receives syntax diagnostics. Nil discards them.
	Reporter diag.Reporter
	// MaxErrors aborts the parse after that many errors. Zero means 100.
	MaxErrors uint
}

// Result is the outcome of parsing one file.
type Result struct {
	File ast.FileID
}

// Parser is a single-pass recursive descent parser. All nodes go into the
// caller's Builder so rewrites later in the pipeline share the arena.
type Parser struct {
	lx       *lexer.Lexer
	builder  *ast.Builder
	reporter diag.Reporter
	cur      token.Token
	ahead    token.Token
	errs     uint
	maxErrs  uint
	// noStructLit disables struct literal parsing inside if/while/for
	// headers where `{` starts the body.
	noStructLit bool
}

// ParseFile parses the whole token stream into a file node.
func ParseFile(lx *lexer.Lexer, builder *ast.Builder, opts Options) Result {
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	maxErrs := opts.MaxErrors
	if maxErrs == 0 {
		maxErrs = 100
	}
	p := &Parser{lx: lx, builder: builder, reporter: r, maxErrs: maxErrs}
	p.cur = lx.Next()
	p.ahead = lx.Next()

	fileID := builder.NewFile(p.cur.Span)
	for p.cur.Kind != token.EOF && p.errs < p.maxErrs {
		item := p.parseItem()
		if item.IsValid() {
			builder.PushItem(fileID, item)
		}
	}
	f := builder.Files.Get(fileID)
	f.Span = f.Span.Cover(p.cur.Span)
	return Result{File: fileID}
}

func (p *Parser) next() {
	p.cur = p.ahead
	p.ahead = p.lx.Next()
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) eat(k token.Kind) bool {
	if p.cur.Kind == k {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) bool {
	if p.eat(k) {
		return true
	}
	p.errorAt(p.cur.Span, code, msg)
	return false
}

func (p *Parser) errorAt(sp source.Span, code diag.Code, msg string) {
	p.errs++
	p.reporter.Report(code, diag.SevError, sp, msg, nil)
}

// sync skips tokens until a statement/item boundary after an error.
func (p *Parser) sync() {
	for {
		switch p.cur.Kind {
		case token.EOF, token.KwFn, token.KwStruct, token.KwLet, token.KwReturn,
			token.KwIf, token.KwWhile, token.KwFor, token.RBrace:
			return
		case token.Semicolon:
			p.next()
			return
		}
		p.next()
	}
}

func (p *Parser) intern(s string) source.StringID {
	return p.builder.Intern(s)
}
