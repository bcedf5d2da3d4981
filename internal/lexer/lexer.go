// Package lexer turns source bytes into tokens.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"zephyr/internal/diag"
	"zephyr/internal/source"
	"zephyr/internal/token"
)

// Options configures a Lexer.
type Options struct {
	// Reporter receives lexical diagnostics. Nil discards them.
	Reporter diag.Reporter
}

// Lexer scans one source.File. Create with New, pull tokens with Next until
// token.EOF.
type Lexer struct {
	file     *source.File
	off      uint32
	reporter diag.Reporter
}

func New(file *source.File, opts Options) *Lexer {
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Lexer{file: file, reporter: r}
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.off}
}

func (lx *Lexer) peek() byte {
	if int(lx.off) >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[lx.off]
}

func (lx *Lexer) peekAt(n uint32) byte {
	if int(lx.off+n) >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[lx.off+n]
}

// Next returns the next token. After the end of input it keeps returning
// token.EOF.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()

	start := lx.off
	c := lx.peek()
	switch {
	case c == 0:
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	case isIdentStart(c):
		return lx.scanIdent(start)
	case c >= '0' && c <= '9':
		return lx.scanNumber(start)
	case c == '"':
		return lx.scanString(start)
	default:
		return lx.scanOperator(start)
	}
}

func (lx *Lexer) skipTrivia() {
	for {
		c := lx.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.off++
		case c == '/' && lx.peekAt(1) == '/':
			for lx.peek() != 0 && lx.peek() != '\n' {
				lx.off++
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (lx *Lexer) scanIdent(start uint32) token.Token {
	for isIdentCont(lx.peek()) {
		if lx.peek() >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(lx.file.Content[lx.off:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			lx.off += uint32(size)
			continue
		}
		lx.off++
	}
	raw := lx.file.Content[start:lx.off]
	// Identifiers compare by NFC form so visually identical bindings are one
	// binding.
	text := norm.NFC.String(string(raw))
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: lx.span(start)}
	}
	return token.Token{Kind: token.Ident, Span: lx.span(start), Text: text}
}

func (lx *Lexer) scanNumber(start uint32) token.Token {
	kind := token.Int
	for lx.peek() >= '0' && lx.peek() <= '9' {
		lx.off++
	}
	if lx.peek() == '.' && lx.peekAt(1) >= '0' && lx.peekAt(1) <= '9' {
		kind = token.Float
		lx.off++
		for lx.peek() >= '0' && lx.peek() <= '9' {
			lx.off++
		}
	}
	if isIdentStart(lx.peek()) {
		for isIdentCont(lx.peek()) {
			lx.off++
		}
		sp := lx.span(start)
		lx.reporter.Report(diag.LexBadNumber, diag.SevError, sp, "malformed numeric literal", nil)
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[start:lx.off])}
	}
	return token.Token{Kind: kind, Span: lx.span(start), Text: string(lx.file.Content[start:lx.off])}
}

func (lx *Lexer) scanString(start uint32) token.Token {
	lx.off++ // opening quote
	for {
		c := lx.peek()
		if c == 0 || c == '\n' {
			sp := lx.span(start)
			lx.reporter.Report(diag.LexUnterminatedString, diag.SevError, sp, "unterminated string literal", nil)
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[start:lx.off])}
		}
		if c == '\\' && lx.peekAt(1) != 0 {
			lx.off += 2
			continue
		}
		lx.off++
		if c == '"' {
			break
		}
	}
	text := string(lx.file.Content[start+1 : lx.off-1])
	return token.Token{Kind: token.String, Span: lx.span(start), Text: text}
}

func (lx *Lexer) scanOperator(start uint32) token.Token {
	c := lx.file.Content[lx.off]
	lx.off++

	two := func(next byte, withNext, alone token.Kind) token.Token {
		if lx.peek() == next {
			lx.off++
			return token.Token{Kind: withNext, Span: lx.span(start)}
		}
		return token.Token{Kind: alone, Span: lx.span(start)}
	}

	switch c {
	case '(':
		return token.Token{Kind: token.LParen, Span: lx.span(start)}
	case ')':
		return token.Token{Kind: token.RParen, Span: lx.span(start)}
	case '{':
		return token.Token{Kind: token.LBrace, Span: lx.span(start)}
	case '}':
		return token.Token{Kind: token.RBrace, Span: lx.span(start)}
	case '[':
		return token.Token{Kind: token.LBracket, Span: lx.span(start)}
	case ']':
		return token.Token{Kind: token.RBracket, Span: lx.span(start)}
	case ',':
		return token.Token{Kind: token.Comma, Span: lx.span(start)}
	case '.':
		return token.Token{Kind: token.Dot, Span: lx.span(start)}
	case ';':
		return token.Token{Kind: token.Semicolon, Span: lx.span(start)}
	case ':':
		return token.Token{Kind: token.Colon, Span: lx.span(start)}
	case '@':
		return token.Token{Kind: token.At, Span: lx.span(start)}
	case '=':
		return two('=', token.Eq, token.Assign)
	case '+':
		return two('=', token.PlusEq, token.Plus)
	case '-':
		if lx.peek() == '>' {
			lx.off++
			return token.Token{Kind: token.Arrow, Span: lx.span(start)}
		}
		return two('=', token.MinusEq, token.Minus)
	case '*':
		return two('=', token.StarEq, token.Star)
	case '/':
		return two('=', token.SlashEq, token.Slash)
	case '%':
		return token.Token{Kind: token.Percent, Span: lx.span(start)}
	case '!':
		return two('=', token.NotEq, token.Bang)
	case '<':
		return two('=', token.LessEq, token.Less)
	case '>':
		return two('=', token.GreaterEq, token.Greater)
	case '&':
		if lx.peek() == '&' {
			lx.off++
			return token.Token{Kind: token.AndAnd, Span: lx.span(start)}
		}
	case '|':
		if lx.peek() == '|' {
			lx.off++
			return token.Token{Kind: token.OrOr, Span: lx.span(start)}
		}
	}

	sp := lx.span(start)
	lx.reporter.Report(diag.LexUnknownChar, diag.SevError, sp, "unknown character", nil)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[start:lx.off])}
}
