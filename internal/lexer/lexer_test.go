package lexer

import (
	"testing"

	"zephyr/internal/diag"
	"zephyr/internal/source"
	"zephyr/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.zp", []byte(src))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})

	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, bag
		}
		if len(out) > 10000 {
			t.Fatal("lexer did not reach EOF")
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenStream(t *testing.T) {
	toks, bag := lexAll(t, "fn main() -> int { let x = 1 + 2.5; }")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.KwFn, token.Ident, token.LParen, token.RParen, token.Arrow,
		token.Ident, token.LBrace, token.KwLet, token.Ident, token.Assign,
		token.Int, token.Plus, token.Float, token.Semicolon, token.RBrace,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if toks[1].Text != "main" {
		t.Errorf("ident text = %q, want %q", toks[1].Text, "main")
	}
	if toks[12].Text != "2.5" {
		t.Errorf("float text = %q, want %q", toks[12].Text, "2.5")
	}
}

func TestKeywordsAndIdents(t *testing.T) {
	toks, _ := lexAll(t, "if else while for in return struct true false iffy")
	want := []token.Kind{
		token.KwIf, token.KwElse, token.KwWhile, token.KwFor, token.KwIn,
		token.KwReturn, token.KwStruct, token.KwTrue, token.KwFalse,
		token.Ident, token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if toks[9].Text != "iffy" {
		t.Errorf("keyword-prefixed ident got %q", toks[9].Text)
	}
}

func TestCompoundOperators(t *testing.T) {
	toks, bag := lexAll(t, "== != <= >= += -= *= /= && || -> < > = !")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.Eq, token.NotEq, token.LessEq, token.GreaterEq,
		token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq,
		token.AndAnd, token.OrOr, token.Arrow,
		token.Less, token.Greater, token.Assign, token.Bang,
		token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestStringLiteralStoresInnerText(t *testing.T) {
	toks, bag := lexAll(t, `let s = "hi \"there\"\n"`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if toks[3].Kind != token.String {
		t.Fatalf("got %s, want string literal", toks[3].Kind)
	}
	if want := `hi \"there\"\n`; toks[3].Text != want {
		t.Errorf("string text = %q, want %q", toks[3].Text, want)
	}
}

func TestUnterminatedStringReports(t *testing.T) {
	_, bag := lexAll(t, "let s = \"oops\nlet t = 1")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LexUnterminatedString {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s, got %v", diag.LexUnterminatedString, bag.Items())
	}
}

func TestBadNumberReports(t *testing.T) {
	toks, bag := lexAll(t, "1abc")
	if toks[0].Kind != token.Invalid {
		t.Errorf("got %s, want invalid token", toks[0].Kind)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LexBadNumber {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s, got %v", diag.LexBadNumber, bag.Items())
	}
}

func TestUnknownCharReports(t *testing.T) {
	toks, bag := lexAll(t, "let x = $")
	last := toks[len(toks)-2]
	if last.Kind != token.Invalid {
		t.Errorf("got %s, want invalid token", last.Kind)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LexUnknownChar {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s, got %v", diag.LexUnknownChar, bag.Items())
	}
}

func TestCommentsAndWhitespaceAreTrivia(t *testing.T) {
	toks, bag := lexAll(t, "// a comment\nlet x // trailing\n// last line")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{token.KwLet, token.Ident, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEOFIsSticky(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("empty.zp", nil)
	lx := New(fs.Get(id), Options{})
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("call %d: got %s, want EOF", i, tok.Kind)
		}
	}
}

func TestIdentNFCNormalization(t *testing.T) {
	// Decomposed Hangul Jamo are letters, so the scanner accepts them and
	// NFC composes the sequence to one syllable. Both spellings must yield
	// the same identifier text.
	composed := "\ud55c"
	decomposed := "\u1112\u1161\u11ab"
	toksA, _ := lexAll(t, composed)
	toksB, _ := lexAll(t, decomposed)
	if toksA[0].Text != toksB[0].Text {
		t.Errorf("NFC mismatch: %q vs %q", toksA[0].Text, toksB[0].Text)
	}
}

func TestSpansPointIntoSource(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("spans.zp", []byte("let value = 10"))
	lx := New(fs.Get(id), Options{})
	lx.Next() // let
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("got %s, want identifier", tok.Kind)
	}
	_, lc := fs.Position(tok.Span)
	if lc.Line != 1 || lc.Col != 5 {
		t.Errorf("position = %d:%d, want 1:5", lc.Line, lc.Col)
	}
	if tok.Span.Len() != uint32(len("value")) {
		t.Errorf("span length = %d, want %d", tok.Span.Len(), len("value"))
	}
}
