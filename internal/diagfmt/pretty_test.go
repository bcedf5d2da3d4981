package diagfmt

import (
	"strings"
	"testing"

	"zephyr/internal/diag"
	"zephyr/internal/source"
)

func testBag(t *testing.T) (*diag.Bag, *source.FileSet, source.Span) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.zp", []byte("fn broken(\nlet x = 1\n"))
	sp := source.Span{File: id, Start: 3, End: 9}

	bag := diag.NewBag(8)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynUnexpectedToken,
		Message:  "unexpected token",
		Primary:  sp,
		Notes:    []diag.Note{{Span: sp, Msg: "while parsing a function item"}},
	})
	return bag, fs, sp
}

func TestPrettyPlain(t *testing.T) {
	bag, fs, _ := testBag(t)
	var out strings.Builder
	Pretty(&out, bag, fs, PrettyOpts{ShowNotes: true})

	got := out.String()
	for _, want := range []string{
		"demo.zp:1:4: ERROR ZPH2001: unexpected token",
		"  fn broken(",
		"  note:",
		"while parsing a function item",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	// Caret under column 4, underline spanning the token.
	if !strings.Contains(got, "\n     ^~~~~~\n") {
		t.Errorf("caret line misaligned:\n%s", got)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs, _ := testBag(t)
	var out strings.Builder
	if err := JSON(&out, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"\"severity\": \"ERROR\"",
		"\"code\": \"ZPH2001\"",
		"\"file\": \"demo.zp\"",
		"\"line\": 1",
		"\"col\": 4",
		"\"count\": 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON missing %q:\n%s", want, got)
		}
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, fs, sp := testBag(t)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.OwnPartialMove,
		Message:  "second",
		Primary:  sp,
	})
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, want 1", out.Count)
	}
}
