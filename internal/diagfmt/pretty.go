// Package diagfmt renders diagnostics and token dumps for the CLI.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"zephyr/internal/diag"
	"zephyr/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	noteColor    = color.New(color.FgBlue)
)

// Pretty renders every diagnostic of the bag in a human-readable form:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  <source line>
//	  ^~~~
//
// followed by notes when enabled. Callers are expected to bag.Sort() first.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		path, lc := fs.Position(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			displayPath(path, fs, opts.PathMode), lc.Line, lc.Col,
			severityText(d.Severity, opts.Color), d.Code.String(), d.Message)
		writeContext(w, d.Primary, fs, opts.Color)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if n.Span == (source.Span{}) {
				fmt.Fprintf(w, "  %s: %s\n", noteText(opts.Color), n.Msg)
				continue
			}
			npath, nlc := fs.Position(n.Span)
			fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n",
				noteText(opts.Color), displayPath(npath, fs, opts.PathMode),
				nlc.Line, nlc.Col, n.Msg)
			writeContext(w, n.Span, fs, opts.Color)
		}
	}
}

// writeContext prints the offending source line with a caret underline
// aligned by display width, so wide runes before the span do not skew it.
func writeContext(w io.Writer, sp source.Span, fs *source.FileSet, colored bool) {
	_, lc := fs.Position(sp)
	line := fs.Line(sp.File, lc.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	col := int(lc.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	pad := runewidth.StringWidth(line[:col])

	width := int(sp.End) - int(sp.Start)
	if width < 1 {
		width = 1
	}
	if rest := len(line) - col; width > rest && rest > 0 {
		width = rest
	}
	underline := "^" + strings.Repeat("~", width-1)
	if colored {
		underline = errorColor.Sprint(underline)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), underline)
}

func severityText(sev diag.Severity, colored bool) string {
	if !colored {
		return sev.String()
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(sev.String())
	case diag.SevWarning:
		return warningColor.Sprint(sev.String())
	default:
		return infoColor.Sprint(sev.String())
	}
}

func noteText(colored bool) string {
	if !colored {
		return "note"
	}
	return noteColor.Sprint("note")
}

func displayPath(path string, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative:
		if rel, err := filepath.Rel(fs.BaseDir(), path); err == nil {
			return rel
		}
	}
	return path
}
