package driver

import (
	"fmt"

	"zephyr/internal/diag"
	"zephyr/internal/lexer"
	"zephyr/internal/source"
	"zephyr/internal/token"
)

// TokenizeFile lexes one file to completion, including the trailing EOF
// token, reporting lexical diagnostics through rep.
func TokenizeFile(path string, rep diag.Reporter) ([]token.Token, *source.FileSet, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	lx := lexer.New(fileSet.Get(id), lexer.Options{Reporter: rep})
	var toks []token.Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return toks, fileSet, nil
}
