// Package token defines the lexical vocabulary of the Zephyr language.
package token

import (
	"zephyr/internal/source"
)

// Token is one lexical unit. Text is only populated for kinds that carry
// payload (identifiers and literals).
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn && t.Kind <= KwFalse
}

// IsAssignOp reports whether the token kind writes to its left operand.
func (t Token) IsAssignOp() bool {
	switch t.Kind {
	case Assign, PlusEq, MinusEq, StarEq, SlashEq:
		return true
	}
	return false
}
