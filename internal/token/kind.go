package token

// Kind enumerates lexical token categories.
type Kind uint8

const (
	EOF Kind = iota
	Invalid

	Ident
	Int
	Float
	String

	// keywords
	KwFn
	KwLet
	KwStruct
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwTrue
	KwFalse

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Semicolon
	Colon
	Arrow // ->
	At    // @

	// operators
	Assign    // =
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Bang      // !
	PlusEq    // +=
	MinusEq   // -=
	StarEq    // *=
	SlashEq   // /=
	Eq        // ==
	NotEq     // !=
	Less      // <
	LessEq    // <=
	Greater   // >
	GreaterEq // >=
	AndAnd    // &&
	OrOr      // ||
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

var kindNames = [...]string{
	EOF:       "EOF",
	Invalid:   "invalid",
	Ident:     "identifier",
	Int:       "int literal",
	Float:     "float literal",
	String:    "string literal",
	KwFn:      "fn",
	KwLet:     "let",
	KwStruct:  "struct",
	KwReturn:  "return",
	KwIf:      "if",
	KwElse:    "else",
	KwWhile:   "while",
	KwFor:     "for",
	KwIn:      "in",
	KwTrue:    "true",
	KwFalse:   "false",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
	Comma:     ",",
	Dot:       ".",
	Semicolon: ";",
	Colon:     ":",
	Arrow:     "->",
	At:        "@",
	Assign:    "=",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Bang:      "!",
	PlusEq:    "+=",
	MinusEq:   "-=",
	StarEq:    "*=",
	SlashEq:   "/=",
	Eq:        "==",
	NotEq:     "!=",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
	AndAnd:    "&&",
	OrOr:      "||",
}
