package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"struct": KwStruct,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"for":    KwFor,
	"in":     KwIn,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword maps an identifier spelling to its keyword kind.
func LookupKeyword(s string) (Kind, bool) {
	k, ok := keywords[s]
	return k, ok
}
