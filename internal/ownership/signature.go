package ownership

import (
	"zephyr/internal/source"
)

// ReturnMode is the return-aliasing category of a signature. The current
// language always transfers ownership of return values; the category exists
// so callers never have to re-derive it.
type ReturnMode uint8

const (
	ReturnOwned ReturnMode = iota
)

// ParamSig is one parameter's published passing mode.
type ParamSig struct {
	Name source.StringID
	Mode Decision
}

// Signature is a function's ownership-annotated parameter list. It is
// published exactly once after the body is analyzed and never mutated
// afterwards; later call sites read it to reclassify their argument events.
type Signature struct {
	Name   source.StringID
	Params []ParamSig
	Return ReturnMode
	// Variadic marks builtins that accept any argument count with one
	// uniform mode (print and friends).
	Variadic bool
}

// ParamMode returns the passing mode of parameter i, defaulting to Owned
// for out-of-range indexes. Owned is the conservative default: it can cost
// an extra duplication but never hides a conflict.
func (s Signature) ParamMode(i int) Decision {
	if s.Variadic && len(s.Params) > 0 {
		return s.Params[0].Mode
	}
	if i < 0 || i >= len(s.Params) {
		return Owned
	}
	return s.Params[i].Mode
}
