package codegen

import (
	"strings"

	"zephyr/internal/ast"
)

// primitiveTypes maps surface type names onto Rust spellings. Names not in
// the table pass through unchanged (user structs, fixed-width numerics).
var primitiveTypes = map[string]string{
	"int":    "i64",
	"uint":   "u64",
	"usize":  "usize",
	"isize":  "isize",
	"float":  "f64",
	"string": "String",
	"Map":    "std::collections::HashMap",
	"Rc":     "std::rc::Rc",
	"Arc":    "std::sync::Arc",
	"Shared": "std::sync::Arc",
}

// rustType renders a declared type annotation in Rust syntax.
func rustType(b *ast.Builder, id ast.TypeID) string {
	tn := b.Types.Get(id)
	if tn == nil {
		return "()"
	}
	name := b.Name(tn.Name)
	if mapped, ok := primitiveTypes[name]; ok {
		name = mapped
	}
	if len(tn.Args) == 0 {
		return name
	}
	args := make([]string, len(tn.Args))
	for i, a := range tn.Args {
		args[i] = rustType(b, a)
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}
