package ast

import (
	"zephyr/internal/source"
)

// TypeNode is a declared type annotation: a plain name, possibly with type
// arguments (e.g. Vec<Point>). The surface language has no reference types;
// references exist only in the emitted target code.
type TypeNode struct {
	Name source.StringID
	Args []TypeID
	Span source.Span
}

// Types manages allocation of type annotations.
type Types struct {
	Arena *Arena[TypeNode]
}

func NewTypes(capHint uint) *Types {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Types{Arena: NewArena[TypeNode](capHint)}
}

// New allocates a type annotation node.
func (t *Types) New(span source.Span, name source.StringID, args []TypeID) TypeID {
	return TypeID(t.Arena.Allocate(TypeNode{Name: name, Args: args, Span: span}))
}

// Get returns the type node with the given ID.
func (t *Types) Get(id TypeID) *TypeNode {
	return t.Arena.Get(uint32(id))
}
