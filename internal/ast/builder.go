// Package ast holds the arena-allocated syntax tree shared by parsing,
// ownership analysis and code generation. One Builder backs one compilation
// unit: every node of the unit, including nodes allocated later by rewrite
// passes, must come from the same Builder so all references share one
// lifetime. The arenas are dropped together after code generation.
package ast

import (
	"zephyr/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs uint }

// Builder owns the arenas of one compilation unit plus the (shared,
// thread-safe) string interner.
type Builder struct {
	Files    *Files
	Items    *Items
	Stmts    *Stmts
	Exprs    *Exprs
	Types    *Types
	Interner *source.Interner
}

func NewBuilder(hints Hints, interner *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if interner == nil {
		interner = source.NewInterner()
	}
	return &Builder{
		Files:    NewFiles(hints.Files),
		Items:    NewItems(hints.Items),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Types:    NewTypes(hints.Exprs >> 2),
		Interner: interner,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// Intern is a shorthand for the builder's interner.
func (b *Builder) Intern(s string) source.StringID {
	return b.Interner.Intern(s)
}

// Name resolves an interned name, returning "" for unknown ids.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Interner.Lookup(id)
	return s
}
