package ast

import (
	"zephyr/internal/source"
)

// ItemKind enumerates top-level declarations.
type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemStruct
)

// Item is the node header; substructure lives in per-kind payload arenas.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// Param is one function parameter. Type may be NoTypeID; users never write
// reference annotations, the ownership pass decides the passing mode.
type Param struct {
	Name source.StringID
	Type TypeID
	Span source.Span
}

type FnItem struct {
	Name   source.StringID
	Params []Param
	Return TypeID // NoTypeID for no return type
	Body   StmtID // StmtBlock
	Span   source.Span
}

// StructField is one declared field of a struct item.
type StructField struct {
	Name source.StringID
	Type TypeID
	Span source.Span
}

type StructItem struct {
	Name   source.StringID
	Fields []StructField
	// Derives holds attribute names from @derive(...); "Copy" puts the
	// struct in the always-copy category used by ownership inference.
	Derives []source.StringID
	Span    source.Span
}

// File is one parsed compilation-unit member holding its top-level items.
type FileNode struct {
	Span  source.Span
	Items []ItemID
}
