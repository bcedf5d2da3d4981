package ast

import (
	"zephyr/internal/source"
)

// Items manages allocation of top-level items.
type Items struct {
	Arena   *Arena[Item]
	Fns     *Arena[FnItem]
	Structs *Arena[StructItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:   NewArena[Item](capHint),
		Fns:     NewArena[FnItem](capHint),
		Structs: NewArena[StructItem](capHint),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the item with the given ID.
func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// NewFn creates a new function item.
func (i *Items) NewFn(span source.Span, name source.StringID, params []Param, ret TypeID, body StmtID) ItemID {
	payload := i.Fns.Allocate(FnItem{
		Name:   name,
		Params: params,
		Return: ret,
		Body:   body,
		Span:   span,
	})
	return i.new(ItemFn, span, PayloadID(payload))
}

// Fn returns the function data for the given item ID.
func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

// NewStruct creates a new struct item.
func (i *Items) NewStruct(span source.Span, name source.StringID, fields []StructField, derives []source.StringID) ItemID {
	payload := i.Structs.Allocate(StructItem{
		Name:    name,
		Fields:  fields,
		Derives: derives,
		Span:    span,
	})
	return i.new(ItemStruct, span, PayloadID(payload))
}

// Struct returns the struct data for the given item ID.
func (i *Items) Struct(id ItemID) (*StructItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemStruct {
		return nil, false
	}
	return i.Structs.Get(uint32(item.Payload)), true
}
