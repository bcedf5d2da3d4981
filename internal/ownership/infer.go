package ownership

import (
	"zephyr/internal/ast"
	"zephyr/internal/source"
)

// copyPrimitives are the type names whose values duplicate implicitly on
// use. A binding of one of these is always passed by value.
var copyPrimitives = map[string]struct{}{
	"int": {}, "uint": {}, "usize": {}, "isize": {},
	"i8": {}, "i16": {}, "i32": {}, "i64": {}, "i128": {},
	"u8": {}, "u16": {}, "u32": {}, "u64": {}, "u128": {},
	"f32": {}, "f64": {}, "float": {},
	"bool": {}, "char": {},
}

// CopySet tracks types with implicit-duplication semantics for one
// compilation unit: the fixed primitives plus structs annotated with a
// Copy derive.
type CopySet struct {
	structs map[source.StringID]struct{}
}

func NewCopySet() *CopySet {
	return &CopySet{structs: make(map[source.StringID]struct{})}
}

// AddStruct marks a user struct as implicitly duplicating.
func (cs *CopySet) AddStruct(name source.StringID) {
	cs.structs[name] = struct{}{}
}

// Contains reports whether the named type duplicates implicitly.
func (cs *CopySet) Contains(b *ast.Builder, name source.StringID) bool {
	if _, ok := copyPrimitives[b.Name(name)]; ok {
		return true
	}
	_, ok := cs.structs[name]
	return ok
}

// isCopyType resolves a binding's declared type against cs. Unannotated
// bindings are never copy: the bias is toward borrowing, not toward
// assuming cheap duplication.
func isCopyType(b *ast.Builder, cs *CopySet, typeID ast.TypeID) bool {
	if !typeID.IsValid() {
		return false
	}
	tn := b.Types.Get(typeID)
	if tn == nil || len(tn.Args) > 0 {
		return false
	}
	return cs.Contains(b, tn.Name)
}

// Decide derives the final passing mode for one binding from its collected
// events. The rules apply in strict order; the first match wins:
//
//  1. any mutation anywhere           -> MutBorrowed
//  2. returned bare                   -> Owned
//  3. implicitly-duplicating type     -> Owned (by-value)
//  4. only reads                      -> Borrowed
//  5. otherwise (a move/store exists) -> Owned, flagged for clone analysis
func Decide(b *ast.Builder, cs *CopySet, bn *Binding) Decision {
	hasMove := false
	hasReturn := false
	onlyReads := true
	for i := range bn.Events {
		switch bn.Events[i].Kind {
		case EventMutate:
			bn.Decision = MutBorrowed
			return MutBorrowed
		case EventMove, EventStore:
			hasMove = true
			onlyReads = false
		case EventReturn:
			hasReturn = true
			onlyReads = false
		case EventShadow:
			// Scope end, not a use.
		}
	}

	switch {
	case hasReturn:
		bn.Decision = Owned
	case isCopyType(b, cs, bn.Type):
		bn.Decision = Owned
	case onlyReads:
		bn.Decision = Borrowed
	default:
		bn.Decision = Owned
		bn.moveFlagged = hasMove
	}
	return bn.Decision
}

// BuildSignature derives the publishable signature of fn from its decided
// parameter bindings. Bindings arrive parameters-first from CollectUsage.
func BuildSignature(fn *ast.FnItem, bindings []*Binding) Signature {
	sig := Signature{Name: fn.Name, Return: ReturnOwned}
	sig.Params = make([]ParamSig, len(fn.Params))
	for i, p := range fn.Params {
		sig.Params[i] = ParamSig{Name: p.Name, Mode: Owned}
	}
	for _, bn := range bindings {
		if bn.IsParam && bn.ParamIndex >= 0 && bn.ParamIndex < len(sig.Params) {
			sig.Params[bn.ParamIndex].Mode = bn.Decision
		}
	}
	return sig
}
