package ownership

import (
	"fmt"

	"zephyr/internal/ast"
	"zephyr/internal/diag"
	"zephyr/internal/source"
)

// FunctionAnalysis is the result of one function's ownership pass.
type FunctionAnalysis struct {
	Item      ast.ItemID
	Fn        *ast.FnItem
	Bindings  []*Binding
	Signature Signature
	// Clones is the number of duplication markers inserted into the body.
	Clones int
}

// UnitAnalysis is the result of analyzing one compilation unit.
type UnitAnalysis struct {
	Functions []*FunctionAnalysis
	Copy      *CopySet
	Registry  *Registry
}

// AnalyzeFunction runs the full pipeline on one function: collect usage,
// decide every binding, publish the signature, then insert duplications.
// The signature is published before clone insertion so self-recursive calls
// inside the body resolve against the decided modes of a previous run, not
// this one; recursion still lands on the safe Owned default the first time.
func AnalyzeFunction(b *ast.Builder, item ast.ItemID, fn *ast.FnItem, cs *CopySet, reg *Registry, rep diag.Reporter) *FunctionAnalysis {
	bindings := CollectUsage(b, fn, reg)
	for _, bn := range bindings {
		Decide(b, cs, bn)
	}
	sig := BuildSignature(fn, bindings)
	if !reg.Publish(sig) {
		if prev, ok := reg.Lookup(fn.Name); ok && !sameSignature(prev, sig) {
			rep.Report(diag.OwnDuplicateSignature, diag.SevWarning, fn.Span,
				fmt.Sprintf("function `%s` is already published with a different signature; keeping the first", b.Name(fn.Name)), nil)
		}
	}
	clones := InsertClones(b, bindings, reg, rep)
	return &FunctionAnalysis{
		Item:      item,
		Fn:        fn,
		Bindings:  bindings,
		Signature: sig,
		Clones:    clones,
	}
}

func sameSignature(a, b Signature) bool {
	if len(a.Params) != len(b.Params) || a.Variadic != b.Variadic {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Mode != b.Params[i].Mode {
			return false
		}
	}
	return true
}

// AnalyzeUnit analyzes every function of the given files. Functions are
// visited callees-first so call sites see published signatures; cycles fall
// back to declaration order and resolve against the Owned default. The
// walk is deterministic: same input, same visit order, same output.
func AnalyzeUnit(b *ast.Builder, files []ast.FileID, reg *Registry, rep diag.Reporter) *UnitAnalysis {
	cs := NewCopySet()
	type fnEntry struct {
		item ast.ItemID
		fn   *ast.FnItem
	}
	var order []fnEntry
	byName := make(map[source.StringID]int)

	for _, fileID := range files {
		file := b.Files.Get(fileID)
		if file == nil {
			continue
		}
		for _, itemID := range file.Items {
			item := b.Items.Get(itemID)
			if item == nil {
				continue
			}
			switch item.Kind {
			case ast.ItemStruct:
				st, _ := b.Items.Struct(itemID)
				for _, d := range st.Derives {
					if b.Name(d) == "Copy" {
						cs.AddStruct(st.Name)
					}
				}
			case ast.ItemFn:
				fn, _ := b.Items.Fn(itemID)
				if _, dup := byName[fn.Name]; !dup {
					byName[fn.Name] = len(order)
				}
				order = append(order, fnEntry{item: itemID, fn: fn})
			}
		}
	}

	// Callee-first DFS over the local call graph, seeded in declaration
	// order. Back edges (recursion, mutual recursion) are skipped and the
	// involved callees keep declaration order.
	visited := make([]bool, len(order))
	onStack := make([]bool, len(order))
	var sorted []int
	var visit func(i int)
	visit = func(i int) {
		if visited[i] || onStack[i] {
			return
		}
		onStack[i] = true
		for _, callee := range calleeNames(b, order[i].fn.Body) {
			if j, ok := byName[callee]; ok {
				visit(j)
			}
		}
		onStack[i] = false
		visited[i] = true
		sorted = append(sorted, i)
	}
	for i := range order {
		visit(i)
	}

	unit := &UnitAnalysis{Copy: cs, Registry: reg}
	for _, i := range sorted {
		unit.Functions = append(unit.Functions,
			AnalyzeFunction(b, order[i].item, order[i].fn, cs, reg, rep))
	}
	return unit
}

// calleeNames lists every call target referenced in the statement tree, in
// first-appearance order.
func calleeNames(b *ast.Builder, body ast.StmtID) []source.StringID {
	var out []source.StringID
	seen := make(map[source.StringID]struct{})
	add := func(name source.StringID) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	var walkExpr func(id ast.ExprID)
	walkExpr = func(id ast.ExprID) {
		if !id.IsValid() {
			return
		}
		expr := b.Exprs.Get(id)
		if expr == nil {
			return
		}
		switch expr.Kind {
		case ast.ExprCall:
			data, _ := b.Exprs.Call(id)
			add(data.Callee)
			for _, a := range data.Args {
				walkExpr(a)
			}
		case ast.ExprMethodCall:
			data, _ := b.Exprs.MethodCall(id)
			add(data.Method)
			walkExpr(data.Recv)
			for _, a := range data.Args {
				walkExpr(a)
			}
		case ast.ExprBinary:
			data, _ := b.Exprs.Binary(id)
			walkExpr(data.Left)
			walkExpr(data.Right)
		case ast.ExprUnary:
			data, _ := b.Exprs.Unary(id)
			walkExpr(data.Operand)
		case ast.ExprMember:
			data, _ := b.Exprs.Member(id)
			walkExpr(data.Object)
		case ast.ExprIndex:
			data, _ := b.Exprs.Index(id)
			walkExpr(data.Object)
			walkExpr(data.Index)
		case ast.ExprStructLit:
			data, _ := b.Exprs.StructLit(id)
			for _, f := range data.Fields {
				walkExpr(f.Value)
			}
		case ast.ExprClone:
			data, _ := b.Exprs.Clone(id)
			walkExpr(data.Operand)
		}
	}

	var walkStmt func(id ast.StmtID)
	walkStmt = func(id ast.StmtID) {
		if !id.IsValid() {
			return
		}
		stmt := b.Stmts.Get(id)
		if stmt == nil {
			return
		}
		switch stmt.Kind {
		case ast.StmtBlock:
			data, _ := b.Stmts.Block(id)
			for _, s := range data.Stmts {
				walkStmt(s)
			}
		case ast.StmtLet:
			data, _ := b.Stmts.Let(id)
			walkExpr(data.Value)
		case ast.StmtAssign:
			data, _ := b.Stmts.Assign(id)
			walkExpr(data.Target)
			walkExpr(data.Value)
		case ast.StmtExpr:
			data, _ := b.Stmts.Expr(id)
			walkExpr(data.Expr)
		case ast.StmtReturn:
			data, _ := b.Stmts.Return(id)
			walkExpr(data.Value)
		case ast.StmtIf:
			data, _ := b.Stmts.If(id)
			walkExpr(data.Cond)
			walkStmt(data.Then)
			walkStmt(data.Else)
		case ast.StmtWhile:
			data, _ := b.Stmts.While(id)
			walkExpr(data.Cond)
			walkStmt(data.Body)
		case ast.StmtFor:
			data, _ := b.Stmts.For(id)
			walkExpr(data.Iterable)
			walkStmt(data.Body)
		}
	}
	walkStmt(body)
	return out
}
