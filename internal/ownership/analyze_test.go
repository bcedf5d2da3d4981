package ownership

import (
	"testing"

	"zephyr/internal/ast"
	"zephyr/internal/diag"
	"zephyr/internal/source"
)

var noSpan = source.Span{}

// fixture wires one builder, one registry and one diagnostic bag the way
// the driver does for a compilation unit.
type fixture struct {
	b    *ast.Builder
	reg  *Registry
	bag  *diag.Bag
	rep  diag.BagReporter
	file ast.FileID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, source.NewInterner())
	bag := diag.NewBag(64)
	f := &fixture{
		b:    b,
		reg:  NewRegistry(),
		bag:  bag,
		rep:  diag.BagReporter{Bag: bag},
		file: b.NewFile(noSpan),
	}
	SeedBuiltins(f.reg, b.Interner)
	return f
}

func (f *fixture) ident(name string) ast.ExprID {
	return f.b.Exprs.NewIdent(noSpan, f.b.Intern(name))
}

func (f *fixture) intLit(v string) ast.ExprID {
	return f.b.Exprs.NewLiteral(noSpan, ast.ExprLitInt, f.b.Intern(v))
}

func (f *fixture) call(name string, args ...ast.ExprID) ast.ExprID {
	return f.b.Exprs.NewCall(noSpan, f.b.Intern(name), args)
}

func (f *fixture) method(recv ast.ExprID, name string, args ...ast.ExprID) ast.ExprID {
	return f.b.Exprs.NewMethodCall(noSpan, recv, f.b.Intern(name), args)
}

func (f *fixture) member(obj ast.ExprID, field string) ast.ExprID {
	return f.b.Exprs.NewMember(noSpan, obj, f.b.Intern(field))
}

func (f *fixture) exprStmt(e ast.ExprID) ast.StmtID {
	return f.b.Stmts.NewExpr(noSpan, e)
}

func (f *fixture) typ(name string) ast.TypeID {
	return f.b.Types.New(noSpan, f.b.Intern(name), nil)
}

func (f *fixture) let(name string, value ast.ExprID) ast.StmtID {
	return f.b.Stmts.NewLet(noSpan, f.b.Intern(name), ast.NoTypeID, value)
}

func (f *fixture) ret(value ast.ExprID) ast.StmtID {
	return f.b.Stmts.NewReturn(noSpan, value)
}

func (f *fixture) param(name string, typeID ast.TypeID) ast.Param {
	return ast.Param{Name: f.b.Intern(name), Type: typeID}
}

func (f *fixture) fn(name string, params []ast.Param, stmts ...ast.StmtID) ast.ItemID {
	body := f.b.Stmts.NewBlock(noSpan, stmts)
	item := f.b.Items.NewFn(noSpan, f.b.Intern(name), params, ast.NoTypeID, body)
	f.b.PushItem(f.file, item)
	return item
}

func (f *fixture) analyze() *UnitAnalysis {
	return AnalyzeUnit(f.b, []ast.FileID{f.file}, f.reg, f.rep)
}

func fnResult(t *testing.T, f *fixture, unit *UnitAnalysis, name string) *FunctionAnalysis {
	t.Helper()
	for _, fa := range unit.Functions {
		if f.b.Name(fa.Fn.Name) == name {
			return fa
		}
	}
	t.Fatalf("no analysis result for function %q", name)
	return nil
}

func bindingOf(t *testing.T, f *fixture, fa *FunctionAnalysis, name string) *Binding {
	t.Helper()
	for _, bn := range fa.Bindings {
		if f.b.Name(bn.Name) == name {
			return bn
		}
	}
	t.Fatalf("no binding %q in function %q", name, f.b.Name(fa.Fn.Name))
	return nil
}

func TestReadOnlyParamIsBorrowed(t *testing.T) {
	f := newFixture(t)
	// fn show(s) { println(s) }
	f.fn("show", []ast.Param{f.param("s", ast.NoTypeID)},
		f.exprStmt(f.call("println", f.ident("s"))),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "show")
	if got := bindingOf(t, f, fa, "s").Decision; got != Borrowed {
		t.Fatalf("s decision = %s, want borrowed", got)
	}
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.bag.Items())
	}
}

func TestRebindThenReturnIsOwned(t *testing.T) {
	f := newFixture(t)
	// fn pass(x) { let y = x; return y }
	letStmt := f.let("y", f.ident("x"))
	f.fn("pass", []ast.Param{f.param("x", ast.NoTypeID)},
		letStmt,
		f.ret(f.ident("y")),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "pass")
	if got := bindingOf(t, f, fa, "x").Decision; got != Owned {
		t.Fatalf("x decision = %s, want owned", got)
	}
	if got := bindingOf(t, f, fa, "y").Decision; got != Owned {
		t.Fatalf("y decision = %s, want owned", got)
	}
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
	// The final move into y must stay a plain identifier.
	data, _ := f.b.Stmts.Let(letStmt)
	if f.b.Exprs.Get(data.Value).Kind != ast.ExprIdent {
		t.Fatalf("let initializer was rewritten, want untouched identifier")
	}
}

func TestReadThenFinalMoveIsOwnedWithoutClone(t *testing.T) {
	f := newFixture(t)
	// fn f(x) { println(x.len()); consume(x) }  -- consume is unknown
	consumeCall := f.call("consume", f.ident("x"))
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID)},
		f.exprStmt(f.call("println", f.method(f.ident("x"), "len"))),
		f.exprStmt(consumeCall),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	if got := bindingOf(t, f, fa, "x").Decision; got != Owned {
		t.Fatalf("x decision = %s, want owned", got)
	}
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	if f.b.Exprs.Get(data.Args[0]).Kind != ast.ExprIdent {
		t.Fatalf("final move was wrapped in a duplication")
	}
}

func TestMoveThenLaterUseInsertsClone(t *testing.T) {
	f := newFixture(t)
	// fn f(x) { consume(x); println(x) }
	consumeCall := f.call("consume", f.ident("x"))
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID)},
		f.exprStmt(consumeCall),
		f.exprStmt(f.call("println", f.ident("x"))),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	if got := bindingOf(t, f, fa, "x").Decision; got != Owned {
		t.Fatalf("x decision = %s, want owned", got)
	}
	if fa.Clones != 1 {
		t.Fatalf("inserted %d clones, want 1", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	cl, ok := f.b.Exprs.Clone(data.Args[0])
	if !ok {
		t.Fatalf("consume argument not wrapped in a duplication")
	}
	if f.b.Exprs.Get(cl.Operand).Kind != ast.ExprIdent {
		t.Fatalf("duplication wraps %v, want the original identifier", f.b.Exprs.Get(cl.Operand).Kind)
	}
}

func TestMutationDominatesMove(t *testing.T) {
	f := newFixture(t)
	// fn f(x) { x.push(1); consume(x) }
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID)},
		f.exprStmt(f.method(f.ident("x"), "push", f.intLit("1"))),
		f.exprStmt(f.call("consume", f.ident("x"))),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	if got := bindingOf(t, f, fa, "x").Decision; got != MutBorrowed {
		t.Fatalf("x decision = %s, want mut-borrowed", got)
	}
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
}

func TestMutationOnOneBranchDominatesReads(t *testing.T) {
	f := newFixture(t)
	// fn f(v, flag) { if flag { v.push(1) } else { println(v) } }
	then := f.b.Stmts.NewBlock(noSpan, []ast.StmtID{
		f.exprStmt(f.method(f.ident("v"), "push", f.intLit("1"))),
	})
	els := f.b.Stmts.NewBlock(noSpan, []ast.StmtID{
		f.exprStmt(f.call("println", f.ident("v"))),
	})
	f.fn("f", []ast.Param{f.param("v", ast.NoTypeID), f.param("flag", ast.NoTypeID)},
		f.b.Stmts.NewIf(noSpan, f.ident("flag"), then, els),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	// The read-only branch must not soften the decision.
	if got := bindingOf(t, f, fa, "v").Decision; got != MutBorrowed {
		t.Fatalf("v decision = %s, want mut-borrowed", got)
	}
	if got := bindingOf(t, f, fa, "flag").Decision; got != Borrowed {
		t.Fatalf("flag decision = %s, want borrowed", got)
	}
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
}

func TestMoveOnOneBranchThenLaterUseInsertsClone(t *testing.T) {
	f := newFixture(t)
	// fn f(x, flag) { if flag { consume(x) } println(x) }
	consumeCall := f.call("consume", f.ident("x"))
	then := f.b.Stmts.NewBlock(noSpan, []ast.StmtID{f.exprStmt(consumeCall)})
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID), f.param("flag", ast.NoTypeID)},
		f.b.Stmts.NewIf(noSpan, f.ident("flag"), then, ast.NoStmtID),
		f.exprStmt(f.call("println", f.ident("x"))),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	// The branch may or may not run; the later read forces the duplicate.
	if got := bindingOf(t, f, fa, "x").Decision; got != Owned {
		t.Fatalf("x decision = %s, want owned", got)
	}
	if fa.Clones != 1 {
		t.Fatalf("inserted %d clones, want 1", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	if _, ok := f.b.Exprs.Clone(data.Args[0]); !ok {
		t.Fatalf("branch move not wrapped in a duplication")
	}
}

func TestAssignThroughFieldChainMutatesRoot(t *testing.T) {
	f := newFixture(t)
	// fn f(o) { o.inner.count = 1 }
	target := f.member(f.member(f.ident("o"), "inner"), "count")
	f.fn("f", []ast.Param{f.param("o", ast.NoTypeID)},
		f.b.Stmts.NewAssign(noSpan, target, ast.AssignSet, f.intLit("1")),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	if got := bindingOf(t, f, fa, "o").Decision; got != MutBorrowed {
		t.Fatalf("o decision = %s, want mut-borrowed", got)
	}
}

func TestBorrowedCalleeReclassifiesArgumentAsRead(t *testing.T) {
	f := newFixture(t)
	// fn reader(s) { println(s) }
	// fn f(x)      { reader(x); reader(x) }
	f.fn("reader", []ast.Param{f.param("s", ast.NoTypeID)},
		f.exprStmt(f.call("println", f.ident("s"))),
	)
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID)},
		f.exprStmt(f.call("reader", f.ident("x"))),
		f.exprStmt(f.call("reader", f.ident("x"))),
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	if got := bindingOf(t, f, fa, "x").Decision; got != Borrowed {
		t.Fatalf("x decision = %s, want borrowed (reader takes its param by reference)", got)
	}
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
}

func TestCalleeAnalyzedBeforeCallerRegardlessOfOrder(t *testing.T) {
	f := newFixture(t)
	// Caller first in declaration order; the unit walk must still analyze
	// helper before f.
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID)},
		f.exprStmt(f.call("helper", f.ident("x"))),
	)
	f.fn("helper", []ast.Param{f.param("s", ast.NoTypeID)},
		f.exprStmt(f.call("println", f.ident("s"))),
	)

	unit := f.analyze()
	if got := f.b.Name(unit.Functions[0].Fn.Name); got != "helper" {
		t.Fatalf("first analyzed function = %q, want helper", got)
	}
	fa := fnResult(t, f, unit, "f")
	if got := bindingOf(t, f, fa, "x").Decision; got != Borrowed {
		t.Fatalf("x decision = %s, want borrowed", got)
	}
}

func TestMoveInsideLoopInsertsClone(t *testing.T) {
	f := newFixture(t)
	// fn f(x, items) { for it in items { consume(x) } }
	consumeCall := f.call("consume", f.ident("x"))
	body := f.b.Stmts.NewBlock(noSpan, []ast.StmtID{f.exprStmt(consumeCall)})
	loop := f.b.Stmts.NewFor(noSpan, f.b.Intern("it"), f.ident("items"), body)
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID), f.param("items", ast.NoTypeID)},
		loop,
	)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	if fa.Clones != 1 {
		t.Fatalf("inserted %d clones, want 1 (moved every iteration)", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	if _, ok := f.b.Exprs.Clone(data.Args[0]); !ok {
		t.Fatalf("loop move not wrapped in a duplication")
	}
}

func TestLoopBindingMovedEveryIterationInsertsClone(t *testing.T) {
	f := newFixture(t)
	// fn f(items) { for item in items { consume(item); println(item) } }
	consumeCall := f.call("consume", f.ident("item"))
	printlnCall := f.call("println", f.ident("item"))
	body := f.b.Stmts.NewBlock(noSpan, []ast.StmtID{
		f.exprStmt(consumeCall),
		f.exprStmt(printlnCall),
	})
	loop := f.b.Stmts.NewFor(noSpan, f.b.Intern("item"), f.ident("items"), body)
	f.fn("f", []ast.Param{f.param("items", ast.NoTypeID)}, loop)

	unit := f.analyze()
	fa := fnResult(t, f, unit, "f")
	if got := bindingOf(t, f, fa, "items").Decision; got != Borrowed {
		t.Fatalf("items decision = %s, want borrowed", got)
	}
	if got := bindingOf(t, f, fa, "item").Decision; got != Owned {
		t.Fatalf("item decision = %s, want owned", got)
	}
	if fa.Clones != 1 {
		t.Fatalf("inserted %d clones, want 1 (moved every iteration)", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	if _, ok := f.b.Exprs.Clone(data.Args[0]); !ok {
		t.Fatalf("loop-binding move not wrapped in a duplication")
	}
	read, _ := f.b.Exprs.Call(printlnCall)
	if f.b.Exprs.Get(read.Args[0]).Kind != ast.ExprIdent {
		t.Fatalf("loop read was rewritten")
	}
}

func TestShareHandleMoveReportsAndStaysUnmodified(t *testing.T) {
	f := newFixture(t)
	// fn f(h: Rc) { consume(h); println(h) }
	consumeCall := f.call("consume", f.ident("h"))
	f.fn("f", []ast.Param{f.param("h", f.typ("Rc"))},
		f.exprStmt(consumeCall),
		f.exprStmt(f.call("println", f.ident("h"))),
	)

	fa := fnResult(t, f, f.analyze(), "f")
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	if f.b.Exprs.Get(data.Args[0]).Kind != ast.ExprIdent {
		t.Fatalf("share handle argument was rewritten")
	}
	if !hasCode(f.bag, diag.OwnShareHandleClone) {
		t.Fatalf("missing share-handle diagnostic, got %v", f.bag.Items())
	}
}

func TestPartialMoveReportsAndStaysUnmodified(t *testing.T) {
	f := newFixture(t)
	// fn f(o) { consume(o.inner); println(o) }
	consumeCall := f.call("consume", f.member(f.ident("o"), "inner"))
	f.fn("f", []ast.Param{f.param("o", ast.NoTypeID)},
		f.exprStmt(consumeCall),
		f.exprStmt(f.call("println", f.ident("o"))),
	)

	fa := fnResult(t, f, f.analyze(), "f")
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	if f.b.Exprs.Get(data.Args[0]).Kind != ast.ExprMember {
		t.Fatalf("partial move argument was rewritten")
	}
	if !hasCode(f.bag, diag.OwnPartialMove) {
		t.Fatalf("missing partial-move diagnostic, got %v", f.bag.Items())
	}
}

func TestMultiUseInOneExpressionReports(t *testing.T) {
	f := newFixture(t)
	// fn f(x) { combine(x, x) }
	combineCall := f.call("combine", f.ident("x"), f.ident("x"))
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID)},
		f.exprStmt(combineCall),
	)

	fa := fnResult(t, f, f.analyze(), "f")
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(combineCall)
	for i, arg := range data.Args {
		if f.b.Exprs.Get(arg).Kind != ast.ExprIdent {
			t.Fatalf("argument %d was rewritten", i)
		}
	}
	if !hasCode(f.bag, diag.OwnMultiUseInExpression) {
		t.Fatalf("missing multi-use diagnostic, got %v", f.bag.Items())
	}
}

func TestCopyTypeSkipsCloneAnalysis(t *testing.T) {
	f := newFixture(t)
	// fn f(n: int) { consume(n); println(n) }
	consumeCall := f.call("consume", f.ident("n"))
	f.fn("f", []ast.Param{f.param("n", f.typ("int"))},
		f.exprStmt(consumeCall),
		f.exprStmt(f.call("println", f.ident("n"))),
	)

	fa := fnResult(t, f, f.analyze(), "f")
	bn := bindingOf(t, f, fa, "n")
	if bn.Decision != Owned {
		t.Fatalf("n decision = %s, want owned (by value)", bn.Decision)
	}
	if bn.NeedsCloneAnalysis() {
		t.Fatalf("copy-typed binding flagged for clone analysis")
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	if f.b.Exprs.Get(data.Args[0]).Kind != ast.ExprIdent {
		t.Fatalf("copy-typed argument was rewritten")
	}
}

func TestDeriveCopyStructSkipsCloneAnalysis(t *testing.T) {
	f := newFixture(t)
	// @derive(Copy) struct Point { x: int }
	// fn f(p: Point) { consume(p); println(p) }
	f.b.PushItem(f.file, f.b.Items.NewStruct(noSpan, f.b.Intern("Point"),
		[]ast.StructField{{Name: f.b.Intern("x"), Type: f.typ("int")}},
		[]source.StringID{f.b.Intern("Copy")},
	))
	f.fn("f", []ast.Param{f.param("p", f.typ("Point"))},
		f.exprStmt(f.call("consume", f.ident("p"))),
		f.exprStmt(f.call("println", f.ident("p"))),
	)

	fa := fnResult(t, f, f.analyze(), "f")
	bn := bindingOf(t, f, fa, "p")
	if bn.Decision != Owned || bn.NeedsCloneAnalysis() {
		t.Fatalf("p decision = %s (clone analysis %v), want owned by value",
			bn.Decision, bn.NeedsCloneAnalysis())
	}
}

func TestStoreIntoStructLiteralInsertsClone(t *testing.T) {
	f := newFixture(t)
	// fn f(x) { let w = Wrapper { inner: x }; println(x) }
	lit := f.b.Exprs.NewStructLit(noSpan, f.b.Intern("Wrapper"),
		[]ast.StructLitField{{Name: f.b.Intern("inner"), Value: f.ident("x")}})
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID)},
		f.let("w", lit),
		f.exprStmt(f.call("println", f.ident("x"))),
	)

	fa := fnResult(t, f, f.analyze(), "f")
	if fa.Clones != 1 {
		t.Fatalf("inserted %d clones, want 1", fa.Clones)
	}
	data, _ := f.b.Exprs.StructLit(lit)
	if _, ok := f.b.Exprs.Clone(data.Fields[0].Value); !ok {
		t.Fatalf("struct literal field not wrapped in a duplication")
	}
}

func TestShadowEndsTheBinding(t *testing.T) {
	f := newFixture(t)
	// fn f(x) { consume(x); let x = make(); println(x) }
	consumeCall := f.call("consume", f.ident("x"))
	f.fn("f", []ast.Param{f.param("x", ast.NoTypeID)},
		f.exprStmt(consumeCall),
		f.let("x", f.call("make")),
		f.exprStmt(f.call("println", f.ident("x"))),
	)

	fa := fnResult(t, f, f.analyze(), "f")
	if fa.Clones != 0 {
		t.Fatalf("inserted %d clones, want 0 (use after rebind is a new binding)", fa.Clones)
	}
	data, _ := f.b.Exprs.Call(consumeCall)
	if f.b.Exprs.Get(data.Args[0]).Kind != ast.ExprIdent {
		t.Fatalf("final move before rebind was rewritten")
	}
}

func TestSignaturesArePublished(t *testing.T) {
	f := newFixture(t)
	f.fn("mix", []ast.Param{
		f.param("a", ast.NoTypeID), // read only
		f.param("b", ast.NoTypeID), // mutated
		f.param("c", ast.NoTypeID), // moved
	},
		f.exprStmt(f.call("println", f.ident("a"))),
		f.exprStmt(f.method(f.ident("b"), "push", f.intLit("1"))),
		f.exprStmt(f.call("consume", f.ident("c"))),
	)

	f.analyze()
	sig, ok := f.reg.Lookup(f.b.Intern("mix"))
	if !ok {
		t.Fatalf("signature for mix not published")
	}
	want := []Decision{Borrowed, MutBorrowed, Owned}
	for i, w := range want {
		if got := sig.ParamMode(i); got != w {
			t.Errorf("param %d mode = %s, want %s", i, got, w)
		}
	}
}

func TestAnalysisIsDeterministic(t *testing.T) {
	build := func() (string, int) {
		f := newFixture(t)
		f.fn("f", []ast.Param{f.param("x", ast.NoTypeID), f.param("y", ast.NoTypeID)},
			f.exprStmt(f.call("consume", f.ident("x"))),
			f.exprStmt(f.call("println", f.ident("x"))),
			f.exprStmt(f.method(f.ident("y"), "push", f.intLit("1"))),
		)
		f.fn("g", []ast.Param{f.param("z", ast.NoTypeID)},
			f.exprStmt(f.call("f", f.ident("z"), f.ident("z"))),
		)
		unit := f.analyze()
		out := ""
		clones := 0
		for _, fa := range unit.Functions {
			out += f.b.Name(fa.Fn.Name) + ":"
			for _, bn := range fa.Bindings {
				out += f.b.Name(bn.Name) + "=" + bn.Decision.String() + ";"
			}
			clones += fa.Clones
		}
		return out, clones
	}

	first, firstClones := build()
	for i := 0; i < 5; i++ {
		got, clones := build()
		if got != first || clones != firstClones {
			t.Fatalf("run %d diverged:\n  first: %s (%d clones)\n  got:   %s (%d clones)",
				i, first, firstClones, got, clones)
		}
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
