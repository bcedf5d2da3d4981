// Package codegen renders an analyzed compilation unit as Rust source.
// Ownership decisions become reference annotations, duplication markers
// become .clone() calls; the emitted code carries no other transformation.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"zephyr/internal/ast"
	"zephyr/internal/ownership"
	"zephyr/internal/source"
)

// builtinMacros maps runtime builtins onto Rust macro invocations.
var builtinMacros = map[string]string{
	"println":  "println!",
	"print":    "print!",
	"eprintln": "eprintln!",
	"format":   "format!",
	"log":      "eprintln!",
}

// defaultDerives are attached to every emitted struct so inserted
// duplications always have a Clone impl to call.
var defaultDerives = []string{"Debug", "Clone"}

type emitter struct {
	b     *ast.Builder
	unit  *ownership.UnitAnalysis
	buf   strings.Builder
	depth int

	// per-function state
	paramModes map[source.StringID]ownership.Decision
	localMut   map[source.StringID]bool
}

// EmitUnit renders all items of the given files in declaration order.
func EmitUnit(b *ast.Builder, unit *ownership.UnitAnalysis, files []ast.FileID) string {
	e := &emitter{b: b, unit: unit}
	e.line("// Generated by the zephyr compiler; do not edit.")
	e.line("")

	byItem := make(map[ast.ItemID]*ownership.FunctionAnalysis, len(unit.Functions))
	for _, fa := range unit.Functions {
		byItem[fa.Item] = fa
	}

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
				e.emitStruct(st)
			case ast.ItemFn:
				fn, _ := b.Items.Fn(itemID)
				e.emitFn(fn, byItem[itemID])
			}
			e.line("")
		}
	}
	return strings.TrimRight(e.buf.String(), "\n") + "\n"
}

func (e *emitter) line(s string) {
	for i := 0; i < e.depth; i++ {
		e.buf.WriteString("    ")
	}
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

func (e *emitter) emitStruct(st *ast.StructItem) {
	derives := append([]string(nil), defaultDerives...)
	for _, d := range st.Derives {
		name := e.b.Name(d)
		dup := false
		for _, have := range derives {
			if have == name {
				dup = true
				break
			}
		}
		if !dup {
			derives = append(derives, name)
		}
	}
	e.line("#[derive(" + strings.Join(derives, ", ") + ")]")
	e.line("pub struct " + e.b.Name(st.Name) + " {")
	e.depth++
	for _, f := range st.Fields {
		e.line("pub " + e.b.Name(f.Name) + ": " + rustType(e.b, f.Type) + ",")
	}
	e.depth--
	e.line("}")
}

// emitFn renders one function. Parameters without a declared type become
// generic type parameters bounded by Clone, so inserted duplications stay
// well-typed.
func (e *emitter) emitFn(fn *ast.FnItem, fa *ownership.FunctionAnalysis) {
	e.paramModes = make(map[source.StringID]ownership.Decision, len(fn.Params))
	e.localMut = make(map[source.StringID]bool)

	sig := ownership.Signature{}
	if fa != nil {
		sig = fa.Signature
		for _, bn := range fa.Bindings {
			if !bn.IsParam && bn.HasMutate() {
				e.localMut[bn.Name] = true
			}
		}
	}

	var bounds []string
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		var typ string
		if p.Type.IsValid() {
			typ = rustType(e.b, p.Type)
		} else {
			typ = fmt.Sprintf("T%d", len(bounds))
			bounds = append(bounds, typ+": Clone")
		}
		mode := sig.ParamMode(i)
		e.paramModes[p.Name] = mode
		switch mode {
		case ownership.Borrowed:
			typ = "&" + typ
		case ownership.MutBorrowed:
			typ = "&mut " + typ
		}
		params[i] = e.b.Name(p.Name) + ": " + typ
	}

	head := "pub fn " + e.b.Name(fn.Name)
	if len(bounds) > 0 {
		head += "<" + strings.Join(bounds, ", ") + ">"
	}
	head += "(" + strings.Join(params, ", ") + ")"
	if fn.Return.IsValid() {
		head += " -> " + rustType(e.b, fn.Return)
	}
	e.line(head + " {")
	e.depth++
	e.emitBlockStmts(fn.Body)
	e.depth--
	e.line("}")
}

func (e *emitter) emitBlockStmts(id ast.StmtID) {
	data, ok := e.b.Stmts.Block(id)
	if !ok {
		e.emitStmt(id)
		return
	}
	for _, s := range data.Stmts {
		e.emitStmt(s)
	}
}

func (e *emitter) emitStmt(id ast.StmtID) {
	stmt := e.b.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtLet:
		data, _ := e.b.Stmts.Let(id)
		kw := "let "
		if e.localMut[data.Name] {
			kw = "let mut "
		}
		decl := kw + e.b.Name(data.Name)
		if data.Type.IsValid() {
			decl += ": " + rustType(e.b, data.Type)
		}
		if data.Value.IsValid() {
			decl += " = " + e.expr(data.Value)
		}
		e.line(decl + ";")
	case ast.StmtAssign:
		data, _ := e.b.Stmts.Assign(id)
		e.line(e.expr(data.Target) + " " + assignOp(data.Op) + " " + e.expr(data.Value) + ";")
	case ast.StmtExpr:
		data, _ := e.b.Stmts.Expr(id)
		e.line(e.expr(data.Expr) + ";")
	case ast.StmtReturn:
		data, _ := e.b.Stmts.Return(id)
		if data.Value.IsValid() {
			e.line("return " + e.expr(data.Value) + ";")
		} else {
			e.line("return;")
		}
	case ast.StmtIf:
		e.emitIf(id)
	case ast.StmtWhile:
		data, _ := e.b.Stmts.While(id)
		e.line("while " + e.expr(data.Cond) + " {")
		e.depth++
		e.emitBlockStmts(data.Body)
		e.depth--
		e.line("}")
	case ast.StmtFor:
		data, _ := e.b.Stmts.For(id)
		e.line("for " + e.b.Name(data.Binding) + " in " + e.expr(data.Iterable) + " {")
		e.depth++
		e.emitBlockStmts(data.Body)
		e.depth--
		e.line("}")
	case ast.StmtBlock:
		e.line("{")
		e.depth++
		e.emitBlockStmts(id)
		e.depth--
		e.line("}")
	}
}

func (e *emitter) emitIf(id ast.StmtID) {
	data, _ := e.b.Stmts.If(id)
	e.line("if " + e.expr(data.Cond) + " {")
	e.depth++
	e.emitBlockStmts(data.Then)
	e.depth--
	for data.Else.IsValid() && e.b.Stmts.Get(data.Else).Kind == ast.StmtIf {
		next, _ := e.b.Stmts.If(data.Else)
		e.line("} else if " + e.expr(next.Cond) + " {")
		e.depth++
		e.emitBlockStmts(next.Then)
		e.depth--
		data = next
	}
	if data.Else.IsValid() {
		e.line("} else {")
		e.depth++
		e.emitBlockStmts(data.Else)
		e.depth--
	}
	e.line("}")
}

func assignOp(op ast.AssignOp) string {
	switch op {
	case ast.AssignAdd:
		return "+="
	case ast.AssignSub:
		return "-="
	case ast.AssignMul:
		return "*="
	case ast.AssignDiv:
		return "/="
	}
	return "="
}

func binaryOp(op ast.ExprBinaryOp) string {
	switch op {
	case ast.ExprBinaryAdd:
		return "+"
	case ast.ExprBinarySub:
		return "-"
	case ast.ExprBinaryMul:
		return "*"
	case ast.ExprBinaryDiv:
		return "/"
	case ast.ExprBinaryMod:
		return "%"
	case ast.ExprBinaryEq:
		return "=="
	case ast.ExprBinaryNotEq:
		return "!="
	case ast.ExprBinaryLess:
		return "<"
	case ast.ExprBinaryLessEq:
		return "<="
	case ast.ExprBinaryGreater:
		return ">"
	case ast.ExprBinaryGreaterEq:
		return ">="
	case ast.ExprBinaryLogicalAnd:
		return "&&"
	}
	return "||"
}

func (e *emitter) expr(id ast.ExprID) string {
	if !id.IsValid() {
		return "()"
	}
	node := e.b.Exprs.Get(id)
	if node == nil {
		return "()"
	}
	switch node.Kind {
	case ast.ExprIdent:
		data, _ := e.b.Exprs.Ident(id)
		return e.b.Name(data.Name)
	case ast.ExprLit:
		data, _ := e.b.Exprs.Literal(id)
		return e.literal(data)
	case ast.ExprBinary:
		data, _ := e.b.Exprs.Binary(id)
		return e.operand(data.Left) + " " + binaryOp(data.Op) + " " + e.operand(data.Right)
	case ast.ExprUnary:
		data, _ := e.b.Exprs.Unary(id)
		op := "-"
		if data.Op == ast.ExprUnaryNot {
			op = "!"
		}
		return op + e.operand(data.Operand)
	case ast.ExprCall:
		return e.call(id)
	case ast.ExprMethodCall:
		data, _ := e.b.Exprs.MethodCall(id)
		args := e.args(data.Method, data.Args)
		return e.operand(data.Recv) + "." + e.b.Name(data.Method) + "(" + args + ")"
	case ast.ExprMember:
		data, _ := e.b.Exprs.Member(id)
		return e.operand(data.Object) + "." + e.b.Name(data.Field)
	case ast.ExprIndex:
		data, _ := e.b.Exprs.Index(id)
		return e.operand(data.Object) + "[" + e.expr(data.Index) + "]"
	case ast.ExprStructLit:
		data, _ := e.b.Exprs.StructLit(id)
		fields := make([]string, len(data.Fields))
		for i, f := range data.Fields {
			fields[i] = e.b.Name(f.Name) + ": " + e.expr(f.Value)
		}
		return e.b.Name(data.Type) + " { " + strings.Join(fields, ", ") + " }"
	case ast.ExprClone:
		data, _ := e.b.Exprs.Clone(id)
		return e.operand(data.Operand) + ".clone()"
	}
	return "()"
}

// operand parenthesizes nested binary expressions instead of tracking
// relative precedence.
func (e *emitter) operand(id ast.ExprID) string {
	node := e.b.Exprs.Get(id)
	if node != nil && node.Kind == ast.ExprBinary {
		return "(" + e.expr(id) + ")"
	}
	return e.expr(id)
}

func (e *emitter) literal(data *ast.ExprLitData) string {
	text := e.b.Name(data.Value)
	if data.Kind == ast.ExprLitString {
		return strconv.Quote(text)
	}
	return text
}

func (e *emitter) call(id ast.ExprID) string {
	data, _ := e.b.Exprs.Call(id)
	name := e.b.Name(data.Callee)
	if macro, ok := builtinMacros[name]; ok {
		return e.macroCall(macro, data.Args)
	}
	return name + "(" + e.args(data.Callee, data.Args) + ")"
}

// macroCall renders print-family builtins. A leading string literal is
// treated as the format string; otherwise one "{}" slot is generated per
// argument.
func (e *emitter) macroCall(macro string, args []ast.ExprID) string {
	if len(args) == 0 {
		return macro + "()"
	}
	rendered := make([]string, len(args))
	for i, a := range args {
		rendered[i] = e.expr(a)
	}
	if first := e.b.Exprs.Get(args[0]); first != nil && first.Kind == ast.ExprLit {
		if lit, _ := e.b.Exprs.Literal(args[0]); lit != nil && lit.Kind == ast.ExprLitString {
			return macro + "(" + strings.Join(rendered, ", ") + ")"
		}
	}
	slots := make([]string, len(args))
	for i := range slots {
		slots[i] = "{}"
	}
	return macro + "(" + strconv.Quote(strings.Join(slots, " ")) + ", " + strings.Join(rendered, ", ") + ")"
}

// args renders a call argument list, inserting reference operators per the
// callee's published parameter modes. An argument that is itself a
// reference-mode parameter passes through unadjusted (Rust reborrows it).
func (e *emitter) args(callee source.StringID, list []ast.ExprID) string {
	out := make([]string, len(list))
	for i, a := range list {
		mode := e.unit.Registry.ParamMode(callee, i)
		rendered := e.expr(a)
		switch mode {
		case ownership.Borrowed:
			if !e.isRefParam(a) {
				rendered = "&" + rendered
			}
		case ownership.MutBorrowed:
			if e.paramModeOf(a) != ownership.MutBorrowed {
				rendered = "&mut " + rendered
			}
		}
		out[i] = rendered
	}
	return strings.Join(out, ", ")
}

func (e *emitter) paramModeOf(arg ast.ExprID) ownership.Decision {
	node := e.b.Exprs.Get(arg)
	if node == nil || node.Kind != ast.ExprIdent {
		return ownership.Owned
	}
	data, _ := e.b.Exprs.Ident(arg)
	mode, ok := e.paramModes[data.Name]
	if !ok {
		return ownership.Owned
	}
	return mode
}

func (e *emitter) isRefParam(arg ast.ExprID) bool {
	mode := e.paramModeOf(arg)
	return mode == ownership.Borrowed || mode == ownership.MutBorrowed
}
