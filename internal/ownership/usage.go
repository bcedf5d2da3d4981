package ownership

import (
	"zephyr/internal/ast"
	"zephyr/internal/source"
)

// mutatingMethods mirror the runtime's collection API: calling one of these
// on a receiver counts as mutating the receiver's root binding.
var mutatingMethodPrefixes = []string{"push", "insert", "remove", "clear", "pop", "extend", "sort", "truncate"}

func isMutatingMethod(name string) bool {
	for _, p := range mutatingMethodPrefixes {
		if len(name) >= len(p) && name[:len(p)] == p {
			return true
		}
	}
	const mutSuffix = "_mut"
	return len(name) > len(mutSuffix) && name[len(name)-len(mutSuffix):] == mutSuffix
}

// collector performs the single forward traversal of one function body,
// emitting ordered usage events per binding. Branches are traversed
// independently and unioned conservatively: one flat event list means a
// binding counts as mutated if any branch mutates it and as moved if any
// branch moves it.
type collector struct {
	b        *ast.Builder
	reg      *Registry
	bindings map[source.StringID]*Binding // live generation per name
	all      []*Binding
	seq      int
	// loopStart is the Seq at entry of the outermost active loop; -1
	// outside loops. Loop bodies are analyzed once; the marker makes a
	// move inside the body count as "moved every iteration".
	loopStart int
}

// CollectUsage walks fn's body and returns all bindings (parameters first,
// locals in declaration order) with their ordered event lists.
func CollectUsage(b *ast.Builder, fn *ast.FnItem, reg *Registry) []*Binding {
	c := &collector{
		b:         b,
		reg:       reg,
		bindings:  make(map[source.StringID]*Binding),
		loopStart: -1,
	}
	for i, param := range fn.Params {
		c.declare(param.Name, true, i, param.Type)
	}
	c.walkStmt(fn.Body)
	return c.all
}

func (c *collector) declare(name source.StringID, isParam bool, paramIndex int, typeID ast.TypeID) *Binding {
	if prev, ok := c.bindings[name]; ok {
		prev.Events = append(prev.Events, Event{
			Kind:      EventShadow,
			Seq:       c.seq,
			LoopStart: c.loopStart,
			Path:      c.b.Name(name),
		})
	}
	bn := &Binding{
		Name:       name,
		IsParam:    isParam,
		ParamIndex: paramIndex,
		Type:       typeID,
	}
	c.bindings[name] = bn
	c.all = append(c.all, bn)
	return bn
}

func (c *collector) record(root source.StringID, ev Event) {
	bn, ok := c.bindings[root]
	if !ok {
		// Untracked name (function reference, global): nothing to infer.
		return
	}
	ev.Seq = c.seq
	ev.LoopStart = c.loopStart
	bn.Events = append(bn.Events, ev)
}

func (c *collector) walkStmt(id ast.StmtID) {
	if !id.IsValid() {
		return
	}
	stmt := c.b.Stmts.Get(id)
	if stmt == nil {
		return
	}
	c.seq++

	switch stmt.Kind {
	case ast.StmtBlock:
		data, _ := c.b.Stmts.Block(id)
		for _, child := range data.Stmts {
			c.walkStmt(child)
		}
	case ast.StmtLet:
		data, _ := c.b.Stmts.Let(id)
		if data.Value.IsValid() {
			site := Site{Kind: SiteLetInit, Stmt: id}
			if root, path, ok := c.resolvePath(data.Value); ok {
				// A bare path initializer transfers ownership into the new
				// binding.
				c.record(root, Event{
					Kind: EventStore,
					Span: c.b.Exprs.Get(data.Value).Span,
					Path: path,
					Expr: data.Value,
					Site: site,
				})
				c.walkPathChildren(data.Value)
			} else {
				c.walkExpr(data.Value)
			}
		}
		c.declare(data.Name, false, -1, data.Type)
	case ast.StmtAssign:
		data, _ := c.b.Stmts.Assign(id)
		// Assignment through any field/index chain registers as a
		// mutation of the chain's root.
		if root, path, ok := c.resolvePath(data.Target); ok {
			c.record(root, Event{
				Kind: EventMutate,
				Span: c.b.Exprs.Get(data.Target).Span,
				Path: path,
				Expr: data.Target,
			})
			c.walkPathChildren(data.Target)
		} else {
			c.walkExpr(data.Target)
		}
		if data.Value.IsValid() {
			if root, path, ok := c.resolvePath(data.Value); ok {
				c.record(root, Event{
					Kind: EventStore,
					Span: c.b.Exprs.Get(data.Value).Span,
					Path: path,
					Expr: data.Value,
					Site: Site{Kind: SiteAssignValue, Stmt: id},
				})
				c.walkPathChildren(data.Value)
			} else {
				c.walkExpr(data.Value)
			}
		}
	case ast.StmtExpr:
		data, _ := c.b.Stmts.Expr(id)
		c.walkExpr(data.Expr)
	case ast.StmtReturn:
		data, _ := c.b.Stmts.Return(id)
		if !data.Value.IsValid() {
			return
		}
		if root, path, ok := c.resolvePath(data.Value); ok {
			// Bare identifier or field path escaping the function.
			c.record(root, Event{
				Kind: EventReturn,
				Span: c.b.Exprs.Get(data.Value).Span,
				Path: path,
				Expr: data.Value,
			})
			c.walkPathChildren(data.Value)
		} else {
			c.walkExpr(data.Value)
		}
	case ast.StmtIf:
		data, _ := c.b.Stmts.If(id)
		c.walkExpr(data.Cond)
		c.walkStmt(data.Then)
		c.walkStmt(data.Else)
	case ast.StmtWhile:
		data, _ := c.b.Stmts.While(id)
		c.walkExpr(data.Cond)
		c.enterLoop(func() { c.walkStmt(data.Body) })
	case ast.StmtFor:
		data, _ := c.b.Stmts.For(id)
		c.walkExpr(data.Iterable)
		c.enterLoop(func() {
			prev, had := c.bindings[data.Binding]
			c.declare(data.Binding, false, -1, ast.NoTypeID)
			c.walkStmt(data.Body)
			if had {
				c.bindings[data.Binding] = prev
			} else {
				delete(c.bindings, data.Binding)
			}
		})
	}
}

func (c *collector) enterLoop(body func()) {
	prev := c.loopStart
	if prev < 0 {
		c.loopStart = c.seq
	}
	body()
	c.loopStart = prev
}

// walkExpr records reads/moves for every binding use inside expr.
func (c *collector) walkExpr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	if root, path, ok := c.resolvePath(id); ok {
		c.record(root, Event{
			Kind: EventRead,
			Span: c.b.Exprs.Get(id).Span,
			Path: path,
			Expr: id,
		})
		c.walkPathChildren(id)
		return
	}

	expr := c.b.Exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprBinary:
		data, _ := c.b.Exprs.Binary(id)
		c.walkExpr(data.Left)
		c.walkExpr(data.Right)
	case ast.ExprUnary:
		data, _ := c.b.Exprs.Unary(id)
		c.walkExpr(data.Operand)
	case ast.ExprCall:
		data, _ := c.b.Exprs.Call(id)
		c.walkCallArgs(id, SiteCallArg, data.Callee, data.Args)
	case ast.ExprMethodCall:
		data, _ := c.b.Exprs.MethodCall(id)
		c.walkExpr(data.Recv)
		c.walkCallArgs(id, SiteMethodArg, data.Method, data.Args)
	case ast.ExprStructLit:
		data, _ := c.b.Exprs.StructLit(id)
		for i, field := range data.Fields {
			if root, path, ok := c.resolvePath(field.Value); ok {
				c.record(root, Event{
					Kind: EventStore,
					Span: c.b.Exprs.Get(field.Value).Span,
					Path: path,
					Expr: field.Value,
					Site: Site{Kind: SiteStructField, Expr: id, Index: i},
				})
				c.walkPathChildren(field.Value)
			} else {
				c.walkExpr(field.Value)
			}
		}
	case ast.ExprIndex:
		data, _ := c.b.Exprs.Index(id)
		c.walkExpr(data.Object)
		c.walkExpr(data.Index)
	case ast.ExprMember:
		data, _ := c.b.Exprs.Member(id)
		c.walkExpr(data.Object)
	case ast.ExprClone:
		data, _ := c.b.Exprs.Clone(id)
		c.walkExpr(data.Operand)
	}
}

// walkCallArgs classifies every rooted argument against the callee's
// published signature: Borrowed parameters demote the move to a read,
// MutBorrowed to a mutation, anything else (including unpublished callees)
// stays a move into the call.
func (c *collector) walkCallArgs(call ast.ExprID, siteKind SiteKind, callee source.StringID, args []ast.ExprID) {
	for i, arg := range args {
		root, path, ok := c.resolvePath(arg)
		if !ok {
			c.walkExpr(arg)
			continue
		}
		ev := Event{
			Span:     c.b.Exprs.Get(arg).Span,
			Path:     path,
			Expr:     arg,
			Site:     Site{Kind: siteKind, Expr: call, Index: i},
			Callee:   callee,
			ArgIndex: i,
		}
		switch c.reg.ParamMode(callee, i) {
		case Borrowed:
			ev.Kind = EventRead
		case MutBorrowed:
			ev.Kind = EventMutate
		default:
			ev.Kind = EventMove
		}
		c.record(root, ev)
		c.walkPathChildren(arg)
	}
}

// resolvePath reduces an identifier, field chain, index expression or
// method-call chain to its root binding name plus a printable path.
// Returns ok=false for anything else (literals, operators, calls).
func (c *collector) resolvePath(id ast.ExprID) (source.StringID, string, bool) {
	if !id.IsValid() {
		return source.NoStringID, "", false
	}
	expr := c.b.Exprs.Get(id)
	if expr == nil {
		return source.NoStringID, "", false
	}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := c.b.Exprs.Ident(id)
		return data.Name, c.b.Name(data.Name), true
	case ast.ExprMember:
		data, _ := c.b.Exprs.Member(id)
		root, path, ok := c.resolvePath(data.Object)
		if !ok {
			return source.NoStringID, "", false
		}
		return root, path + "." + c.b.Name(data.Field), true
	case ast.ExprIndex:
		data, _ := c.b.Exprs.Index(id)
		root, path, ok := c.resolvePath(data.Object)
		if !ok {
			return source.NoStringID, "", false
		}
		return root, path + "[" + c.indexLabel(data.Index) + "]", true
	case ast.ExprMethodCall:
		data, _ := c.b.Exprs.MethodCall(id)
		root, path, ok := c.resolvePath(data.Recv)
		if !ok {
			return source.NoStringID, "", false
		}
		return root, path + "." + c.b.Name(data.Method) + "()", true
	}
	return source.NoStringID, "", false
}

// indexLabel renders the index for path keys: literal values and bare
// identifiers stay distinguishable, anything else collapses to "*".
func (c *collector) indexLabel(id ast.ExprID) string {
	expr := c.b.Exprs.Get(id)
	if expr == nil {
		return "*"
	}
	switch expr.Kind {
	case ast.ExprLit:
		data, _ := c.b.Exprs.Literal(id)
		return c.b.Name(data.Value)
	case ast.ExprIdent:
		data, _ := c.b.Exprs.Ident(id)
		return c.b.Name(data.Name)
	}
	return "*"
}

// walkPathChildren records the secondary reads hiding inside a resolved
// path: index expressions and method-call arguments. The path's own use
// was already recorded by the caller.
func (c *collector) walkPathChildren(id ast.ExprID) {
	expr := c.b.Exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprMember:
		data, _ := c.b.Exprs.Member(id)
		c.walkPathChildren(data.Object)
	case ast.ExprIndex:
		data, _ := c.b.Exprs.Index(id)
		c.walkPathChildren(data.Object)
		c.walkExpr(data.Index)
	case ast.ExprMethodCall:
		data, _ := c.b.Exprs.MethodCall(id)
		c.walkPathChildren(data.Recv)
		// Receiver mutation heuristic: push/insert/... and *_mut methods
		// write through the receiver.
		if isMutatingMethod(c.b.Name(data.Method)) {
			if root, path, ok := c.resolvePath(data.Recv); ok {
				c.record(root, Event{
					Kind: EventMutate,
					Span: expr.Span,
					Path: path,
					Expr: data.Recv,
				})
			}
		}
		c.walkCallArgs(id, SiteMethodArg, data.Method, data.Args)
	}
}
