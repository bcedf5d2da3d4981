package ownership

import (
	"fmt"

	"zephyr/internal/ast"
	"zephyr/internal/diag"
	"zephyr/internal/source"
)

// shareHandles are wrapper types whose duplication would alias, not copy.
// Moves of these are never auto-duplicated.
var shareHandles = map[string]struct{}{
	"Rc": {}, "Arc": {}, "Shared": {},
}

func isShareHandle(b *ast.Builder, typeID ast.TypeID) bool {
	if !typeID.IsValid() {
		return false
	}
	tn := b.Types.Get(typeID)
	if tn == nil {
		return false
	}
	_, ok := shareHandles[b.Name(tn.Name)]
	return ok
}

// InsertClones rewrites every non-final move of the flagged bindings to
// duplicate the moved sub-expression, leaving the last move untouched.
// Shapes the pass cannot rewrite safely are reported as warnings and left
// unmodified. Returns the number of duplications inserted.
func InsertClones(b *ast.Builder, bindings []*Binding, reg *Registry, rep diag.Reporter) int {
	inserted := 0
	for _, bn := range bindings {
		if !bn.NeedsCloneAnalysis() {
			continue
		}
		inserted += insertForBinding(b, bn, reg, rep)
	}
	return inserted
}

func insertForBinding(b *ast.Builder, bn *Binding, reg *Registry, rep diag.Reporter) int {
	inserted := 0
	for i := range bn.Events {
		m := &bn.Events[i]
		if m.Kind != EventMove && m.Kind != EventStore {
			continue
		}
		later := laterUses(bn, i)
		if len(later) == 0 {
			// Final move: ownership transfers for free.
			continue
		}

		if sameSeqUse(bn, i) {
			report(rep, diag.OwnMultiUseInExpression, m.Span,
				fmt.Sprintf("`%s` is used more than once in a single expression; not auto-duplicated", m.Path))
			continue
		}
		if isShareHandle(b, bn.Type) {
			report(rep, diag.OwnShareHandleClone, m.Span,
				fmt.Sprintf("`%s` is a shared handle used after its move; duplication would alias, not copy", m.Path))
			continue
		}
		if partial := partialMoveUse(m, later); partial != nil {
			d := diag.Diagnostic{
				Severity: diag.SevWarning,
				Code:     diag.OwnPartialMove,
				Message:  fmt.Sprintf("`%s` is moved but the containing value `%s` is used later; partial moves are not auto-duplicated", m.Path, partial.Path),
				Primary:  m.Span,
			}
			rep.Report(d.Code, d.Severity, d.Primary, d.Message,
				[]diag.Note{{Span: partial.Span, Msg: fmt.Sprintf("`%s` used here", partial.Path)}})
			continue
		}

		if !rewriteSite(b, m.Site, m.Expr) {
			report(rep, diag.OwnUnsupportedCloneShape, m.Span,
				fmt.Sprintf("`%s` needs a duplication here but the use site cannot be rewritten", m.Path))
			continue
		}
		inserted++
		if m.Kind == EventMove && m.Callee != source.NoStringID {
			if _, known := reg.Lookup(m.Callee); !known {
				rep.Report(diag.OwnUnresolvedCallee, diag.SevInfo, m.Span,
					fmt.Sprintf("`%s` is duplicated because `%s` is not known to borrow it", m.Path, b.Name(m.Callee)), nil)
			}
		}
	}
	return inserted
}

// laterUses returns the events that observe the binding after the move at
// index mi. A second use at the same program point counts: evaluation
// order inside one expression still sees the move. Inside a loop the move
// happens every iteration, so every use within the loop region counts,
// including the move itself.
func laterUses(bn *Binding, mi int) []*Event {
	m := &bn.Events[mi]
	var out []*Event
	for j := range bn.Events {
		e := &bn.Events[j]
		if e.Kind == EventShadow {
			continue
		}
		switch {
		case j != mi && e.Seq >= m.Seq:
			out = append(out, e)
		case m.LoopStart >= 0 && e.Seq >= m.LoopStart:
			out = append(out, e)
		}
	}
	return out
}

// sameSeqUse reports whether another use shares the move's program point,
// meaning both live in one expression and evaluation order is ambiguous.
func sameSeqUse(bn *Binding, mi int) bool {
	m := &bn.Events[mi]
	for j := range bn.Events {
		if j == mi || bn.Events[j].Kind == EventShadow {
			continue
		}
		if bn.Events[j].Seq == m.Seq {
			return true
		}
	}
	return false
}

// partialMoveUse finds a later use whose path is a strict prefix of the
// moved path: the move hollows out part of a value that is still needed
// whole.
func partialMoveUse(m *Event, later []*Event) *Event {
	for _, e := range later {
		if isStrictPathPrefix(e.Path, m.Path) {
			return e
		}
	}
	return nil
}

func isStrictPathPrefix(prefix, full string) bool {
	if len(prefix) >= len(full) || full[:len(prefix)] != prefix {
		return false
	}
	switch full[len(prefix)] {
	case '.', '[':
		return true
	}
	return false
}

// rewriteSite replaces the moved sub-expression in its containing slot with
// a duplication of itself. The full path expression is wrapped, not just
// the root.
func rewriteSite(b *ast.Builder, site Site, moved ast.ExprID) bool {
	if !moved.IsValid() {
		return false
	}
	clone := b.Exprs.NewClone(moved)
	switch site.Kind {
	case SiteCallArg:
		data, ok := b.Exprs.Call(site.Expr)
		if !ok || site.Index < 0 || site.Index >= len(data.Args) {
			return false
		}
		data.Args[site.Index] = clone
	case SiteMethodArg:
		data, ok := b.Exprs.MethodCall(site.Expr)
		if !ok || site.Index < 0 || site.Index >= len(data.Args) {
			return false
		}
		data.Args[site.Index] = clone
	case SiteLetInit:
		data, ok := b.Stmts.Let(site.Stmt)
		if !ok {
			return false
		}
		data.Value = clone
	case SiteAssignValue:
		data, ok := b.Stmts.Assign(site.Stmt)
		if !ok {
			return false
		}
		data.Value = clone
	case SiteStructField:
		data, ok := b.Exprs.StructLit(site.Expr)
		if !ok || site.Index < 0 || site.Index >= len(data.Fields) {
			return false
		}
		data.Fields[site.Index].Value = clone
	default:
		return false
	}
	return true
}

func report(rep diag.Reporter, code diag.Code, span source.Span, msg string) {
	rep.Report(code, diag.SevWarning, span, msg, nil)
}
