package ownership

import (
	"zephyr/internal/ast"
	"zephyr/internal/source"
)

// EventKind classifies one observation about a binding at one program point.
type EventKind uint8

const (
	// EventRead is a use in any read position.
	EventRead EventKind = iota
	// EventMutate is an assignment through the binding (including nested
	// field chains) or a call known to take it mutably.
	EventMutate
	// EventMove is a value-consuming use: passed to a call parameter that
	// takes ownership.
	EventMove
	// EventStore moves the value into a field, a struct literal, a
	// collection, or a fresh binding.
	EventStore
	// EventReturn is a bare identifier/field-path being returned, not
	// wrapped in another call.
	EventReturn
	// EventShadow ends the binding: a new `let` rebinds the same name.
	EventShadow
)

func (k EventKind) String() string {
	switch k {
	case EventRead:
		return "read"
	case EventMutate:
		return "mutate"
	case EventMove:
		return "move"
	case EventStore:
		return "store"
	case EventReturn:
		return "return"
	case EventShadow:
		return "shadow"
	}
	return "unknown"
}

// SiteKind says which slot of the containing node holds the use-site
// expression, so the auto-clone pass can rewrite exactly that slot.
type SiteKind uint8

const (
	SiteNone SiteKind = iota
	SiteCallArg
	SiteMethodArg
	SiteLetInit
	SiteAssignValue
	SiteStructField
)

// Site locates a rewritable use-site inside the tree.
type Site struct {
	Kind  SiteKind
	Expr  ast.ExprID // containing call / method call / struct literal
	Stmt  ast.StmtID // containing let / assignment
	Index int        // argument or field position
}

// Event is one recorded fact about how a binding is touched. Events are
// ordered by Seq, a monotonically increasing program point.
type Event struct {
	Kind EventKind
	Seq  int
	// LoopStart is the Seq at entry of the outermost enclosing loop, or -1
	// outside loops. A move inside a loop is "moved every iteration", so
	// any other use inside the loop counts as a use after the move.
	LoopStart int
	Span      source.Span
	// Path is the full access path from the root binding, e.g. "o.inner".
	Path string
	// Expr is the full use-site sub-expression (what a duplication wraps).
	Expr ast.ExprID
	Site Site
	// Callee and ArgIndex are set for EventMove.
	Callee   source.StringID
	ArgIndex int
}

// Binding is a tracked parameter or local, identified by its root name even
// through field and index chains. It owns an ordered event list and one
// final decision; any change to the events requires re-deriving the
// decision from scratch.
type Binding struct {
	Name       source.StringID
	IsParam    bool
	ParamIndex int
	// Type is the declared annotation; NoTypeID when inferred.
	Type     ast.TypeID
	Events   []Event
	Decision Decision
	// moveFlagged is set by rule 5 of the decision procedure: a true
	// owning move exists and later events need duplication analysis.
	moveFlagged bool
}

// HasMutate reports whether any branch mutates the binding.
func (bn *Binding) HasMutate() bool {
	for i := range bn.Events {
		if bn.Events[i].Kind == EventMutate {
			return true
		}
	}
	return false
}

// NeedsCloneAnalysis reports whether the auto-clone pass must look at this
// binding.
func (bn *Binding) NeedsCloneAnalysis() bool {
	return bn.moveFlagged
}
