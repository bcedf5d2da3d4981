package ast

import (
	"zephyr/internal/source"
)

// StmtKind enumerates statement categories.
type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtAssign
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtFor
	StmtBlock
)

// Stmt is the node header; substructure lives in per-kind payload arenas.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// AssignOp enumerates assignment operators.
type AssignOp uint8

const (
	AssignSet AssignOp = iota // =
	AssignAdd                 // +=
	AssignSub                 // -=
	AssignMul                 // *=
	AssignDiv                 // /=
)

type StmtLetData struct {
	Name  source.StringID
	Type  TypeID // NoTypeID when inferred
	Value ExprID
}

type StmtAssignData struct {
	Target ExprID // identifier or member/index chain
	Op     AssignOp
	Value  ExprID
}

type StmtExprData struct {
	Expr ExprID
}

type StmtReturnData struct {
	Value ExprID // NoExprID for a bare return
}

type StmtIfData struct {
	Cond ExprID
	Then StmtID // StmtBlock
	Else StmtID // StmtBlock or StmtIf; NoStmtID when absent
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

type StmtForData struct {
	Binding  source.StringID
	Iterable ExprID
	Body     StmtID
}

type StmtBlockData struct {
	Stmts []StmtID
}
