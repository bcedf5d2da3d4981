package ast

import (
	"zephyr/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent represents an identifier expression.
	ExprIdent ExprKind = iota
	// ExprLit represents a literal expression.
	ExprLit
	// ExprBinary represents a binary expression.
	ExprBinary
	// ExprUnary represents a unary expression.
	ExprUnary
	// ExprCall represents a free function call.
	ExprCall
	// ExprMethodCall represents a method call on a receiver.
	ExprMethodCall
	// ExprMember represents a field access.
	ExprMember
	// ExprIndex represents an index expression.
	ExprIndex
	// ExprStructLit represents a struct literal.
	ExprStructLit
	// ExprClone marks an argument that must be duplicated before the move.
	// Inserted by the ownership pass, never by the parser.
	ExprClone
)

// Expr is the node header. Substructure lives in per-kind payload arenas;
// every child reference points into the same Builder's arenas.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// ExprLitKind enumerates literal categories.
type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitString
	ExprLitBool
)

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
)

// ExprUnaryOp enumerates unary operator kinds.
type ExprUnaryOp uint8

const (
	ExprUnaryNeg ExprUnaryOp = iota
	ExprUnaryNot
)

type ExprIdentData struct {
	Name source.StringID
}

type ExprLitData struct {
	Kind  ExprLitKind
	Value source.StringID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprCallData struct {
	Callee source.StringID
	Args   []ExprID
}

type ExprMethodCallData struct {
	Recv   ExprID
	Method source.StringID
	Args   []ExprID
}

type ExprMemberData struct {
	Object ExprID
	Field  source.StringID
}

type ExprIndexData struct {
	Object ExprID
	Index  ExprID
}

// StructLitField pairs a field name with its value expression.
type StructLitField struct {
	Name  source.StringID
	Value ExprID
}

type ExprStructLitData struct {
	Type   source.StringID
	Fields []StructLitField
}

type ExprCloneData struct {
	Operand ExprID
}
