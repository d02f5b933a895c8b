package ast

import "quickpy/token"

// Literal is a constant value appearing directly in source: an integer,
// float, bool, None, or string.
type Literal struct {
	Value any
}

func (l Literal) AcceptExpr(v ExpressionVisitor) any { return v.VisitLiteral(l) }

// Name is a reference to a variable, resolved by the compiler to either a
// local slot or a global lookup.
type Name struct {
	Identifier token.Token
}

func (n Name) AcceptExpr(v ExpressionVisitor) any { return v.VisitName(n) }

// Binary is a two-operand arithmetic expression: `left op right`.
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b Binary) AcceptExpr(v ExpressionVisitor) any { return v.VisitBinary(b) }

// Compare is a single-operator comparison: `left op right`. Chained
// comparisons (`a < b < c`) are not supported, matching spec.md's "only
// simple operators" restriction.
type Compare struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (c Compare) AcceptExpr(v ExpressionVisitor) any { return v.VisitCompare(c) }

// Call is a function invocation: `callee(args...)`.
type Call struct {
	Callee Expression
	Args   []Expression
}

func (c Call) AcceptExpr(v ExpressionVisitor) any { return v.VisitCall(c) }
