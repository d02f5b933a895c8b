// Package ast defines the quickpy abstract syntax tree. Nodes follow the
// visitor pattern: each node type implements Accept, dispatching to the
// matching method on whichever Visitor the compiler passes in. This mirrors
// the shape of nilan/ast, generalized from Nilan's statement/expression set
// to quickpy's (function definitions, return, if/elif/else, while, and a
// restricted single-operator comparison expression).
package ast

// ExpressionVisitor is implemented by anything that operates on expression
// nodes (currently only the compiler, but the shape allows an AST printer or
// type checker to reuse it).
type ExpressionVisitor interface {
	VisitLiteral(lit Literal) any
	VisitName(name Name) any
	VisitBinary(bin Binary) any
	VisitCompare(cmp Compare) any
	VisitCall(call Call) any
}

// StmtVisitor is implemented by anything that operates on statement nodes.
type StmtVisitor interface {
	VisitExpressionStmt(stmt ExpressionStmt) any
	VisitAssign(stmt Assign) any
	VisitFunctionDef(stmt FunctionDef) any
	VisitReturn(stmt Return) any
	VisitIf(stmt If) any
	VisitWhile(stmt While) any
}

// Expression is any node that evaluates to a value.
type Expression interface {
	AcceptExpr(v ExpressionVisitor) any
}

// Stmt is any node that performs an action rather than directly producing a
// value (though some, like ExpressionStmt, wrap an Expression).
type Stmt interface {
	AcceptStmt(v StmtVisitor) any
}
