// Package compiler walks the quickpy ast and emits a bytecode.Instructions
// stream. The shape is ported from nilan/compiler's ASTCompiler: a visitor
// struct that implements ast.ExpressionVisitor/ast.StmtVisitor and appends
// instructions as it walks, using panic/recover with a typed SemanticError
// to unwind out of deeply nested Accept calls instead of threading an error
// return through every visitor method (Go visitor interfaces return `any`,
// not `(any, error)`, so panic/recover is the idiom the teacher already
// uses here).
//
// Where it departs from the teacher: instructions are not byte-packed (see
// the bytecode package's doc comment for why), and local variables are not
// a growable stack with scope depths — quickpy has no local-declaration
// syntax, so a function's local table is exactly its parameter list, fixed
// at slots 0..n-1 for the lifetime of that function's compiler context.
package compiler

import (
	"fmt"

	"quickpy/ast"
	"quickpy/bytecode"
	"quickpy/lexer"
	"quickpy/parser"
	"quickpy/token"
)

// SemanticError is raised (via panic) by a Visit method when it encounters
// syntax the compiler does not support, or a constant that can't be
// represented. Compile recovers it and returns it as a plain error.
type SemanticError struct {
	Message string
}

func (e SemanticError) Error() string { return e.Message }

// Compiler is a visitor that compiles one function body (or the top-level
// program) to a flat instruction stream. A fresh Compiler is created for
// every function definition, seeded with that function's parameter names.
type Compiler struct {
	instructions bytecode.Instructions
	locals       map[string]int
}

func newCompiler(params []string) *Compiler {
	locals := make(map[string]int, len(params))
	for i, name := range params {
		locals[name] = i
	}
	return &Compiler{locals: locals}
}

func (c *Compiler) emit(instr bytecode.Instruction) int {
	pos := len(c.instructions)
	c.instructions = append(c.instructions, instr)
	return pos
}

func (c *Compiler) patchTarget(pos int, target int32) {
	c.instructions[pos].Target = target
}

// Compile is the public entry point described in spec.md §4.2: source is
// parsed first as a statement sequence, falling back to a single
// expression on parse failure. Empty input yields an empty stream.
func Compile(source string) (result bytecode.Instructions, err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(SemanticError)
			if !ok {
				panic(r)
			}
			err = se
		}
	}()

	toks, lexErr := lexer.New(source).Scan()
	if lexErr != nil {
		return nil, lexErr
	}

	stmts, parseErr := parser.New(toks).ParseProgram()
	if parseErr != nil {
		expr, exprErr := parser.New(toks).ParseSingleExpression()
		if exprErr != nil {
			return nil, parseErr
		}
		c := newCompiler(nil)
		expr.AcceptExpr(c)
		return c.instructions, nil
	}

	if len(stmts) == 0 {
		return bytecode.Instructions{}, nil
	}

	c := newCompiler(nil)
	for _, stmt := range stmts[:len(stmts)-1] {
		stmt.AcceptStmt(c)
	}
	last := stmts[len(stmts)-1]
	if exprStmt, ok := last.(ast.ExpressionStmt); ok {
		exprStmt.Expression.AcceptExpr(c)
	} else {
		last.AcceptStmt(c)
	}
	return c.instructions, nil
}

// --- Expressions ---

func (c *Compiler) VisitLiteral(lit ast.Literal) any {
	switch val := lit.Value.(type) {
	case int64:
		if val < int64(-1<<31) || val > int64(1<<31-1) {
			panic(SemanticError{Message: "Integer overflow"})
		}
		c.emit(bytecode.PushIntInstr(int32(val)))
	case float64:
		c.emit(bytecode.PushFloatInstr(val))
	case bool:
		c.emit(bytecode.PushBoolInstr(val))
	case string:
		c.emit(bytecode.PushStringInstr(val))
	case nil:
		c.emit(bytecode.PushNoneInstr())
	default:
		panic(SemanticError{Message: fmt.Sprintf("Unsupported expression: constant of type %T", val)})
	}
	return nil
}

func (c *Compiler) VisitName(name ast.Name) any {
	identifier := name.Identifier.Lexeme
	if slot, ok := c.locals[identifier]; ok {
		c.emit(bytecode.GetLocalInstr(slot))
	} else {
		c.emit(bytecode.GetGlobalInstr(identifier))
	}
	return nil
}

func (c *Compiler) VisitBinary(bin ast.Binary) any {
	bin.Left.AcceptExpr(c)
	bin.Right.AcceptExpr(c)
	switch bin.Operator.Type {
	case token.ADD:
		c.emit(bytecode.Instruction{Op: bytecode.Add})
	case token.SUB:
		c.emit(bytecode.Instruction{Op: bytecode.Sub})
	case token.MULT:
		c.emit(bytecode.Instruction{Op: bytecode.Mul})
	case token.DIV:
		c.emit(bytecode.Instruction{Op: bytecode.Div})
	default:
		panic(SemanticError{Message: fmt.Sprintf("Unsupported expression: binary operator %s", bin.Operator.Type)})
	}
	return nil
}

func (c *Compiler) VisitCompare(cmp ast.Compare) any {
	cmp.Left.AcceptExpr(c)
	cmp.Right.AcceptExpr(c)
	switch cmp.Operator.Type {
	case token.EQUAL_EQUAL:
		c.emit(bytecode.Instruction{Op: bytecode.Eq})
	case token.NOT_EQUAL:
		c.emit(bytecode.Instruction{Op: bytecode.Ne})
	case token.LESS:
		c.emit(bytecode.Instruction{Op: bytecode.Lt})
	case token.LESS_EQUAL:
		c.emit(bytecode.Instruction{Op: bytecode.Le})
	case token.LARGER:
		c.emit(bytecode.Instruction{Op: bytecode.Gt})
	case token.LARGER_EQUAL:
		c.emit(bytecode.Instruction{Op: bytecode.Ge})
	default:
		panic(SemanticError{Message: fmt.Sprintf("Unsupported expression: comparison operator %s", cmp.Operator.Type)})
	}
	return nil
}

func (c *Compiler) VisitCall(call ast.Call) any {
	call.Callee.AcceptExpr(c)
	for _, arg := range call.Args {
		arg.AcceptExpr(c)
	}
	c.emit(bytecode.CallInstr(len(call.Args)))
	return nil
}

// --- Statements ---

func (c *Compiler) VisitExpressionStmt(stmt ast.ExpressionStmt) any {
	stmt.Expression.AcceptExpr(c)
	c.emit(bytecode.PopInstr())
	return nil
}

// VisitAssign compiles `name = expr`. Per spec.md §4.2 only bare identifier
// targets are supported (the parser already rejects anything else); the
// resulting SetLocal/SetGlobal leaves its value on the stack (a
// "store-and-keep"), left unbalanced here exactly as the original compiler
// does — a caller compiling in statement position is responsible for
// following up with Pop if it needs the stack balanced.
func (c *Compiler) VisitAssign(stmt ast.Assign) any {
	stmt.Value.AcceptExpr(c)
	identifier := stmt.Name.Lexeme
	if slot, ok := c.locals[identifier]; ok {
		c.emit(bytecode.SetLocalInstr(slot))
	} else {
		c.emit(bytecode.SetGlobalInstr(identifier))
	}
	return nil
}

// VisitFunctionDef compiles the body in a fresh Compiler context seeded
// with the parameter names, then splices MakeFunction and the body
// instructions into the enclosing stream.
func (c *Compiler) VisitFunctionDef(stmt ast.FunctionDef) any {
	params := make([]string, len(stmt.Params))
	for i, p := range stmt.Params {
		params[i] = p.Lexeme
	}

	body := newCompiler(params)
	for _, s := range stmt.Body {
		s.AcceptStmt(body)
	}
	if len(body.instructions) == 0 || body.instructions[len(body.instructions)-1].Op != bytecode.Return {
		body.emit(bytecode.PushNoneInstr())
		body.emit(bytecode.ReturnInstr())
	}

	c.emit(bytecode.MakeFunctionInstr(stmt.Name.Lexeme, params, int32(len(body.instructions))))
	c.instructions = append(c.instructions, body.instructions...)
	c.emit(bytecode.PushNoneInstr())
	return nil
}

func (c *Compiler) VisitReturn(stmt ast.Return) any {
	if stmt.Value != nil {
		stmt.Value.AcceptExpr(c)
	} else {
		c.emit(bytecode.PushNoneInstr())
	}
	c.emit(bytecode.ReturnInstr())
	return nil
}

func (c *Compiler) VisitIf(stmt ast.If) any {
	stmt.Test.AcceptExpr(c)
	jumpIfFalse := c.emit(bytecode.JumpIfFalseInstr(0))

	for _, s := range stmt.Then {
		s.AcceptStmt(c)
	}

	var jumpToEnd int
	hasElse := len(stmt.Else) > 0
	if hasElse {
		jumpToEnd = c.emit(bytecode.JumpInstr(0))
	}

	c.patchTarget(jumpIfFalse, int32(len(c.instructions)))

	if hasElse {
		for _, s := range stmt.Else {
			s.AcceptStmt(c)
		}
		c.patchTarget(jumpToEnd, int32(len(c.instructions)))
	}
	return nil
}

func (c *Compiler) VisitWhile(stmt ast.While) any {
	loopStart := int32(len(c.instructions))
	stmt.Test.AcceptExpr(c)
	jumpToEnd := c.emit(bytecode.JumpIfFalseInstr(0))

	for _, s := range stmt.Body {
		s.AcceptStmt(c)
	}
	c.emit(bytecode.JumpInstr(loopStart))

	c.patchTarget(jumpToEnd, int32(len(c.instructions)))
	return nil
}
