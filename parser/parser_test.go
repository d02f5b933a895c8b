package parser_test

import (
	"testing"

	"quickpy/ast"
	"quickpy/lexer"
	"quickpy/parser"
)

func parseProgram(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, err := parser.New(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return stmts
}

func TestParseAssignment(t *testing.T) {
	stmts := parseProgram(t, "x = 5\n")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	assign, ok := stmts[0].(ast.Assign)
	if !ok {
		t.Fatalf("expected ast.Assign, got %T", stmts[0])
	}
	if assign.Name.Lexeme != "x" {
		t.Fatalf("expected target x, got %q", assign.Name.Lexeme)
	}
	lit, ok := assign.Value.(ast.Literal)
	if !ok {
		t.Fatalf("expected ast.Literal value, got %T", assign.Value)
	}
	if lit.Value != int64(5) {
		t.Fatalf("expected literal 5, got %v", lit.Value)
	}
}

func TestParseGroupedPrecedence(t *testing.T) {
	stmts := parseProgram(t, "x = (10 + 5) * 2\n")
	assign := stmts[0].(ast.Assign)
	bin, ok := assign.Value.(ast.Binary)
	if !ok {
		t.Fatalf("expected top-level ast.Binary, got %T", assign.Value)
	}
	if bin.Operator.Type != "*" {
		t.Fatalf("expected top operator *, got %s", bin.Operator.Type)
	}
	inner, ok := bin.Left.(ast.Binary)
	if !ok {
		t.Fatalf("expected grouped left operand to be ast.Binary, got %T", bin.Left)
	}
	if inner.Operator.Type != "+" {
		t.Fatalf("expected inner operator +, got %s", inner.Operator.Type)
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "" +
		"if x < 1:\n" +
		"    y = 1\n" +
		"elif x < 2:\n" +
		"    y = 2\n" +
		"else:\n" +
		"    y = 3\n"
	stmts := parseProgram(t, src)
	top, ok := stmts[0].(ast.If)
	if !ok {
		t.Fatalf("expected ast.If, got %T", stmts[0])
	}
	if len(top.Else) != 1 {
		t.Fatalf("expected elif folded into a single nested If, got %d stmts", len(top.Else))
	}
	nested, ok := top.Else[0].(ast.If)
	if !ok {
		t.Fatalf("expected nested ast.If for elif, got %T", top.Else[0])
	}
	if len(nested.Else) != 1 {
		t.Fatalf("expected final else body, got %d stmts", len(nested.Else))
	}
}

func TestParseFunctionDefAndCall(t *testing.T) {
	src := "" +
		"def add(a, b):\n" +
		"    return a + b\n" +
		"\n" +
		"add(1, 2)\n"
	stmts := parseProgram(t, src)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(stmts))
	}
	fn, ok := stmts[0].(ast.FunctionDef)
	if !ok {
		t.Fatalf("expected ast.FunctionDef, got %T", stmts[0])
	}
	if len(fn.Params) != 2 || fn.Params[0].Lexeme != "a" || fn.Params[1].Lexeme != "b" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	exprStmt, ok := stmts[1].(ast.ExpressionStmt)
	if !ok {
		t.Fatalf("expected ast.ExpressionStmt, got %T", stmts[1])
	}
	call, ok := exprStmt.Expression.(ast.Call)
	if !ok {
		t.Fatalf("expected ast.Call, got %T", exprStmt.Expression)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 call args, got %d", len(call.Args))
	}
}

func TestParseWhileLoop(t *testing.T) {
	src := "" +
		"while x < 10:\n" +
		"    x = x + 1\n"
	stmts := parseProgram(t, src)
	loop, ok := stmts[0].(ast.While)
	if !ok {
		t.Fatalf("expected ast.While, got %T", stmts[0])
	}
	if len(loop.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(loop.Body))
	}
}

func TestParseSingleExpressionFallback(t *testing.T) {
	toks, err := lexer.New("1 + 2\n").Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	expr, err := parser.New(toks).ParseSingleExpression()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, ok := expr.(ast.Binary); !ok {
		t.Fatalf("expected ast.Binary, got %T", expr)
	}
}

func TestParseUnsupportedAssignmentTarget(t *testing.T) {
	toks, err := lexer.New("1 + 2 = 3\n").Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = parser.New(toks).ParseProgram()
	if err == nil {
		t.Fatal("expected an error for non-identifier assignment target")
	}
}
