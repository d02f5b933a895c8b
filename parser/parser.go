// Package parser builds the quickpy ast from a token stream via
// recursive-descent, the same top-down shape nilan/parser uses, generalized
// from Nilan's brace/semicolon grammar to quickpy's indentation-sensitive
// one (blocks are INDENT ... DEDENT, statements end at NEWLINE).
package parser

import (
	"fmt"

	"quickpy/ast"
	"quickpy/token"
)

// Parser consumes a flat token slice (as produced by lexer.Scan) and
// produces ast nodes.
type Parser struct {
	tokens   []token.Token
	position int
}

// New creates a Parser over tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) isFinished() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) check(t token.TokenType) bool {
	if p.isFinished() {
		return t == token.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.TokenType, message string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, fmt.Errorf("%s (got %s, line %d)", message, p.peek().Type, p.peek().Line)
}

// skipBlankLines consumes stray NEWLINE tokens between statements (blank
// lines and comment-only lines never reach the parser as anything else).
func (p *Parser) skipBlankLines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

// ParseProgram parses a full statement sequence up to EOF. This is the
// "statement mode" half of the compiler's two-attempt parse described in
// spec.md §4.1: a module body.
func (p *Parser) ParseProgram() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	p.skipBlankLines()
	for !p.isFinished() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipBlankLines()
	}
	return stmts, nil
}

// ParseSingleExpression parses exactly one expression and requires that
// nothing but trailing newlines/EOF follow it. This backs the compiler's
// fallback "bare expression" parse attempt.
func (p *Parser) ParseSingleExpression() (ast.Expression, error) {
	p.skipBlankLines()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.skipBlankLines()
	if !p.isFinished() {
		return nil, fmt.Errorf("unexpected trailing input at line %d", p.peek().Line)
	}
	return expr, nil
}

func (p *Parser) block() ([]ast.Stmt, error) {
	if _, err := p.consume(token.COLON, "expected ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.NEWLINE, "expected newline after ':'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.INDENT, "expected an indented block"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	p.skipBlankLines()
	for !p.check(token.DEDENT) && !p.isFinished() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipBlankLines()
	}
	if _, err := p.consume(token.DEDENT, "expected dedent to close block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.check(token.DEF):
		return p.functionDef()
	case p.check(token.RETURN):
		return p.returnStatement()
	case p.check(token.IF):
		return p.ifStatement()
	case p.check(token.WHILE):
		return p.whileStatement()
	default:
		return p.simpleStatement()
	}
}

func (p *Parser) functionDef() (ast.Stmt, error) {
	p.advance() // DEF
	name, err := p.consume(token.IDENTIFIER, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPA, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []token.Token
	if !p.check(token.RPA) {
		for {
			param, err := p.consume(token.IDENTIFIER, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPA, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.FunctionDef{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	p.advance() // RETURN
	var value ast.Expression
	if !p.check(token.NEWLINE) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.NEWLINE, "expected newline after return statement"); err != nil {
		return nil, err
	}
	return ast.Return{Value: value}, nil
}

// ifStatement parses both `if` and, recursively, `elif` — an elif is
// compiled as a nested If inside the Else branch, so the same method
// handles both by looking at which keyword is current.
func (p *Parser) ifStatement() (ast.Stmt, error) {
	p.advance() // IF or ELIF
	test, err := p.expression()
	if err != nil {
		return nil, err
	}
	thenBody, err := p.block()
	if err != nil {
		return nil, err
	}
	var elseBody []ast.Stmt
	switch {
	case p.check(token.ELIF):
		nested, err := p.ifStatement()
		if err != nil {
			return nil, err
		}
		elseBody = []ast.Stmt{nested}
	case p.match(token.ELSE):
		elseBody, err = p.block()
		if err != nil {
			return nil, err
		}
	}
	return ast.If{Test: test, Then: thenBody, Else: elseBody}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	p.advance() // WHILE
	test, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.While{Test: test, Body: body}, nil
}

// simpleStatement is either a bare-identifier assignment or an expression
// statement, terminated by NEWLINE.
func (p *Parser) simpleStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.check(token.ASSIGN) {
		name, ok := expr.(ast.Name)
		if !ok {
			return nil, fmt.Errorf("Unsupported statement: invalid assignment target, line %d", p.peek().Line)
		}
		p.advance() // '='
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.NEWLINE, "expected newline after assignment"); err != nil {
			return nil, err
		}
		return ast.Assign{Name: name.Identifier, Value: value}, nil
	}
	if _, err := p.consume(token.NEWLINE, "expected newline after expression statement"); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expr}, nil
}

// expression is the grammar's entry point: a single, non-chained
// comparison over two arithmetic terms, or just the arithmetic term itself.
func (p *Parser) expression() (ast.Expression, error) {
	return p.comparison()
}

var comparisonOps = []token.TokenType{
	token.EQUAL_EQUAL, token.NOT_EQUAL,
	token.LESS, token.LESS_EQUAL,
	token.LARGER, token.LARGER_EQUAL,
}

func (p *Parser) comparison() (ast.Expression, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	if p.match(comparisonOps...) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		return ast.Compare{Left: left, Operator: op, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) term() (ast.Expression, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(token.ADD, token.SUB) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) factor() (ast.Expression, error) {
	left, err := p.call()
	if err != nil {
		return nil, err
	}
	for p.match(token.MULT, token.DIV) {
		op := p.previous()
		right, err := p.call()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.check(token.LPA) {
		p.advance() // '('
		var args []ast.Expression
		if !p.check(token.RPA) {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.consume(token.RPA, "expected ')' after call arguments"); err != nil {
			return nil, err
		}
		expr = ast.Call{Callee: expr, Args: args}
	}
	return expr, nil
}

// primary also absorbs parenthesized grouping: since recursive descent
// already resolves precedence structurally, a parenthesized expression
// needs no dedicated ast node, it's just returned as-is.
func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.INT, token.FLOAT, token.STRING):
		return ast.Literal{Value: p.previous().Literal}, nil
	case p.match(token.TRUE):
		return ast.Literal{Value: true}, nil
	case p.match(token.FALSE):
		return ast.Literal{Value: false}, nil
	case p.match(token.NONE):
		return ast.Literal{Value: nil}, nil
	case p.match(token.IDENTIFIER):
		return ast.Name{Identifier: p.previous()}, nil
	case p.match(token.LPA):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPA, "expected ')' after grouped expression"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, fmt.Errorf("Unsupported expression: unexpected token %s, line %d", p.peek().Type, p.peek().Line)
	}
}
