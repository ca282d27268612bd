// Package parser turns a token stream into an ast.Arena plus the ordered
// list of top-level statement handles, using Pratt-style expression parsing
// over a fixed operator-precedence table. This operationally implements the
// "expression assembly by insertion" description: at each step the parser
// either descends into a tighter-binding prefix position or climbs back up
// the expression it is building, which produces exactly the same tree
// shapes (lower-precedence operators end up closer to the root, parenthesised
// subexpressions are opaque leaves) as an explicit insertion walk would.
package parser

import (
	"fmt"

	"github.com/oarkflow/turtlescript/internal/ast"
	"github.com/oarkflow/turtlescript/internal/lexer"
	"github.com/oarkflow/turtlescript/internal/token"
)

// precedence levels, highest number binds tightest. This is the inverse of
// spec.md's "0 = tightest" table but the same relation.
const (
	precLowest = iota
	precLogical
	precComparison
	precSum
	precProduct
	precPower
	precPrefix
)

var binaryPrecedence = map[token.Kind]int{
	token.And: precLogical, token.Or: precLogical,
	token.CompareEqual: precComparison, token.CompareNotEqual: precComparison,
	token.CompareLess: precComparison, token.CompareLessEqual: precComparison,
	token.CompareGreater: precComparison, token.CompareGreaterEqual: precComparison,
	token.Plus: precSum, token.Minus: precSum,
	token.Asterisk: precProduct, token.Slash: precProduct, token.Percent: precProduct,
	token.Caret: precPower,
}

var binaryOpOf = map[token.Kind]ast.BinaryOp{
	token.Plus: ast.BinAdd, token.Minus: ast.BinSub,
	token.Asterisk: ast.BinMul, token.Slash: ast.BinDiv, token.Percent: ast.BinMod,
	token.Caret: ast.BinPow,
	token.CompareEqual: ast.BinEq, token.CompareNotEqual: ast.BinNeq,
	token.CompareLess: ast.BinLt, token.CompareLessEqual: ast.BinLe,
	token.CompareGreater: ast.BinGt, token.CompareGreaterEqual: ast.BinGe,
	token.And: ast.BinAnd, token.Or: ast.BinOr,
}

var assignOpOf = map[token.Kind]ast.AssignOp{
	token.Equals:         ast.AssignSet,
	token.PlusEquals:     ast.AssignAdd,
	token.MinusEquals:    ast.AssignSub,
	token.AsteriskEquals: ast.AssignMul,
	token.SlashEquals:    ast.AssignDiv,
	token.PercentEquals:  ast.AssignMod,
	token.CaretEquals:    ast.AssignPow,
}

// Error is a parse-time failure, already formatted as spec.md §7 requires:
// "[Syntax error] Line N: ...".
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[Syntax error] Line %d: %s", e.Line, e.Message)
}

type Parser struct {
	lex *lexer.Lexer
	ar  *ast.Arena

	cur  token.Token
	peek token.Token

	loopDepth int
	funcDepth int
}

// Parse runs the full lex->parse pipeline and returns the arena plus the
// ordered top-level statement list, or the first error encountered (parsing
// aborts on the first failure, as spec.md §4.3 requires).
func Parse(src []byte) (*ast.Arena, []ast.StmtHandle, error) {
	lx, err := lexer.New(src)
	if err != nil {
		return nil, nil, err
	}
	p := &Parser{lex: lx, ar: ast.NewArena()}
	p.cur = p.lex.Next()
	p.peek = p.lex.Next()

	var stmts []ast.StmtHandle
	for p.cur.Kind != token.EOF {
		s, err := p.parseStatement()
		if err != nil {
			return nil, nil, err
		}
		if s != ast.NoStmt {
			stmts = append(stmts, s)
		}
	}
	return p.ar, stmts, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) errf(format string, args ...any) error {
	return &Error{Line: p.cur.Line, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(k token.Kind) error {
	if p.cur.Kind != k {
		return p.errf("expected %s, got %s", k, p.cur.Kind)
	}
	p.advance()
	return nil
}

// parseStatement dispatches on the current token per the grammar summary.
func (p *Parser) parseStatement() (ast.StmtHandle, error) {
	switch p.cur.Kind {
	case token.Semicolon:
		p.advance()
		return ast.NoStmt, nil
	case token.Let:
		return p.parseDeclaration()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Func:
		return p.parseFuncDef()
	case token.Break:
		if p.loopDepth == 0 {
			return ast.NoStmt, p.errf("'break' outside a loop")
		}
		line := p.cur.Line
		p.advance()
		if err := p.expect(token.Semicolon); err != nil {
			return ast.NoStmt, err
		}
		return p.ar.NewStmt(ast.Stmt{Kind: ast.StmtBreak, Line: line}), nil
	case token.Continue:
		if p.loopDepth == 0 {
			return ast.NoStmt, p.errf("'continue' outside a loop")
		}
		line := p.cur.Line
		p.advance()
		if err := p.expect(token.Semicolon); err != nil {
			return ast.NoStmt, err
		}
		return p.ar.NewStmt(ast.Stmt{Kind: ast.StmtContinue, Line: line}), nil
	case token.Return:
		if p.funcDepth == 0 {
			return ast.NoStmt, p.errf("'return' outside a function")
		}
		return p.parseReturn()
	default:
		return p.parseAssignOrExpr()
	}
}

func (p *Parser) parseBlock() ([]ast.StmtHandle, error) {
	if err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var stmts []ast.StmtHandle
	for p.cur.Kind != token.RBrace {
		if p.cur.Kind == token.EOF {
			return nil, p.errf("unterminated block, expected '}'")
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if s != ast.NoStmt {
			stmts = append(stmts, s)
		}
	}
	p.advance() // consume '}'
	return stmts, nil
}

func (p *Parser) parseDeclaration() (ast.StmtHandle, error) {
	line := p.cur.Line
	p.advance() // 'let'
	if p.cur.Kind != token.Identifier {
		return ast.NoStmt, p.errf("expected identifier after 'let'")
	}
	name := p.cur.Text
	p.advance()
	if err := p.expect(token.Equals); err != nil {
		return ast.NoStmt, p.errf("declaration without initializer")
	}
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return ast.NoStmt, err
	}
	if err := p.expect(token.Semicolon); err != nil {
		return ast.NoStmt, err
	}
	return p.ar.NewStmt(ast.Stmt{Kind: ast.StmtDeclaration, Line: line, DeclVar: name, DeclName: value}), nil
}

func (p *Parser) parseIf() (ast.StmtHandle, error) {
	line := p.cur.Line
	p.advance() // 'if'
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return ast.NoStmt, err
	}
	thenBody, err := p.parseBlock()
	if err != nil {
		return ast.NoStmt, err
	}
	stmt := ast.Stmt{Kind: ast.StmtIf, Line: line, IfCond: cond, ThenBody: thenBody}
	if p.cur.Kind == token.Else {
		p.advance()
		stmt.HasElse = true
		if p.cur.Kind == token.LBrace {
			elseBody, err := p.parseBlock()
			if err != nil {
				return ast.NoStmt, err
			}
			stmt.ElseBody = elseBody
		} else {
			s, err := p.parseStatement()
			if err != nil {
				return ast.NoStmt, err
			}
			if s == ast.NoStmt {
				return ast.NoStmt, p.errf("'else' body must not be empty")
			}
			stmt.ElseBody = []ast.StmtHandle{s}
		}
	}
	return p.ar.NewStmt(stmt), nil
}

func (p *Parser) parseWhile() (ast.StmtHandle, error) {
	line := p.cur.Line
	p.advance() // 'while'
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return ast.NoStmt, err
	}
	p.loopDepth++
	body, err := p.parseBlock()
	p.loopDepth--
	if err != nil {
		return ast.NoStmt, err
	}
	return p.ar.NewStmt(ast.Stmt{Kind: ast.StmtWhile, Line: line, WhileCond: cond, WhileBody: body}), nil
}

func (p *Parser) parseFor() (ast.StmtHandle, error) {
	line := p.cur.Line
	p.advance() // 'for'
	if p.cur.Kind != token.Identifier {
		return ast.NoStmt, p.errf("expected loop variable name after 'for'")
	}
	name := p.cur.Text
	p.advance()
	if err := p.expect(token.Colon); err != nil {
		return ast.NoStmt, err
	}
	low, err := p.parseExpression(precLowest)
	if err != nil {
		return ast.NoStmt, err
	}
	if err := p.expect(token.Arrow); err != nil {
		return ast.NoStmt, err
	}
	high, err := p.parseExpression(precLowest)
	if err != nil {
		return ast.NoStmt, err
	}
	p.loopDepth++
	body, err := p.parseBlock()
	p.loopDepth--
	if err != nil {
		return ast.NoStmt, err
	}
	return p.ar.NewStmt(ast.Stmt{Kind: ast.StmtFor, Line: line, ForVar: name, ForLow: low, ForHigh: high, ForBody: body}), nil
}

func (p *Parser) parseFuncDef() (ast.StmtHandle, error) {
	line := p.cur.Line
	p.advance() // 'func'
	if p.cur.Kind != token.Identifier {
		return ast.NoStmt, p.errf("expected function name after 'func'")
	}
	name := p.cur.Text
	p.advance()
	if err := p.expect(token.LParen); err != nil {
		return ast.NoStmt, err
	}
	var params []string
	for p.cur.Kind != token.RParen {
		if p.cur.Kind != token.Identifier {
			return ast.NoStmt, p.errf("expected parameter name")
		}
		params = append(params, p.cur.Text)
		p.advance()
		if p.cur.Kind == token.Comma {
			p.advance()
		} else {
			break
		}
	}
	if err := p.expect(token.RParen); err != nil {
		return ast.NoStmt, err
	}
	p.funcDepth++
	// A function body starts a fresh control-flow context: break/continue
	// from an enclosing loop must not leak into it.
	prevLoopDepth := p.loopDepth
	p.loopDepth = 0
	var body []ast.StmtHandle
	var err error
	if p.cur.Kind == token.LBrace {
		body, err = p.parseBlock()
	} else {
		var s ast.StmtHandle
		s, err = p.parseStatement()
		if err == nil {
			if s == ast.NoStmt {
				err = p.errf("function body must not be empty")
			} else {
				body = []ast.StmtHandle{s}
			}
		}
	}
	p.loopDepth = prevLoopDepth
	p.funcDepth--
	if err != nil {
		return ast.NoStmt, err
	}
	return p.ar.NewStmt(ast.Stmt{Kind: ast.StmtFunctionDefinition, Line: line, FuncName: name, FuncParams: params, FuncBody: body}), nil
}

func (p *Parser) parseReturn() (ast.StmtHandle, error) {
	line := p.cur.Line
	p.advance() // 'return'
	stmt := ast.Stmt{Kind: ast.StmtReturn, Line: line}
	if p.cur.Kind != token.Semicolon {
		val, err := p.parseExpression(precLowest)
		if err != nil {
			return ast.NoStmt, err
		}
		stmt.ReturnValue = val
		stmt.HasReturnValue = true
	}
	if err := p.expect(token.Semicolon); err != nil {
		return ast.NoStmt, err
	}
	return p.ar.NewStmt(stmt), nil
}

// parseAssignOrExpr implements the assignment-vs-expression-statement
// disambiguation: parse one expression, and if an assignment operator
// follows, it is an Assignment statement with that expression as the
// lvalue target; otherwise it is a bare Expression statement.
func (p *Parser) parseAssignOrExpr() (ast.StmtHandle, error) {
	line := p.cur.Line
	left, err := p.parseExpression(precLowest)
	if err != nil {
		return ast.NoStmt, err
	}
	if p.cur.IsAssignOp() {
		op := assignOpOf[p.cur.Kind]
		p.advance()
		right, err := p.parseExpression(precLowest)
		if err != nil {
			return ast.NoStmt, err
		}
		if err := p.expect(token.Semicolon); err != nil {
			return ast.NoStmt, err
		}
		return p.ar.NewStmt(ast.Stmt{Kind: ast.StmtAssignment, Line: line, AssignTarget: left, AssignOp: op, AssignValue: right}), nil
	}
	if err := p.expect(token.Semicolon); err != nil {
		return ast.NoStmt, err
	}
	return p.ar.NewStmt(ast.Stmt{Kind: ast.StmtExpression, Line: line, Expression: left}), nil
}

// parseExpression is the Pratt loop: parse one prefix position, then keep
// absorbing infix operators whose precedence exceeds the floor passed in.
func (p *Parser) parseExpression(precedence int) (ast.ExprHandle, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return ast.NoExpr, err
	}
	for {
		left, err = p.parsePostfix(left)
		if err != nil {
			return ast.NoExpr, err
		}
		prec, ok := binaryPrecedence[p.cur.Kind]
		if !ok || prec <= precedence {
			return left, nil
		}
		left, err = p.parseInfix(left, prec)
		if err != nil {
			return ast.NoExpr, err
		}
	}
}

func (p *Parser) parsePrefix() (ast.ExprHandle, error) {
	line := p.cur.Line
	switch p.cur.Kind {
	case token.IntLiteral:
		v := p.cur.Int
		p.advance()
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprIntLiteral, Line: line, IntValue: v}), nil
	case token.FloatLiteral:
		v := p.cur.Float
		p.advance()
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprFloatLiteral, Line: line, FloatValue: v}), nil
	case token.BoolLiteral:
		v := p.cur.Bool
		p.advance()
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprBoolLiteral, Line: line, BoolValue: v}), nil
	case token.StringLiteral:
		v := p.cur.Text
		p.advance()
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprStringLiteral, Line: line, StringValue: v}), nil
	case token.Identifier:
		name := p.cur.Text
		p.advance()
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprIdentifier, Line: line, Name: name}), nil
	case token.Plus:
		p.advance()
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return ast.NoExpr, err
		}
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprUnaryPrefixOp, Line: line, UnaryOperator: ast.UnaryPlus, UnaryOperand: operand}), nil
	case token.Minus:
		p.advance()
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return ast.NoExpr, err
		}
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprUnaryPrefixOp, Line: line, UnaryOperator: ast.UnaryMinus, UnaryOperand: operand}), nil
	case token.Not:
		p.advance()
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return ast.NoExpr, err
		}
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprUnaryPrefixOp, Line: line, UnaryOperator: ast.UnaryNot, UnaryOperand: operand}), nil
	case token.Ampersand:
		p.advance()
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return ast.NoExpr, err
		}
		if p.ar.Expr(operand).Kind != ast.ExprIdentifier {
			return ast.NoExpr, &Error{Line: line, Message: "'&' requires an identifier operand"}
		}
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprUnaryPrefixOp, Line: line, UnaryOperator: ast.UnaryReference, UnaryOperand: operand}), nil
	case token.Caret:
		p.advance()
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return ast.NoExpr, err
		}
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprUnaryPrefixOp, Line: line, UnaryOperator: ast.UnaryDereference, UnaryOperand: operand}), nil
	case token.Apostrophe:
		p.advance()
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return ast.NoExpr, err
		}
		if p.ar.Expr(operand).Kind != ast.ExprIdentifier {
			return ast.NoExpr, &Error{Line: line, Message: "''' requires an identifier operand"}
		}
		return p.ar.NewExpr(ast.Expr{Kind: ast.ExprUnaryPrefixOp, Line: line, UnaryOperator: ast.UnaryParentScope, UnaryOperand: operand}), nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpression(precLowest)
		if err != nil {
			return ast.NoExpr, err
		}
		if err := p.expect(token.RParen); err != nil {
			return ast.NoExpr, err
		}
		p.ar.Expr(inner).IsParenthesised = true
		return inner, nil
	default:
		return ast.NoExpr, p.errf("unexpected token %s in expression", p.cur.Kind)
	}
}

// parsePostfix attaches function calls and array subscripts as value-like
// leaves, completing the current expression the way identifier-then-'(' or
// expr-then-'[' does in the grammar summary.
func (p *Parser) parsePostfix(left ast.ExprHandle) (ast.ExprHandle, error) {
	for {
		switch p.cur.Kind {
		case token.LParen:
			leftExpr := p.ar.Expr(left)
			if leftExpr.Kind != ast.ExprIdentifier {
				return left, nil
			}
			name := leftExpr.Name
			line := leftExpr.Line
			p.advance()
			var args []ast.ExprHandle
			for p.cur.Kind != token.RParen {
				arg, err := p.parseExpression(precLowest)
				if err != nil {
					return ast.NoExpr, err
				}
				args = append(args, arg)
				if len(args) > 16 {
					return ast.NoExpr, p.errf("call to '%s' takes at most 16 arguments", name)
				}
				if p.cur.Kind == token.Comma {
					p.advance()
				} else {
					break
				}
			}
			if err := p.expect(token.RParen); err != nil {
				return ast.NoExpr, err
			}
			left = p.ar.NewExpr(ast.Expr{Kind: ast.ExprFunctionCall, Line: line, Name: name, Arguments: args})
		case token.LBracket:
			line := p.cur.Line
			p.advance()
			idx, err := p.parseExpression(precLowest)
			if err != nil {
				return ast.NoExpr, err
			}
			if err := p.expect(token.RBracket); err != nil {
				return ast.NoExpr, err
			}
			left = p.ar.NewExpr(ast.Expr{Kind: ast.ExprArrayAccess, Line: line, ArrayBase: left, ArrayIndex: idx})
		default:
			return left, nil
		}
	}
}

// parseInfix builds a BinaryOp node, recursing with precedence-1 at the
// power level so that `^` groups to the right (`a^b^c` == `a^(b^c)`) while
// every other operator stays left-associative.
func (p *Parser) parseInfix(left ast.ExprHandle, prec int) (ast.ExprHandle, error) {
	opKind := p.cur.Kind
	line := p.cur.Line
	p.advance()
	rhsFloor := prec
	if opKind == token.Caret {
		rhsFloor = prec - 1
	}
	right, err := p.parseExpression(rhsFloor)
	if err != nil {
		return ast.NoExpr, err
	}
	return p.ar.NewExpr(ast.Expr{Kind: ast.ExprBinaryOp, Line: line, BinaryOperator: binaryOpOf[opKind], Left: left, Right: right}), nil
}
