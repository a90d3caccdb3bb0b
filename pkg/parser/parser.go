// Package parser implements a recursive-descent parser that turns a
// token stream into a pkg/ast.Program. Like pkg/lexer, Parser never
// panics on malformed input: errors accumulate in Errors() so the
// driver can report every syntax error found in one pass instead of
// stopping at the first one.
package parser

import (
	"fmt"
	"strconv"

	"github.com/devren-holt/lumenc/pkg/ast"
	"github.com/devren-holt/lumenc/pkg/datatype"
	"github.com/devren-holt/lumenc/pkg/lexer"
)

// Parser parses source text into a pkg/ast.Program.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns every syntax error accumulated while parsing.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.curToken.Type))
	return false
}

// ParseProgram parses the entire input as a sequence of top-level
// declarations.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for !p.curTokenIs(lexer.TokenEOF) {
		decl := p.parseTopLevelDecl()
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		} else {
			p.nextToken()
		}
	}

	return prog
}

func (p *Parser) parseTopLevelDecl() ast.Decl {
	switch p.curToken.Type {
	case lexer.TokenVar:
		return p.parseVarDecl()
	case lexer.TokenLet:
		return p.parseLetDecl()
	case lexer.TokenFunc:
		return p.parseFuncDecl()
	default:
		p.addError(fmt.Sprintf("expected declaration, got %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseType() *ast.Type {
	var kind datatype.BaseType
	switch p.curToken.Type {
	case lexer.TokenInt:
		kind = datatype.BaseInt
	case lexer.TokenFloat:
		kind = datatype.BaseFloat
	case lexer.TokenBool:
		kind = datatype.BaseBool
	default:
		p.addError(fmt.Sprintf("expected type, got %s", p.curToken.Type))
		return nil
	}
	p.nextToken()
	return &ast.Type{Kind: kind}
}

func (p *Parser) parseVarDecl() ast.Decl {
	p.nextToken() // consume 'var'
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected identifier, got %s", p.curToken.Type))
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.TokenColon) {
		return nil
	}
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	if !p.expect(lexer.TokenAssign) {
		return nil
	}
	init := p.parseExpression()
	return &ast.VarDecl{Name: name, Type: typ, Init: init}
}

func (p *Parser) parseLetDecl() ast.Decl {
	p.nextToken() // consume 'let'
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected identifier, got %s", p.curToken.Type))
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.TokenColon) {
		return nil
	}
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	if !p.expect(lexer.TokenAssign) {
		return nil
	}
	init := p.parseExpression()
	return &ast.LetDecl{Name: name, Type: typ, Init: init}
}

func (p *Parser) parseFuncDecl() ast.Decl {
	p.nextToken() // consume 'func'
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected function name, got %s", p.curToken.Type))
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	var params []*ast.Param
	for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(fmt.Sprintf("expected parameter name, got %s", p.curToken.Type))
			return nil
		}
		pname := p.curToken.Literal
		p.nextToken()
		if !p.expect(lexer.TokenColon) {
			return nil
		}
		ptype := p.parseType()
		if ptype == nil {
			return nil
		}
		params = append(params, &ast.Param{Name: pname, Type: ptype})
		if p.curTokenIs(lexer.TokenComma) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(lexer.TokenRParen) {
		return nil
	}

	var retType *ast.Type
	if p.curTokenIs(lexer.TokenColon) {
		p.nextToken()
		retType = p.parseType()
	}

	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
		return nil
	}
	body := p.parseBlock()

	return &ast.FuncDecl{Name: name, Params: params, RetType: retType, Body: body}
}

func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{}
	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		switch p.curToken.Type {
		case lexer.TokenVar:
			if d, ok := p.parseVarDecl().(*ast.VarDecl); ok && d != nil {
				block.Decls = append(block.Decls, d)
				block.Items = append(block.Items, d)
			} else {
				p.nextToken()
			}
		case lexer.TokenLet:
			if d, ok := p.parseLetDecl().(*ast.LetDecl); ok && d != nil {
				block.Decls = append(block.Decls, d)
				block.Items = append(block.Items, d)
			} else {
				p.nextToken()
			}
		default:
			stmt := p.parseStatement()
			if stmt != nil {
				block.Stmts = append(block.Stmts, stmt)
				block.Items = append(block.Items, stmt)
			} else {
				p.nextToken()
			}
		}
	}

	p.expect(lexer.TokenRBrace)
	return block
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenPrint:
		return p.parsePrintStatement()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile:
		return p.parseWhileStatement()
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenIdent:
		return p.parseAssignStatement()
	default:
		p.addError(fmt.Sprintf("unexpected token in statement: %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseReturnStatement() ast.Stmt {
	p.nextToken() // consume 'return'
	var expr ast.Expr
	if !p.curTokenIs(lexer.TokenRBrace) {
		expr = p.parseExpression()
	}
	return &ast.Return{Expr: expr}
}

func (p *Parser) parsePrintStatement() ast.Stmt {
	p.nextToken() // consume 'print'
	expr := p.parseExpression()
	return &ast.Print{Expr: expr}
}

func (p *Parser) parseAssignStatement() ast.Stmt {
	name := p.curToken.Literal
	p.nextToken()
	if !p.expect(lexer.TokenAssign) {
		return nil
	}
	rhs := p.parseExpression()
	return &ast.Assign{Name: name, Rhs: rhs}
}

func (p *Parser) parseIfStatement() ast.Stmt {
	p.nextToken() // consume 'if'
	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	cond := p.parseExpression()
	if !p.expect(lexer.TokenRParen) {
		return nil
	}
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
		return nil
	}
	then := p.parseBlock()

	var elseBlock *ast.Block
	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken()
		if !p.curTokenIs(lexer.TokenLBrace) {
			p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
			return nil
		}
		elseBlock = p.parseBlock()
	}

	return &ast.If{Cond: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	p.nextToken() // consume 'while'
	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	cond := p.parseExpression()
	if !p.expect(lexer.TokenRParen) {
		return nil
	}
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
		return nil
	}
	body := p.parseBlock()
	return &ast.While{Cond: cond, Body: body}
}

// Expression parsing follows standard precedence climbing:
// equality < relational < additive < multiplicative < unary < primary.

func (p *Parser) parseExpression() ast.Expr {
	return p.parseEquality()
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.curTokenIs(lexer.TokenEq) || p.curTokenIs(lexer.TokenNe) {
		op := ast.Eq
		if p.curToken.Type == lexer.TokenNe {
			op = ast.Neq
		}
		p.nextToken()
		right := p.parseRelational()
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for p.curTokenIs(lexer.TokenLt) || p.curTokenIs(lexer.TokenGt) ||
		p.curTokenIs(lexer.TokenLe) || p.curTokenIs(lexer.TokenGe) {
		var op ast.BinOp
		switch p.curToken.Type {
		case lexer.TokenLt:
			op = ast.Lt
		case lexer.TokenGt:
			op = ast.Gt
		case lexer.TokenLe:
			op = ast.Le
		case lexer.TokenGe:
			op = ast.Ge
		}
		p.nextToken()
		right := p.parseAdditive()
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.curTokenIs(lexer.TokenPlus) || p.curTokenIs(lexer.TokenMinus) {
		op := ast.Add
		if p.curToken.Type == lexer.TokenMinus {
			op = ast.Sub
		}
		p.nextToken()
		right := p.parseMultiplicative()
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.curTokenIs(lexer.TokenStar) || p.curTokenIs(lexer.TokenSlash) {
		op := ast.Mul
		if p.curToken.Type == lexer.TokenSlash {
			op = ast.Div
		}
		p.nextToken()
		right := p.parseUnary()
		left = &ast.BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.curTokenIs(lexer.TokenMinus) {
		p.nextToken()
		expr := p.parseUnary()
		return &ast.UnaryOp{Op: ast.Neg, Expr: expr}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.curToken.Type {
	case lexer.TokenIntLit:
		value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid integer literal %q", p.curToken.Literal))
		}
		p.nextToken()
		return &ast.IntLit{Value: value}
	case lexer.TokenFloatLit:
		value, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid float literal %q", p.curToken.Literal))
		}
		p.nextToken()
		return &ast.FloatLit{Value: value}
	case lexer.TokenTrue:
		p.nextToken()
		return &ast.BoolLit{Value: true}
	case lexer.TokenFalse:
		p.nextToken()
		return &ast.BoolLit{Value: false}
	case lexer.TokenIdent:
		name := p.curToken.Literal
		p.nextToken()
		if p.curTokenIs(lexer.TokenLParen) {
			return p.parseCall(name)
		}
		return &ast.Id{Name: name}
	case lexer.TokenLParen:
		p.nextToken()
		expr := p.parseExpression()
		p.expect(lexer.TokenRParen)
		return expr
	default:
		p.addError(fmt.Sprintf("expected expression, got %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseCall(callee string) ast.Expr {
	p.nextToken() // consume '('
	var args []ast.Expr
	for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
		args = append(args, p.parseExpression())
		if p.curTokenIs(lexer.TokenComma) {
			p.nextToken()
		} else {
			break
		}
	}
	p.expect(lexer.TokenRParen)
	return &ast.Call{Callee: callee, Args: args}
}
