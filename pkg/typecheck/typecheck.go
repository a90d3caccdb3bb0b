// Package typecheck implements the scope-construction and static type
// checking pass: it builds the scope tree over the program, resolves
// every identifier, and annotates every expression node with its
// inferred datatype.DataType.
package typecheck

import (
	"github.com/devren-holt/lumenc/pkg/ast"
	"github.com/devren-holt/lumenc/pkg/datatype"
	"github.com/devren-holt/lumenc/pkg/scope"
	"github.com/devren-holt/lumenc/pkg/semerr"
)

// Checker walks a Program's top-level declarations in source order,
// building scope.Scope values and setting ast.Expr.SetType as it goes.
// Within a block it checks every declaration (Block.Decls) before any
// statement (Block.Stmts), not in the interleaved order of Block.Items. The zero value is ready to
// use via Check.
type Checker struct {
	currentScope    *scope.Scope
	currentFunction *ast.FuncDecl

	// forwardDeclared is set by CheckWithForwardDecls once its pre-pass
	// has already installed every top-level function's signature into
	// the global scope. checkFuncDecl consults it to skip the
	// redeclaration guard and the AddFunction call it would otherwise
	// run a second time for the same binding.
	forwardDeclared bool
}

// Check runs the scope-and-type pass over prog, returning the first
// semerr.Error encountered. On success every Expr in prog has a
// non-IOTA DataType, except a call to a function declared without a
// return type, which keeps IOTA; prog.Scope is the populated global
// scope.
func Check(prog *ast.Program) error {
	c := &Checker{}
	return c.checkProgram(prog)
}

// CheckWithForwardDecls is an optional variant that installs every
// top-level function's signature before typing any body, enabling
// mutual recursion regardless of declaration order. The default Check
// does not do this — preserved fidelity to the reference compiler,
// where only direct recursion works (see design notes).
func CheckWithForwardDecls(prog *ast.Program) error {
	c := &Checker{forwardDeclared: true}
	prog.Scope = scope.New(nil)
	c.currentScope = prog.Scope

	for _, decl := range prog.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if c.currentScope.ExistsInCurrentScope(fn.Name) {
			return semerr.New(semerr.RedeclaredFunction, semerr.ForFunction(fn.Name))
		}
		c.currentScope.AddFunction(fn.Name, fn.RetType.DataType(), paramTypes(fn.Params))
	}

	for _, decl := range prog.Decls {
		if err := c.checkDecl(decl); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkProgram(prog *ast.Program) error {
	prog.Scope = scope.New(nil)
	c.currentScope = prog.Scope

	for _, decl := range prog.Decls {
		if err := c.checkDecl(decl); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkDecl(d ast.Decl) error {
	switch n := d.(type) {
	case *ast.VarDecl:
		return c.checkVarDecl(n)
	case *ast.LetDecl:
		return c.checkLetDecl(n)
	case *ast.FuncDecl:
		return c.checkFuncDecl(n)
	default:
		return nil
	}
}

func (c *Checker) checkRedeclaration(name string) error {
	if !c.currentScope.ExistsInCurrentScope(name) {
		return nil
	}
	existing := c.currentScope.Lookup(name)
	if existing != nil && existing.Kind == scope.Function {
		return semerr.New(semerr.FunctionUsedAsVariable, semerr.ForFunction(name))
	}
	return semerr.New(semerr.RedeclaredIdentifier, semerr.ForIdentifier(name))
}

func (c *Checker) checkVarDecl(n *ast.VarDecl) error {
	if err := c.checkRedeclaration(n.Name); err != nil {
		return err
	}

	declared := n.Type.DataType()
	if err := c.checkExpr(n.Init); err != nil {
		return err
	}
	initType := n.Init.Type()

	if !datatype.Compat(declared, initType) {
		return semerr.New(semerr.VarDeclTypeMismatch, semerr.ForIdentifierTypeMismatch(n.Name, declared, initType))
	}

	c.currentScope.AddSymbol(n.Name, scope.Variable, declared)
	return nil
}

func (c *Checker) checkLetDecl(n *ast.LetDecl) error {
	if err := c.checkRedeclaration(n.Name); err != nil {
		return err
	}

	declared := n.Type.DataType()
	if err := c.checkExpr(n.Init); err != nil {
		return err
	}
	initType := n.Init.Type()

	if !datatype.Compat(declared, initType) {
		return semerr.New(semerr.VarDeclTypeMismatch, semerr.ForIdentifierTypeMismatch(n.Name, declared, initType))
	}

	c.currentScope.AddSymbol(n.Name, scope.Constant, declared)
	return nil
}

func paramTypes(params []*ast.Param) []datatype.DataType {
	types := make([]datatype.DataType, len(params))
	for i, p := range params {
		types[i] = p.Type.DataType()
	}
	return types
}

func (c *Checker) checkFuncDecl(n *ast.FuncDecl) error {
	if !c.forwardDeclared {
		if c.currentScope.ExistsInCurrentScope(n.Name) {
			return semerr.New(semerr.RedeclaredFunction, semerr.ForFunction(n.Name))
		}
		retType := n.RetType.DataType()
		c.currentScope.AddFunction(n.Name, retType, paramTypes(n.Params))
	}

	n.Scope = scope.New(c.currentScope)
	outerScope := c.currentScope
	c.currentScope = n.Scope

	for _, param := range n.Params {
		if c.currentScope.ExistsInCurrentScope(param.Name) {
			c.currentScope = outerScope
			return semerr.New(semerr.RedeclaredIdentifier, semerr.ForIdentifier(param.Name))
		}
		c.currentScope.AddSymbol(param.Name, scope.Variable, param.Type.DataType())
	}

	savedFunction := c.currentFunction
	c.currentFunction = n

	err := c.checkBlock(n.Body)

	c.currentFunction = savedFunction
	c.currentScope = outerScope
	return err
}

func (c *Checker) checkBlock(b *ast.Block) error {
	b.Scope = scope.New(c.currentScope)
	outerScope := c.currentScope
	c.currentScope = b.Scope

	for _, d := range b.Decls {
		if err := c.checkDecl(d); err != nil {
			c.currentScope = outerScope
			return err
		}
	}
	for _, s := range b.Stmts {
		if err := c.checkStmt(s); err != nil {
			c.currentScope = outerScope
			return err
		}
	}

	c.currentScope = outerScope
	return nil
}

func (c *Checker) checkStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Assign:
		return c.checkAssign(n)
	case *ast.Print:
		return c.checkExpr(n.Expr)
	case *ast.Return:
		return c.checkReturn(n)
	case *ast.If:
		return c.checkIf(n)
	case *ast.While:
		return c.checkWhile(n)
	case *ast.Block:
		return c.checkBlock(n)
	default:
		return nil
	}
}

func (c *Checker) checkAssign(n *ast.Assign) error {
	symbol := c.currentScope.Lookup(n.Name)
	if symbol == nil {
		return semerr.New(semerr.UndeclaredIdentifier, semerr.ForIdentifier(n.Name))
	}
	if symbol.Kind == scope.Function {
		return semerr.New(semerr.FunctionUsedAsVariable, semerr.ForFunction(n.Name))
	}
	if symbol.Kind == scope.Constant {
		return semerr.New(semerr.VarAssignToConstant, semerr.ForIdentifier(n.Name))
	}

	if err := c.checkExpr(n.Rhs); err != nil {
		return err
	}
	rhsType := n.Rhs.Type()
	if !datatype.Compat(symbol.Type, rhsType) {
		return semerr.New(semerr.VarAssignTypeMismatch, semerr.ForIdentifierTypeMismatch(n.Name, symbol.Type, rhsType))
	}
	return nil
}

func (c *Checker) checkReturn(n *ast.Return) error {
	if c.currentFunction == nil {
		return semerr.New(semerr.ReturnOutsideFunction, semerr.Context{})
	}
	expectedType := c.currentFunction.RetType.DataType()

	if n.Expr == nil {
		if expectedType != datatype.IOTA {
			return semerr.New(semerr.ReturnTypeMismatch, semerr.ForReturnTypeMismatch(c.currentFunction.Name, expectedType, datatype.IOTA))
		}
		return nil
	}

	if err := c.checkExpr(n.Expr); err != nil {
		return err
	}
	returnType := n.Expr.Type()
	if !datatype.Compat(expectedType, returnType) {
		return semerr.New(semerr.ReturnTypeMismatch, semerr.ForReturnTypeMismatch(c.currentFunction.Name, expectedType, returnType))
	}
	return nil
}

func (c *Checker) checkIf(n *ast.If) error {
	if err := c.checkExpr(n.Cond); err != nil {
		return err
	}
	if n.Cond.Type() != datatype.BOOL {
		return semerr.New(semerr.ConditionNotBool, semerr.Context{})
	}
	if err := c.checkBlock(n.Then); err != nil {
		return err
	}
	if n.Else != nil {
		return c.checkBlock(n.Else)
	}
	return nil
}

func (c *Checker) checkWhile(n *ast.While) error {
	if err := c.checkExpr(n.Cond); err != nil {
		return err
	}
	if n.Cond.Type() != datatype.BOOL {
		return semerr.New(semerr.ConditionNotBool, semerr.Context{})
	}
	return c.checkBlock(n.Body)
}

func (c *Checker) checkExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.IntLit:
		n.SetType(datatype.INT)
		return nil
	case *ast.FloatLit:
		n.SetType(datatype.FLOAT)
		return nil
	case *ast.BoolLit:
		n.SetType(datatype.BOOL)
		return nil
	case *ast.Id:
		return c.checkId(n)
	case *ast.UnaryOp:
		return c.checkUnaryOp(n)
	case *ast.BinaryOp:
		return c.checkBinaryOp(n)
	case *ast.Call:
		return c.checkCall(n)
	default:
		return nil
	}
}

func (c *Checker) checkId(n *ast.Id) error {
	symbol := c.currentScope.Lookup(n.Name)
	if symbol == nil {
		return semerr.New(semerr.UndeclaredIdentifier, semerr.ForIdentifier(n.Name))
	}
	if symbol.Kind == scope.Function {
		return semerr.New(semerr.FunctionUsedAsVariable, semerr.ForFunction(n.Name))
	}
	n.SetType(symbol.Type)
	return nil
}

func (c *Checker) checkUnaryOp(n *ast.UnaryOp) error {
	if err := c.checkExpr(n.Expr); err != nil {
		return err
	}
	operandType := n.Expr.Type()
	if n.Op == ast.Neg {
		if !datatype.Numeric(operandType) {
			return semerr.New(semerr.InvalidUnaryOperation, semerr.ForActualType(operandType))
		}
		n.SetType(operandType)
	}
	return nil
}

func (c *Checker) checkBinaryOp(n *ast.BinaryOp) error {
	if err := c.checkExpr(n.Left); err != nil {
		return err
	}
	if err := c.checkExpr(n.Right); err != nil {
		return err
	}
	leftType, rightType := n.Left.Type(), n.Right.Type()

	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div:
		if !datatype.Numeric(leftType) || !datatype.Numeric(rightType) {
			return semerr.New(semerr.InvalidBinaryOperation, semerr.ForOperatorTypes(n.Op.String(), leftType, rightType))
		}
		if leftType == datatype.FLOAT || rightType == datatype.FLOAT {
			n.SetType(datatype.FLOAT)
		} else {
			n.SetType(datatype.INT)
		}
	default: // Eq, Neq, Lt, Gt, Le, Ge
		bothNumeric := datatype.Numeric(leftType) && datatype.Numeric(rightType)
		sameType := leftType == rightType
		if !bothNumeric && !sameType {
			return semerr.New(semerr.InvalidBinaryOperation, semerr.ForOperatorTypes(n.Op.String(), leftType, rightType))
		}
		n.SetType(datatype.BOOL)
	}
	return nil
}

func (c *Checker) checkCall(n *ast.Call) error {
	symbol := c.currentScope.Lookup(n.Callee)
	if symbol == nil {
		return semerr.New(semerr.UndeclaredFunction, semerr.ForFunction(n.Callee))
	}
	if symbol.Kind != scope.Function {
		return semerr.New(semerr.NotAFunction, semerr.ForIdentifier(n.Callee))
	}
	if len(n.Args) != len(symbol.ParamTypes) {
		return semerr.New(semerr.WrongNumberOfArguments, semerr.ForArgCount(n.Callee, len(symbol.ParamTypes), len(n.Args)))
	}

	argTypes := make([]datatype.DataType, len(n.Args))
	for i, arg := range n.Args {
		if err := c.checkExpr(arg); err != nil {
			return err
		}
		argTypes[i] = arg.Type()
		if !datatype.Compat(symbol.ParamTypes[i], argTypes[i]) {
			return semerr.New(semerr.InvalidSignature, semerr.ForSignature(n.Callee, symbol.ParamTypes, argTypes))
		}
	}
	n.SetType(symbol.Type)
	return nil
}
