// Package ast defines the abstract syntax tree produced by pkg/parser
// and consumed by pkg/typecheck, pkg/cflow, and pkg/codegen/mips.
//
// Node families are expressed as Go interfaces with an unexported
// marker method per family, so the compiler rejects a Stmt used where
// an Expr is expected. Each concrete node is a plain struct; passes
// dispatch on concrete type with a type switch rather than a visitor,
// per the project's style of avoiding dynamic-dispatch downcasts.
package ast

import (
	"github.com/devren-holt/lumenc/pkg/datatype"
	"github.com/devren-holt/lumenc/pkg/scope"
)

// Node is implemented by every AST node.
type Node interface {
	astNode()
}

// Decl is a top-level or block-level declaration.
type Decl interface {
	Node
	astDecl()
}

// Stmt is a statement inside a function body.
type Stmt interface {
	Node
	astStmt()
}

// Expr is an expression; every Expr carries a mutable inferred
// DataType, initially datatype.IOTA, set by pkg/typecheck.
type Expr interface {
	Node
	astExpr()
	Type() datatype.DataType
	SetType(datatype.DataType)
}

// typed is embedded by every Expr implementation to provide the
// DataType field and its accessors.
type typed struct {
	dataType datatype.DataType
}

func (t *typed) Type() datatype.DataType      { return t.dataType }
func (t *typed) SetType(dt datatype.DataType) { t.dataType = dt }

// Program is the root node: an ordered sequence of top-level
// declarations.
type Program struct {
	Decls []Decl
	Scope *scope.Scope
}

func (*Program) astNode() {}

// Type is the syntactic type annotation (int, float, bool) attached to
// a declaration or parameter.
type Type struct {
	Kind datatype.BaseType
}

func (*Type) astNode() {}

// DataType resolves the syntactic annotation to its semantic type.
func (t *Type) DataType() datatype.DataType {
	if t == nil {
		return datatype.IOTA
	}
	return t.Kind.ToDataType()
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type *Type
}

func (*Param) astNode() {}

// Block is an ordered sequence of declarations and statements, plus
// Items, a textual-order aliasing view over the same node values held
// by Decls/Stmts (never a copy). Items is what pkg/cflow and
// pkg/codegen/mips iterate; it is populated by the parser in lexical
// order as it parses each declaration or statement.
type Block struct {
	Decls []Decl
	Stmts []Stmt
	Items []Node
	Scope *scope.Scope
}

func (*Block) astNode() {}
func (*Block) astStmt() {} // a Block may itself appear nested as a statement

// VarDecl declares a mutable variable with a required initializer.
type VarDecl struct {
	Name string
	Type *Type
	Init Expr
}

func (*VarDecl) astNode() {}
func (*VarDecl) astDecl() {}

// LetDecl declares a named constant with a required initializer.
type LetDecl struct {
	Name string
	Type *Type
	Init Expr
}

func (*LetDecl) astNode() {}
func (*LetDecl) astDecl() {}

// FuncDecl declares a function. Scope is populated by pkg/typecheck
// and parented to the enclosing (global) scope.
type FuncDecl struct {
	Name    string
	Params  []*Param
	RetType *Type
	Body    *Block
	Scope   *scope.Scope
}

func (*FuncDecl) astNode() {}
func (*FuncDecl) astDecl() {}

// Assign assigns the value of Rhs to the variable named Name.
type Assign struct {
	Name string
	Rhs  Expr
}

func (*Assign) astNode() {}
func (*Assign) astStmt() {}

// Print evaluates Expr and writes its value followed by a newline.
type Print struct {
	Expr Expr
}

func (*Print) astNode() {}
func (*Print) astStmt() {}

// Return exits the enclosing function, optionally yielding a value.
type Return struct {
	Expr Expr
}

func (*Return) astNode() {}
func (*Return) astStmt() {}

// If executes Then when Cond is true, otherwise Else (if present).
type If struct {
	Cond Expr
	Then *Block
	Else *Block
}

func (*If) astNode() {}
func (*If) astStmt() {}

// While repeatedly executes Body while Cond holds.
type While struct {
	Cond Expr
	Body *Block
}

func (*While) astNode() {}
func (*While) astStmt() {}

// IntLit is an integer literal.
type IntLit struct {
	typed
	Value int64
}

func (*IntLit) astNode() {}
func (*IntLit) astExpr() {}

// FloatLit is a floating-point literal.
type FloatLit struct {
	typed
	Value float64
}

func (*FloatLit) astNode() {}
func (*FloatLit) astExpr() {}

// BoolLit is a boolean literal.
type BoolLit struct {
	typed
	Value bool
}

func (*BoolLit) astNode() {}
func (*BoolLit) astExpr() {}

// Id is a reference to a bound name.
type Id struct {
	typed
	Name string
}

func (*Id) astNode() {}
func (*Id) astExpr() {}

// UnOp is a unary operator.
type UnOp int

const (
	Neg UnOp = iota
)

func (op UnOp) String() string {
	if op == Neg {
		return "-"
	}
	return "?"
}

// UnaryOp applies Op to Expr.
type UnaryOp struct {
	typed
	Op   UnOp
	Expr Expr
}

func (*UnaryOp) astNode() {}
func (*UnaryOp) astExpr() {}

// BinOp is a binary operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Eq
	Neq
	Lt
	Gt
	Le
	Ge
)

var binOpNames = [...]string{"+", "-", "*", "/", "==", "!=", "<", ">", "<=", ">="}

func (op BinOp) String() string {
	if int(op) >= 0 && int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "?"
}

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	typed
	Op    BinOp
	Left  Expr
	Right Expr
}

func (*BinaryOp) astNode() {}
func (*BinaryOp) astExpr() {}

// Call invokes the function named Callee with Args.
type Call struct {
	typed
	Callee string
	Args   []Expr
}

func (*Call) astNode() {}
func (*Call) astExpr() {}
