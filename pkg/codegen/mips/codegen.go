// Package mips translates a typed, control-flow-checked ast.Program
// into MIPS assembly text for a standard MIPS simulator (SPIM/MARS).
//
// Every expression evaluates into $t0 (§4.5 of the design). Binary
// operators evaluate the left operand first, push it to the stack,
// evaluate the right operand into $t0, pop the left operand into $t1,
// and apply the operator. Each function gets its own activation
// record: a fixed two-word prologue saving $fp/$ra, parameters at
// positive $fp offsets, locals at negative $fp offsets allocated in
// declaration order.
package mips

import (
	"fmt"
	"strings"

	"github.com/devren-holt/lumenc/pkg/ast"
)

const (
	newlineStr     = "newline_str"
	divZeroMsg     = "div_zero_msg"
	missingMainMsg = "missing_main_msg"
	divByZeroLabel = "div_by_zero"
)

// frame tracks the variable->offset bindings visible in one lexical
// level of a function; a function's environment is a stack of frames,
// innermost (most recently pushed) first for lookup.
type frame map[string]int

// functionContext holds the per-function codegen state: the offset of
// the most recently allocated local (0 before the first), the
// environment stack, and the label the
// function's return statements jump to.
type functionContext struct {
	nextLocalOffset int
	envStack        []frame
	endLabel        string
}

// Generator emits MIPS assembly for a single Program. Use Generate
// instead of constructing one directly.
type Generator struct {
	data         strings.Builder
	text         strings.Builder
	labelCounter int
	current      *functionContext
	hasMain      bool
}

// Generate produces the full MIPS assembly text (.data then .text)
// for prog. prog must already have passed pkg/typecheck and
// pkg/cflow; Generate does not re-validate semantic correctness.
func Generate(prog *ast.Program) string {
	g := &Generator{}
	g.data.WriteString(".data\n")
	g.data.WriteString(newlineStr + ": .asciiz \"\\n\"\n")
	g.data.WriteString(divZeroMsg + ": .asciiz \"Runtime Error: Division by zero\\n\"\n")
	g.data.WriteString(missingMainMsg + ": .asciiz \"Runtime Error: Missing main function\\n\"\n")
	g.text.WriteString(".text\n")

	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			if fn.Name == "main" {
				g.hasMain = true
			}
			g.genFuncDecl(fn)
		}
	}

	g.text.WriteString("\n# Division-by-zero runtime handler\n")
	g.text.WriteString(divByZeroLabel + ":\n")
	g.text.WriteString("    la $a0, " + divZeroMsg + "\n")
	g.text.WriteString("    li $v0, 4\n")
	g.text.WriteString("    syscall\n")
	g.text.WriteString("    li $v0, 10\n")
	g.text.WriteString("    syscall\n")

	if !g.hasMain {
		g.text.WriteString("\n# Stub main for missing main function\n")
		g.text.WriteString(".globl main\n")
		g.text.WriteString("main:\n")
		g.text.WriteString("    la $a0, " + missingMainMsg + "\n")
		g.text.WriteString("    li $v0, 4\n")
		g.text.WriteString("    syscall\n")
		g.text.WriteString("    li $v0, 10\n")
		g.text.WriteString("    syscall\n")
	}

	return g.data.String() + "\n" + g.text.String()
}

func (g *Generator) newLabel(base string) string {
	label := fmt.Sprintf("%s_%d", base, g.labelCounter)
	g.labelCounter++
	return label
}

func (g *Generator) pushEnv() {
	g.current.envStack = append(g.current.envStack, frame{})
}

func (g *Generator) popEnv() {
	n := len(g.current.envStack)
	if n > 0 {
		g.current.envStack = g.current.envStack[:n-1]
	}
}

func (g *Generator) lookupVariable(name string) (int, bool) {
	stack := g.current.envStack
	for i := len(stack) - 1; i >= 0; i-- {
		if off, ok := stack[i][name]; ok {
			return off, true
		}
	}
	return 0, false
}

func (g *Generator) declareLocal(name string) int {
	g.current.nextLocalOffset -= 4
	offset := g.current.nextLocalOffset
	g.text.WriteString("    addi $sp, $sp, -4\n")
	if len(g.current.envStack) == 0 {
		g.pushEnv()
	}
	g.current.envStack[len(g.current.envStack)-1][name] = offset
	return offset
}

func (g *Generator) genFuncDecl(fn *ast.FuncDecl) {
	ctx := &functionContext{endLabel: g.newLabel(fn.Name + "_end")}
	saved := g.current
	g.current = ctx

	g.pushEnv()
	numParams := len(fn.Params)
	for i, param := range fn.Params {
		offset := 8 + 4*(numParams-1-i)
		g.current.envStack[0][param.Name] = offset
	}

	g.text.WriteString("\n# Function " + fn.Name + "\n")
	if fn.Name == "main" {
		g.text.WriteString(".globl main\n")
	}
	g.text.WriteString(fn.Name + ":\n")
	g.text.WriteString("    addi $sp, $sp, -8\n")
	g.text.WriteString("    sw $fp, 4($sp)\n")
	g.text.WriteString("    sw $ra, 0($sp)\n")
	g.text.WriteString("    move $fp, $sp\n")

	g.genBlock(fn.Body)

	g.text.WriteString(ctx.endLabel + ":\n")
	g.text.WriteString("    move $sp, $fp\n")
	g.text.WriteString("    lw $ra, 0($sp)\n")
	g.text.WriteString("    lw $fp, 4($sp)\n")
	g.text.WriteString("    addi $sp, $sp, 8\n")
	if fn.Name == "main" {
		g.text.WriteString("    li $v0, 10\n")
		g.text.WriteString("    syscall\n")
	} else {
		g.text.WriteString("    jr $ra\n")
	}

	g.current = saved
}

func (g *Generator) genBlock(b *ast.Block) {
	g.pushEnv()
	for _, item := range b.Items {
		g.genItem(item)
	}
	g.popEnv()
}

func (g *Generator) genItem(item ast.Node) {
	switch n := item.(type) {
	case *ast.VarDecl:
		g.genVarDecl(n.Name, n.Init)
	case *ast.LetDecl:
		g.genVarDecl(n.Name, n.Init)
	case ast.Stmt:
		g.genStmt(n)
	}
}

func (g *Generator) genVarDecl(name string, init ast.Expr) {
	if init != nil {
		g.genExpr(init)
	} else {
		g.text.WriteString("    li $t0, 0\n")
	}
	offset := g.declareLocal(name)
	g.text.WriteString(fmt.Sprintf("    sw $t0, %d($fp)\n", offset))
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Assign:
		g.genAssign(n)
	case *ast.Print:
		g.genPrint(n)
	case *ast.Return:
		g.genReturn(n)
	case *ast.If:
		g.genIf(n)
	case *ast.While:
		g.genWhile(n)
	case *ast.Block:
		g.genBlock(n)
	}
}

func (g *Generator) genAssign(n *ast.Assign) {
	g.genExpr(n.Rhs)
	if offset, ok := g.lookupVariable(n.Name); ok {
		g.text.WriteString(fmt.Sprintf("    sw $t0, %d($fp)\n", offset))
	} else {
		g.text.WriteString("    # Warning: assignment to unknown variable " + n.Name + "\n")
	}
}

func (g *Generator) genPrint(n *ast.Print) {
	g.genExpr(n.Expr)
	g.text.WriteString("    move $a0, $t0\n")
	g.text.WriteString("    li $v0, 1\n")
	g.text.WriteString("    syscall\n")
	g.text.WriteString("    la $a0, " + newlineStr + "\n")
	g.text.WriteString("    li $v0, 4\n")
	g.text.WriteString("    syscall\n")
}

func (g *Generator) genReturn(n *ast.Return) {
	if n.Expr != nil {
		g.genExpr(n.Expr)
		g.text.WriteString("    move $v0, $t0\n")
	}
	g.text.WriteString("    j " + g.current.endLabel + "\n")
}

func (g *Generator) genIf(n *ast.If) {
	endLabel := g.newLabel("if_end")
	g.genExpr(n.Cond)

	if n.Else != nil {
		elseLabel := g.newLabel("if_else")
		g.text.WriteString("    beq $t0, $zero, " + elseLabel + "\n")
		g.genBlock(n.Then)
		g.text.WriteString("    j " + endLabel + "\n")
		g.text.WriteString(elseLabel + ":\n")
		g.genBlock(n.Else)
		g.text.WriteString(endLabel + ":\n")
	} else {
		g.text.WriteString("    beq $t0, $zero, " + endLabel + "\n")
		g.genBlock(n.Then)
		g.text.WriteString(endLabel + ":\n")
	}
}

func (g *Generator) genWhile(n *ast.While) {
	startLabel := g.newLabel("while_start")
	endLabel := g.newLabel("while_end")

	g.text.WriteString(startLabel + ":\n")
	g.genExpr(n.Cond)
	g.text.WriteString("    beq $t0, $zero, " + endLabel + "\n")
	g.genBlock(n.Body)
	g.text.WriteString("    j " + startLabel + "\n")
	g.text.WriteString(endLabel + ":\n")
}

func (g *Generator) genExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.IntLit:
		g.text.WriteString(fmt.Sprintf("    li $t0, %d\n", n.Value))
	case *ast.FloatLit:
		// Documented limitation: floats are narrowed to integer bits;
		// this compiler has no $f registers or float instructions.
		g.text.WriteString(fmt.Sprintf("    li $t0, %d\n", int64(n.Value)))
	case *ast.BoolLit:
		v := 0
		if n.Value {
			v = 1
		}
		g.text.WriteString(fmt.Sprintf("    li $t0, %d\n", v))
	case *ast.Id:
		g.genId(n)
	case *ast.UnaryOp:
		g.genUnaryOp(n)
	case *ast.BinaryOp:
		g.genBinaryOp(n)
	case *ast.Call:
		g.genCall(n)
	}
}

func (g *Generator) genId(n *ast.Id) {
	if offset, ok := g.lookupVariable(n.Name); ok {
		g.text.WriteString(fmt.Sprintf("    lw $t0, %d($fp)\n", offset))
	} else {
		g.text.WriteString("    # Unknown variable " + n.Name + ", default to 0\n")
		g.text.WriteString("    li $t0, 0\n")
	}
}

func (g *Generator) genUnaryOp(n *ast.UnaryOp) {
	g.genExpr(n.Expr)
	if n.Op == ast.Neg {
		g.text.WriteString("    subu $t0, $zero, $t0\n")
	}
}

func (g *Generator) genBinaryOp(n *ast.BinaryOp) {
	g.genExpr(n.Left)
	g.text.WriteString("    addi $sp, $sp, -4\n")
	g.text.WriteString("    sw $t0, 0($sp)\n")

	g.genExpr(n.Right)

	g.text.WriteString("    lw $t1, 0($sp)\n")
	g.text.WriteString("    addi $sp, $sp, 4\n")

	switch n.Op {
	case ast.Add:
		g.text.WriteString("    add $t0, $t1, $t0\n")
	case ast.Sub:
		g.text.WriteString("    sub $t0, $t1, $t0\n")
	case ast.Mul:
		g.text.WriteString("    mul $t0, $t1, $t0\n")
	case ast.Div:
		g.text.WriteString("    beq $t0, $zero, " + divByZeroLabel + "\n")
		g.text.WriteString("    div $t1, $t0\n")
		g.text.WriteString("    mflo $t0\n")
	case ast.Eq:
		g.text.WriteString("    seq $t0, $t1, $t0\n")
	case ast.Neq:
		g.text.WriteString("    sne $t0, $t1, $t0\n")
	case ast.Lt:
		g.text.WriteString("    slt $t0, $t1, $t0\n")
	case ast.Gt:
		g.text.WriteString("    sgt $t0, $t1, $t0\n")
	case ast.Le:
		g.text.WriteString("    sle $t0, $t1, $t0\n")
	case ast.Ge:
		g.text.WriteString("    sge $t0, $t1, $t0\n")
	}
}

func (g *Generator) genCall(n *ast.Call) {
	for _, arg := range n.Args {
		g.genExpr(arg)
		g.text.WriteString("    addi $sp, $sp, -4\n")
		g.text.WriteString("    sw $t0, 0($sp)\n")
	}

	g.text.WriteString("    jal " + n.Callee + "\n")

	if len(n.Args) > 0 {
		g.text.WriteString(fmt.Sprintf("    addi $sp, $sp, %d\n", len(n.Args)*4))
	}

	g.text.WriteString("    move $t0, $v0\n")
}
