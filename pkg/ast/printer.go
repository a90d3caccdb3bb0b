package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes a human-readable dump of the AST, used by the CLI's
// --dparse debug flag.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

// PrintProgram prints every top-level declaration.
func (p *Printer) PrintProgram(prog *Program) {
	for _, d := range prog.Decls {
		p.printDecl(d)
	}
}

func (p *Printer) printDecl(d Decl) {
	p.writeIndent()
	switch n := d.(type) {
	case *VarDecl:
		fmt.Fprintf(p.w, "var %s: %s = ", n.Name, n.Type.Kind)
		p.printExprInline(n.Init)
		fmt.Fprintln(p.w)
	case *LetDecl:
		fmt.Fprintf(p.w, "let %s: %s = ", n.Name, n.Type.Kind)
		p.printExprInline(n.Init)
		fmt.Fprintln(p.w)
	case *FuncDecl:
		fmt.Fprintf(p.w, "func %s(", n.Name)
		for i, param := range n.Params {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			fmt.Fprintf(p.w, "%s: %s", param.Name, param.Type.Kind)
		}
		if n.RetType != nil {
			fmt.Fprintf(p.w, "): %s\n", n.RetType.Kind)
		} else {
			fmt.Fprintln(p.w, ")")
		}
		p.indent++
		p.printBlock(n.Body)
		p.indent--
	default:
		fmt.Fprintf(p.w, "/* unknown decl %T */\n", d)
	}
}

func (p *Printer) printBlock(b *Block) {
	if b == nil {
		return
	}
	for _, item := range b.Items {
		p.printItem(item)
	}
}

func (p *Printer) printItem(item Node) {
	switch n := item.(type) {
	case Decl:
		p.printDecl(n)
	case Stmt:
		p.printStmt(n)
	default:
		p.writeIndent()
		fmt.Fprintf(p.w, "/* unknown item %T */\n", item)
	}
}

func (p *Printer) printStmt(s Stmt) {
	p.writeIndent()
	switch n := s.(type) {
	case *Assign:
		fmt.Fprintf(p.w, "%s = ", n.Name)
		p.printExprInline(n.Rhs)
		fmt.Fprintln(p.w)
	case *Print:
		fmt.Fprint(p.w, "print ")
		p.printExprInline(n.Expr)
		fmt.Fprintln(p.w)
	case *Return:
		fmt.Fprint(p.w, "return")
		if n.Expr != nil {
			fmt.Fprint(p.w, " ")
			p.printExprInline(n.Expr)
		}
		fmt.Fprintln(p.w)
	case *If:
		fmt.Fprint(p.w, "if (")
		p.printExprInline(n.Cond)
		fmt.Fprintln(p.w, ") {")
		p.indent++
		p.printBlock(n.Then)
		p.indent--
		p.writeIndent()
		if n.Else != nil {
			fmt.Fprintln(p.w, "} else {")
			p.indent++
			p.printBlock(n.Else)
			p.indent--
			p.writeIndent()
		}
		fmt.Fprintln(p.w, "}")
	case *While:
		fmt.Fprint(p.w, "while (")
		p.printExprInline(n.Cond)
		fmt.Fprintln(p.w, ") {")
		p.indent++
		p.printBlock(n.Body)
		p.indent--
		p.writeIndent()
		fmt.Fprintln(p.w, "}")
	case *Block:
		fmt.Fprintln(p.w, "{")
		p.indent++
		p.printBlock(n)
		p.indent--
		p.writeIndent()
		fmt.Fprintln(p.w, "}")
	default:
		fmt.Fprintf(p.w, "/* unknown stmt %T */\n", s)
	}
}

func (p *Printer) printExprInline(e Expr) {
	fmt.Fprint(p.w, exprString(e))
}

func exprString(e Expr) string {
	switch n := e.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", n.Value)
	case *FloatLit:
		return fmt.Sprintf("%g", n.Value)
	case *BoolLit:
		return fmt.Sprintf("%t", n.Value)
	case *Id:
		return n.Name
	case *UnaryOp:
		return fmt.Sprintf("%s%s", n.Op, exprString(n.Expr))
	case *BinaryOp:
		return fmt.Sprintf("(%s %s %s)", exprString(n.Left), n.Op, exprString(n.Right))
	case *Call:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(parts, ", "))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("/* unknown expr %T */", e)
	}
}
