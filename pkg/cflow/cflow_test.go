package cflow

import (
	"testing"

	"github.com/devren-holt/lumenc/pkg/ast"
	"github.com/devren-holt/lumenc/pkg/lexer"
	"github.com/devren-holt/lumenc/pkg/parser"
	"github.com/devren-holt/lumenc/pkg/semerr"
	"github.com/devren-holt/lumenc/pkg/typecheck"
)

func typedProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	if err := typecheck.Check(prog); err != nil {
		t.Fatalf("typecheck failed: %v", err)
	}
	return prog
}

func cflowKind(t *testing.T, err error) semerr.Kind {
	t.Helper()
	se, ok := err.(*semerr.Error)
	if !ok {
		t.Fatalf("expected *semerr.Error, got %T (%v)", err, err)
	}
	return se.Kind
}

func TestCheck_SimpleReturnOK(t *testing.T) {
	prog := typedProgram(t, `
func f(): int {
	return 1
}
`)
	if err := Check(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_MissingReturn(t *testing.T) {
	prog := typedProgram(t, `
func f(): int {
	print 1
}
`)
	err := Check(prog)
	if err == nil || cflowKind(t, err) != semerr.MissingReturn {
		t.Fatalf("expected MissingReturn, got %v", err)
	}
}

func TestCheck_VoidFunctionNeedsNoReturn(t *testing.T) {
	prog := typedProgram(t, `
func f() {
	print 1
}
`)
	if err := Check(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_IfElseBothReturnSatisfiesMissingReturn(t *testing.T) {
	prog := typedProgram(t, `
func f(flag: bool): int {
	if (flag) {
		return 1
	} else {
		return 2
	}
}
`)
	if err := Check(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_IfWithoutElseDoesNotSatisfy(t *testing.T) {
	prog := typedProgram(t, `
func f(flag: bool): int {
	if (flag) {
		return 1
	}
}
`)
	err := Check(prog)
	if err == nil || cflowKind(t, err) != semerr.MissingReturn {
		t.Fatalf("expected MissingReturn, got %v", err)
	}
}

func TestCheck_IfOneBranchMissingReturnDoesNotSatisfy(t *testing.T) {
	prog := typedProgram(t, `
func f(flag: bool): int {
	if (flag) {
		return 1
	} else {
		print 0
	}
}
`)
	err := Check(prog)
	if err == nil || cflowKind(t, err) != semerr.MissingReturn {
		t.Fatalf("expected MissingReturn, got %v", err)
	}
}

func TestCheck_WhileNeverSatisfiesAlwaysReturns(t *testing.T) {
	prog := typedProgram(t, `
func f(flag: bool): int {
	while (flag) {
		return 1
	}
}
`)
	err := Check(prog)
	if err == nil || cflowKind(t, err) != semerr.MissingReturn {
		t.Fatalf("expected MissingReturn even though the loop body always returns, got %v", err)
	}
}

func TestCheck_UnreachableCodeAfterReturn(t *testing.T) {
	prog := typedProgram(t, `
func f(): int {
	return 1
	print 2
}
`)
	err := Check(prog)
	if err == nil || cflowKind(t, err) != semerr.UnreachableCode {
		t.Fatalf("expected UnreachableCode, got %v", err)
	}
}

func TestCheck_UnreachableCodeAfterBothBranchesReturn(t *testing.T) {
	prog := typedProgram(t, `
func f(flag: bool): int {
	if (flag) {
		return 1
	} else {
		return 2
	}
	print 3
}
`)
	err := Check(prog)
	if err == nil || cflowKind(t, err) != semerr.UnreachableCode {
		t.Fatalf("expected UnreachableCode, got %v", err)
	}
}

func TestCheck_UnreachableCodeDetectedInsideNestedBlock(t *testing.T) {
	prog := typedProgram(t, `
func f(flag: bool): int {
	if (flag) {
		return 1
		print 1
	} else {
		return 2
	}
}
`)
	err := Check(prog)
	if err == nil || cflowKind(t, err) != semerr.UnreachableCode {
		t.Fatalf("expected UnreachableCode inside the if-branch, got %v", err)
	}
}

func TestAlwaysReturns_NilBlock(t *testing.T) {
	ok, err := AlwaysReturns(nil)
	if ok || err != nil {
		t.Fatalf("expected (false, nil) for a nil block, got (%v, %v)", ok, err)
	}
}
