// Package cflow implements the control-flow checker: a read-only
// second pass over a type-checked program that verifies every
// non-void function always returns and that no statement follows one
// that definitely terminates the enclosing block.
package cflow

import (
	"github.com/devren-holt/lumenc/pkg/ast"
	"github.com/devren-holt/lumenc/pkg/datatype"
	"github.com/devren-holt/lumenc/pkg/semerr"
)

// Check runs only after pkg/typecheck has succeeded. It returns the
// first semerr.Error encountered (MISSING_RETURN or UNREACHABLE_CODE).
func Check(prog *ast.Program) error {
	for _, decl := range prog.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if err := checkFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func checkFunction(fn *ast.FuncDecl) error {
	alwaysReturns, err := AlwaysReturns(fn.Body)
	if err != nil {
		return err
	}
	retType := fn.RetType.DataType()
	if retType != datatype.IOTA && !alwaysReturns {
		return semerr.New(semerr.MissingReturn, semerr.ForFunction(fn.Name))
	}
	return nil
}

// AlwaysReturns reports whether every path through block ends in a
// return statement. It also raises UNREACHABLE_CODE for any item
// found after one that definitely terminates the block.
func AlwaysReturns(block *ast.Block) (bool, error) {
	if block == nil {
		return false, nil
	}
	return alwaysReturnsItems(block.Items)
}

func alwaysReturnsItems(items []ast.Node) (bool, error) {
	terminated := false

	for _, node := range items {
		if node == nil {
			continue
		}
		if terminated {
			return false, semerr.New(semerr.UnreachableCode, semerr.Context{})
		}

		stmtReturns, err := stmtAlwaysReturns(node)
		if err != nil {
			return false, err
		}
		terminated = terminated || stmtReturns
	}

	return terminated, nil
}

func stmtAlwaysReturns(node ast.Node) (bool, error) {
	switch n := node.(type) {
	case *ast.Return:
		return true, nil
	case *ast.If:
		thenReturns, err := AlwaysReturns(n.Then)
		if err != nil {
			return false, err
		}
		elseReturns := false
		if n.Else != nil {
			elseReturns, err = AlwaysReturns(n.Else)
			if err != nil {
				return false, err
			}
		}
		return n.Else != nil && thenReturns && elseReturns, nil
	case *ast.While:
		// The loop body is still checked for unreachable code, but a
		// while loop is never treated as terminating: the condition is
		// not evaluated statically.
		if _, err := AlwaysReturns(n.Body); err != nil {
			return false, err
		}
		return false, nil
	case *ast.Block:
		return AlwaysReturns(n)
	default:
		return false, nil
	}
}
