// Package semerr defines the closed enumeration of semantic error
// kinds raised by pkg/typecheck and pkg/cflow, each paired with a
// structured Context so callers can assert on specific fields (e.g. in
// golden tests) instead of parsing the message string.
package semerr

import (
	"fmt"
	"strings"

	"github.com/devren-holt/lumenc/pkg/datatype"
)

// Kind is a closed set of semantic error kinds. DEAD_CODE and
// INFINITE_LOOP_DETECTED are declared for taxonomy completeness but
// nothing in this repository constructs them (open question in the
// design notes, resolved as "not implemented").
type Kind int

const (
	RedeclaredIdentifier Kind = iota + 1
	UndeclaredIdentifier
	VarDeclTypeMismatch
	VarAssignTypeMismatch
	VarAssignToConstant
	UndeclaredFunction
	RedeclaredFunction
	NotAFunction
	InvalidSignature
	ReturnTypeMismatch
	ReturnOutsideFunction
	ConditionNotBool
	InvalidUnaryOperation
	InvalidBinaryOperation
	FunctionUsedAsVariable
	WrongNumberOfArguments
	UnreachableCode
	DeadCode
	MissingReturn
	InfiniteLoopDetected
)

var kindNames = map[Kind]string{
	RedeclaredIdentifier:   "REDECLARED_IDENTIFIER",
	UndeclaredIdentifier:   "UNDECLARED_IDENTIFIER",
	VarDeclTypeMismatch:    "VAR_DECL_TYPE_MISMATCH",
	VarAssignTypeMismatch:  "VAR_ASSIGN_TYPE_MISMATCH",
	VarAssignToConstant:    "VAR_ASSIGN_TO_CONSTANT",
	UndeclaredFunction:     "UNDECLARED_FUNCTION",
	RedeclaredFunction:     "REDECLARED_FUNCTION",
	NotAFunction:           "NOT_A_FUNCTION",
	InvalidSignature:       "INVALID_SIGNATURE",
	ReturnTypeMismatch:     "RETURN_TYPE_MISMATCH",
	ReturnOutsideFunction:  "RETURN_OUTSIDE_FUNCTION",
	ConditionNotBool:       "CONDITION_NOT_BOOL",
	InvalidUnaryOperation:  "INVALID_UNARY_OPERATION",
	InvalidBinaryOperation: "INVALID_BINARY_OPERATION",
	FunctionUsedAsVariable: "FUNCTION_USED_AS_VARIABLE",
	WrongNumberOfArguments: "WRONG_NUMBER_OF_ARGUMENTS",
	UnreachableCode:        "UNREACHABLE_CODE",
	DeadCode:               "DEAD_CODE",
	MissingReturn:          "MISSING_RETURN",
	InfiniteLoopDetected:   "INFINITE_LOOP_DETECTED",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN_ERROR"
}

// Context carries the optional structured fields a given Kind's
// message is built from. Only the fields relevant to a particular Kind
// are populated; the zero value of an unused field is never read.
type Context struct {
	Identifier      string
	FunctionName    string
	ExpectedType    datatype.DataType
	ActualType      datatype.DataType
	SignatureExpect []datatype.DataType
	SignatureActual []datatype.DataType
	ExpectedArgs    int
	ActualArgs      int
	Op              string
}

// ForIdentifier builds a Context carrying only an identifier name.
func ForIdentifier(name string) Context { return Context{Identifier: name} }

// ForFunction builds a Context carrying only a function name.
func ForFunction(name string) Context { return Context{FunctionName: name} }

// ForActualType builds a Context carrying only an observed type.
func ForActualType(got datatype.DataType) Context { return Context{ActualType: got} }

// ForOperatorTypes builds a Context for an invalid operation between
// two types, naming the operator.
func ForOperatorTypes(op string, t1, t2 datatype.DataType) Context {
	return Context{Op: op, ExpectedType: t1, ActualType: t2}
}

// ForIdentifierTypeMismatch builds a Context for a declaration or
// assignment type mismatch.
func ForIdentifierTypeMismatch(name string, expected, actual datatype.DataType) Context {
	return Context{Identifier: name, ExpectedType: expected, ActualType: actual}
}

// ForReturnTypeMismatch builds a Context for a function's return type
// mismatch.
func ForReturnTypeMismatch(funcName string, expected, actual datatype.DataType) Context {
	return Context{FunctionName: funcName, ExpectedType: expected, ActualType: actual}
}

// ForSignature builds a Context for a call-site signature mismatch.
func ForSignature(funcName string, expected, actual []datatype.DataType) Context {
	return Context{FunctionName: funcName, SignatureExpect: expected, SignatureActual: actual}
}

// ForArgCount builds a Context for a wrong-argument-count error.
func ForArgCount(funcName string, expected, actual int) Context {
	return Context{FunctionName: funcName, ExpectedArgs: expected, ActualArgs: actual}
}

// Error is a semantic error: a closed Kind plus the Context it was
// raised with. It implements the error interface; pass-level code
// should construct and return these rather than panicking, so the
// driver can report them uniformly (§7's "each pass is all-or-nothing"
// propagation policy).
type Error struct {
	Kind    Kind
	Context Context
}

// New constructs a semantic error of the given kind with context.
func New(kind Kind, ctx Context) *Error {
	return &Error{Kind: kind, Context: ctx}
}

func (e *Error) Error() string {
	c := e.Context
	switch e.Kind {
	case RedeclaredIdentifier:
		return fmt.Sprintf("Redeclaration of identifier '%s'", c.Identifier)
	case RedeclaredFunction:
		return fmt.Sprintf("Redeclaration of function '%s'", c.FunctionName)
	case UndeclaredIdentifier:
		return fmt.Sprintf("Use of undeclared identifier '%s'", c.Identifier)
	case UndeclaredFunction:
		return fmt.Sprintf("Call to undeclared function '%s'", c.FunctionName)
	case NotAFunction:
		return fmt.Sprintf("Identifier '%s' is not a function", c.Identifier)
	case VarDeclTypeMismatch:
		return fmt.Sprintf("Type mismatch during variable declaration for '%s': expected '%s', got '%s'",
			c.Identifier, c.ExpectedType, c.ActualType)
	case VarAssignTypeMismatch:
		return fmt.Sprintf("Type mismatch during variable assignment for '%s': expected '%s', got '%s'",
			c.Identifier, c.ExpectedType, c.ActualType)
	case VarAssignToConstant:
		return fmt.Sprintf("Attempt to assign to constant variable '%s'", c.Identifier)
	case ReturnTypeMismatch:
		return fmt.Sprintf("Return type mismatch for function '%s': expected '%s', got '%s'",
			c.FunctionName, c.ExpectedType, c.ActualType)
	case WrongNumberOfArguments:
		return fmt.Sprintf("Wrong number of arguments in call to function '%s': expected %d, got %d",
			c.FunctionName, c.ExpectedArgs, c.ActualArgs)
	case InvalidSignature:
		return fmt.Sprintf("Invalid signature for function '%s' -- expected (%s), got (%s)",
			c.FunctionName, joinTypes(c.SignatureExpect), joinTypes(c.SignatureActual))
	case ReturnOutsideFunction:
		return "Return statement used outside of a function"
	case ConditionNotBool:
		return "Condition expression does not evaluate to bool"
	case InvalidUnaryOperation:
		return fmt.Sprintf("Invalid unary operation on type '%s'", c.ActualType)
	case InvalidBinaryOperation:
		return fmt.Sprintf("Invalid binary operation '%s' between types '%s' and '%s'",
			c.Op, c.ExpectedType, c.ActualType)
	case FunctionUsedAsVariable:
		return fmt.Sprintf("Function '%s' used as a variable", c.FunctionName)
	case UnreachableCode:
		return "Unreachable code detected"
	case DeadCode:
		return "Dead code detected"
	case MissingReturn:
		return fmt.Sprintf("Missing return statement in function '%s'", c.FunctionName)
	case InfiniteLoopDetected:
		return fmt.Sprintf("Infinite loop detected in function '%s'", c.FunctionName)
	default:
		return "Unknown semantic error"
	}
}

func joinTypes(ts []datatype.DataType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
