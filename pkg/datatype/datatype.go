// Package datatype defines the four-valued data type lattice shared by
// the AST, the scope table, the type checker, and the error taxonomy.
package datatype

// DataType is one of IOTA (absent/unknown), INT, FLOAT, or BOOL.
type DataType int

const (
	IOTA DataType = iota
	INT
	FLOAT
	BOOL
)

var names = [...]string{"iota", "int", "float", "bool"}

func (d DataType) String() string {
	if int(d) >= 0 && int(d) < len(names) {
		return names[d]
	}
	return "unknown"
}

// BaseType is the syntactic counterpart of DataType: the set of type
// keywords the parser can produce (int, float, bool).
type BaseType int

const (
	BaseInt BaseType = iota
	BaseFloat
	BaseBool
)

// ToDataType maps the syntactic BaseType injectively into DataType.
func (b BaseType) ToDataType() DataType {
	switch b {
	case BaseInt:
		return INT
	case BaseFloat:
		return FLOAT
	case BaseBool:
		return BOOL
	default:
		return IOTA
	}
}

func (b BaseType) String() string {
	switch b {
	case BaseInt:
		return "int"
	case BaseFloat:
		return "float"
	case BaseBool:
		return "bool"
	default:
		return "?"
	}
}

// FromKeyword maps a type keyword spelling to a BaseType. ok is false
// for anything that isn't one of the three recognized keywords.
func FromKeyword(kw string) (BaseType, bool) {
	switch kw {
	case "int":
		return BaseInt, true
	case "float":
		return BaseFloat, true
	case "bool":
		return BaseBool, true
	default:
		return 0, false
	}
}

// Numeric reports whether t is INT or FLOAT.
func Numeric(t DataType) bool {
	return t == INT || t == FLOAT
}

// Compat reports whether a value of type source can be used where
// target is expected. The relation is directional and not transitive:
// every type is compatible with itself; INT widens to FLOAT and to
// BOOL; BOOL narrows to INT. All other pairs, including FLOAT<-BOOL,
// are incompatible.
func Compat(target, source DataType) bool {
	if target == source {
		return true
	}
	switch {
	case target == FLOAT && source == INT:
		return true
	case target == BOOL && source == INT:
		return true
	case target == INT && source == BOOL:
		return true
	default:
		return false
	}
}
