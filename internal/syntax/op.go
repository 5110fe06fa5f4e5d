package syntax

import "fmt"

// BinaryOp is the operator of a Binary expression.
type BinaryOp uint8

const (
	_ BinaryOp = iota

	Add // +
	Sub // -
	Mul // *
	Div // /
	Mod // %

	And // &
	Or  // |

	Eql // ==
	Neq // !=
	Lss // <
	Gtr // >
	Leq // <=
	Geq // >=

	Assign // =
	Index  // a[i]
)

var binaryOpStrings = [...]string{
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Mod:    "%",
	And:    "&",
	Or:     "|",
	Eql:    "==",
	Neq:    "!=",
	Lss:    "<",
	Gtr:    ">",
	Leq:    "<=",
	Geq:    ">=",
	Assign: "=",
	Index:  "[]",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpStrings) && binaryOpStrings[op] != "" {
		return binaryOpStrings[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// IsArithmetic reports whether op is one of + - * / %.
func (op BinaryOp) IsArithmetic() bool { return Add <= op && op <= Mod }

// IsLogical reports whether op is & or |.
func (op BinaryOp) IsLogical() bool { return op == And || op == Or }

// IsComparison reports whether op is one of == != < > <= >=.
func (op BinaryOp) IsComparison() bool { return Eql <= op && op <= Geq }

// ParseBinaryOp returns the operator spelled s.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for op, str := range binaryOpStrings {
		if str != "" && str == s {
			return BinaryOp(op), true
		}
	}
	return 0, false
}

// UnaryOp is the operator of a Unary expression.
type UnaryOp uint8

const (
	_ UnaryOp = iota

	Plus  // +
	Minus // -
	Not   // !
)

var unaryOpStrings = [...]string{
	Plus:  "+",
	Minus: "-",
	Not:   "!",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpStrings) && unaryOpStrings[op] != "" {
		return unaryOpStrings[op]
	}
	return fmt.Sprintf("UnaryOp(%d)", op)
}

// ParseUnaryOp returns the operator spelled s.
func ParseUnaryOp(s string) (UnaryOp, bool) {
	for op, str := range unaryOpStrings {
		if str != "" && str == s {
			return UnaryOp(op), true
		}
	}
	return 0, false
}

// Atom names a built-in type. It is used both by literals and by AtomType.
type Atom uint8

const (
	_ Atom = iota

	Int // integer
	Log // logical
	Str // string
)

var atomStrings = [...]string{
	Int: "integer",
	Log: "logical",
	Str: "string",
}

func (a Atom) String() string {
	if int(a) < len(atomStrings) && atomStrings[a] != "" {
		return atomStrings[a]
	}
	return fmt.Sprintf("Atom(%d)", a)
}

// ParseAtom returns the atom spelled s.
func ParseAtom(s string) (Atom, bool) {
	for a, str := range atomStrings {
		if str != "" && str == s {
			return Atom(a), true
		}
	}
	return 0, false
}
