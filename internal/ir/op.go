package ir

// Op is the operator of a Binop.
type Op int

const (
	OpInvalid Op = iota

	// Arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	// Logical; both operands are always evaluated
	OpAnd
	OpOr

	// Comparison; the result is 0 or 1
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLeq
	OpGeq

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an operator.
type OpInfo struct {
	Name         string // name used by the printer
	IsComparison bool   // result is 0 or 1
	IsLogical    bool   // operands are truth values
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "INVALID"},

	OpAdd: {Name: "ADD"},
	OpSub: {Name: "SUB"},
	OpMul: {Name: "MUL"},
	OpDiv: {Name: "DIV"},
	OpMod: {Name: "MOD"},

	OpAnd: {Name: "AND", IsLogical: true},
	OpOr:  {Name: "OR", IsLogical: true},

	OpEq:  {Name: "EQ", IsComparison: true},
	OpNeq: {Name: "NEQ", IsComparison: true},
	OpLt:  {Name: "LT", IsComparison: true},
	OpGt:  {Name: "GT", IsComparison: true},
	OpLeq: {Name: "LEQ", IsComparison: true},
	OpGeq: {Name: "GEQ", IsComparison: true},
}

// Info returns the metadata of op.
func (op Op) Info() OpInfo {
	if op < 0 || op >= opCount {
		return opInfoTable[OpInvalid]
	}
	return opInfoTable[op]
}

func (op Op) String() string { return op.Info().Name }

// IsComparison reports whether op compares its operands.
func (op Op) IsComparison() bool { return op.Info().IsComparison }

// IsLogical reports whether op is AND or OR.
func (op Op) IsLogical() bool { return op.Info().IsLogical }

// Valid reports whether op is a real operator.
func (op Op) Valid() bool { return op > OpInvalid && op < opCount }
