package types

// AtomKind describes the kind of an atomic type.
type AtomKind int

const (
	Invalid AtomKind = iota // invalid type

	Int  // integer
	Log  // logical
	Str  // string
	Void // result of loops and conditionals
)

// Atom represents one of the atomic types int, log, str and void.
type Atom struct {
	typ
	kind AtomKind
	name string
}

// Kind returns the kind of the atomic type.
func (a *Atom) Kind() AtomKind {
	return a.kind
}

// String implements Type.
func (a *Atom) String() string {
	return a.name
}

// Typ holds the atomic types, indexed by AtomKind.
// Typ[Invalid] is nil, representing an invalid type.
var Typ = []*Atom{
	Invalid: nil,
	Int:     {kind: Int, name: "int"},
	Log:     {kind: Log, name: "log"},
	Str:     {kind: Str, name: "str"},
	Void:    {kind: Void, name: "void"},
}

// Convenience aliases for the atomic types.
var (
	IntType  = Typ[Int]
	LogType  = Typ[Log]
	StrType  = Typ[Str]
	VoidType = Typ[Void]
)

// AtomByName returns the atomic type whose String is name.
func AtomByName(name string) (*Atom, bool) {
	for _, a := range Typ {
		if a != nil && a.name == name {
			return a, true
		}
	}
	return nil, false
}
