package rtabi

// Standard library entry points. Calls to these names never resolve through
// user declarations.
const (
	FnPrintStr = "print_str"
	FnPrintInt = "print_int"
	FnPrintLog = "print_log"
	FnRandInt  = "rand_int"
	FnSeed     = "seed"
)

// EntryPoint is the name of the function the machine starts executing.
const EntryPoint = "main"

// FuncSignature describes a standard library function.
type FuncSignature struct {
	Name   string // entry label
	Params int    // declared parameters, not counting the implicit frame pointer
}

// Args returns the number of IR call arguments, including the caller's
// frame pointer passed as the implicit first argument.
func (s FuncSignature) Args() int {
	return s.Params + 1
}

var stdlib = map[string]FuncSignature{
	FnPrintStr: {Name: FnPrintStr, Params: 1},
	FnPrintInt: {Name: FnPrintInt, Params: 1},
	FnPrintLog: {Name: FnPrintLog, Params: 1},
	FnRandInt:  {Name: FnRandInt, Params: 2},
	FnSeed:     {Name: FnSeed, Params: 1},
}

// StdlibFunctions returns the signatures of all standard library functions.
func StdlibFunctions() []FuncSignature {
	return []FuncSignature{
		stdlib[FnPrintStr],
		stdlib[FnPrintInt],
		stdlib[FnPrintLog],
		stdlib[FnRandInt],
		stdlib[FnSeed],
	}
}

// LookupStdlib returns the signature of the named standard library function.
func LookupStdlib(name string) (FuncSignature, bool) {
	sig, ok := stdlib[name]
	return sig, ok
}

// IsStdlib reports whether name is a standard library entry point.
func IsStdlib(name string) bool {
	_, ok := stdlib[name]
	return ok
}
