package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/you-not-fish/pinsc/internal/frame"
)

// Failures reported by the loader and the interpreter. Every error returned
// by this package is a *RuntimeError wrapping one of these.
var (
	ErrUnaligned     = errors.New("address not aligned")
	ErrNullPointer   = errors.New("null pointer")
	ErrOutOfBounds   = errors.New("address out of bounds")
	ErrEmptyCell     = errors.New("empty cell")
	ErrUnknownLabel  = errors.New("unknown label")
	ErrLabelBound    = errors.New("label already bound")
	ErrArgCount      = errors.New("invalid argument count")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrNotCanonical  = errors.New("code is not canonical")
	ErrBadMove       = errors.New("invalid move destination")
	ErrDivideByZero  = errors.New("division by zero")
	ErrFrameLink     = errors.New("saved frame pointer does not match caller")
	ErrEmptyRange    = errors.New("empty range")
	ErrDuplicateMain = errors.New("duplicate main")
	ErrNoMain        = errors.New("no entry function")
)

// A RuntimeError describes a failed operation of the machine.
type RuntimeError struct {
	Op    string      // operation: "load", "store", "call", ...
	Addr  int         // address involved, if HasAddr
	Label frame.Label // label involved, if any
	Err   error

	HasAddr bool
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Label != "" {
		fmt.Fprintf(&b, " %s", e.Label)
	}
	if e.HasAddr {
		fmt.Fprintf(&b, " at %d", e.Addr)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func addrError(op string, addr int, err error) *RuntimeError {
	return &RuntimeError{Op: op, Addr: addr, HasAddr: true, Err: err}
}

func labelError(op string, l frame.Label, err error) *RuntimeError {
	return &RuntimeError{Op: op, Label: l, Err: err}
}

func opError(op string, err error) *RuntimeError {
	return &RuntimeError{Op: op, Err: err}
}
