package vm

import (
	"fmt"
	"strconv"

	"github.com/you-not-fish/pinsc/internal/ir"
)

// A Value is the content of a memory cell or temp: Int, Str or *Code.
type Value interface {
	String() string
	aValue()
}

// Int is an integer or logical value. Logical values are 0 and 1.
type Int int

// Str is a string constant loaded from a data chunk.
type Str string

// Code is a loaded function.
type Code struct {
	Chunk *ir.CodeChunk
	stmts []ir.Stmt
}

func newCode(c *ir.CodeChunk) *Code {
	return &Code{Chunk: c, stmts: c.Stmts()}
}

func (v Int) String() string   { return strconv.Itoa(int(v)) }
func (v Str) String() string   { return string(v) }
func (c *Code) String() string { return fmt.Sprintf("CODE %s", c.Chunk.Label()) }

func (Int) aValue()   {}
func (Str) aValue()   {}
func (*Code) aValue() {}

// Bool returns the logical value of b.
func Bool(b bool) Int {
	if b {
		return 1
	}
	return 0
}
