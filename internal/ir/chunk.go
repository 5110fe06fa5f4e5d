package ir

import "github.com/you-not-fish/pinsc/internal/frame"

// Chunk is one fragment of a compiled program: *CodeChunk, *DataChunk
// or *GlobalChunk.
type Chunk interface {
	// Label returns the label the chunk is loaded at.
	Label() frame.Label
	aChunk()
}

// CodeChunk is the code of one function. Code stores the function's
// result in its return slot.
type CodeChunk struct {
	Frame *frame.Frame
	Code  Stmt
}

func (c *CodeChunk) Label() frame.Label { return c.Frame.Label() }
func (*CodeChunk) aChunk()              {}

// Stmts returns the statement list of the chunk's code.
func (c *CodeChunk) Stmts() []Stmt { return Flatten(c.Code) }

// DataChunk is a string constant stored at a global address.
type DataChunk struct {
	Access *frame.Global
	Data   string
}

func (c *DataChunk) Label() frame.Label { return c.Access.Label() }
func (*DataChunk) aChunk()              {}

// GlobalChunk reserves the storage of a global variable.
type GlobalChunk struct {
	Access *frame.Global
}

func (c *GlobalChunk) Label() frame.Label { return c.Access.Label() }
func (*GlobalChunk) aChunk()              {}
