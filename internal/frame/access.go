package frame

import "fmt"

// Access describes where a variable or parameter is stored.
// It is one of *Local, *Param or *Global.
type Access interface {
	// Size returns the number of bytes the variable occupies.
	Size() int
	String() string
	aAccess()
}

// StackAccess is implemented by the accesses relative to a frame pointer.
type StackAccess interface {
	Access
	Offset() int // offset from the frame pointer of the declaring function
	Level() int  // static level of the declaring function
}

type stackSlot struct {
	size   int
	offset int
	level  int
}

func (s *stackSlot) Size() int   { return s.size }
func (s *stackSlot) Offset() int { return s.offset }
func (s *stackSlot) Level() int  { return s.level }
func (s *stackSlot) aAccess()    {}

// Local is a local variable in a function's frame.
type Local struct{ stackSlot }

// NewLocal returns the access of a local at offset in a level-deep frame.
func NewLocal(size, offset, level int) *Local {
	return &Local{stackSlot{size: size, offset: offset, level: level}}
}

func (a *Local) String() string {
	return fmt.Sprintf("Local: size[%d],offset[%d],sl[%d]", a.size, a.offset, a.level)
}

// Param is a function parameter. Array parameters hold the address of the
// caller's array.
type Param struct{ stackSlot }

// NewParam returns the access of a parameter at offset in a level-deep frame.
func NewParam(size, offset, level int) *Param {
	return &Param{stackSlot{size: size, offset: offset, level: level}}
}

func (a *Param) String() string {
	return fmt.Sprintf("Parameter: size[%d],offset[%d],sl[%d]", a.size, a.offset, a.level)
}

// Global is a variable outside of every function, reached by label.
type Global struct {
	size  int
	label Label
}

// NewGlobal returns the access of a global of size bytes at label.
func NewGlobal(size int, label Label) *Global {
	return &Global{size: size, label: label}
}

func (a *Global) Size() int    { return a.size }
func (a *Global) Label() Label { return a.label }
func (a *Global) aAccess()     {}

func (a *Global) String() string {
	return fmt.Sprintf("Global: size[%d],label[%s]", a.size, a.label)
}
