// Package frame describes activation records and variable accesses and
// computes them for a PINS program.
//
// A frame grows downwards from the frame pointer FP:
//
//	FP + 0 ...               incoming static link, then parameters
//	FP - LocalsSize ... FP   local variables
//	FP - OldFPOffset         caller's frame pointer
//	SP ... SP + ArgsSize     outgoing static link and arguments
//
// with SP = FP - Size. The callee's return value replaces the static link
// at FP + 0.
package frame

import (
	"fmt"

	"github.com/you-not-fish/pinsc/internal/rtabi"
)

// Frame is the activation record layout of one function.
// Frames are immutable; they are created through a Builder.
type Frame struct {
	label      Label
	level      int
	paramsSize int
	argsSize   int
	localsSize int
}

// Label returns the function's entry label.
func (f *Frame) Label() Label { return f.label }

// Level returns the static nesting level; top-level functions are at 1.
func (f *Frame) Level() int { return f.level }

// ParamsSize returns the size of the incoming parameter area, static link included.
func (f *Frame) ParamsSize() int { return f.paramsSize }

// ArgsSize returns the largest outgoing argument area of any call in the body.
func (f *Frame) ArgsSize() int { return f.argsSize }

// LocalsSize returns the size of the local variable area.
func (f *Frame) LocalsSize() int { return f.localsSize }

// Size returns the total frame size: locals, the saved frame pointer and
// the outgoing argument area, which is at least one word to hold the
// return value of a callee.
func (f *Frame) Size() int {
	return f.localsSize + rtabi.WordSize + max(rtabi.WordSize, f.argsSize)
}

// OldFPOffset returns the distance below FP of the saved caller frame pointer.
func (f *Frame) OldFPOffset() int {
	return f.localsSize + rtabi.WordSize
}

func (f *Frame) String() string {
	return fmt.Sprintf("FRAME [%s]: level=%d,locals_size=%d,arguments_size=%d,parameters_size=%d,size=%d",
		f.label, f.level, f.localsSize, f.argsSize, f.paramsSize, f.Size())
}

// Builder accumulates a frame while its function is laid out.
type Builder struct {
	label      Label
	level      int
	paramsSize int
	argsSize   int
	localsSize int
}

// NewBuilder starts a frame for the function at label and static level.
func NewBuilder(label Label, level int) *Builder {
	return &Builder{label: label, level: level}
}

// AddParameter reserves size bytes of parameter space and returns its
// offset from FP. Parameters grow upwards from 0.
func (b *Builder) AddParameter(size int) int {
	off := b.paramsSize
	b.paramsSize += size
	return off
}

// AddLocal reserves size bytes of local space and returns its offset from
// FP. Locals grow downwards, so the offset is negative.
func (b *Builder) AddLocal(size int) int {
	b.localsSize += size
	return -b.localsSize
}

// AddCall records a call whose outgoing arguments take argsSize bytes.
func (b *Builder) AddCall(argsSize int) {
	b.argsSize = max(b.argsSize, argsSize)
}

// Build returns the finished frame.
func (b *Builder) Build() *Frame {
	return &Frame{
		label:      b.label,
		level:      b.level,
		paramsSize: b.paramsSize,
		argsSize:   b.argsSize,
		localsSize: b.localsSize,
	}
}
