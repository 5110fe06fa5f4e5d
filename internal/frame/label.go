package frame

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/pinsc/internal/rtabi"
)

// A Label names an address that is assigned when the program is loaded.
// Labels compare equal when their names are equal.
type Label string

// anonPrefix starts every generated label name. No PINS identifier can
// start with a dot.
const anonPrefix = ".L"

// Pseudo-labels naming the live frame and stack pointers.
const (
	FP Label = rtabi.FramePointer
	SP Label = rtabi.StackPointer
)

// NamedLabel returns the label with the given name.
func NamedLabel(name string) Label {
	return Label(name)
}

// Name returns the label's name.
func (l Label) Name() string { return string(l) }

// String implements fmt.Stringer.
func (l Label) String() string { return string(l) }

// IsAnonymous reports whether l was produced by a LabelGen.
func (l Label) IsAnonymous() bool { return strings.HasPrefix(string(l), anonPrefix) }

// IsRegister reports whether l is one of the pseudo-labels FP and SP.
func (l Label) IsRegister() bool { return l == FP || l == SP }

// LabelGen hands out anonymous labels. One LabelGen serves a whole
// compilation so that every anonymous label in it is unique.
type LabelGen struct {
	next int
}

// NewLabelGen returns a generator whose first label is .L0.
func NewLabelGen() *LabelGen {
	return &LabelGen{}
}

// Next returns a fresh anonymous label.
func (g *LabelGen) Next() Label {
	l := Label(fmt.Sprintf("%s%d", anonPrefix, g.next))
	g.next++
	return l
}

// A Temp is a virtual register. Temps have no address.
type Temp int

func (t Temp) String() string { return fmt.Sprintf("T[%d]", int(t)) }

// TempGen hands out temps, unique within one compilation.
type TempGen struct {
	next int
}

// NewTempGen returns a generator whose first temp is T[0].
func NewTempGen() *TempGen {
	return &TempGen{}
}

// Next returns a fresh temp.
func (g *TempGen) Next() Temp {
	t := Temp(g.next)
	g.next++
	return t
}
