package types

import (
	"fmt"
	"strings"
)

// Array represents an array type arr[N] Elem.
type Array struct {
	typ
	len  int
	elem Type
}

// NewArray creates a new array type with the given length and element type.
func NewArray(len int, elem Type) *Array {
	return &Array{len: len, elem: elem}
}

// Len returns the array length.
func (a *Array) Len() int {
	return a.len
}

// Elem returns the array element type.
func (a *Array) Elem() Type {
	return a.elem
}

// String implements Type.
func (a *Array) String() string {
	return fmt.Sprintf("ARR(%d,%s)", a.len, a.elem)
}

// Func represents the type of a function definition.
type Func struct {
	typ
	params []Type
	result Type
}

// NewFunc creates a new function type.
func NewFunc(params []Type, result Type) *Func {
	return &Func{params: params, result: result}
}

// Params returns the parameter types.
func (f *Func) Params() []Type {
	return f.params
}

// Result returns the result type.
func (f *Func) Result() Type {
	return f.result
}

// String implements Type.
func (f *Func) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range f.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	b.WriteString(f.result.String())
	return b.String()
}
