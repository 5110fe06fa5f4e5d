package types

import "github.com/you-not-fish/pinsc/internal/rtabi"

// Sizeof returns the size of a value of type t in bytes.
// Scalars take one word; an array takes Len elements.
// Functions and void have no storage.
func Sizeof(t Type) int {
	switch t := t.(type) {
	case *Atom:
		return atomSize(t.kind)
	case *Array:
		return t.len * Sizeof(t.elem)
	}
	return 0
}

// SizeofArg returns the size of t when passed as an argument.
// Arrays are passed by reference and take one pointer.
func SizeofArg(t Type) int {
	if IsArray(t) {
		return rtabi.SizePtr
	}
	return Sizeof(t)
}

// ElemSize returns the size of one element of an array type.
func ElemSize(a *Array) int {
	return Sizeof(a.elem)
}

func atomSize(kind AtomKind) int {
	switch kind {
	case Int:
		return rtabi.SizeInt
	case Log:
		return rtabi.SizeLog
	case Str:
		return rtabi.SizeStr
	default:
		return rtabi.SizeVoid
	}
}
