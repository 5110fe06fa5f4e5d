// Package types implements the resolved PINS types handed to the back end
// by the type checker. This package provides type representations without
// syntax tree dependencies.
package types

// Type is the interface implemented by all types.
type Type interface {
	// String returns the type in the form used by diagnostics and dumps.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
