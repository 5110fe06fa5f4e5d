// Package sema holds the results of name resolution and type checking that
// the back end consumes: which definition every reference names and which
// type every node has. Both tables are keyed by syntax.NodeID.
package sema

import (
	"github.com/you-not-fish/pinsc/internal/syntax"
	"github.com/you-not-fish/pinsc/internal/types"
)

// Info holds the annotations of one syntax tree.
type Info struct {
	// Decls maps name references, calls and type names to their definitions.
	// Calls of standard library functions have no entry.
	Decls map[syntax.NodeID]syntax.Def

	// Types maps expressions, definitions and type expressions to their
	// resolved types.
	Types map[syntax.NodeID]types.Type
}

// NewInfo returns an empty Info.
func NewInfo() *Info {
	return &Info{
		Decls: make(map[syntax.NodeID]syntax.Def),
		Types: make(map[syntax.NodeID]types.Type),
	}
}

// DeclOf returns the definition n refers to.
func (info *Info) DeclOf(n syntax.Node) (syntax.Def, bool) {
	d, ok := info.Decls[n.ID()]
	return d, ok
}

// TypeOf returns the type of n.
func (info *Info) TypeOf(n syntax.Node) (types.Type, bool) {
	t, ok := info.Types[n.ID()]
	return t, ok && t != nil
}

// RecordDecl records that n refers to d.
func (info *Info) RecordDecl(n syntax.Node, d syntax.Def) {
	info.Decls[n.ID()] = d
}

// RecordType records the type of n.
func (info *Info) RecordType(n syntax.Node, t types.Type) {
	info.Types[n.ID()] = t
}
