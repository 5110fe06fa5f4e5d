// Package syntax defines the PINS syntax tree consumed by the compiler back end.
//
// Trees are produced by an external front end (or built directly through an
// Allocator) and every node carries a NodeID that is unique within its tree.
// Side tables such as declarations, types, frames and generated IR are keyed
// by that ID rather than by pointer identity.
package syntax

// NodeID identifies a node within one syntax tree. The zero value is invalid.
type NodeID int32

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions, Definitions and Types.
// All nodes implement the Node interface. Defs is the only node that belongs
// to none of the classes.

// Node is the interface implemented by all syntax tree nodes.
type Node interface {
	ID() NodeID // identity used by side tables
	Pos() Pos   // source range of the node
	aNode()     // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Def is the interface for all definitions: functions, parameters,
// variables and types.
type Def interface {
	Node
	DefName() string
	aDef()
}

// TypeExpr is the interface for type expressions written in the source.
type TypeExpr interface {
	Node
	aTypeExpr()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all syntax tree nodes.
type node struct {
	id  NodeID
	pos Pos
}

func (n *node) ID() NodeID { return n.id }
func (n *node) Pos() Pos   { return n.pos }
func (n *node) aNode()     {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// def is embedded in all definition nodes.
type def struct {
	node
	Name string
}

func (d *def) DefName() string { return d.Name }
func (*def) aDef()             {}

// typeExpr is embedded in all type expression nodes.
type typeExpr struct{ node }

func (*typeExpr) aTypeExpr() {}

// ----------------------------------------------------------------------------
// Definitions

// Defs is an ordered list of definitions. The root of every program is a Defs.
type Defs struct {
	node
	Defs []Def
}

// FunDef represents fun Name(Params) : Result = Body.
type FunDef struct {
	def
	Params []*Param
	Result TypeExpr
	Body   Expr
}

// Param represents one function parameter.
type Param struct {
	def
	Type TypeExpr
}

// VarDef represents var Name : Type.
type VarDef struct {
	def
	Type TypeExpr
}

// TypeDef represents typ Name : Type.
type TypeDef struct {
	def
	Type TypeExpr
}

// ----------------------------------------------------------------------------
// Expressions

// Binary represents X Op Y. Assignment and array indexing are binary
// operations too (Op is Assign or Index).
type Binary struct {
	expr
	Op BinaryOp
	X  Expr
	Y  Expr
}

// Unary represents Op X.
type Unary struct {
	expr
	Op UnaryOp
	X  Expr
}

// Call represents Name(Args...). Calls always name their callee directly.
type Call struct {
	expr
	Name string
	Args []Expr
}

// Name represents a reference to a variable or parameter.
type Name struct {
	expr
	Value string
}

// Literal represents an integer, logical or string constant.
// For strings Value holds the text without the surrounding quotes.
type Literal struct {
	expr
	Kind  Atom
	Value string
}

// Block represents { X1; X2; ...; Xn }. Its value is the value of Xn.
type Block struct {
	expr
	Exprs []Expr
}

// IfThenElse represents if Cond then Then [else Else].
type IfThenElse struct {
	expr
	Cond Expr
	Then Expr
	Else Expr // nil when there is no else branch
}

// While represents while Cond : Body.
type While struct {
	expr
	Cond Expr
	Body Expr
}

// For represents for Counter = Low, High, Step : Body.
type For struct {
	expr
	Counter *Name
	Low     Expr
	High    Expr
	Step    Expr
	Body    Expr
}

// Where represents X { where Defs }.
type Where struct {
	expr
	X    Expr
	Defs *Defs
}

// ----------------------------------------------------------------------------
// Type expressions

// AtomType represents one of the built-in types integer, logical or string.
type AtomType struct {
	typeExpr
	Kind Atom
}

// ArrayType represents arr[Len] Elem.
type ArrayType struct {
	typeExpr
	Len  int
	Elem TypeExpr
}

// TypeName represents a reference to a type definition.
type TypeName struct {
	typeExpr
	Value string
}
