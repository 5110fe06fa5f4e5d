// Package ir defines the tree intermediate representation produced by the
// code generator, flattened by the canonicalizer and run by the virtual
// machine.
package ir

import "github.com/you-not-fish/pinsc/internal/frame"

// Node is implemented by every expression and statement.
type Node interface {
	aNode()
}

// Expr is an IR expression. It is one of *Binop, *Call, *Const, *Eseq,
// *Mem, *Name or *TempRef.
type Expr interface {
	Node
	aExpr()
}

// Stmt is an IR statement. It is one of *CJump, *ExprStmt, *Jump,
// *LabelStmt, *Move or *Seq.
type Stmt interface {
	Node
	aStmt()
}

type expr struct{}

func (expr) aNode() {}
func (expr) aExpr() {}

type stmt struct{}

func (stmt) aNode() {}
func (stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Expressions

// Binop applies Op to X and Y.
type Binop struct {
	expr
	Op Op
	X  Expr
	Y  Expr
}

// Call transfers control to Label. For user functions Args[0] is the
// static link; for standard library functions it is the caller's frame
// pointer.
type Call struct {
	expr
	Label frame.Label
	Args  []Expr
}

// Const is an integer constant. Truth values are 0 and 1.
type Const struct {
	expr
	Value int
}

// Eseq executes Stmt and then evaluates X.
type Eseq struct {
	expr
	Stmt Stmt
	X    Expr
}

// Mem is the word stored at Addr. As a Move destination it is the cell itself.
type Mem struct {
	expr
	Addr Expr
}

// Name is the address of Label, or the value of FP or SP.
type Name struct {
	expr
	Label frame.Label
}

// TempRef reads or, as a Move destination, writes a temp.
type TempRef struct {
	expr
	Temp frame.Temp
}

// ----------------------------------------------------------------------------
// Statements

// CJump jumps to Then when Cond is non-zero and to Else otherwise.
type CJump struct {
	stmt
	Cond Expr
	Then frame.Label
	Else frame.Label
}

// ExprStmt evaluates X and discards the result.
type ExprStmt struct {
	stmt
	X Expr
}

// Jump transfers control to Label.
type Jump struct {
	stmt
	Label frame.Label
}

// LabelStmt marks a jump target.
type LabelStmt struct {
	stmt
	Label frame.Label
}

// Move stores Src into Dst, which must be a *Mem or a *TempRef.
type Move struct {
	stmt
	Dst Expr
	Src Expr
}

// Seq executes Stmts in order.
type Seq struct {
	stmt
	Stmts []Stmt
}

// Flatten returns the statements of a Seq, or s alone for any other
// statement. Nested sequences are not expanded.
func Flatten(s Stmt) []Stmt {
	if seq, ok := s.(*Seq); ok {
		return seq.Stmts
	}
	return []Stmt{s}
}

// ----------------------------------------------------------------------------
// Constructors for the common shapes

// NewConst returns the constant v.
func NewConst(v int) *Const { return &Const{Value: v} }

// NewName returns the address of l.
func NewName(l frame.Label) *Name { return &Name{Label: l} }

// NewTemp returns a reference to t.
func NewTemp(t frame.Temp) *TempRef { return &TempRef{Temp: t} }

// NewMem returns the cell at addr.
func NewMem(addr Expr) *Mem { return &Mem{Addr: addr} }

// NewBinop returns x op y.
func NewBinop(op Op, x, y Expr) *Binop { return &Binop{Op: op, X: x, Y: y} }

// NewMove returns dst <- src.
func NewMove(dst, src Expr) *Move { return &Move{Dst: dst, Src: src} }

// NewSeq returns a sequence of stmts.
func NewSeq(stmts ...Stmt) *Seq { return &Seq{Stmts: stmts} }

// FP returns the frame pointer.
func FP() *Name { return NewName(frame.FP) }

// SP returns the stack pointer.
func SP() *Name { return NewName(frame.SP) }
