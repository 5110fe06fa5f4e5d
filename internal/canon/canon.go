// Package canon rewrites IR trees into canonical statement lists: flat
// sequences whose expressions contain no statements and whose calls take
// only temps as arguments.
package canon

import (
	"fmt"

	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/ir"
)

// A Canonicalizer rewrites IR. It allocates temps from the compilation's
// TempGen so they never collide with temps created by code generation.
type Canonicalizer struct {
	temps *frame.TempGen
}

// New returns a canonicalizer drawing temps from temps.
func New(temps *frame.TempGen) *Canonicalizer {
	return &Canonicalizer{temps: temps}
}

// Chunk returns a copy of c whose code is a flat *ir.Seq.
func (c *Canonicalizer) Chunk(chunk *ir.CodeChunk) *ir.CodeChunk {
	return &ir.CodeChunk{Frame: chunk.Frame, Code: ir.NewSeq(c.Stmt(chunk.Code)...)}
}

// Stmt returns the canonical statement list equivalent to s.
func (c *Canonicalizer) Stmt(s ir.Stmt) []ir.Stmt {
	switch s := s.(type) {
	case *ir.Seq:
		var out []ir.Stmt
		for _, st := range s.Stmts {
			out = append(out, c.Stmt(st)...)
		}
		return out

	case *ir.Jump, *ir.LabelStmt:
		return []ir.Stmt{s}

	case *ir.ExprStmt:
		pre, x := c.Expr(s.X)
		return append(pre, &ir.ExprStmt{X: x})

	case *ir.CJump:
		pre, cond := c.Expr(s.Cond)
		return append(pre, &ir.CJump{Cond: cond, Then: s.Then, Else: s.Else})

	case *ir.Move:
		return c.move(s)
	}
	panic(fmt.Sprintf("canon.Stmt: unexpected statement %T", s))
}

// move canonicalizes the destination before the source.
func (c *Canonicalizer) move(m *ir.Move) []ir.Stmt {
	switch dst := m.Dst.(type) {
	case *ir.TempRef:
		pre, src := c.Expr(m.Src)
		return append(pre, ir.NewMove(dst, src))

	case *ir.Mem:
		pre, addr := c.Expr(dst.Addr)
		srcPre, src := c.Expr(m.Src)
		pre, addr = c.protect(pre, addr, srcPre)
		pre = append(pre, srcPre...)
		return append(pre, ir.NewMove(ir.NewMem(addr), src))

	case *ir.Eseq:
		// Move(Eseq(s, d), src) is s followed by Move(d, src).
		pre := c.Stmt(dst.Stmt)
		return append(pre, c.move(ir.NewMove(dst.X, m.Src))...)
	}
	panic(fmt.Sprintf("canon.Stmt: MOVE to %T", m.Dst))
}

// Expr returns the statements that must run before the canonical form of
// e, and that form.
func (c *Canonicalizer) Expr(e ir.Expr) ([]ir.Stmt, ir.Expr) {
	switch e := e.(type) {
	case *ir.Const, *ir.Name, *ir.TempRef:
		return nil, e

	case *ir.Mem:
		pre, addr := c.Expr(e.Addr)
		return pre, ir.NewMem(addr)

	case *ir.Binop:
		pre, x := c.Expr(e.X)
		ypre, y := c.Expr(e.Y)
		pre, x = c.protect(pre, x, ypre)
		return append(pre, ypre...), ir.NewBinop(e.Op, x, y)

	case *ir.Eseq:
		pre := c.Stmt(e.Stmt)
		xpre, x := c.Expr(e.X)
		return append(pre, xpre...), x

	case *ir.Call:
		var pre []ir.Stmt
		args := make([]ir.Expr, len(e.Args))
		for i, a := range e.Args {
			apre, av := c.Expr(a)
			pre = append(pre, apre...)
			t := ir.NewTemp(c.temps.Next())
			pre = append(pre, ir.NewMove(t, av))
			args[i] = t
		}
		return pre, &ir.Call{Label: e.Label, Args: args}
	}
	panic(fmt.Sprintf("canon.Expr: unexpected expression %T", e))
}

// protect keeps the value x, computed after pre, from being changed by
// the statements later that run before x is used. When later is not
// empty and x may read memory or call, x is saved in a fresh temp.
func (c *Canonicalizer) protect(pre []ir.Stmt, x ir.Expr, later []ir.Stmt) ([]ir.Stmt, ir.Expr) {
	if len(later) == 0 || isConstant(x) {
		return pre, x
	}
	t := ir.NewTemp(c.temps.Next())
	return append(pre, ir.NewMove(t, x)), t
}

// isConstant reports whether x has the same value wherever it is evaluated
// within one call.
func isConstant(x ir.Expr) bool {
	switch x := x.(type) {
	case *ir.Const, *ir.Name, *ir.TempRef:
		return true
	case *ir.Binop:
		return isConstant(x.X) && isConstant(x.Y)
	}
	return false
}
