package irgen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/ir"
	"github.com/you-not-fish/pinsc/internal/rtabi"
	"github.com/you-not-fish/pinsc/internal/sema"
	"github.com/you-not-fish/pinsc/internal/syntax"
)

// generate lays out and translates prog.
func generate(t *testing.T, b *sema.Builder, prog *syntax.Defs) *Result {
	t.Helper()
	labels := frame.NewLabelGen()
	layout, err := frame.Layout(prog, b.Info(), labels)
	require.NoError(t, err)
	res, err := Generate(prog, b.Info(), layout, labels, frame.NewTempGen())
	require.NoError(t, err)
	return res
}

// codeOf returns the code chunk labelled name.
func codeOf(t *testing.T, res *Result, name frame.Label) *ir.CodeChunk {
	t.Helper()
	for _, c := range res.Chunks {
		if cc, ok := c.(*ir.CodeChunk); ok && cc.Label() == name {
			return cc
		}
	}
	t.Fatalf("no code chunk %s", name)
	return nil
}

func dump(n ir.Node) string {
	var buf bytes.Buffer
	ir.Fprint(&buf, n)
	return buf.String()
}

func TestPrintArithmetic(t *testing.T) {
	b := sema.NewBuilder()
	main := b.Fun("main", nil, b.IntType())
	b.SetBody(main, b.StdCall(rtabi.FnPrintInt,
		b.Binary(syntax.Add, b.Int(2), b.Binary(syntax.Mul, b.Int(3), b.Int(4)))))
	res := generate(t, b, b.Program(main))

	require.Len(t, res.Chunks, 1)
	want := `MOVE:
    MEM:
        NAME: {FP}
    CALL print_int:
        NAME: {FP}
        BINOP ADD:
            CONSTANT: 2
            BINOP MUL:
                CONSTANT: 3
                CONSTANT: 4
`
	assert.Equal(t, want, dump(codeOf(t, res, "main").Code))
	assert.Same(t, codeOf(t, res, "main").Code, res.Nodes[main.ID()])
}

func TestEveryExpressionHasIR(t *testing.T) {
	b := sema.NewBuilder()
	prog := outerInner(b)
	res := generate(t, b, prog)

	syntax.Inspect(prog, func(n syntax.Node) bool {
		if _, ok := n.(syntax.Expr); ok {
			assert.Contains(t, res.Nodes, n.ID(), "%T #%d", n, n.ID())
		}
		return true
	})
}

// outerInner builds
//
//	fun main() : integer = { x = 0; inner(); inner(); print_int(x) } { where
//	    var x : integer
//	    fun inner() : integer = { x = x + 1; deeper() } { where
//	        fun deeper() : integer = x
//	    }
//	}
func outerInner(b *sema.Builder) *syntax.Defs {
	main := b.Fun("main", nil, b.IntType())
	x := b.Var("x", b.IntType())
	inner := b.Fun("inner", nil, b.IntType())
	deeper := b.Fun("deeper", nil, b.IntType())
	b.SetBody(deeper, b.Ref(x))
	b.SetBody(inner, b.Where(b.Block(
		b.Assign(b.Ref(x), b.Binary(syntax.Add, b.Ref(x), b.Int(1))),
		b.Call(deeper),
	), deeper))
	b.SetBody(main, b.Where(b.Block(
		b.Assign(b.Ref(x), b.Int(0)),
		b.Call(inner),
		b.Call(inner),
		b.StdCall(rtabi.FnPrintInt, b.Ref(x)),
	), x, inner))
	return b.Program(main)
}

// memsBeforeOffset counts the Mem derefs of FP in a stack address
// BINOP ADD(chain, CONSTANT offset).
func memsBeforeOffset(t *testing.T, addr ir.Expr) int {
	t.Helper()
	add, ok := addr.(*ir.Binop)
	require.True(t, ok, "address is %T", addr)
	require.Equal(t, ir.OpAdd, add.Op)
	require.IsType(t, &ir.Const{}, add.Y)

	n := 0
	e := add.X
	for {
		m, ok := e.(*ir.Mem)
		if !ok {
			break
		}
		n++
		e = m.Addr
	}
	require.Equal(t, ir.FP(), e)
	return n
}

func TestStaticLinkDepth(t *testing.T) {
	b := sema.NewBuilder()
	prog := outerInner(b)
	res := generate(t, b, prog)

	// deeper (level 3) reads x (level 1): two derefs.
	deeper := prog.Defs[0].(*syntax.FunDef).Body.(*syntax.Where).Defs.Defs[1].(*syntax.FunDef).
		Body.(*syntax.Where).Defs.Defs[0].(*syntax.FunDef)
	read, ok := res.Nodes[deeper.Body.ID()].(*ir.Mem)
	require.True(t, ok)
	assert.Equal(t, 2, memsBeforeOffset(t, read.Addr))
	assert.Equal(t, -4, read.Addr.(*ir.Binop).Y.(*ir.Const).Value)

	// main (level 1) reads x (level 1): no deref.
	syntax.Inspect(prog.Defs[0].(*syntax.FunDef).Body.(*syntax.Where).X, func(n syntax.Node) bool {
		if name, ok := n.(*syntax.Name); ok {
			assert.Equal(t, 0, memsBeforeOffset(t, res.Nodes[name.ID()].(*ir.Mem).Addr))
		}
		return true
	})
}

func TestCallProtocol(t *testing.T) {
	b := sema.NewBuilder()
	prog := outerInner(b)
	res := generate(t, b, prog)

	main := prog.Defs[0].(*syntax.FunDef)
	block := main.Body.(*syntax.Where).X.(*syntax.Block)
	innerFrame := codeOf(t, res, ".L0").Frame

	// main calls inner (one level deeper): static link is FP.
	eseq, ok := res.Nodes[block.Exprs[1].ID()].(*ir.Eseq)
	require.True(t, ok)
	save, ok := eseq.Stmt.(*ir.Move)
	require.True(t, ok)
	assert.Equal(t, ir.NewMem(ir.NewBinop(ir.OpSub, ir.SP(), ir.NewConst(innerFrame.OldFPOffset()))), save.Dst)
	assert.Equal(t, ir.FP(), save.Src)
	call := eseq.X.(*ir.Call)
	assert.Equal(t, innerFrame.Label(), call.Label)
	assert.Equal(t, []ir.Expr{ir.FP()}, call.Args)

	// inner calls deeper (one level deeper): also FP.
	innerDef := main.Body.(*syntax.Where).Defs.Defs[1].(*syntax.FunDef)
	innerBlock := innerDef.Body.(*syntax.Where).X.(*syntax.Block)
	deeperCall := res.Nodes[innerBlock.Exprs[1].ID()].(*ir.Eseq).X.(*ir.Call)
	assert.Equal(t, []ir.Expr{ir.FP()}, deeperCall.Args)

	// Standard library calls get FP and no save.
	printCall, ok := res.Nodes[block.Exprs[3].ID()].(*ir.Call)
	require.True(t, ok)
	assert.Equal(t, frame.Label("print_int"), printCall.Label)
	assert.Equal(t, ir.FP(), printCall.Args[0])
}

func TestCallSameLevelUsesStaticLink(t *testing.T) {
	b := sema.NewBuilder()
	f := b.Fun("f", nil, b.IntType())
	b.SetBody(f, b.Int(1))
	main := b.Fun("main", nil, b.IntType())
	b.SetBody(main, b.Call(f))
	res := generate(t, b, b.Program(f, main))

	call := res.Nodes[main.Body.ID()].(*ir.Eseq).X.(*ir.Call)
	assert.Equal(t, frame.Label("f"), call.Label)
	assert.Equal(t, []ir.Expr{ir.NewMem(ir.FP())}, call.Args)
}

func TestNestedCallArgumentsAreBoundFirst(t *testing.T) {
	b := sema.NewBuilder()
	p := b.Param("p", b.IntType())
	f := b.Fun("f", []*syntax.Param{p}, b.IntType())
	b.SetBody(f, b.Ref(p))
	main := b.Fun("main", nil, b.IntType())
	b.SetBody(main, b.Call(f, b.Call(f, b.Int(1))))
	res := generate(t, b, b.Program(f, main))

	outer := res.Nodes[main.Body.ID()].(*ir.Eseq)
	stmts := ir.Flatten(outer.Stmt)
	require.Len(t, stmts, 3, "static link, argument, save")

	for i, a := range outer.X.(*ir.Call).Args {
		assert.Equal(t, stmts[i].(*ir.Move).Dst, a)
	}
	last := stmts[2].(*ir.Move)
	assert.Equal(t, ir.FP(), last.Src)
	assert.IsType(t, &ir.Mem{}, last.Dst)
	assert.True(t, ir.ContainsCall(stmts[1]))
}

func TestArrays(t *testing.T) {
	b := sema.NewBuilder()
	g := b.Var("g", b.ArrType(5, b.IntType()))
	m := b.Var("m", b.ArrType(2, b.ArrType(3, b.IntType())))
	p := b.Param("p", b.ArrType(5, b.IntType()))
	sum := b.Fun("sum", []*syntax.Param{p}, b.IntType())
	pIdx := b.Index(b.Ref(p), b.Int(1))
	b.SetBody(sum, pIdx)
	main := b.Fun("main", nil, b.IntType())
	gIdx := b.Index(b.Ref(g), b.Int(2))
	row := b.Index(b.Ref(m), b.Int(1))
	cell := b.Index(row, b.Int(2))
	b.SetBody(main, b.Block(b.Assign(gIdx, b.Int(7)), cell, b.Call(sum, b.Ref(g))))
	res := generate(t, b, b.Program(g, m, sum, main))

	// Global array element: MEM(NAME + 4*2).
	assert.Equal(t,
		ir.NewMem(ir.NewBinop(ir.OpAdd, ir.NewName(".L0"), ir.NewBinop(ir.OpMul, ir.NewConst(4), ir.NewConst(2)))),
		res.Nodes[gIdx.ID()])

	// A row of a matrix stays an address; the cell is loaded.
	assert.IsType(t, &ir.Binop{}, res.Nodes[row.ID()])
	assert.Equal(t, 12, res.Nodes[row.ID()].(*ir.Binop).Y.(*ir.Binop).X.(*ir.Const).Value)
	assert.IsType(t, &ir.Mem{}, res.Nodes[cell.ID()])

	// An array parameter is loaded from its slot before indexing.
	base := res.Nodes[pIdx.ID()].(*ir.Mem).Addr.(*ir.Binop).X
	assert.Equal(t, ir.NewMem(ir.NewBinop(ir.OpAdd, ir.FP(), ir.NewConst(4))), base)

	// Passing a global array passes its address.
	call := res.Nodes[main.Body.(*syntax.Block).Exprs[2].ID()].(*ir.Eseq).X.(*ir.Call)
	assert.Equal(t, ir.NewName(".L0"), call.Args[1])

	globals := 0
	for _, c := range res.Chunks {
		if gc, ok := c.(*ir.GlobalChunk); ok {
			globals++
			assert.Contains(t, []int{20, 24}, gc.Access.Size())
		}
	}
	assert.Equal(t, 2, globals)
}

func TestControlFlow(t *testing.T) {
	b := sema.NewBuilder()
	main := b.Fun("main", nil, b.IntType())
	i := b.Var("i", b.IntType())
	loop := b.For(i, b.Int(0), b.Int(3), b.Int(1), b.StdCall(rtabi.FnPrintInt, b.Ref(i)))
	cond := b.If(b.Log(true), b.StdCall(rtabi.FnPrintStr, b.Str("yes")), nil)
	both := b.If(b.Log(false), b.Int(1), b.Int(2))
	wh := b.While(b.Binary(syntax.Lss, b.Ref(i), b.Int(0)), b.Assign(b.Ref(i), b.Int(0)))
	b.SetBody(main, b.Where(b.Block(loop, cond, both, wh, b.Int(0)), i))
	res := generate(t, b, b.Program(main))

	kinds := func(x ir.Node) []string {
		var out []string
		for _, s := range ir.Flatten(x.(*ir.Eseq).Stmt) {
			switch s.(type) {
			case *ir.LabelStmt:
				out = append(out, "label")
			case *ir.Jump:
				out = append(out, "jump")
			case *ir.CJump:
				out = append(out, "cjump")
			case *ir.Move:
				out = append(out, "move")
			case *ir.ExprStmt:
				out = append(out, "exp")
			default:
				out = append(out, "other")
			}
		}
		return out
	}

	assert.Equal(t, []string{"move", "label", "cjump", "label", "exp", "move", "jump", "label"}, kinds(res.Nodes[loop.ID()]))
	assert.Equal(t, []string{"cjump", "label", "exp", "label"}, kinds(res.Nodes[cond.ID()]))
	assert.Equal(t, []string{"cjump", "label", "exp", "jump", "label", "exp", "label"}, kinds(res.Nodes[both.ID()]))
	assert.Equal(t, []string{"label", "cjump", "label", "exp", "jump", "label"}, kinds(res.Nodes[wh.ID()]))

	for _, n := range []syntax.Expr{loop, cond, both, wh} {
		assert.Equal(t, ir.NewConst(0), res.Nodes[n.ID()].(*ir.Eseq).X)
	}

	// The string literal became a data chunk.
	var data *ir.DataChunk
	for _, c := range res.Chunks {
		if d, ok := c.(*ir.DataChunk); ok {
			data = d
		}
	}
	require.NotNil(t, data)
	assert.Equal(t, "yes", data.Data)
	assert.Equal(t, rtabi.WordSize, data.Access.Size())
}

func TestAssignComputesAddressOnce(t *testing.T) {
	b := sema.NewBuilder()
	a := b.Var("a", b.ArrType(5, b.IntType()))
	main := b.Fun("main", nil, b.IntType())
	i := b.Var("i", b.IntType())
	elem := b.Assign(b.Index(b.Ref(a), b.Ref(i)), b.Int(1))
	local := b.Assign(b.Ref(i), b.Int(2))
	b.SetBody(main, b.Where(b.Block(elem, local, b.Int(0)), i))
	res := generate(t, b, b.Program(a, main))

	// a[i] depends on memory: its address goes to a temp first.
	eseq := res.Nodes[elem.ID()].(*ir.Eseq)
	stmts := ir.Flatten(eseq.Stmt)
	require.Len(t, stmts, 2)
	t0 := ir.NewTemp(frame.Temp(0))
	assert.Equal(t, t0, stmts[0].(*ir.Move).Dst)
	assert.IsType(t, &ir.Binop{}, stmts[0].(*ir.Move).Src)
	assert.Equal(t, ir.NewMove(ir.NewMem(t0), ir.NewConst(1)), stmts[1])
	assert.Equal(t, ir.NewMem(t0), eseq.X)

	// A local's address is FP plus a constant and is used as is.
	eseq = res.Nodes[local.ID()].(*ir.Eseq)
	dst := ir.NewMem(ir.NewBinop(ir.OpAdd, ir.FP(), ir.NewConst(-4)))
	assert.Equal(t, ir.NewMove(dst, ir.NewConst(2)), eseq.Stmt)
	assert.Equal(t, dst, eseq.X)
}

func TestUnary(t *testing.T) {
	b := sema.NewBuilder()
	main := b.Fun("main", nil, b.IntType())
	not := b.Unary(syntax.Not, b.Log(false))
	neg := b.Unary(syntax.Minus, b.Int(5))
	plus := b.Unary(syntax.Plus, b.Int(6))
	b.SetBody(main, b.Block(not, neg, plus))
	res := generate(t, b, b.Program(main))

	assert.Equal(t, ir.NewBinop(ir.OpSub, ir.NewConst(1), ir.NewConst(0)), res.Nodes[not.ID()])
	assert.Equal(t, ir.NewBinop(ir.OpSub, ir.NewConst(0), ir.NewConst(5)), res.Nodes[neg.ID()])
	assert.Equal(t, ir.NewConst(6), res.Nodes[plus.ID()])
}

func TestMissingAnnotations(t *testing.T) {
	b := sema.NewBuilder()
	main := b.Fun("main", nil, b.IntType())
	x := b.Var("x", b.IntType())
	ref := b.At(4, 2).Ref(x)
	b.SetBody(main, b.Where(ref, x))
	prog := b.Program(main)

	labels := frame.NewLabelGen()
	layout, err := frame.Layout(prog, b.Info(), labels)
	require.NoError(t, err)

	delete(b.Info().Decls, ref.ID())
	_, err = Generate(prog, b.Info(), layout, labels, frame.NewTempGen())
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "[4:2]", gerr.Pos.String())
	assert.Contains(t, gerr.Msg, "missing declaration")

	b.Info().RecordDecl(ref, x)
	delete(layout.Accesses, x.ID())
	_, err = Generate(prog, b.Info(), layout, labels, frame.NewTempGen())
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, gerr.Msg, "missing access of x")
}
