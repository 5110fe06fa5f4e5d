// Package irgen translates an annotated PINS syntax tree into IR chunks.
package irgen

import (
	"fmt"
	"strconv"

	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/ir"
	"github.com/you-not-fish/pinsc/internal/rtabi"
	"github.com/you-not-fish/pinsc/internal/sema"
	"github.com/you-not-fish/pinsc/internal/syntax"
	"github.com/you-not-fish/pinsc/internal/types"
)

// Result is the generated program.
type Result struct {
	// Nodes maps every expression and function definition to its IR.
	Nodes map[syntax.NodeID]ir.Node

	// Chunks lists code, data and global chunks in generation order.
	// A nested function's chunk precedes the chunk of its enclosing function.
	Chunks []ir.Chunk
}

// generator holds the state of one translation.
type generator struct {
	info   *sema.Info
	layout *frame.Result
	labels *frame.LabelGen
	temps  *frame.TempGen

	frames []*frame.Frame // enclosing functions, innermost last
	res    *Result
}

// Generate translates root. labels and temps must be the generators used
// by the rest of the compilation so that names stay unique.
func Generate(root *syntax.Defs, info *sema.Info, layout *frame.Result, labels *frame.LabelGen, temps *frame.TempGen) (res *Result, err error) {
	g := &generator{
		info:   info,
		layout: layout,
		labels: labels,
		temps:  temps,
		res:    &Result{Nodes: make(map[syntax.NodeID]ir.Node)},
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			res, err = nil, b.err
		}
	}()

	g.defs(root)
	return g.res, nil
}

func (g *generator) errorf(n syntax.Node, format string, args ...interface{}) {
	panic(bailout{&Error{Pos: n.Pos(), Msg: fmt.Sprintf(format, args...)}})
}

func (g *generator) typeOf(n syntax.Node) types.Type {
	t, ok := g.info.TypeOf(n)
	if !ok {
		g.errorf(n, "missing type of %T #%d", n, n.ID())
	}
	return t
}

func (g *generator) declOf(n syntax.Node) syntax.Def {
	d, ok := g.info.DeclOf(n)
	if !ok {
		g.errorf(n, "missing declaration of %T #%d", n, n.ID())
	}
	return d
}

func (g *generator) frameOf(f *syntax.FunDef) *frame.Frame {
	fr, ok := g.layout.FrameOf(f)
	if !ok {
		g.errorf(f, "missing frame of function %s", f.Name)
	}
	return fr
}

func (g *generator) accessOf(use syntax.Node, d syntax.Def) frame.Access {
	a, ok := g.layout.AccessOf(d)
	if !ok {
		g.errorf(use, "missing access of %s", d.DefName())
	}
	return a
}

// level returns the static level of the function being generated.
func (g *generator) level() int {
	if len(g.frames) == 0 {
		return 0
	}
	return g.frames[len(g.frames)-1].Level()
}

// ----------------------------------------------------------------------------
// Definitions

func (g *generator) defs(d *syntax.Defs) {
	for _, def := range d.Defs {
		switch def := def.(type) {
		case *syntax.FunDef:
			g.funDef(def)
		case *syntax.VarDef:
			if g.level() == 0 {
				acc, ok := g.accessOf(def, def).(*frame.Global)
				if !ok {
					g.errorf(def, "global %s has a stack access", def.Name)
				}
				g.res.Chunks = append(g.res.Chunks, &ir.GlobalChunk{Access: acc})
			}
		case *syntax.TypeDef, *syntax.Param:
			// nothing to emit
		}
	}
}

func (g *generator) funDef(f *syntax.FunDef) {
	fr := g.frameOf(f)
	g.frames = append(g.frames, fr)

	code := ir.NewMove(ir.NewMem(ir.FP()), g.expr(f.Body))

	g.frames = g.frames[:len(g.frames)-1]
	g.res.Nodes[f.ID()] = code
	g.res.Chunks = append(g.res.Chunks, &ir.CodeChunk{Frame: fr, Code: code})
}

// ----------------------------------------------------------------------------
// Expressions

func (g *generator) expr(e syntax.Expr) ir.Expr {
	if e == nil {
		panic("irgen: nil expression")
	}
	x := g.expr1(e)
	g.res.Nodes[e.ID()] = x
	return x
}

func (g *generator) expr1(e syntax.Expr) ir.Expr {
	switch e := e.(type) {
	case *syntax.Literal:
		return g.literal(e)

	case *syntax.Name:
		return g.name(e)

	case *syntax.Binary:
		return g.binary(e)

	case *syntax.Unary:
		x := g.expr(e.X)
		switch e.Op {
		case syntax.Not:
			return ir.NewBinop(ir.OpSub, ir.NewConst(rtabi.True), x)
		case syntax.Minus:
			return ir.NewBinop(ir.OpSub, ir.NewConst(0), x)
		case syntax.Plus:
			return x
		}
		g.errorf(e, "unknown unary operator %s", e.Op)

	case *syntax.Call:
		return g.call(e)

	case *syntax.Block:
		if len(e.Exprs) == 0 {
			g.errorf(e, "empty block")
		}
		var stmts []ir.Stmt
		for _, x := range e.Exprs[:len(e.Exprs)-1] {
			stmts = append(stmts, asStmt(g.expr(x)))
		}
		last := g.expr(e.Exprs[len(e.Exprs)-1])
		return &ir.Eseq{Stmt: ir.NewSeq(stmts...), X: last}

	case *syntax.IfThenElse:
		return g.ifThenElse(e)

	case *syntax.While:
		test, body, end := g.labels.Next(), g.labels.Next(), g.labels.Next()
		return void(
			&ir.LabelStmt{Label: test},
			&ir.CJump{Cond: g.expr(e.Cond), Then: body, Else: end},
			&ir.LabelStmt{Label: body},
			asStmt(g.expr(e.Body)),
			&ir.Jump{Label: test},
			&ir.LabelStmt{Label: end},
		)

	case *syntax.For:
		return g.forLoop(e)

	case *syntax.Where:
		g.defs(e.Defs)
		return g.expr(e.X)
	}

	g.errorf(e, "unexpected expression %T", e)
	return nil
}

// void wraps the statements of a construct without a value.
func void(stmts ...ir.Stmt) ir.Expr {
	return &ir.Eseq{Stmt: ir.NewSeq(stmts...), X: ir.NewConst(0)}
}

// asStmt turns an expression evaluated for effect into a statement.
// Void constructs contribute their statements directly.
func asStmt(x ir.Expr) ir.Stmt {
	if es, ok := x.(*ir.Eseq); ok {
		if _, ok := es.X.(*ir.Const); ok {
			return es.Stmt
		}
	}
	return &ir.ExprStmt{X: x}
}

func (g *generator) literal(l *syntax.Literal) ir.Expr {
	switch l.Kind {
	case syntax.Int:
		v, err := strconv.Atoi(l.Value)
		if err != nil {
			g.errorf(l, "invalid integer constant %q", l.Value)
		}
		return ir.NewConst(v)
	case syntax.Log:
		v, err := strconv.ParseBool(l.Value)
		if err != nil {
			g.errorf(l, "invalid logical constant %q", l.Value)
		}
		if v {
			return ir.NewConst(rtabi.True)
		}
		return ir.NewConst(rtabi.False)
	case syntax.Str:
		label := g.labels.Next()
		g.res.Chunks = append(g.res.Chunks, &ir.DataChunk{
			Access: frame.NewGlobal(rtabi.SizeStr, label),
			Data:   l.Value,
		})
		return ir.NewName(label)
	}
	g.errorf(l, "unknown literal kind %s", l.Kind)
	return nil
}

// staticChain returns the frame pointer of the function d levels out
// from the current one.
func staticChain(d int) ir.Expr {
	var fp ir.Expr = ir.FP()
	for i := 0; i < d; i++ {
		fp = ir.NewMem(fp)
	}
	return fp
}

func (g *generator) name(n *syntax.Name) ir.Expr {
	d := g.declOf(n)
	typ := g.typeOf(d)
	isArray := types.IsArray(typ)

	switch acc := g.accessOf(n, d).(type) {
	case *frame.Global:
		addr := ir.NewName(acc.Label())
		if isArray {
			return addr
		}
		return ir.NewMem(addr)

	case frame.StackAccess:
		depth := g.level() - acc.Level()
		if depth < 0 {
			g.errorf(n, "%s is declared in a nested function", n.Value)
		}
		addr := ir.NewBinop(ir.OpAdd, staticChain(depth), ir.NewConst(acc.Offset()))
		if isArray {
			if _, ok := acc.(*frame.Param); ok {
				// The slot holds the caller's array address.
				return ir.NewMem(addr)
			}
			return addr
		}
		return ir.NewMem(addr)
	}

	g.errorf(n, "unexpected access of %s", n.Value)
	return nil
}

var binops = map[syntax.BinaryOp]ir.Op{
	syntax.Add: ir.OpAdd,
	syntax.Sub: ir.OpSub,
	syntax.Mul: ir.OpMul,
	syntax.Div: ir.OpDiv,
	syntax.Mod: ir.OpMod,
	syntax.And: ir.OpAnd,
	syntax.Or:  ir.OpOr,
	syntax.Eql: ir.OpEq,
	syntax.Neq: ir.OpNeq,
	syntax.Lss: ir.OpLt,
	syntax.Gtr: ir.OpGt,
	syntax.Leq: ir.OpLeq,
	syntax.Geq: ir.OpGeq,
}

func (g *generator) binary(b *syntax.Binary) ir.Expr {
	switch b.Op {
	case syntax.Assign:
		dst := g.expr(b.X)
		switch dst.(type) {
		case *ir.Mem, *ir.TempRef:
		default:
			g.errorf(b, "cannot assign to %T", dst)
		}
		src := g.expr(b.Y)
		if m, ok := dst.(*ir.Mem); ok && !stable(m.Addr) {
			// The value is read back from the cell written, so the
			// address is computed once, before the source.
			t := g.temps.Next()
			return &ir.Eseq{
				Stmt: ir.NewSeq(
					ir.NewMove(ir.NewTemp(t), m.Addr),
					ir.NewMove(ir.NewMem(ir.NewTemp(t)), src),
				),
				X: ir.NewMem(ir.NewTemp(t)),
			}
		}
		return &ir.Eseq{Stmt: ir.NewMove(dst, src), X: dst}

	case syntax.Index:
		base := g.expr(b.X)
		index := g.expr(b.Y)
		elem := g.typeOf(b)
		offset := ir.NewBinop(ir.OpMul, ir.NewConst(types.Sizeof(elem)), index)
		addr := ir.NewBinop(ir.OpAdd, base, offset)
		if types.IsArray(elem) {
			return addr
		}
		return ir.NewMem(addr)
	}

	op, ok := binops[b.Op]
	if !ok {
		g.errorf(b, "unknown binary operator %s", b.Op)
	}
	return ir.NewBinop(op, g.expr(b.X), g.expr(b.Y))
}

// stable reports whether e reads no memory and calls nothing, so that
// evaluating it again gives the same value.
func stable(e ir.Expr) bool {
	switch e := e.(type) {
	case *ir.Const, *ir.Name, *ir.TempRef:
		return true
	case *ir.Binop:
		return stable(e.X) && stable(e.Y)
	}
	return false
}

func (g *generator) call(c *syntax.Call) ir.Expr {
	if sig, ok := rtabi.LookupStdlib(c.Name); ok {
		if len(c.Args) != sig.Params {
			g.errorf(c, "%s takes %d arguments, got %d", c.Name, sig.Params, len(c.Args))
		}
		args := []ir.Expr{ir.FP()}
		for _, a := range c.Args {
			args = append(args, g.expr(a))
		}
		return &ir.Call{Label: frame.NamedLabel(c.Name), Args: args}
	}

	f, ok := g.declOf(c).(*syntax.FunDef)
	if !ok {
		g.errorf(c, "%s is not a function", c.Name)
	}
	callee := g.frameOf(f)

	// The static link is the frame pointer of the callee's enclosing
	// function. A callee one level deeper is enclosed by the caller itself.
	depth := g.level() - callee.Level() + 1
	if depth < 0 {
		g.errorf(c, "%s is not visible from level %d", c.Name, g.level())
	}
	args := []ir.Expr{staticChain(depth)}
	nested := false
	for _, a := range c.Args {
		x := g.expr(a)
		nested = nested || ir.ContainsCall(x)
		args = append(args, x)
	}

	var stmts []ir.Stmt
	if nested {
		// Evaluate the arguments before saving FP so that the calls among
		// them cannot overwrite the saved value.
		for i, a := range args {
			t := ir.NewTemp(g.temps.Next())
			stmts = append(stmts, ir.NewMove(t, a))
			args[i] = t
		}
	}
	saveSlot := ir.NewMem(ir.NewBinop(ir.OpSub, ir.SP(), ir.NewConst(callee.OldFPOffset())))
	stmts = append(stmts, ir.NewMove(saveSlot, ir.FP()))

	call := &ir.Call{Label: callee.Label(), Args: args}
	if len(stmts) == 1 {
		return &ir.Eseq{Stmt: stmts[0], X: call}
	}
	return &ir.Eseq{Stmt: ir.NewSeq(stmts...), X: call}
}

func (g *generator) ifThenElse(e *syntax.IfThenElse) ir.Expr {
	cond := g.expr(e.Cond)
	then, end := g.labels.Next(), g.labels.Next()

	if e.Else == nil {
		return void(
			&ir.CJump{Cond: cond, Then: then, Else: end},
			&ir.LabelStmt{Label: then},
			asStmt(g.expr(e.Then)),
			&ir.LabelStmt{Label: end},
		)
	}

	els := g.labels.Next()
	return void(
		&ir.CJump{Cond: cond, Then: then, Else: els},
		&ir.LabelStmt{Label: then},
		asStmt(g.expr(e.Then)),
		&ir.Jump{Label: end},
		&ir.LabelStmt{Label: els},
		asStmt(g.expr(e.Else)),
		&ir.LabelStmt{Label: end},
	)
}

// forLoop lowers a pre-test loop. High and Step are evaluated on every
// iteration.
func (g *generator) forLoop(e *syntax.For) ir.Expr {
	counter := g.expr(e.Counter)
	if _, ok := counter.(*ir.Mem); !ok {
		g.errorf(e.Counter, "loop counter %s is not a scalar variable", e.Counter.Value)
	}
	low := g.expr(e.Low)
	high := g.expr(e.High)
	step := g.expr(e.Step)
	test, body, end := g.labels.Next(), g.labels.Next(), g.labels.Next()

	return void(
		ir.NewMove(counter, low),
		&ir.LabelStmt{Label: test},
		&ir.CJump{Cond: ir.NewBinop(ir.OpLt, counter, high), Then: body, Else: end},
		&ir.LabelStmt{Label: body},
		asStmt(g.expr(e.Body)),
		ir.NewMove(counter, ir.NewBinop(ir.OpAdd, counter, step)),
		&ir.Jump{Label: test},
		&ir.LabelStmt{Label: end},
	)
}
