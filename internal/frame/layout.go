package frame

import (
	"fmt"

	"github.com/you-not-fish/pinsc/internal/rtabi"
	"github.com/you-not-fish/pinsc/internal/sema"
	"github.com/you-not-fish/pinsc/internal/syntax"
	"github.com/you-not-fish/pinsc/internal/types"
)

// Result holds the frames and accesses of one program.
type Result struct {
	// Frames maps each FunDef to its frame.
	Frames map[syntax.NodeID]*Frame

	// Accesses maps each VarDef and Param to its access.
	Accesses map[syntax.NodeID]Access
}

// FrameOf returns the frame of f.
func (r *Result) FrameOf(f *syntax.FunDef) (*Frame, bool) {
	fr, ok := r.Frames[f.ID()]
	return fr, ok
}

// AccessOf returns the access of a variable or parameter definition.
func (r *Result) AccessOf(d syntax.Def) (Access, bool) {
	a, ok := r.Accesses[d.ID()]
	return a, ok
}

// layoutContext carries the state of one walk: the static level of the
// function being laid out and the builders of all enclosing functions.
type layoutContext struct {
	info     *sema.Info
	labels   *LabelGen
	level    int
	builders []*Builder
	res      *Result
}

// Layout computes the frame of every function and the access of every
// variable and parameter in root. Top-level functions are labelled by
// name, nested ones and globals get anonymous labels from labels.
func Layout(root *syntax.Defs, info *sema.Info, labels *LabelGen) (res *Result, err error) {
	ctx := &layoutContext{
		info:   info,
		labels: labels,
		res: &Result{
			Frames:   make(map[syntax.NodeID]*Frame),
			Accesses: make(map[syntax.NodeID]Access),
		},
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

	ctx.defs(root)
	return ctx.res, nil
}

func (c *layoutContext) errorf(n syntax.Node, format string, args ...interface{}) {
	panic(bailout{&Error{Pos: n.Pos(), Msg: fmt.Sprintf(format, args...)}})
}

func (c *layoutContext) typeOf(n syntax.Node) types.Type {
	t, ok := c.info.TypeOf(n)
	if !ok {
		c.errorf(n, "missing type of %T #%d", n, n.ID())
	}
	return t
}

// current returns the builder of the innermost function.
func (c *layoutContext) current() *Builder {
	return c.builders[len(c.builders)-1]
}

func (c *layoutContext) defs(d *syntax.Defs) {
	if d == nil {
		return
	}
	for _, def := range d.Defs {
		c.def(def)
	}
}

func (c *layoutContext) def(d syntax.Def) {
	switch d := d.(type) {
	case *syntax.FunDef:
		c.funDef(d)
	case *syntax.VarDef:
		c.varDef(d)
	case *syntax.Param:
		c.param(d)
	case *syntax.TypeDef:
		// no storage
	default:
		panic(fmt.Sprintf("frame.Layout: unexpected definition %T", d))
	}
}

func (c *layoutContext) funDef(f *syntax.FunDef) {
	c.level++
	var label Label
	if c.level == 1 {
		label = NamedLabel(f.Name)
	} else {
		label = c.labels.Next()
	}
	b := NewBuilder(label, c.level)
	b.AddParameter(rtabi.WordSize) // static link
	c.builders = append(c.builders, b)

	for _, p := range f.Params {
		c.param(p)
	}
	if f.Body == nil {
		c.errorf(f, "function %s has no body", f.Name)
	}
	c.expr(f.Body)

	c.res.Frames[f.ID()] = b.Build()
	c.builders = c.builders[:len(c.builders)-1]
	c.level--
}

func (c *layoutContext) param(p *syntax.Param) {
	size := types.SizeofArg(c.typeOf(p))
	b := c.current()
	c.res.Accesses[p.ID()] = NewParam(size, b.AddParameter(size), c.level)
}

func (c *layoutContext) varDef(v *syntax.VarDef) {
	size := types.Sizeof(c.typeOf(v))
	if c.level == 0 {
		c.res.Accesses[v.ID()] = NewGlobal(size, c.labels.Next())
		return
	}
	b := c.current()
	c.res.Accesses[v.ID()] = NewLocal(size, b.AddLocal(size), c.level)
}

func (c *layoutContext) expr(e syntax.Expr) {
	switch e := e.(type) {
	case nil:
		return

	case *syntax.Call:
		size := rtabi.WordSize // static link
		for _, arg := range e.Args {
			size += types.SizeofArg(c.typeOf(arg))
			c.expr(arg)
		}
		if len(c.builders) == 0 {
			c.errorf(e, "call of %s outside of a function", e.Name)
		}
		c.current().AddCall(size)

	case *syntax.Binary:
		c.expr(e.X)
		c.expr(e.Y)

	case *syntax.Unary:
		c.expr(e.X)

	case *syntax.Block:
		for _, x := range e.Exprs {
			c.expr(x)
		}

	case *syntax.IfThenElse:
		c.expr(e.Cond)
		c.expr(e.Then)
		c.expr(e.Else)

	case *syntax.While:
		c.expr(e.Cond)
		c.expr(e.Body)

	case *syntax.For:
		c.expr(e.Low)
		c.expr(e.High)
		c.expr(e.Step)
		c.expr(e.Body)

	case *syntax.Where:
		c.defs(e.Defs)
		c.expr(e.X)

	case *syntax.Name, *syntax.Literal:
		// leaves

	default:
		panic(fmt.Sprintf("frame.Layout: unexpected expression %T", e))
	}
}
