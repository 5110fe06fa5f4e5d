package sema

import (
	"fmt"
	"strconv"

	"github.com/you-not-fish/pinsc/internal/rtabi"
	"github.com/you-not-fish/pinsc/internal/syntax"
	"github.com/you-not-fish/pinsc/internal/types"
)

// A Builder constructs annotated syntax trees without a front end.
// Every node it creates is recorded in Info together with its type,
// and every reference is bound to the definition it was built from.
//
// Definitions must be created before the expressions that refer to them,
// so function bodies are attached after the FunDef with SetBody:
//
//	b := sema.NewBuilder()
//	main := b.Fun("main", nil, b.IntType())
//	b.SetBody(main, b.StdCall(rtabi.FnPrintInt, b.Int(14)))
//	prog := b.Program(main)
type Builder struct {
	alloc *syntax.Allocator
	info  *Info
	pos   syntax.Pos
}

// NewBuilder returns a builder with an empty Info.
func NewBuilder() *Builder {
	return &Builder{
		alloc: syntax.NewAllocator(),
		info:  NewInfo(),
		pos:   syntax.PosAt(1, 1),
	}
}

// Info returns the annotations recorded so far.
func (b *Builder) Info() *Info { return b.info }

// At sets the source position given to the nodes created next.
func (b *Builder) At(line, col uint32) *Builder {
	b.pos = syntax.PosAt(line, col)
	return b
}

func (b *Builder) typeOf(n syntax.Node) types.Type {
	t, ok := b.info.TypeOf(n)
	if !ok {
		panic(fmt.Sprintf("sema.Builder: node #%d %T has no type", n.ID(), n))
	}
	return t
}

// ----------------------------------------------------------------------------
// Definitions

// Program wraps the top-level definitions.
func (b *Builder) Program(defs ...syntax.Def) *syntax.Defs {
	return b.alloc.Defs(b.pos, defs...)
}

// Fun creates a function definition. Its body is attached with SetBody.
func (b *Builder) Fun(name string, params []*syntax.Param, result syntax.TypeExpr) *syntax.FunDef {
	f := b.alloc.FunDef(b.pos, name, params, result, nil)
	ptypes := make([]types.Type, len(params))
	for i, p := range params {
		ptypes[i] = b.typeOf(p)
	}
	b.info.RecordType(f, types.NewFunc(ptypes, b.typeOf(result)))
	return f
}

// SetBody attaches the body of f.
func (b *Builder) SetBody(f *syntax.FunDef, body syntax.Expr) {
	f.Body = body
}

// Param creates a parameter definition.
func (b *Builder) Param(name string, typ syntax.TypeExpr) *syntax.Param {
	p := b.alloc.Param(b.pos, name, typ)
	b.info.RecordType(p, b.typeOf(typ))
	return p
}

// Var creates a variable definition.
func (b *Builder) Var(name string, typ syntax.TypeExpr) *syntax.VarDef {
	v := b.alloc.VarDef(b.pos, name, typ)
	b.info.RecordType(v, b.typeOf(typ))
	return v
}

// TypeDef creates a type definition.
func (b *Builder) TypeDef(name string, typ syntax.TypeExpr) *syntax.TypeDef {
	t := b.alloc.TypeDef(b.pos, name, typ)
	b.info.RecordType(t, b.typeOf(typ))
	return t
}

// ----------------------------------------------------------------------------
// Type expressions

func (b *Builder) atomType(kind syntax.Atom, t types.Type) syntax.TypeExpr {
	n := b.alloc.AtomType(b.pos, kind)
	b.info.RecordType(n, t)
	return n
}

// IntType creates the type expression integer.
func (b *Builder) IntType() syntax.TypeExpr { return b.atomType(syntax.Int, types.IntType) }

// LogType creates the type expression logical.
func (b *Builder) LogType() syntax.TypeExpr { return b.atomType(syntax.Log, types.LogType) }

// StrType creates the type expression string.
func (b *Builder) StrType() syntax.TypeExpr { return b.atomType(syntax.Str, types.StrType) }

// ArrType creates the type expression arr[n] elem.
func (b *Builder) ArrType(n int, elem syntax.TypeExpr) syntax.TypeExpr {
	a := b.alloc.ArrayType(b.pos, n, elem)
	b.info.RecordType(a, types.NewArray(n, b.typeOf(elem)))
	return a
}

// TypeRef creates a reference to a type definition.
func (b *Builder) TypeRef(td *syntax.TypeDef) syntax.TypeExpr {
	n := b.alloc.TypeName(b.pos, td.Name)
	b.info.RecordDecl(n, td)
	b.info.RecordType(n, b.typeOf(td))
	return n
}

// ----------------------------------------------------------------------------
// Expressions

// Int creates an integer literal.
func (b *Builder) Int(v int) syntax.Expr {
	n := b.alloc.Literal(b.pos, syntax.Int, strconv.Itoa(v))
	b.info.RecordType(n, types.IntType)
	return n
}

// Log creates a logical literal.
func (b *Builder) Log(v bool) syntax.Expr {
	n := b.alloc.Literal(b.pos, syntax.Log, strconv.FormatBool(v))
	b.info.RecordType(n, types.LogType)
	return n
}

// Str creates a string literal.
func (b *Builder) Str(v string) syntax.Expr {
	n := b.alloc.Literal(b.pos, syntax.Str, v)
	b.info.RecordType(n, types.StrType)
	return n
}

// Ref creates a name referring to a variable or parameter definition.
func (b *Builder) Ref(d syntax.Def) *syntax.Name {
	n := b.alloc.Name(b.pos, d.DefName())
	b.info.RecordDecl(n, d)
	b.info.RecordType(n, b.typeOf(d))
	return n
}

// Binary creates x op y. Arithmetic yields int, comparisons and & |
// yield log, assignment yields the type of x and indexing the element
// type of x.
func (b *Builder) Binary(op syntax.BinaryOp, x, y syntax.Expr) syntax.Expr {
	n := b.alloc.Binary(b.pos, op, x, y)
	var t types.Type
	switch {
	case op.IsArithmetic():
		t = types.IntType
	case op.IsLogical(), op.IsComparison():
		t = types.LogType
	case op == syntax.Assign:
		t = b.typeOf(x)
	case op == syntax.Index:
		arr, ok := b.typeOf(x).(*types.Array)
		if !ok {
			panic(fmt.Sprintf("sema.Builder: indexing non-array %s", b.typeOf(x)))
		}
		t = arr.Elem()
	default:
		panic(fmt.Sprintf("sema.Builder: unknown operator %s", op))
	}
	b.info.RecordType(n, t)
	return n
}

// Assign creates x = y.
func (b *Builder) Assign(x, y syntax.Expr) syntax.Expr { return b.Binary(syntax.Assign, x, y) }

// Index creates x[i].
func (b *Builder) Index(x, i syntax.Expr) syntax.Expr { return b.Binary(syntax.Index, x, i) }

// Unary creates op x. ! yields log, + and - yield int.
func (b *Builder) Unary(op syntax.UnaryOp, x syntax.Expr) syntax.Expr {
	n := b.alloc.Unary(b.pos, op, x)
	if op == syntax.Not {
		b.info.RecordType(n, types.LogType)
	} else {
		b.info.RecordType(n, types.IntType)
	}
	return n
}

// Call creates a call of a user function.
func (b *Builder) Call(f *syntax.FunDef, args ...syntax.Expr) syntax.Expr {
	n := b.alloc.Call(b.pos, f.Name, args...)
	b.info.RecordDecl(n, f)
	b.info.RecordType(n, b.typeOf(f).(*types.Func).Result())
	return n
}

// StdCall creates a call of a standard library function. Such calls have
// no declaration.
func (b *Builder) StdCall(name string, args ...syntax.Expr) syntax.Expr {
	n := b.alloc.Call(b.pos, name, args...)
	b.info.RecordType(n, StdlibResult(name))
	return n
}

// StdlibResult returns the result type of a standard library function,
// or nil if name is not one.
func StdlibResult(name string) types.Type {
	switch name {
	case rtabi.FnPrintStr:
		return types.StrType
	case rtabi.FnPrintLog:
		return types.LogType
	case rtabi.FnPrintInt, rtabi.FnRandInt, rtabi.FnSeed:
		return types.IntType
	}
	return nil
}

// Block creates { exprs }. Its type is the type of the last expression.
func (b *Builder) Block(exprs ...syntax.Expr) syntax.Expr {
	if len(exprs) == 0 {
		panic("sema.Builder: empty block")
	}
	n := b.alloc.Block(b.pos, exprs...)
	b.info.RecordType(n, b.typeOf(exprs[len(exprs)-1]))
	return n
}

// If creates if cond then then [else els]; els may be nil.
func (b *Builder) If(cond, then, els syntax.Expr) syntax.Expr {
	n := b.alloc.IfThenElse(b.pos, cond, then, els)
	b.info.RecordType(n, types.VoidType)
	return n
}

// While creates while cond : body.
func (b *Builder) While(cond, body syntax.Expr) syntax.Expr {
	n := b.alloc.While(b.pos, cond, body)
	b.info.RecordType(n, types.VoidType)
	return n
}

// For creates for counter = low, high, step : body.
func (b *Builder) For(counter syntax.Def, low, high, step, body syntax.Expr) syntax.Expr {
	n := b.alloc.For(b.pos, b.Ref(counter), low, high, step, body)
	b.info.RecordType(n, types.VoidType)
	return n
}

// Where creates x { where defs }. Its type is the type of x.
func (b *Builder) Where(x syntax.Expr, defs ...syntax.Def) syntax.Expr {
	n := b.alloc.Where(b.pos, x, b.alloc.Defs(b.pos, defs...))
	b.info.RecordType(n, b.typeOf(x))
	return n
}
