package syntax

// An Allocator creates syntax tree nodes and hands out their NodeIDs.
// IDs start at 1 and increase in creation order, so children created
// before their parents have smaller IDs. The zero value is ready to use.
type Allocator struct {
	last NodeID
}

// NewAllocator returns an allocator whose first ID is 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Count returns the number of IDs handed out so far.
func (a *Allocator) Count() int { return int(a.last) }

func (a *Allocator) init(n *node, pos Pos) {
	a.last++
	n.id = a.last
	n.pos = pos
}

// reserve makes sure future IDs are larger than id. Decoders use it
// to keep allocating after a tree that was read back with its own IDs.
func (a *Allocator) reserve(id NodeID) {
	if id > a.last {
		a.last = id
	}
}

func (a *Allocator) Defs(pos Pos, defs ...Def) *Defs {
	n := &Defs{Defs: defs}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) FunDef(pos Pos, name string, params []*Param, result TypeExpr, body Expr) *FunDef {
	n := &FunDef{Params: params, Result: result, Body: body}
	n.Name = name
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) Param(pos Pos, name string, typ TypeExpr) *Param {
	n := &Param{Type: typ}
	n.Name = name
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) VarDef(pos Pos, name string, typ TypeExpr) *VarDef {
	n := &VarDef{Type: typ}
	n.Name = name
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) TypeDef(pos Pos, name string, typ TypeExpr) *TypeDef {
	n := &TypeDef{Type: typ}
	n.Name = name
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) Binary(pos Pos, op BinaryOp, x, y Expr) *Binary {
	n := &Binary{Op: op, X: x, Y: y}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) Unary(pos Pos, op UnaryOp, x Expr) *Unary {
	n := &Unary{Op: op, X: x}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) Call(pos Pos, name string, args ...Expr) *Call {
	n := &Call{Name: name, Args: args}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) Name(pos Pos, value string) *Name {
	n := &Name{Value: value}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) Literal(pos Pos, kind Atom, value string) *Literal {
	n := &Literal{Kind: kind, Value: value}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) Block(pos Pos, exprs ...Expr) *Block {
	n := &Block{Exprs: exprs}
	a.init(&n.node, pos)
	return n
}

// IfThenElse creates an if expression; els may be nil.
func (a *Allocator) IfThenElse(pos Pos, cond, then, els Expr) *IfThenElse {
	n := &IfThenElse{Cond: cond, Then: then, Else: els}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) While(pos Pos, cond, body Expr) *While {
	n := &While{Cond: cond, Body: body}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) For(pos Pos, counter *Name, low, high, step, body Expr) *For {
	n := &For{Counter: counter, Low: low, High: high, Step: step, Body: body}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) Where(pos Pos, x Expr, defs *Defs) *Where {
	n := &Where{X: x, Defs: defs}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) AtomType(pos Pos, kind Atom) *AtomType {
	n := &AtomType{Kind: kind}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) ArrayType(pos Pos, length int, elem TypeExpr) *ArrayType {
	n := &ArrayType{Len: length, Elem: elem}
	a.init(&n.node, pos)
	return n
}

func (a *Allocator) TypeName(pos Pos, value string) *TypeName {
	n := &TypeName{Value: value}
	a.init(&n.node, pos)
	return n
}
