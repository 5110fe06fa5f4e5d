package syntax

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// jsonNode is the serialized form of every node kind. Only the fields a
// kind uses are set; kind selects the concrete node on decoding.
type jsonNode struct {
	Kind  string      `json:"kind"`
	ID    NodeID      `json:"id"`
	Pos   *jsonPos    `json:"pos,omitempty"`
	Name  string      `json:"name,omitempty"`
	Op    string      `json:"op,omitempty"`
	Atom  string      `json:"atom,omitempty"`
	Value *string     `json:"value,omitempty"`
	Len   *int        `json:"len,omitempty"`
	Type  *jsonNode   `json:"type,omitempty"`
	Defs  []*jsonNode `json:"defs,omitempty"`
	Args  []*jsonNode `json:"args,omitempty"`
	X     *jsonNode   `json:"x,omitempty"`
	Y     *jsonNode   `json:"y,omitempty"`
	Cond  *jsonNode   `json:"cond,omitempty"`
	Then  *jsonNode   `json:"then,omitempty"`
	Else  *jsonNode   `json:"else,omitempty"`
	Low   *jsonNode   `json:"low,omitempty"`
	High  *jsonNode   `json:"high,omitempty"`
	Step  *jsonNode   `json:"step,omitempty"`
	Body  *jsonNode   `json:"body,omitempty"`
	Where *jsonNode   `json:"where,omitempty"`
}

type jsonPos struct {
	Start Loc `json:"start"`
	End   Loc `json:"end"`
}

// FprintJSON writes an indented JSON representation of the tree to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

// MarshalJSONTree returns the compact JSON representation of the tree.
func MarshalJSONTree(node Node) ([]byte, error) {
	return json.Marshal(toJSON(node))
}

// UnmarshalJSONTree decodes a tree written by MarshalJSONTree or FprintJSON.
// Node IDs are preserved. If alloc is not nil, it is advanced past the
// largest decoded ID so that nodes it creates later do not collide.
func UnmarshalJSONTree(data []byte, alloc *Allocator) (Node, error) {
	var j jsonNode
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("syntax: decoding tree: %w", err)
	}
	d := &decoder{seen: make(map[NodeID]bool)}
	n := d.node(&j)
	if d.err != nil {
		return nil, d.err
	}
	if alloc != nil {
		alloc.reserve(d.max)
	}
	return n, nil
}

// UnmarshalJSONDefs is like UnmarshalJSONTree but requires the root to be
// a definition list.
func UnmarshalJSONDefs(data []byte, alloc *Allocator) (*Defs, error) {
	n, err := UnmarshalJSONTree(data, alloc)
	if err != nil {
		return nil, err
	}
	defs, ok := n.(*Defs)
	if !ok {
		return nil, fmt.Errorf("syntax: root is %T, want *Defs", n)
	}
	return defs, nil
}

func strp(s string) *string { return &s }

func toJSONs[T Node](list []T) []*jsonNode {
	if len(list) == 0 {
		return nil
	}
	out := make([]*jsonNode, len(list))
	for i, n := range list {
		out[i] = toJSON(n)
	}
	return out
}

func toJSON(node Node) *jsonNode {
	if node == nil {
		return nil
	}
	j := &jsonNode{ID: node.ID()}
	if p := node.Pos(); p.IsValid() {
		j.Pos = &jsonPos{Start: p.start, End: p.end}
	}

	switch n := node.(type) {
	case *Defs:
		j.Kind = "Defs"
		j.Defs = toJSONs(n.Defs)
	case *FunDef:
		j.Kind = "FunDef"
		j.Name = n.Name
		j.Args = toJSONs(n.Params)
		j.Type = toJSON(n.Result)
		j.Body = toJSON(n.Body)
	case *Param:
		j.Kind = "Param"
		j.Name = n.Name
		j.Type = toJSON(n.Type)
	case *VarDef:
		j.Kind = "VarDef"
		j.Name = n.Name
		j.Type = toJSON(n.Type)
	case *TypeDef:
		j.Kind = "TypeDef"
		j.Name = n.Name
		j.Type = toJSON(n.Type)
	case *Binary:
		j.Kind = "Binary"
		j.Op = n.Op.String()
		j.X = toJSON(n.X)
		j.Y = toJSON(n.Y)
	case *Unary:
		j.Kind = "Unary"
		j.Op = n.Op.String()
		j.X = toJSON(n.X)
	case *Call:
		j.Kind = "Call"
		j.Name = n.Name
		j.Args = toJSONs(n.Args)
	case *Name:
		j.Kind = "Name"
		j.Value = strp(n.Value)
	case *Literal:
		j.Kind = "Literal"
		j.Atom = n.Kind.String()
		j.Value = strp(n.Value)
	case *Block:
		j.Kind = "Block"
		j.Args = toJSONs(n.Exprs)
	case *IfThenElse:
		j.Kind = "IfThenElse"
		j.Cond = toJSON(n.Cond)
		j.Then = toJSON(n.Then)
		j.Else = toJSON(n.Else)
	case *While:
		j.Kind = "While"
		j.Cond = toJSON(n.Cond)
		j.Body = toJSON(n.Body)
	case *For:
		j.Kind = "For"
		j.X = toJSON(n.Counter)
		j.Low = toJSON(n.Low)
		j.High = toJSON(n.High)
		j.Step = toJSON(n.Step)
		j.Body = toJSON(n.Body)
	case *Where:
		j.Kind = "Where"
		j.X = toJSON(n.X)
		j.Where = toJSON(n.Defs)
	case *AtomType:
		j.Kind = "AtomType"
		j.Atom = n.Kind.String()
	case *ArrayType:
		j.Kind = "ArrayType"
		j.Len = &n.Len
		j.Type = toJSON(n.Elem)
	case *TypeName:
		j.Kind = "TypeName"
		j.Value = strp(n.Value)
	default:
		panic(fmt.Sprintf("syntax.toJSON: unexpected node %T", node))
	}
	return j
}

// decoder rebuilds nodes from their JSON form. The first error sticks;
// later calls return nil nodes.
type decoder struct {
	seen map[NodeID]bool
	max  NodeID
	err  error
}

func (d *decoder) errorf(j *jsonNode, format string, args ...interface{}) {
	if d.err == nil {
		d.err = fmt.Errorf("syntax: %s #%d: %s", j.Kind, j.ID, fmt.Sprintf(format, args...))
	}
}

func (d *decoder) base(j *jsonNode) node {
	switch {
	case j.ID <= 0:
		d.errorf(j, "invalid node id")
	case d.seen[j.ID]:
		d.errorf(j, "duplicate node id")
	}
	d.seen[j.ID] = true
	if j.ID > d.max {
		d.max = j.ID
	}
	n := node{id: j.ID}
	if j.Pos != nil {
		n.pos = Pos{start: j.Pos.Start, end: j.Pos.End}
	}
	return n
}

func (d *decoder) value(j *jsonNode) string {
	if j.Value == nil {
		d.errorf(j, "missing value")
		return ""
	}
	return *j.Value
}

func (d *decoder) atom(j *jsonNode) Atom {
	a, ok := ParseAtom(j.Atom)
	if !ok {
		d.errorf(j, "unknown atom %q", j.Atom)
	}
	return a
}

func (d *decoder) expr(j *jsonNode) Expr {
	if j == nil {
		return nil
	}
	n := d.node(j)
	if n == nil {
		return nil
	}
	e, ok := n.(Expr)
	if !ok {
		d.errorf(j, "not an expression")
	}
	return e
}

// required decodes an expression that must be present.
func (d *decoder) required(parent *jsonNode, field string, j *jsonNode) Expr {
	if j == nil {
		d.errorf(parent, "missing %s", field)
		return nil
	}
	return d.expr(j)
}

func (d *decoder) exprs(list []*jsonNode) []Expr {
	out := make([]Expr, 0, len(list))
	for _, j := range list {
		out = append(out, d.expr(j))
	}
	return out
}

func (d *decoder) typ(parent *jsonNode, j *jsonNode) TypeExpr {
	if j == nil {
		d.errorf(parent, "missing type")
		return nil
	}
	n := d.node(j)
	if n == nil {
		return nil
	}
	t, ok := n.(TypeExpr)
	if !ok {
		d.errorf(j, "not a type")
	}
	return t
}

func (d *decoder) defs(j *jsonNode) *Defs {
	if j == nil {
		return nil
	}
	n := &Defs{node: d.base(j)}
	for _, dj := range j.Defs {
		dn := d.node(dj)
		if dn == nil {
			continue
		}
		def, ok := dn.(Def)
		if !ok {
			d.errorf(dj, "not a definition")
			continue
		}
		n.Defs = append(n.Defs, def)
	}
	return n
}

func (d *decoder) node(j *jsonNode) Node {
	if d.err != nil || j == nil {
		return nil
	}

	switch j.Kind {
	case "Defs":
		return d.defs(j)

	case "FunDef":
		n := &FunDef{}
		n.node = d.base(j)
		n.Name = j.Name
		for _, pj := range j.Args {
			p, ok := d.node(pj).(*Param)
			if !ok {
				d.errorf(pj, "not a parameter")
				continue
			}
			n.Params = append(n.Params, p)
		}
		n.Result = d.typ(j, j.Type)
		n.Body = d.required(j, "body", j.Body)
		return n

	case "Param":
		n := &Param{}
		n.node = d.base(j)
		n.Name = j.Name
		n.Type = d.typ(j, j.Type)
		return n

	case "VarDef":
		n := &VarDef{}
		n.node = d.base(j)
		n.Name = j.Name
		n.Type = d.typ(j, j.Type)
		return n

	case "TypeDef":
		n := &TypeDef{}
		n.node = d.base(j)
		n.Name = j.Name
		n.Type = d.typ(j, j.Type)
		return n

	case "Binary":
		n := &Binary{}
		n.node = d.base(j)
		op, ok := ParseBinaryOp(j.Op)
		if !ok {
			d.errorf(j, "unknown operator %q", j.Op)
		}
		n.Op = op
		n.X = d.required(j, "x", j.X)
		n.Y = d.required(j, "y", j.Y)
		return n

	case "Unary":
		n := &Unary{}
		n.node = d.base(j)
		op, ok := ParseUnaryOp(j.Op)
		if !ok {
			d.errorf(j, "unknown operator %q", j.Op)
		}
		n.Op = op
		n.X = d.required(j, "x", j.X)
		return n

	case "Call":
		n := &Call{Name: j.Name}
		n.node = d.base(j)
		n.Args = d.exprs(j.Args)
		return n

	case "Name":
		n := &Name{}
		n.node = d.base(j)
		n.Value = d.value(j)
		return n

	case "Literal":
		n := &Literal{}
		n.node = d.base(j)
		n.Kind = d.atom(j)
		n.Value = d.value(j)
		return n

	case "Block":
		n := &Block{}
		n.node = d.base(j)
		n.Exprs = d.exprs(j.Args)
		if len(n.Exprs) == 0 {
			d.errorf(j, "empty block")
		}
		return n

	case "IfThenElse":
		n := &IfThenElse{}
		n.node = d.base(j)
		n.Cond = d.required(j, "cond", j.Cond)
		n.Then = d.required(j, "then", j.Then)
		n.Else = d.expr(j.Else)
		return n

	case "While":
		n := &While{}
		n.node = d.base(j)
		n.Cond = d.required(j, "cond", j.Cond)
		n.Body = d.required(j, "body", j.Body)
		return n

	case "For":
		n := &For{}
		n.node = d.base(j)
		counter, ok := d.required(j, "counter", j.X).(*Name)
		if !ok {
			d.errorf(j, "counter is not a name")
		}
		n.Counter = counter
		n.Low = d.required(j, "low", j.Low)
		n.High = d.required(j, "high", j.High)
		n.Step = d.required(j, "step", j.Step)
		n.Body = d.required(j, "body", j.Body)
		return n

	case "Where":
		n := &Where{}
		n.node = d.base(j)
		n.X = d.required(j, "x", j.X)
		if j.Where == nil || j.Where.Kind != "Defs" {
			d.errorf(j, "missing definitions")
			return n
		}
		n.Defs = d.defs(j.Where)
		return n

	case "AtomType":
		n := &AtomType{}
		n.node = d.base(j)
		n.Kind = d.atom(j)
		return n

	case "ArrayType":
		n := &ArrayType{}
		n.node = d.base(j)
		if j.Len == nil || *j.Len < 0 {
			d.errorf(j, "missing or negative length")
		} else {
			n.Len = *j.Len
		}
		n.Elem = d.typ(j, j.Type)
		return n

	case "TypeName":
		n := &TypeName{}
		n.node = d.base(j)
		n.Value = d.value(j)
		return n
	}

	d.errorf(j, "unknown node kind")
	return nil
}
