package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses a syntax tree in depth-first order. Children are
// visited in source order, except that the definitions of a Where are
// visited before its expression. If visitor returns false, children
// are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Defs:
		for _, d := range n.Defs {
			Walk(d, v)
		}

	case *FunDef:
		for _, p := range n.Params {
			Walk(p, v)
		}
		Walk(n.Result, v)
		Walk(n.Body, v)

	case *Param:
		Walk(n.Type, v)

	case *VarDef:
		Walk(n.Type, v)

	case *TypeDef:
		Walk(n.Type, v)

	case *Binary:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *Unary:
		Walk(n.X, v)

	case *Call:
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *Block:
		for _, e := range n.Exprs {
			Walk(e, v)
		}

	case *IfThenElse:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *While:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *For:
		Walk(n.Counter, v)
		Walk(n.Low, v)
		Walk(n.High, v)
		Walk(n.Step, v)
		Walk(n.Body, v)

	case *Where:
		Walk(n.Defs, v)
		Walk(n.X, v)

	case *ArrayType:
		Walk(n.Elem, v)

	// Leaf nodes: Name, Literal, AtomType, TypeName
	}
}

// Inspect traverses a syntax tree and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
