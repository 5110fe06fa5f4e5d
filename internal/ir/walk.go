package ir

// Inspect traverses an IR tree in depth-first order and calls f for each
// node. If f returns false, the children of the node are not visited.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch n := n.(type) {
	case *Binop:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *Call:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *Eseq:
		Inspect(n.Stmt, f)
		Inspect(n.X, f)
	case *Mem:
		Inspect(n.Addr, f)
	case *CJump:
		Inspect(n.Cond, f)
	case *ExprStmt:
		Inspect(n.X, f)
	case *Move:
		Inspect(n.Dst, f)
		Inspect(n.Src, f)
	case *Seq:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	}
}

// ContainsCall reports whether evaluating n may perform a call.
func ContainsCall(n Node) bool {
	found := false
	Inspect(n, func(n Node) bool {
		if _, ok := n.(*Call); ok {
			found = true
		}
		return !found
	})
	return found
}
