package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes an indented textual representation of the tree to w.
// Every node line carries the node's ID and source range.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) header(kind string, n Node, extra string) {
	if extra != "" {
		p.printf("%s #%d %s %s\n", kind, n.ID(), n.Pos(), extra)
		return
	}
	p.printf("%s #%d %s\n", kind, n.ID(), n.Pos())
}

func (p *printer) child(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Defs:
		p.header("Defs", n, "")
		p.indent++
		for _, d := range n.Defs {
			p.print(d)
		}
		p.indent--

	case *FunDef:
		p.header("FunDef", n, n.Name)
		p.indent++
		for _, par := range n.Params {
			p.print(par)
		}
		p.printf("Result: %s\n", TypeString(n.Result))
		p.child("Body", n.Body)
		p.indent--

	case *Param:
		p.header("Param", n, n.Name+" : "+TypeString(n.Type))

	case *VarDef:
		p.header("VarDef", n, n.Name+" : "+TypeString(n.Type))

	case *TypeDef:
		p.header("TypeDef", n, n.Name+" : "+TypeString(n.Type))

	case *Binary:
		p.header("Binary", n, n.Op.String())
		p.indent++
		p.print(n.X)
		p.print(n.Y)
		p.indent--

	case *Unary:
		p.header("Unary", n, n.Op.String())
		p.indent++
		p.print(n.X)
		p.indent--

	case *Call:
		p.header("Call", n, n.Name)
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	case *Name:
		p.header("Name", n, n.Value)

	case *Literal:
		v := n.Value
		if n.Kind == Str {
			v = strconv.Quote(v)
		}
		p.header("Literal", n, n.Kind.String()+" "+v)

	case *Block:
		p.header("Block", n, "")
		p.indent++
		for _, e := range n.Exprs {
			p.print(e)
		}
		p.indent--

	case *IfThenElse:
		p.header("IfThenElse", n, "")
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		if n.Else != nil {
			p.child("Else", n.Else)
		}
		p.indent--

	case *While:
		p.header("While", n, "")
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Body", n.Body)
		p.indent--

	case *For:
		p.header("For", n, n.Counter.Value)
		p.indent++
		p.child("Low", n.Low)
		p.child("High", n.High)
		p.child("Step", n.Step)
		p.child("Body", n.Body)
		p.indent--

	case *Where:
		p.header("Where", n, "")
		p.indent++
		p.print(n.X)
		p.print(n.Defs)
		p.indent--

	case *AtomType, *ArrayType, *TypeName:
		p.header("Type", n, TypeString(n.(TypeExpr)))

	default:
		p.printf("<unknown node %T>\n", node)
	}
}

// TypeString returns the source spelling of a type expression.
func TypeString(t TypeExpr) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case *AtomType:
		return t.Kind.String()
	case *ArrayType:
		return "arr[" + strconv.Itoa(t.Len) + "] " + TypeString(t.Elem)
	case *TypeName:
		return t.Value
	}
	return fmt.Sprintf("<%T>", t)
}
