package ir

import (
	"fmt"
	"io"
	"strings"
)

const printIndent = 4

// Fprint writes an IR tree to w, one node per line, children indented.
//
// Format:
//
//	MOVE:
//	    MEM:
//	        NAME: {FP}
//	    BINOP ADD:
//	        CONSTANT: 2
//	        CONSTANT: 3
func Fprint(w io.Writer, n Node) {
	p := &printer{w: w}
	p.node(n)
}

// FprintChunks writes each chunk: a code chunk as its frame followed by
// its code, data and global chunks as their access.
func FprintChunks(w io.Writer, chunks []Chunk) {
	p := &printer{w: w}
	for _, c := range chunks {
		switch c := c.(type) {
		case *CodeChunk:
			p.println(c.Frame.String())
			p.node(c.Code)
		case *DataChunk:
			p.println(c.Access.String(), ": ", c.Data)
		case *GlobalChunk:
			p.println(c.Access.String(), ": ")
		}
	}
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) println(parts ...string) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat(" ", p.indent), strings.Join(parts, ""))
}

func (p *printer) nested(f func()) {
	p.indent += printIndent
	f()
	p.indent -= printIndent
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.println("<nil>")

	case *Binop:
		p.println("BINOP ", n.Op.String(), ":")
		p.nested(func() {
			p.node(n.X)
			p.node(n.Y)
		})

	case *Call:
		p.println("CALL ", n.Label.String(), ":")
		p.nested(func() {
			for _, a := range n.Args {
				p.node(a)
			}
		})

	case *Const:
		p.println("CONSTANT: ", fmt.Sprint(n.Value))

	case *Eseq:
		p.println("ESEQ:")
		p.nested(func() {
			p.node(n.Stmt)
			p.node(n.X)
		})

	case *Mem:
		p.println("MEM:")
		p.nested(func() { p.node(n.Addr) })

	case *Name:
		p.println("NAME: ", n.Label.String())

	case *TempRef:
		p.println("TEMP: ", n.Temp.String())

	case *CJump:
		p.println("CJUMP:")
		p.nested(func() {
			p.node(n.Cond)
			p.println(n.Then.String())
			p.println(n.Else.String())
		})

	case *ExprStmt:
		p.println("EXP:")
		p.nested(func() { p.node(n.X) })

	case *Jump:
		p.println("JUMP:")
		p.nested(func() { p.println(n.Label.String()) })

	case *LabelStmt:
		p.println("LABEL: ", n.Label.String())

	case *Move:
		p.println("MOVE:")
		p.nested(func() {
			p.node(n.Dst)
			p.node(n.Src)
		})

	case *Seq:
		p.println("SEQ:")
		p.nested(func() {
			for _, s := range n.Stmts {
				p.node(s)
			}
		})

	default:
		p.println(fmt.Sprintf("<unknown %T>", n))
	}
}
