// Package vm loads canonical IR chunks into a simulated memory image and
// runs them on a stack machine.
package vm

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/ir"
	"github.com/you-not-fish/pinsc/internal/rtabi"
)

// Temps holds the temps of one call.
type Temps map[frame.Temp]Value

// Options configures an Interpreter.
type Options struct {
	Out  io.Writer // program output; discarded if nil
	Seed uint64    // initial seed of the random generator
	Log  zerolog.Logger
}

// An Interpreter runs loaded code. It is not safe for concurrent use.
type Interpreter struct {
	mem *Memory
	out io.Writer
	rng *rand.Rand
	log zerolog.Logger

	fp, sp int

	// temps of the entry call, kept for Dump
	entryTemps Temps
	depth      int
}

// New returns an interpreter over mem with FP and SP at the top of the image.
func New(mem *Memory, opts Options) *Interpreter {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Interpreter{
		mem: mem,
		out: out,
		rng: newRand(opts.Seed),
		log: opts.Log,
		fp:  mem.Top(),
		sp:  mem.Top(),
	}
}

// Memory returns the interpreter's image.
func (in *Interpreter) Memory() *Memory { return in.mem }

// FP returns the current frame pointer.
func (in *Interpreter) FP() int { return in.fp }

// SP returns the current stack pointer.
func (in *Interpreter) SP() int { return in.sp }

// Run executes entry as the program's main function. Its static link is 0.
func (in *Interpreter) Run(entry *ir.CodeChunk) error {
	if entry == nil {
		return opError("run", ErrNoMain)
	}
	if err := in.mem.Store(in.sp, Int(0)); err != nil {
		return err
	}
	if err := in.mem.Store(in.sp-entry.Frame.OldFPOffset(), Int(in.fp)); err != nil {
		return err
	}
	in.entryTemps = make(Temps)
	return in.invoke(newCode(entry), in.entryTemps)
}

// invoke runs code in a new frame whose incoming arguments are already at SP.
func (in *Interpreter) invoke(code *Code, temps Temps) error {
	f := code.Chunk.Frame
	callerFP := in.fp
	in.fp = in.sp
	in.sp -= f.Size()
	in.depth++
	in.log.Trace().
		Str("label", f.Label().String()).
		Int("fp", in.fp).
		Int("sp", in.sp).
		Int("depth", in.depth).
		Msg("call")

	stmts := code.stmts
	for pc := 0; pc < len(stmts); pc++ {
		target, jump, err := in.exec(stmts[pc], temps)
		if err != nil {
			return err
		}
		if jump {
			next := findLabel(stmts, target)
			if next < 0 {
				return labelError("jump", target, ErrUnknownLabel)
			}
			pc = next
		}
	}

	saved, err := in.mem.Load(in.fp - f.OldFPOffset())
	if err != nil {
		return err
	}
	if saved != Int(callerFP) {
		return &RuntimeError{
			Op:      "return",
			Label:   f.Label(),
			Addr:    in.fp - f.OldFPOffset(),
			HasAddr: true,
			Err:     fmt.Errorf("%w: found %s, want %d", ErrFrameLink, saved, callerFP),
		}
	}
	in.sp = in.fp
	in.fp = callerFP
	in.depth--
	return nil
}

// findLabel returns the index of the statement defining l, or -1.
func findLabel(stmts []ir.Stmt, l frame.Label) int {
	for i, s := range stmts {
		if ls, ok := s.(*ir.LabelStmt); ok && ls.Label == l {
			return i
		}
	}
	return -1
}

// exec runs one statement. It reports the target of a taken jump.
func (in *Interpreter) exec(s ir.Stmt, temps Temps) (frame.Label, bool, error) {
	switch s := s.(type) {
	case *ir.LabelStmt:
		return "", false, nil

	case *ir.Jump:
		return s.Label, true, nil

	case *ir.CJump:
		c, err := in.evalInt("cjump", s.Cond, temps)
		if err != nil {
			return "", false, err
		}
		if c != 0 {
			return s.Then, true, nil
		}
		return s.Else, true, nil

	case *ir.ExprStmt:
		_, err := in.eval(s.X, temps)
		return "", false, err

	case *ir.Move:
		return "", false, in.move(s, temps)

	case *ir.Seq:
		return "", false, opError("exec", fmt.Errorf("%w: nested SEQ", ErrNotCanonical))
	}
	return "", false, opError("exec", fmt.Errorf("%w: statement %T", ErrNotCanonical, s))
}

func (in *Interpreter) move(m *ir.Move, temps Temps) error {
	v, err := in.eval(m.Src, temps)
	if err != nil {
		return err
	}
	switch dst := m.Dst.(type) {
	case *ir.TempRef:
		temps[dst.Temp] = v
		return nil
	case *ir.Mem:
		addr, err := in.evalInt("store", dst.Addr, temps)
		if err != nil {
			return err
		}
		return in.mem.Store(int(addr), v)
	}
	return opError("move", fmt.Errorf("%w: %T", ErrBadMove, m.Dst))
}

func (in *Interpreter) eval(e ir.Expr, temps Temps) (Value, error) {
	switch e := e.(type) {
	case *ir.Const:
		return Int(e.Value), nil

	case *ir.Name:
		switch e.Label {
		case frame.FP:
			return Int(in.fp), nil
		case frame.SP:
			return Int(in.sp), nil
		}
		addr, err := in.mem.Address(e.Label)
		if err != nil {
			return nil, err
		}
		return Int(addr), nil

	case *ir.TempRef:
		v, ok := temps[e.Temp]
		if !ok {
			return nil, opError("temp "+e.Temp.String(), ErrEmptyCell)
		}
		return v, nil

	case *ir.Mem:
		addr, err := in.evalInt("load", e.Addr, temps)
		if err != nil {
			return nil, err
		}
		return in.mem.Load(int(addr))

	case *ir.Binop:
		return in.binop(e, temps)

	case *ir.Call:
		return in.call(e, temps)

	case *ir.Eseq:
		return nil, opError("eval", fmt.Errorf("%w: ESEQ", ErrNotCanonical))
	}
	return nil, opError("eval", fmt.Errorf("%w: expression %T", ErrNotCanonical, e))
}

// evalInt evaluates e, which must produce an Int.
func (in *Interpreter) evalInt(op string, e ir.Expr, temps Temps) (Int, error) {
	v, err := in.eval(e, temps)
	if err != nil {
		return 0, err
	}
	return toInt(op, v)
}

func toInt(op string, v Value) (Int, error) {
	i, ok := v.(Int)
	if !ok {
		return 0, opError(op, fmt.Errorf("%w: %s is not an integer", ErrTypeMismatch, v))
	}
	return i, nil
}

func (in *Interpreter) binop(b *ir.Binop, temps Temps) (Value, error) {
	op := "binop " + b.Op.String()
	x, err := in.evalInt(op, b.X, temps)
	if err != nil {
		return nil, err
	}
	y, err := in.evalInt(op, b.Y, temps)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case ir.OpAdd:
		return x + y, nil
	case ir.OpSub:
		return x - y, nil
	case ir.OpMul:
		return x * y, nil
	case ir.OpDiv, ir.OpMod:
		if y == 0 {
			return nil, opError(op, ErrDivideByZero)
		}
		if b.Op == ir.OpDiv {
			return x / y, nil
		}
		return x % y, nil
	case ir.OpAnd:
		return Bool(x == rtabi.True && y == rtabi.True), nil
	case ir.OpOr:
		return Bool(!(x == rtabi.False && y == rtabi.False)), nil
	case ir.OpEq:
		return Bool(x == y), nil
	case ir.OpNeq:
		return Bool(x != y), nil
	case ir.OpLt:
		return Bool(x < y), nil
	case ir.OpGt:
		return Bool(x > y), nil
	case ir.OpLeq:
		return Bool(x <= y), nil
	case ir.OpGeq:
		return Bool(x >= y), nil
	}
	return nil, opError(op, fmt.Errorf("%w: invalid operator", ErrNotCanonical))
}

func (in *Interpreter) call(c *ir.Call, temps Temps) (Value, error) {
	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		v, err := in.eval(a, temps)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if sig, ok := rtabi.LookupStdlib(c.Label.Name()); ok {
		if len(args) != sig.Args() {
			return nil, labelError("call", c.Label,
				fmt.Errorf("%w: got %d, want %d", ErrArgCount, len(args), sig.Args()))
		}
		return in.intrinsic(sig.Name, args)
	}

	target, err := in.mem.LoadLabel(c.Label)
	if err != nil {
		return nil, err
	}
	code, ok := target.(*Code)
	if !ok {
		return nil, labelError("call", c.Label, fmt.Errorf("%w: %s is not a function", ErrTypeMismatch, target))
	}

	for i, v := range args {
		if err := in.mem.Store(in.sp+i*rtabi.WordSize, v); err != nil {
			return nil, err
		}
	}
	if err := in.invoke(code, make(Temps)); err != nil {
		return nil, err
	}
	return in.mem.Load(in.sp + rtabi.ReturnSlotOffset)
}

// Dump writes the temps of the entry call sorted by id, then the written
// memory cells from the highest address down.
func (in *Interpreter) Dump(w io.Writer) {
	if len(in.entryTemps) > 0 {
		fmt.Fprintln(w, "Temps:")
		ts := maps.Keys(in.entryTemps)
		slices.Sort(ts)
		for _, t := range ts {
			fmt.Fprintf(w, "%s: %s\n", t, in.entryTemps[t])
		}
	}
	in.mem.Fprint(w)
}
