package vm

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/rtabi"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// intrinsic runs a standard library function. args[0] is the caller's
// frame pointer; the argument count has been checked.
func (in *Interpreter) intrinsic(name string, args []Value) (Value, error) {
	op := "call " + name
	switch name {
	case rtabi.FnPrintInt:
		n, err := toInt(op, args[1])
		if err != nil {
			return nil, err
		}
		return n, in.println(name, strconv.Itoa(int(n)))

	case rtabi.FnPrintLog:
		b, err := toInt(op, args[1])
		if err != nil {
			return nil, err
		}
		return b, in.println(name, strconv.FormatBool(b != rtabi.False))

	case rtabi.FnPrintStr:
		addr, err := toInt(op, args[1])
		if err != nil {
			return nil, err
		}
		v, err := in.mem.Load(int(addr))
		if err != nil {
			return nil, err
		}
		s, ok := v.(Str)
		if !ok {
			return nil, addrError(op, int(addr), fmt.Errorf("%w: %s is not a string", ErrTypeMismatch, v))
		}
		return addr, in.println(name, `"`+string(s)+`"`)

	case rtabi.FnRandInt:
		low, err := toInt(op, args[1])
		if err != nil {
			return nil, err
		}
		high, err := toInt(op, args[2])
		if err != nil {
			return nil, err
		}
		if low >= high {
			return nil, opError(op, fmt.Errorf("%w: [%d, %d)", ErrEmptyRange, low, high))
		}
		return low + Int(in.rng.IntN(int(high-low))), nil

	case rtabi.FnSeed:
		n, err := toInt(op, args[1])
		if err != nil {
			return nil, err
		}
		in.rng = newRand(uint64(n))
		return n, nil
	}
	return nil, labelError("call", frame.NamedLabel(name), ErrUnknownLabel)
}

func (in *Interpreter) println(fn, line string) error {
	in.log.Debug().Str("fn", fn).Str("out", line).Msg("print")
	if _, err := fmt.Fprintln(in.out, line); err != nil {
		return opError("call "+fn, err)
	}
	return nil
}
