package vm

import (
	"fmt"
	"io"

	"github.com/tidwall/btree"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/rtabi"
)

// Memory is the machine's addressable image: word-aligned cells ordered by
// address, and the addresses of loaded labels.
//
// A valid address is a non-zero multiple of the word size whose word lies
// inside the image.
type Memory struct {
	size   int
	cells  *btree.Map[int, Value]
	labels map[frame.Label]int
}

// NewMemory returns an empty image of size bytes.
func NewMemory(size int) *Memory {
	return &Memory{
		size:   size,
		cells:  btree.NewMap[int, Value](0),
		labels: make(map[frame.Label]int),
	}
}

// Size returns the size of the image in bytes.
func (m *Memory) Size() int { return m.size }

// Top returns the highest valid address.
func (m *Memory) Top() int { return m.size - rtabi.WordSize }

func (m *Memory) check(op string, addr int) error {
	switch {
	case addr == 0:
		return addrError(op, addr, ErrNullPointer)
	case addr < 0 || addr > m.Top():
		return addrError(op, addr, ErrOutOfBounds)
	case addr%rtabi.WordSize != 0:
		return addrError(op, addr, ErrUnaligned)
	}
	return nil
}

// Store writes v at addr.
func (m *Memory) Store(addr int, v Value) error {
	if err := m.check("store", addr); err != nil {
		return err
	}
	m.cells.Set(addr, v)
	return nil
}

// Load reads the cell at addr. Reading a cell that was never written is an
// error.
func (m *Memory) Load(addr int) (Value, error) {
	if err := m.check("load", addr); err != nil {
		return nil, err
	}
	v, ok := m.cells.Get(addr)
	if !ok {
		return nil, addrError("load", addr, ErrEmptyCell)
	}
	return v, nil
}

// Register binds l to addr.
func (m *Memory) Register(l frame.Label, addr int) error {
	if err := m.check("register "+l.String(), addr); err != nil {
		return err
	}
	if _, ok := m.labels[l]; ok {
		return labelError("register", l, ErrLabelBound)
	}
	m.labels[l] = addr
	return nil
}

// Address returns the address bound to l.
func (m *Memory) Address(l frame.Label) (int, error) {
	addr, ok := m.labels[l]
	if !ok {
		return 0, labelError("address", l, ErrUnknownLabel)
	}
	return addr, nil
}

// LoadLabel reads the cell at the address bound to l.
func (m *Memory) LoadLabel(l frame.Label) (Value, error) {
	addr, err := m.Address(l)
	if err != nil {
		return nil, err
	}
	return m.Load(addr)
}

// StoreLabel writes v at the address bound to l.
func (m *Memory) StoreLabel(l frame.Label, v Value) error {
	addr, err := m.Address(l)
	if err != nil {
		return err
	}
	return m.Store(addr, v)
}

// Labels returns the registered labels in name order.
func (m *Memory) Labels() []frame.Label {
	ls := maps.Keys(m.labels)
	slices.Sort(ls)
	return ls
}

// Len returns the number of written cells.
func (m *Memory) Len() int { return m.cells.Len() }

// Cells calls fn for every written cell in ascending address order until
// fn returns false.
func (m *Memory) Cells(fn func(addr int, v Value) bool) {
	m.cells.Scan(fn)
}

// Fprint writes one "addr: value" line per written cell, highest address
// first.
func (m *Memory) Fprint(w io.Writer) {
	m.cells.Reverse(func(addr int, v Value) bool {
		fmt.Fprintf(w, "%d: %s\n", addr, v)
		return true
	})
}
