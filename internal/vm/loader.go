package vm

import (
	"github.com/rs/zerolog"

	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/ir"
	"github.com/you-not-fish/pinsc/internal/rtabi"
)

// Load assigns every chunk an address, starting one word into the image,
// and stores code and string data. It returns the code chunk named entry
// (rtabi.EntryPoint if empty), or nil if there is none.
//
// Code chunks take one word each. Data and global chunks take the size of
// their access; globals are left unwritten. A label may be bound only once,
// and a second chunk named entry or rtabi.EntryPoint is ErrDuplicateMain.
func Load(mem *Memory, chunks []ir.Chunk, entry string, log zerolog.Logger) (*ir.CodeChunk, error) {
	if entry == "" {
		entry = rtabi.EntryPoint
	}
	var main *ir.CodeChunk
	addr := rtabi.WordSize

	for _, c := range chunks {
		l := c.Label()
		if _, ok := c.(*ir.CodeChunk); ok && (l == frame.NamedLabel(entry) || l == frame.NamedLabel(rtabi.EntryPoint)) {
			if _, err := mem.Address(l); err == nil {
				return nil, labelError("load", l, ErrDuplicateMain)
			}
		}
		if err := mem.Register(l, addr); err != nil {
			return nil, err
		}
		log.Trace().Str("label", l.String()).Int("addr", addr).Msg("load")

		switch c := c.(type) {
		case *ir.CodeChunk:
			if l == frame.NamedLabel(entry) {
				main = c
			}
			if err := mem.Store(addr, newCode(c)); err != nil {
				return nil, err
			}
			addr += rtabi.WordSize

		case *ir.DataChunk:
			if err := mem.Store(addr, Str(c.Data)); err != nil {
				return nil, err
			}
			addr += c.Access.Size()

		case *ir.GlobalChunk:
			addr += c.Access.Size()
		}
	}
	return main, nil
}
