// Package pipeline runs the back end stages in order: frame layout, IR
// generation, canonicalization, loading and interpretation.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/you-not-fish/pinsc/internal/canon"
	"github.com/you-not-fish/pinsc/internal/canon/passes"
	"github.com/you-not-fish/pinsc/internal/config"
	"github.com/you-not-fish/pinsc/internal/frame"
	"github.com/you-not-fish/pinsc/internal/ir"
	"github.com/you-not-fish/pinsc/internal/irgen"
	"github.com/you-not-fish/pinsc/internal/logs"
	"github.com/you-not-fish/pinsc/internal/sema"
	"github.com/you-not-fish/pinsc/internal/syntax"
	"github.com/you-not-fish/pinsc/internal/vm"
)

// Options configures a compilation.
type Options struct {
	Config config.Config
	Out    io.Writer // program output; discarded if nil
	Dump   io.Writer // phase dumps selected by Config.Dump; discarded if nil
	Log    zerolog.Logger

	// Passes overrides the passes run on every code chunk.
	Passes func(*canon.Canonicalizer) []passes.Pass
	// PassConfig controls pass dumps and verification.
	PassConfig passes.Config
}

// A Compilation holds the results of every compile stage.
type Compilation struct {
	ID      ulid.ULID
	Bundle  *sema.Bundle
	Layout  *frame.Result
	IR      *irgen.Result
	Chunks  []ir.Chunk // canonical, in load order
	options Options
	log     zerolog.Logger
}

// Compile lays out, translates and canonicalizes the program in b.
func Compile(b *sema.Bundle, opts Options) (*Compilation, error) {
	if opts.Dump == nil {
		opts.Dump = io.Discard
	}
	if opts.Passes == nil {
		opts.Passes = passes.Default
	}
	if opts.PassConfig.Out == nil {
		opts.PassConfig.Out = opts.Dump
	}
	c := &Compilation{ID: ulid.Make(), Bundle: b, options: opts}
	c.log = opts.Log.With().Str(logs.CompilationField, c.ID.String()).Logger()

	if c.dumps(config.DumpTree) {
		c.header(config.DumpTree)
		syntax.Fprint(opts.Dump, b.Program)
	}

	labels, temps := frame.NewLabelGen(), frame.NewTempGen()

	start := time.Now()
	layout, err := frame.Layout(b.Program, b.Info, labels)
	if err != nil {
		return nil, err
	}
	c.Layout = layout
	c.stageDone("layout", start, len(layout.Frames))
	if c.dumps(config.DumpFrames) {
		c.header(config.DumpFrames)
		frame.Fprint(opts.Dump, b.Program, layout)
	}

	start = time.Now()
	res, err := irgen.Generate(b.Program, b.Info, layout, labels, temps)
	if err != nil {
		return nil, err
	}
	c.IR = res
	c.stageDone("irgen", start, len(res.Chunks))
	if c.dumps(config.DumpIR) {
		c.header(config.DumpIR)
		ir.FprintChunks(opts.Dump, res.Chunks)
	}

	start = time.Now()
	pl := opts.Passes(canon.New(temps))
	c.Chunks = make([]ir.Chunk, len(res.Chunks))
	for i, chunk := range res.Chunks {
		code, ok := chunk.(*ir.CodeChunk)
		if !ok {
			c.Chunks[i] = chunk
			continue
		}
		lin := &ir.CodeChunk{Frame: code.Frame, Code: code.Code}
		if err := passes.Run(lin, pl, opts.PassConfig); err != nil {
			return nil, err
		}
		c.Chunks[i] = lin
	}
	c.stageDone("canon", start, len(c.Chunks))
	if c.dumps(config.DumpLin) {
		c.header(config.DumpLin)
		ir.FprintChunks(opts.Dump, c.Chunks)
	}
	return c, nil
}

// Run loads the canonical chunks into a fresh image and interprets the
// entry function. The interpreter is returned even when execution fails so
// that its memory can be inspected.
func (c *Compilation) Run() (*vm.Interpreter, error) {
	cfg := c.options.Config
	mem := vm.NewMemory(cfg.MemorySize)

	start := time.Now()
	entry, err := vm.Load(mem, c.Chunks, cfg.Entry, logs.Stage(c.log, "load"))
	if err != nil {
		return nil, err
	}
	c.stageDone("load", start, mem.Len())

	// Without a configured seed the run is not reproducible.
	seed := uint64(time.Now().UnixNano())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	in := vm.New(mem, vm.Options{
		Out:  c.options.Out,
		Seed: seed,
		Log:  logs.Stage(c.log, "run"),
	})

	start = time.Now()
	err = in.Run(entry)
	if c.dumps(config.DumpMemory) {
		c.header(config.DumpMemory)
		in.Dump(c.options.Dump)
	}
	if err != nil {
		return in, err
	}
	c.stageDone("run", start, mem.Len())
	return in, nil
}

// Run compiles b and runs it.
func Run(b *sema.Bundle, opts Options) (*vm.Interpreter, error) {
	c, err := Compile(b, opts)
	if err != nil {
		return nil, err
	}
	return c.Run()
}

func (c *Compilation) dumps(phase string) bool {
	return c.options.Config.Dumps(phase)
}

func (c *Compilation) header(phase string) {
	fmt.Fprintf(c.options.Dump, "# %s %s\n", phase, c.ID)
}

func (c *Compilation) stageDone(stage string, start time.Time, n int) {
	c.log.Debug().
		Str(logs.StageField, stage).
		Dur("elapsed", time.Since(start)).
		Int("count", n).
		Msg("stage done")
}
