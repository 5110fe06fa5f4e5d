// Package main implements the PINS back end driver. It reads an annotated
// program bundle (JSON) and compiles and runs it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/muesli/termenv"

	"github.com/you-not-fish/pinsc/internal/canon/passes"
	"github.com/you-not-fish/pinsc/internal/config"
	"github.com/you-not-fish/pinsc/internal/logs"
	"github.com/you-not-fish/pinsc/internal/pipeline"
	"github.com/you-not-fish/pinsc/internal/sema"
)

// Version information
const Version = "0.1.0-dev"

type flags struct {
	emitTree   bool
	emitFrames bool
	emitIR     bool
	emitLin    bool
	dumpMemory bool
	memory     int
	seed       uint64
	configPath string
	logLevel   string
	version    bool
	verify     bool
	dumpBefore string
	dumpAfter  string
	dumpFunc   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the driver with the given arguments and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pinsc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f flags
	fs.BoolVar(&f.emitTree, "emit-tree", false, "Output the annotated syntax tree")
	fs.BoolVar(&f.emitFrames, "emit-frames", false, "Output frames and accesses")
	fs.BoolVar(&f.emitIR, "emit-ir", false, "Output IR chunks")
	fs.BoolVar(&f.emitLin, "emit-lin", false, "Output canonical IR chunks")
	fs.BoolVar(&f.dumpMemory, "dump-memory", false, "Output temps and memory after the run")
	fs.IntVar(&f.memory, "memory", 0, "Memory size in bytes")
	fs.Uint64Var(&f.seed, "seed", 0, "Initial random seed")
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.BoolVar(&f.version, "version", false, "Print version")
	fs.BoolVar(&f.verify, "verify", false, "Verify canonical IR after each pass")
	fs.StringVar(&f.dumpBefore, "dump-before", "", "Dump IR before pass (name or \"*\")")
	fs.StringVar(&f.dumpAfter, "dump-after", "", "Dump IR after pass (name or \"*\")")
	fs.StringVar(&f.dumpFunc, "dump-func", "", "Only dump a specific function")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "PINS back end %s\n\n", Version)
		fmt.Fprintf(stderr, "Usage: pinsc [options] <program.json>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if f.version {
		fmt.Fprintf(stdout, "pinsc version %s\n", Version)
		fmt.Fprintf(stdout, "go version %s\n", runtime.Version())
		return 0
	}

	term := termenv.NewOutput(stderr)
	if fs.NArg() == 0 {
		report(term, errors.New("no input file"))
		fmt.Fprintln(stderr, "usage: pinsc [options] <program.json>")
		return 1
	}

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		report(term, err)
		return 1
	}
	level, _ := logs.ParseLevel(cfg.LogLevel)
	log := logs.NewConsole(stderr, level, term.Profile != termenv.Ascii)

	b, err := readBundle(fs.Arg(0))
	if err != nil {
		report(term, err)
		return 1
	}

	opts := pipeline.Options{
		Config: cfg,
		Out:    stdout,
		Dump:   stdout,
		Log:    log,
		PassConfig: passes.Config{
			DumpBefore: f.dumpBefore,
			DumpAfter:  f.dumpAfter,
			DumpFunc:   f.dumpFunc,
			Verify:     f.verify,
			Out:        stderr,
		},
	}
	c, err := pipeline.Compile(b, opts)
	if err != nil {
		report(term, err)
		return 1
	}
	if f.emitTree || f.emitFrames || f.emitIR || f.emitLin {
		return 0
	}
	if _, err := c.Run(); err != nil {
		report(term, err)
		return 1
	}
	return 0
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set on the command line.
func loadConfig(fs *flag.FlagSet, f *flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "memory":
			cfg.MemorySize = f.memory
		case "seed":
			seed := f.seed
			cfg.Seed = &seed
		case "log-level":
			cfg.LogLevel = f.logLevel
		}
	})

	// The emit flags stop after compilation, so only their phases are dumped.
	if f.emitTree || f.emitFrames || f.emitIR || f.emitLin {
		cfg.Dump = nil
		if f.emitTree {
			cfg.Dump = append(cfg.Dump, config.DumpTree)
		}
		if f.emitFrames {
			cfg.Dump = append(cfg.Dump, config.DumpFrames)
		}
		if f.emitIR {
			cfg.Dump = append(cfg.Dump, config.DumpIR)
		}
		if f.emitLin {
			cfg.Dump = append(cfg.Dump, config.DumpLin)
		}
	}
	if f.dumpMemory && !cfg.Dumps(config.DumpMemory) {
		cfg.Dump = append(cfg.Dump, config.DumpMemory)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func readBundle(path string) (*sema.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sema.ReadBundle(f)
}

// report prints err to the terminal, in red when it supports color.
func report(term *termenv.Output, err error) {
	label := term.String("error:").Foreground(term.Color("1")).Bold()
	fmt.Fprintf(term, "%s %v\n", label, err)
}
