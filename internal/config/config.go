// Package config reads the settings of a compilation from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/you-not-fish/pinsc/internal/logs"
	"github.com/you-not-fish/pinsc/internal/rtabi"
)

// Phases that can be dumped.
const (
	DumpTree   = "tree"
	DumpFrames = "frames"
	DumpIR     = "ir"
	DumpLin    = "lin"
	DumpMemory = "memory"
)

var knownDumps = []string{DumpTree, DumpFrames, DumpIR, DumpLin, DumpMemory}

// Config holds the settings of one compilation and run.
type Config struct {
	MemorySize int      `yaml:"memory_size"`
	Seed       *uint64  `yaml:"seed"` // random if unset
	LogLevel   string   `yaml:"log_level"`
	Entry      string   `yaml:"entry"`
	Dump       []string `yaml:"dump"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MemorySize: rtabi.DefaultMemorySize,
		LogLevel:   "info",
		Entry:      rtabi.EntryPoint,
	}
}

// Parse reads a YAML configuration. Unset fields keep their defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Validate checks the configuration for values the machine cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.MemorySize <= 0 || c.MemorySize%rtabi.WordSize != 0 {
		errs = append(errs, fmt.Errorf("memory_size %d is not a positive multiple of %d", c.MemorySize, rtabi.WordSize))
	}
	if _, err := logs.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level %q: %w", c.LogLevel, err))
	}
	if c.Entry == "" {
		errs = append(errs, errors.New("entry is empty"))
	}
	for _, d := range c.Dump {
		if !c.known(d) {
			errs = append(errs, fmt.Errorf("unknown dump %q", d))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (Config) known(dump string) bool {
	for _, k := range knownDumps {
		if k == dump {
			return true
		}
	}
	return false
}

// Dumps reports whether phase is selected for dumping.
func (c Config) Dumps(phase string) bool {
	for _, d := range c.Dump {
		if d == phase {
			return true
		}
	}
	return false
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
