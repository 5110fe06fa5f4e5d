package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/pinsc/internal/rtabi"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, rtabi.DefaultMemorySize, cfg.MemorySize)
	assert.Equal(t, rtabi.EntryPoint, cfg.Entry)
	assert.Nil(t, cfg.Seed)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
memory_size: 4096
seed: 42
log_level: debug
dump: [ir, memory]
`))
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.MemorySize)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "main", cfg.Entry)
	assert.True(t, cfg.Dumps(DumpIR))
	assert.True(t, cfg.Dumps(DumpMemory))
	assert.False(t, cfg.Dumps(DumpFrames))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"unaligned memory", "memory_size: 10", "memory_size 10"},
		{"negative memory", "memory_size: -4", "memory_size -4"},
		{"level", "log_level: loud", `log_level "loud"`},
		{"dump", "dump: [asm]", `unknown dump "asm"`},
		{"entry", `entry: ""`, "entry is empty"},
		{"unknown field", "memory: 12", "memory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinsc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(7), *cfg.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Dump = []string{DumpLin}
	data, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
