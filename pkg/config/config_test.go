package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnetar-io/magnetar/pkg/errors"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 256, cfg.Image.Width)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad encoding", func(c *Config) { c.Log.Encoding = "xml" }},
		{"zero width", func(c *Config) { c.Image.Width = 0 }},
		{"negative height", func(c *Config) { c.Image.Height = -1 }},
		{"empty output", func(c *Config) { c.Image.Output = "" }},
		{"zero capacity", func(c *Config) { c.Bench.Capacity = 0 }},
		{"zero iterations", func(c *Config) { c.Bench.Iterations = 0 }},
		{"zero workers", func(c *Config) { c.Bench.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("MAGNETAR_TEST_OUTPUT", "from-env.ppm")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log:
  level: debug
  encoding: console
image:
  width: 64
  height: 32
  output: ${MAGNETAR_TEST_OUTPUT}
  compression: zstd
bench:
  capacity: 128
  iterations: 1000
  workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, Load(path, cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 64, cfg.Image.Width)
	assert.Equal(t, "from-env.ppm", cfg.Image.Output)
	assert.Equal(t, "zstd", cfg.Image.Compression)
	assert.Equal(t, 128, cfg.Bench.Capacity)
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Default())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := Default()
	cfg.Bench.Capacity = 99
	require.NoError(t, Save(path, cfg))

	loaded := Default()
	require.NoError(t, Load(path, loaded))
	assert.Equal(t, 99, loaded.Bench.Capacity)
}
