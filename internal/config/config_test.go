package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
max_steps: 5000
delay: 250ms
store: redis
redis:
  addr: redis:6379
  db: "2"
  ttl: 1h
http:
  addr: ":9090"
  trace_max_steps: 500
`))
	require.NoError(t, err)

	assert.Equal(t, uint64(5000), cfg.MaxSteps)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, uint64(500), cfg.HTTP.TraceMaxSteps)

	// untouched keys keep their defaults
	assert.Equal(t, "turing:", cfg.Redis.Prefix)
	assert.Equal(t, uint64(1_000_000), cfg.HTTP.MaxSteps)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint64(10_000), config.Default().HTTP.TraceMaxSteps)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"UnknownKey":   "max_stepz: 3\n",
		"UnknownStore": "store: s3\n",
		"BadDuration":  "delay: soon\n",
		"Negative":     "delay: -1s\n",
		"BadYAML":      "max_steps: [\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("library: ./lib\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./lib", cfg.Library)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDecode_Arguments(t *testing.T) {
	var args struct {
		Name     string `mapstructure:"name"`
		MaxSteps uint64 `mapstructure:"max_steps"`
	}
	err := config.Decode(map[string]any{"name": "compare", "max_steps": float64(10)}, &args)
	require.NoError(t, err)
	assert.Equal(t, "compare", args.Name)
	assert.Equal(t, uint64(10), args.MaxSteps)
}
