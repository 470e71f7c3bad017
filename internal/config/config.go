package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "turing.yaml"

// Store backends for the program library.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the runtime configuration shared by the CLI and the servers.
type Config struct {
	// MaxSteps bounds CLI runs. Zero means unbounded.
	MaxSteps uint64        `mapstructure:"max_steps"`
	Delay    time.Duration `mapstructure:"delay"`
	LogLevel string        `mapstructure:"log_level"`
	LogFile  string        `mapstructure:"log_file"`

	// Store selects the program library backend.
	Store   string `mapstructure:"store"`
	Library string `mapstructure:"library"` // directory for the file store

	Redis RedisConfig `mapstructure:"redis"`
	HTTP  HTTPConfig  `mapstructure:"http"`
}

// RedisConfig configures the Redis program library.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTPConfig configures the HTTP and MCP servers.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
	// MaxSteps caps every run requested over the network.
	MaxSteps uint64 `mapstructure:"max_steps"`
	// TraceMaxSteps caps streamed traces, which cost one frame per step.
	TraceMaxSteps uint64 `mapstructure:"trace_max_steps"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store:    StoreFile,
		Library:  "programs",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "turing:",
		},
		HTTP: HTTPConfig{
			Addr:          ":8080",
			MaxSteps:      1_000_000,
			TraceMaxSteps: 10_000,
		},
	}
}

// Load reads a YAML config file on top of Default.
// A missing file is not an error unless the path was given explicitly.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of Default.
func Parse(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := Default()
	if err := Decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode maps loosely typed input (YAML, JSON or tool arguments) onto out.
// Durations may be written as strings such as "250ms".
func Decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks values that decoding alone cannot.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("invalid config: unknown store %q", c.Store)
	}
	if c.Delay < 0 {
		return fmt.Errorf("invalid config: negative delay %s", c.Delay)
	}
	return nil
}
