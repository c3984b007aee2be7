package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by defaults in Normalized.
type Config struct {
	Addr          string `json:"addr" yaml:"addr" toml:"addr"`
	AdaptersDir   string `json:"adapters_dir" yaml:"adapters_dir" toml:"adapters_dir"`
	BaseModelPath string `json:"base_model_path" yaml:"base_model_path" toml:"base_model_path"`

	// Execution gate tuning.
	MaxQueueDepth int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	GateWaitMS    int `json:"gate_wait_ms" yaml:"gate_wait_ms" toml:"gate_wait_ms"`
	GenTimeoutMS  int `json:"generate_timeout_ms" yaml:"generate_timeout_ms" toml:"generate_timeout_ms"`

	// Generation parameters.
	MaxNewTokens int     `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	Temperature  float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopP         float64 `json:"top_p" yaml:"top_p" toml:"top_p"`

	// llama.cpp runtime tuning (used only by the llama build).
	LlamaCtx     int `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads int `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`

	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Defaults applied by Normalized when fields are unset.
const (
	DefaultAddr          = ":8080"
	DefaultMaxQueueDepth = 32
	DefaultGateWait      = 30 * time.Second
	DefaultGenTimeout    = 120 * time.Second
	DefaultMaxNewTokens  = 128
	DefaultTemperature   = 0.5
	DefaultTopP          = 0.9
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Normalized returns a copy with defaults applied to unset fields.
func (c Config) Normalized() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxQueueDepth <= 0 {
		c.MaxQueueDepth = DefaultMaxQueueDepth
	}
	if c.GateWaitMS <= 0 {
		c.GateWaitMS = int(DefaultGateWait / time.Millisecond)
	}
	if c.GenTimeoutMS <= 0 {
		c.GenTimeoutMS = int(DefaultGenTimeout / time.Millisecond)
	}
	if c.MaxNewTokens <= 0 {
		c.MaxNewTokens = DefaultMaxNewTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.TopP <= 0 {
		c.TopP = DefaultTopP
	}
	return c
}

// GateWait returns the configured gate acquisition timeout.
func (c Config) GateWait() time.Duration {
	return time.Duration(c.GateWaitMS) * time.Millisecond
}

// GenTimeout returns the configured generation timeout.
func (c Config) GenTimeout() time.Duration {
	return time.Duration(c.GenTimeoutMS) * time.Millisecond
}
