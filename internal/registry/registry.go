package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"adapterd/pkg/types"
)

const (
	// ConfigFileName declares the adapter's capability and templates.
	ConfigFileName = "adapter_config.yaml"
	// WeightsFileName follows the PEFT on-disk layout.
	WeightsFileName = "adapter_model.safetensors"
)

// adapterConfig is the on-disk shape of adapter_config.yaml.
type adapterConfig struct {
	Capability     string              `yaml:"capability"`
	PromptTemplate string              `yaml:"prompt_template"`
	Inputs         []types.SchemaField `yaml:"inputs"`
	Outputs        []types.SchemaField `yaml:"outputs"`
}

// Registry holds the immutable set of adapters discovered at startup.
type Registry struct {
	dir    string
	byName map[string]*types.AdapterDescriptor
	names  []string
}

// Discover scans dir for adapter subdirectories. A valid adapter directory
// contains adapter_config.yaml and adapter_model.safetensors; candidates
// missing either are skipped with a warning, never fatal. An unreadable
// adapters directory is a configuration error.
func Discover(dir string, log zerolog.Logger) (*Registry, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read adapters dir: %w", err)
	}

	r := &Registry{dir: abs, byName: make(map[string]*types.AdapterDescriptor)}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		desc, err := loadDescriptor(abs, name)
		if err != nil {
			log.Warn().Str("adapter", name).Err(err).Msg("skipping invalid adapter")
			continue
		}
		r.byName[name] = desc
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	log.Info().Strs("adapters", r.names).Msg("adapter discovery complete")
	return r, nil
}

// loadDescriptor validates one candidate directory and builds its descriptor.
func loadDescriptor(baseDir, name string) (*types.AdapterDescriptor, error) {
	dir := filepath.Join(baseDir, name)
	weights := filepath.Join(dir, WeightsFileName)
	if !pathExists(weights) {
		return nil, fmt.Errorf("missing %s", WeightsFileName)
	}
	b, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("missing %s: %w", ConfigFileName, err)
	}
	var cfg adapterConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}
	cap := types.Capability(cfg.Capability)
	if !cap.Valid() {
		return nil, fmt.Errorf("unknown capability %q", cfg.Capability)
	}
	if cfg.PromptTemplate == "" {
		return nil, fmt.Errorf("empty prompt_template")
	}
	return &types.AdapterDescriptor{
		Name:           name,
		Dir:            dir,
		WeightsPath:    weights,
		Capability:     cap,
		PromptTemplate: cfg.PromptTemplate,
		Inputs:         cfg.Inputs,
		Outputs:        cfg.Outputs,
	}, nil
}

// Get returns the descriptor for name, if discovered.
func (r *Registry) Get(name string) (*types.AdapterDescriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// ByCapability returns the first adapter declaring cap, if any.
func (r *Registry) ByCapability(cap types.Capability) (*types.AdapterDescriptor, bool) {
	for _, name := range r.names {
		if d := r.byName[name]; d.Capability == cap {
			return d, true
		}
	}
	return nil, false
}

// Names returns the sorted adapter names.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Count returns the number of discovered adapters.
func (r *Registry) Count() int { return len(r.names) }

// Empty reports whether discovery found no valid adapters. The service then
// stays up in degraded base-model-only mode.
func (r *Registry) Empty() bool { return len(r.names) == 0 }

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
