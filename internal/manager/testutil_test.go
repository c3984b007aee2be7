package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"adapterd/internal/registry"
	"adapterd/internal/runtime"
)

// fakeRuntime records attach/detach traffic and serves scripted completions.
// It tracks generation overlap so tests can assert the one-at-a-time gate.
type fakeRuntime struct {
	mu          sync.Mutex
	attached    string
	attaches    []string
	detaches    int
	failAttach  map[string]error
	output      string
	generateFn  func(ctx context.Context, prompt string, params runtime.Params) (string, error)
	delay       time.Duration
	inFlight    int
	maxInFlight int
	generations int
}

func (f *fakeRuntime) Generate(ctx context.Context, prompt string, params runtime.Params) (string, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.generations++
	delay := f.delay
	fn := f.generateFn
	out := f.output
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if fn != nil {
		return fn(ctx, prompt, params)
	}
	if out == "" {
		out = `{"feedback": "looks fine"}`
	}
	return out, nil
}

func (f *fakeRuntime) Attach(name, weightsPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failAttach[name]; err != nil {
		return err
	}
	f.attached = name
	f.attaches = append(f.attaches, name)
	return nil
}

func (f *fakeRuntime) Detach() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = ""
	f.detaches++
	return nil
}

func (f *fakeRuntime) Loaded() bool { return true }
func (f *fakeRuntime) Close() error { return nil }

func (f *fakeRuntime) attachHistory() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.attaches))
	copy(out, f.attaches)
	return out
}

func writeAdapter(t *testing.T, base, name, capability string) {
	t.Helper()
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg := fmt.Sprintf(`capability: %s
prompt_template: |
  Task input:
  {{resume_json}}
  Answer:
inputs:
  - name: resume_json
    required: true
outputs:
  - name: feedback
    required: true
  - name: score
    required: false
`, capability)
	if err := os.WriteFile(filepath.Join(dir, registry.ConfigFileName), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, registry.WeightsFileName), []byte("weights"), 0o644); err != nil {
		t.Fatalf("write weights: %v", err)
	}
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	base := t.TempDir()
	writeAdapter(t, base, "resume_eval", "resume_eval")
	writeAdapter(t, base, "job_match", "job_match")
	reg, err := registry.Discover(base, zerolog.Nop())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	return reg
}

func newTestManager(t *testing.T, rt *fakeRuntime, mutate func(*ManagerConfig)) *Manager {
	t.Helper()
	cfg := ManagerConfig{
		Runtime:  rt,
		Registry: testRegistry(t),
		Logger:   zerolog.Nop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	m := NewWithConfig(cfg)
	t.Cleanup(func() { m.Close() })
	return m
}
