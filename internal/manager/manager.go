package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"adapterd/internal/registry"
	"adapterd/internal/router"
	"adapterd/internal/runtime"
	"adapterd/pkg/types"
)

// Manager owns the single base-model runtime and the currently attached
// adapter. All other components reach the model only through its methods.
type Manager struct {
	mu       sync.RWMutex
	rt       runtime.Runtime
	reg      *registry.Registry
	rtr      *router.Router
	attached *types.AdapterDescriptor

	// Gate: queueCh bounds waiters, genCh serializes generations.
	genCh   chan struct{}
	queueCh chan struct{}
	maxWait time.Duration

	genTimeout time.Duration
	params     runtime.Params
	pub        EventPublisher
	log        zerolog.Logger
	startTime  time.Time
}

// Ready reports whether the base model is resident and able to serve.
func (m *Manager) Ready() bool {
	return m.rt != nil && m.rt.Loaded()
}

// Health summarizes service state for GET /health.
func (m *Manager) Health() types.HealthResponse {
	return types.HealthResponse{
		Status:        "healthy",
		ModelLoaded:   m.Ready(),
		AdaptersReady: !m.reg.Empty(),
	}
}

// AdapterNames returns the sorted names of discovered adapters.
func (m *Manager) AdapterNames() []string {
	return m.reg.Names()
}

// Attached returns the name of the currently attached adapter, or "" for
// base-model-only state.
func (m *Manager) Attached() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.attached == nil {
		return ""
	}
	return m.attached.Name
}

// Uptime reports time since construction.
func (m *Manager) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// Close releases the model runtime.
func (m *Manager) Close() error {
	if m.rt == nil {
		return nil
	}
	return m.rt.Close()
}
