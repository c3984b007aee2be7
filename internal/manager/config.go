package manager

import (
	"time"

	"github.com/rs/zerolog"

	"adapterd/internal/registry"
	"adapterd/internal/router"
	"adapterd/internal/runtime"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Runtime  runtime.Runtime
	Registry *registry.Registry

	MaxQueueDepth int
	MaxWait       time.Duration
	// GenTimeout bounds a single generation call; 0 disables.
	GenTimeout time.Duration

	Params    runtime.Params
	Publisher EventPublisher
	Logger    zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		rt:         cfg.Runtime,
		reg:        cfg.Registry,
		rtr:        router.New(cfg.Registry),
		params:     cfg.Params,
		genTimeout: cfg.GenTimeout,
		pub:        cfg.Publisher,
		log:        cfg.Logger,
		startTime:  time.Now(),
	}
	depth := cfg.MaxQueueDepth
	if depth <= 0 {
		depth = defaultMaxQueueDepth
	}
	m.maxWait = cfg.MaxWait
	if m.maxWait <= 0 {
		m.maxWait = defaultMaxWait
	}
	m.genCh = make(chan struct{}, 1)
	m.queueCh = make(chan struct{}, depth)
	if m.pub == nil {
		m.pub = noopPublisher{}
	}
	return m
}
