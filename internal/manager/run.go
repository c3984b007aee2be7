package manager

import (
	"context"

	"adapterd/internal/normalize"
	"adapterd/internal/prompt"
	"adapterd/pkg/types"
)

// Pipeline stages that can fail, used for failure attribution in logs.
// Classification and normalization are total and never reach fail.
const (
	stageComposed  = "composed"
	stageActivated = "activated"
	stageGenerated = "generated"
)

// Assist runs the full pipeline for the unified /assistant entry point:
// classify, compose, activate, generate, normalize. A failure at any stage
// short-circuits with the originating error; there are no automatic retries.
func (m *Manager) Assist(ctx context.Context, req types.Request) (types.Response, error) {
	mode := m.rtr.Classify(req)
	m.log.Debug().Str("mode", mode.Label()).Msg("request classified")
	return m.execute(ctx, mode, req)
}

// RunAdapter forces a named adapter, bypassing classification. An unknown
// name fails before any resource is touched.
func (m *Manager) RunAdapter(ctx context.Context, name string, req types.Request) (types.Response, error) {
	d, ok := m.reg.Get(name)
	if !ok {
		return types.Response{}, ErrAdapterNotFound(name)
	}
	return m.execute(ctx, types.ExecutionMode{Kind: types.ModeAdapter, Adapter: d}, req)
}

func (m *Manager) execute(ctx context.Context, mode types.ExecutionMode, req types.Request) (types.Response, error) {
	// Composition touches no shared state and may run concurrently with
	// other requests; only activate+generate need the gate.
	text, err := prompt.Compose(mode, req)
	if err != nil {
		return types.Response{}, m.fail(mode, stageComposed, err)
	}

	release, err := m.acquire(ctx)
	if err != nil {
		return types.Response{}, m.fail(mode, stageActivated, err)
	}
	defer release()

	var desc *types.AdapterDescriptor
	if mode.Kind == types.ModeAdapter {
		desc = mode.Adapter
	}
	if err := m.activate(desc); err != nil {
		return types.Response{}, m.fail(mode, stageActivated, err)
	}

	genCtx := ctx
	if m.genTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, m.genTimeout)
		defer cancel()
	}
	m.pub.Publish(Event{Name: EventGenerationStarted, Adapter: mode.Label()})
	raw, err := m.rt.Generate(genCtx, text, m.params)
	m.pub.Publish(Event{Name: EventGenerationFinished, Adapter: mode.Label()})
	if err != nil {
		generationsTotal.WithLabelValues(mode.Label(), "error").Inc()
		return types.Response{}, m.fail(mode, stageGenerated, err)
	}

	resp := normalize.Normalize(mode, req, raw)
	generationsTotal.WithLabelValues(mode.Label(), "success").Inc()
	return resp, nil
}

// fail records the stage a request died in and passes the original error
// through unchanged so callers can map its kind.
func (m *Manager) fail(mode types.ExecutionMode, stage string, err error) error {
	m.log.Warn().Str("mode", mode.Label()).Str("stage", stage).Err(err).Msg("request failed")
	return err
}
