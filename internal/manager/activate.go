package manager

import "adapterd/pkg/types"

// activate makes desc the attached adapter (nil means base model only).
// Callers must hold the gate: activation and generation form one atomic
// unit of work, so activation can never race an in-flight generation.
//
// Idempotent: requesting the already-attached adapter is a no-op. On attach
// failure the resource reverts to its previous state, never half-attached.
func (m *Manager) activate(desc *types.AdapterDescriptor) error {
	m.mu.RLock()
	prev := m.attached
	m.mu.RUnlock()

	if sameAdapter(prev, desc) {
		return nil
	}

	if desc == nil {
		if err := m.rt.Detach(); err != nil {
			return adapterLoadError{name: prev.Name, err: err}
		}
		m.setAttached(nil)
		detachesTotal.Inc()
		m.pub.Publish(Event{Name: EventAdapterDetached, Adapter: prev.Name})
		return nil
	}

	if err := m.rt.Attach(desc.Name, desc.WeightsPath); err != nil {
		m.revert(prev)
		return adapterLoadError{name: desc.Name, err: err}
	}
	m.setAttached(desc)
	attachesTotal.WithLabelValues(desc.Name).Inc()
	m.pub.Publish(Event{Name: EventAdapterAttached, Adapter: desc.Name})
	return nil
}

// revert restores the previously attached adapter after a failed attach.
// A failure here leaves the runtime detached, which is still a coherent
// base-model-only state.
func (m *Manager) revert(prev *types.AdapterDescriptor) {
	if prev == nil {
		if err := m.rt.Detach(); err != nil {
			m.log.Error().Err(err).Msg("detach during revert failed")
		}
		m.setAttached(nil)
		return
	}
	if err := m.rt.Attach(prev.Name, prev.WeightsPath); err != nil {
		m.log.Error().Str("adapter", prev.Name).Err(err).Msg("revert to previous adapter failed")
		m.setAttached(nil)
		return
	}
	m.setAttached(prev)
}

func (m *Manager) setAttached(desc *types.AdapterDescriptor) {
	m.mu.Lock()
	m.attached = desc
	m.mu.Unlock()
}

func sameAdapter(a, b *types.AdapterDescriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name
}
