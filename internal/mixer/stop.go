package mixer

import "github.com/ColonelBlimp/soundmix/internal/voice"

// Stop begins the exponential stop-fade tail for h. A stale handle is a
// silent no-op.
func (m *Mixer) Stop(h voice.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked(h)
}

// stopLocked is Stop's implementation for a caller that already holds
// m.mu — a manual section opened with EnterCriticalSection.
func (m *Mixer) stopLocked(h voice.Handle) {
	s := m.table.Resolve(h)
	if s == nil {
		return
	}
	s.SetStopMode()
}

// StopAll begins the stop-fade tail for every currently non-empty voice.
func (m *Mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table.ForEach(func(_ int, s *voice.Slot) {
		if !s.Empty() {
			s.SetStopMode()
		}
	})
}
