package mixer

import (
	"github.com/ColonelBlimp/soundmix/internal/asset"
	"github.com/ColonelBlimp/soundmix/internal/decode"
	"github.com/ColonelBlimp/soundmix/internal/voice"
)

// CreateFromMono synthesizes a mono asset from samples and registers it.
// It returns an empty asset (nil) if synthesis fails validation.
func (m *Mixer) CreateFromMono(frequency int, samples []float32) *asset.Asset {
	a, err := asset.NewFromMono(frequency, samples)
	if err != nil {
		m.log.Printf("mixer: create from mono: %v", err)
		return nil
	}
	m.reg.Track(a)
	return a
}

// CreateFromStereo synthesizes a stereo asset from interleaved L/R frames
// and registers it.
func (m *Mixer) CreateFromStereo(frequency int, frames []float32) *asset.Asset {
	a, err := asset.NewFromStereo(frequency, frames)
	if err != nil {
		m.log.Printf("mixer: create from stereo: %v", err)
		return nil
	}
	m.reg.Track(a)
	return a
}

// CreateFromFile decodes the file at path (dispatching on its extension)
// into a stereo asset and registers it.
func (m *Mixer) CreateFromFile(path string) (*asset.Asset, error) {
	a, err := decode.File(path)
	if err != nil {
		return nil, err
	}
	m.reg.Track(a)
	return a, nil
}

// DeleteAsset force-stops every voice referencing a, frees its buffer,
// and removes it from the registry. Because SetStopMode nulls the
// voice's asset reference, the free below is never observed by a
// concurrent Mix call on the next chunk.
func (m *Mixer) DeleteAsset(a *asset.Asset) {
	if a == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.table.ForEach(func(_ int, s *voice.Slot) {
		if s.Asset == a {
			s.SetStopMode()
		}
	})
	m.reg.Delete(a)
}

// FreeAllAllocated frees every asset buffer still tracked by the
// registry. It first puts every non-empty voice into stop-fade, since
// Registry.FreeAll does not itself check for referring voices.
func (m *Mixer) FreeAllAllocated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table.ForEach(func(_ int, s *voice.Slot) {
		if !s.Empty() {
			s.SetStopMode()
		}
	})
	m.reg.FreeAll()
}

// SetPitch mutates the playback-rate multiplier of h. A stale handle is
// a silent no-op.
func (m *Mixer) SetPitch(h voice.Handle, pitch float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPitchLocked(h, pitch)
}

// setPitchLocked is SetPitch's implementation for a caller that already
// holds m.mu — a manual section opened with EnterCriticalSection.
func (m *Mixer) setPitchLocked(h voice.Handle, pitch float32) {
	s := m.table.Resolve(h)
	if s == nil {
		return
	}
	s.Pitch = clamp32(pitch, pitchMin, pitchMax)
}

// SetVolume mutates the linear volume of h. A stale handle is a silent
// no-op.
func (m *Mixer) SetVolume(h voice.Handle, volume float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setVolumeLocked(h, volume)
}

// setVolumeLocked is SetVolume's implementation for a caller that already
// holds m.mu — a manual section opened with EnterCriticalSection.
func (m *Mixer) setVolumeLocked(h voice.Handle, volume float32) {
	s := m.table.Resolve(h)
	if s == nil {
		return
	}
	s.Volume = clamp32(volume, volumeMin, volumeMax)
}

// SetPan mutates the stereo pan of h. A stale handle is a silent no-op.
func (m *Mixer) SetPan(h voice.Handle, pan float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPanLocked(h, pan)
}

// setPanLocked is SetPan's implementation for a caller that already
// holds m.mu — a manual section opened with EnterCriticalSection.
func (m *Mixer) setPanLocked(h voice.Handle, pan float32) {
	s := m.table.Resolve(h)
	if s == nil {
		return
	}
	s.Pan = clamp32(pan, panMin, panMax)
}

// SetPlayPos moves the read cursor of h, clamped to [StartPos, StopPos].
// It refuses (silent no-op) if h is stale, the voice is empty, or the
// voice is in stop-fade.
func (m *Mixer) SetPlayPos(h voice.Handle, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPlayPosLocked(h, seconds)
}

// setPlayPosLocked is SetPlayPos's implementation for a caller that
// already holds m.mu — a manual section opened with EnterCriticalSection.
func (m *Mixer) setPlayPosLocked(h voice.Handle, seconds float64) {
	s := m.table.Resolve(h)
	if s == nil || s.Empty() || s.StopMode || s.Asset == nil {
		return
	}
	pos := seconds * float64(s.Asset.Frequency())
	if pos < s.StartPos {
		pos = s.StartPos
	}
	if pos > s.StopPos {
		pos = s.StopPos
	}
	s.Pos = pos
}

// IsPlaying reports whether h is valid and not currently in stop-fade.
// This takes the lock rather than peeking at the slot unguarded, since a
// torn read of Slot would be a data race under the Go memory model.
func (m *Mixer) IsPlaying(h voice.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.table.Resolve(h)
	return s != nil && !s.StopMode
}

// GetPlayPos returns h's current position in seconds, or 0 if h is
// stale, the voice is stopping, or the voice hasn't started yet.
func (m *Mixer) GetPlayPos(h voice.Handle) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.table.Resolve(h)
	if s == nil || s.StopMode || s.WaitingStart || s.Asset == nil {
		return 0
	}
	return s.Pos / float64(s.Asset.Frequency())
}
