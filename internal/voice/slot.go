package voice

import "github.com/ColonelBlimp/soundmix/internal/asset"

// stopTrendMagnitude is the per-sample decrement applied to a fading
// channel's gain while it is within reach of the target, as an initial
// trend: trend = sign(gain) * -stopTrendMagnitude.
const stopTrendMagnitude = 1.0 / 10000.0

// Slot is a single record in the fixed voice table: one playing or
// fading-out instance of an asset.
type Slot struct {
	Asset *asset.Asset // nil when empty or stop-faded

	Pos      float64 // current read cursor, in input frames
	StartPos float64 // loop/start bound, in input frames
	StopPos  float64 // loop/termination bound, in input frames

	Pitch  float32 // playback-rate multiplier
	Volume float32 // linear volume
	Pan    float32 // -1 left ... +1 right

	VolumeL, VolumeR           float32 // current per-channel gain
	VolumeTrendL, VolumeTrendR float32 // stop-fade decay trend per channel

	TimeToStart float64 // seconds of remaining pre-roll silence
	Channels    int     // snapshot of the asset's channel count

	version uint32 // monotonic, advances by N on every reuse

	Loop         bool
	StopMode     bool // in the exponential stop-fade tail
	WaitingStart bool // deferred start, not yet begun
}

// Empty reports whether the slot is eligible for allocation: no asset,
// not fading out, and not waiting to start.
func (s *Slot) Empty() bool {
	return s.Asset == nil && !s.StopMode && !s.WaitingStart
}

// Version returns the slot's current version counter.
func (s *Slot) Version() uint32 { return s.version }

// Handle returns the handle that currently addresses this slot.
func (s *Slot) Handle(index int) Handle {
	return makeHandle(index, s.version)
}

// reset clears all per-voice state, keeping only the version counter,
// which the caller (Table.Allocate) has already advanced.
func (s *Slot) reset() {
	v := s.version
	*s = Slot{version: v}
}

// SetStopMode begins the exponential stop-fade tail, or — if the voice
// was only waiting to start and so never made a sound — silently empties
// the slot instead. It always advances the version, invalidating the
// caller's handle. After this call the slot no longer holds an asset
// reference, so a concurrent asset deletion can safely proceed.
func (s *Slot) SetStopMode() {
	s.version += N

	if s.WaitingStart {
		s.WaitingStart = false
		s.Asset = nil
		return
	}
	if s.Asset == nil || s.StopMode {
		// Already stopping or already empty: nothing to seed.
		s.Asset = nil
		return
	}

	ip := int(s.Pos)
	if ip >= s.Asset.Samples() {
		ip = s.Asset.Samples() - 1
	}
	if ip < 0 {
		ip = 0
	}
	l, r := s.Asset.Frame(ip)

	s.VolumeL *= l
	s.VolumeR *= r
	s.VolumeTrendL = trendFor(s.VolumeL)
	s.VolumeTrendR = trendFor(s.VolumeR)
	s.StopMode = true
	s.Asset = nil
}

func trendFor(gain float32) float32 {
	if gain > 0 {
		return -stopTrendMagnitude
	}
	if gain < 0 {
		return stopTrendMagnitude
	}
	return 0
}
