package mixer

import (
	"math"

	"github.com/ColonelBlimp/soundmix/internal/asset"
	"github.com/ColonelBlimp/soundmix/internal/voice"
)

// minPlayableSamples is the smallest asset frame count Play will accept;
// shorter assets can't sensibly support the guard-frame interpolator
// plus a non-degenerate start/stop range.
const minPlayableSamples = 3

// FullDuration, passed as PlayArgs.EndTime, means "play through the end
// of the asset" rather than converting a specific end time to frames.
const FullDuration = -1

// PlayArgs configures a single Play call. The zero value plays the whole
// asset once, at unit volume/pitch/pan, starting immediately — the
// common case across a whole family of play-with-options calls.
type PlayArgs struct {
	Asset *asset.Asset

	Volume float32 // default 1 (zero value auto-promoted)
	Pitch  float32 // default 1 (zero value auto-promoted)
	Pan    float32 // default 0

	StartTime float64 // seconds, default 0
	EndTime   float64 // seconds; FullDuration (or <=0) means end of asset

	Loop         bool
	DeferSeconds float64 // >0 pre-roll silence, <0 simulate elapsed playback
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Play allocates a voice for args.Asset and begins (or defers) playback.
// It returns voice.Invalid if no voice slot is free or the asset has
// fewer than three samples — both silent, non-error failures rather
// than returned errors.
func (m *Mixer) Play(args PlayArgs) voice.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playLocked(args)
}

// playLocked is Play's implementation for a caller that already holds
// m.mu — a manual section opened with EnterCriticalSection. Calling it
// without the lock held is a data race.
func (m *Mixer) playLocked(args PlayArgs) voice.Handle {
	if args.Asset == nil || args.Asset.Samples() < minPlayableSamples {
		return voice.Invalid
	}

	volume := args.Volume
	if volume == 0 {
		volume = 1
	}
	pitch := args.Pitch
	if pitch == 0 {
		pitch = 1
	}
	volume = clamp32(volume, volumeMin, volumeMax)
	pitch = clamp32(pitch, pitchMin, pitchMax)
	pan := clamp32(args.Pan, panMin, panMax)

	freq := float64(args.Asset.Frequency())
	samples := args.Asset.Samples()

	startPos := clampFrame(math.Floor(args.StartTime*freq), samples)
	var stopPos float64
	if args.EndTime <= 0 {
		stopPos = float64(samples)
	} else {
		stopPos = clampFrame(math.Floor(args.EndTime*freq), samples)
	}
	if stopPos < startPos {
		stopPos = startPos
	}

	idx, ok := m.table.Allocate()
	if !ok {
		return voice.Invalid
	}
	s := m.table.Slot(idx)

	s.Asset = args.Asset
	s.Channels = args.Asset.Channels()
	s.Volume = volume
	s.Pitch = pitch
	s.Pan = pan
	s.Loop = args.Loop
	s.StartPos = startPos
	s.StopPos = stopPos

	switch {
	case args.DeferSeconds > 0:
		s.WaitingStart = true
		s.TimeToStart = args.DeferSeconds
		s.Pos = startPos
	case args.DeferSeconds < 0:
		s.WaitingStart = false
		s.Pos = math.Min(-args.DeferSeconds*freq, stopPos)
	default:
		s.WaitingStart = false
		s.Pos = startPos
	}

	gl, gr := panGains(m.masterVolume, volume, pan)
	s.VolumeL, s.VolumeR = gl, gr

	return s.Handle(idx)
}

// panGains computes the steady-state per-channel gain for a given master
// volume, voice volume and pan, per the pan law:
// L = master*volume*min(1+pan,1), R = master*volume*min(1-pan,1).
func panGains(master, volume, pan float32) (l, r float32) {
	l = master * volume * min32(1+pan, 1)
	r = master * volume * min32(1-pan, 1)
	return l, r
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// clampFrame clamps a frame position to [0, samples-1].
func clampFrame(frame float64, samples int) float64 {
	if frame < 0 {
		return 0
	}
	max := float64(samples - 1)
	if frame > max {
		return max
	}
	return frame
}
