package mixer

import (
	"math"

	"github.com/ColonelBlimp/soundmix/internal/voice"
)

// gainStep is the per-sample gain-smoothing nudge and the stop-fade
// silence threshold: 1/512.
const gainStep = 1.0 / 512.0

// stopFadeDecay is the multiplicative decay applied to a fading voice's
// gain every output sample.
const stopFadeDecay = 0.997

// Mix fills out — an interleaved stereo float32 buffer of len(out)/2
// frames — by clearing it and summing every active voice into it. It is
// invoked from the audio device's callback and acquires the mixer's
// mutex for its full duration.
func (m *Mixer) Mix(out []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range out {
		out[i] = 0
	}

	frames := len(out) / OutputChannels
	master := m.masterVolume
	dt := 1.0 / float64(OutputSampleRateHz)

	remaining := frames
	offset := 0
	for remaining > 0 {
		n := remaining
		if n > step {
			n = step
		}
		chunk := out[offset*OutputChannels : (offset+n)*OutputChannels]
		chunkDur := float64(n) * dt

		m.table.ForEach(func(idx int, s *voice.Slot) {
			if idx == 0 {
				return
			}
			m.mixVoice(s, chunk, n, master, dt, chunkDur)
		})

		m.totalSamplesPlayed += uint64(n)
		m.totalTimePlayed += chunkDur

		offset += n
		remaining -= n
	}
}

// mixVoice dispatches a single voice's contribution to chunk, choosing
// between the tight fast path and the general per-sample path.
func (m *Mixer) mixVoice(s *voice.Slot, chunk []float32, frames int, master float32, dt, chunkDur float64) {
	if s.Empty() {
		return
	}

	if s.StopMode {
		mixStopFade(s, chunk, frames)
		return
	}

	if s.WaitingStart && chunkDur < s.TimeToStart {
		s.TimeToStart -= chunkDur
		return
	}

	advance := (float64(s.Asset.Frequency()) / float64(OutputSampleRateHz)) * float64(s.Pitch)
	targetL, targetR := panGains(master, s.Volume, s.Pan)

	fast := !s.WaitingStart &&
		s.VolumeL == targetL && s.VolumeR == targetR &&
		s.Pos+advance*float64(frames) < s.StopPos

	if fast {
		mixFast(s, chunk, frames, advance)
		return
	}
	mixGeneral(s, chunk, frames, targetL, targetR, advance, dt)
}

// mixFast is the tight inner loop used when no per-sample gain
// smoothing, loop check, or termination check is needed this chunk:
// gains already equal their targets and the voice can't cross StopPos.
func mixFast(s *voice.Slot, chunk []float32, frames int, advance float64) {
	pos := s.Pos
	vl, vr := s.VolumeL, s.VolumeR
	for i := 0; i < frames; i++ {
		ip := int(pos)
		frac := float32(pos - float64(ip))
		l0, r0 := s.Asset.Frame(ip)
		l1, r1 := s.Asset.Frame(ip + 1)
		chunk[i*2] += (l0 + (l1-l0)*frac) * vl
		chunk[i*2+1] += (r0 + (r1-r0)*frac) * vr
		pos += advance
	}
	s.Pos = pos
}

// mixGeneral is the per-sample path: deferred-start countdown, gain
// smoothing, linear interpolation, looping/termination, and the
// transition into stop-fade if the voice terminates mid-chunk.
func mixGeneral(s *voice.Slot, chunk []float32, frames int, targetL, targetR float32, advance, dt float64) {
	pos := s.Pos
	for i := 0; i < frames; i++ {
		if s.StopMode {
			mixStopFadeSample(s, chunk, i)
			if !s.StopMode {
				return // snapped silent; leave the rest of the chunk untouched
			}
			continue
		}

		if s.WaitingStart {
			s.TimeToStart -= dt
			if s.TimeToStart > 0 {
				continue
			}
			s.WaitingStart = false
			pos = s.StartPos
			continue // this sample stays silent; the next one mixes from pos
		}

		s.VolumeL = nudge(s.VolumeL, targetL)
		s.VolumeR = nudge(s.VolumeR, targetR)

		ip := int(pos)
		frac := float32(pos - float64(ip))
		l0, r0 := s.Asset.Frame(ip)
		l1, r1 := s.Asset.Frame(ip + 1)
		chunk[i*2] += (l0 + (l1-l0)*frac) * s.VolumeL
		chunk[i*2+1] += (r0 + (r1-r0)*frac) * s.VolumeR

		pos += advance
		if pos >= s.StopPos {
			if s.Loop {
				pos = s.StartPos
			} else {
				s.Pos = s.StopPos
				s.SetStopMode()
				continue
			}
		}
	}
	if !s.StopMode {
		s.Pos = pos
	}
}

// mixStopFade runs the exponential stop-fade tail for a voice that was
// already fading before this chunk started.
func mixStopFade(s *voice.Slot, chunk []float32, frames int) {
	for i := 0; i < frames; i++ {
		mixStopFadeSample(s, chunk, i)
		if !s.StopMode {
			return
		}
	}
}

// mixStopFadeSample writes one sample of the stop-fade tail and decays
// the gain toward zero, snapping and clearing StopMode once both
// channels are inaudible.
func mixStopFadeSample(s *voice.Slot, chunk []float32, i int) {
	chunk[i*2] += s.VolumeL
	chunk[i*2+1] += s.VolumeR

	s.VolumeL = (s.VolumeL + s.VolumeTrendL) * stopFadeDecay
	s.VolumeR = (s.VolumeR + s.VolumeTrendR) * stopFadeDecay

	if abs32(s.VolumeL) <= gainStep && abs32(s.VolumeR) <= gainStep {
		s.VolumeL, s.VolumeR = 0, 0
		s.StopMode = false
	}
}

func nudge(cur, target float32) float32 {
	diff := target - cur
	if diff > gainStep {
		return cur + gainStep
	}
	if diff < -gainStep {
		return cur - gainStep
	}
	return target
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
