// Package asset implements the PCM sound asset: an owned block of
// interleaved float samples with a trailing guard frame used by the
// mixer's linear interpolator.
package asset

import "errors"

// DefaultFrequency is used when a caller does not specify a sample rate.
const DefaultFrequency = 44100

// guardFrames is the number of trailing frames appended to every asset's
// sample buffer so that the mixer can read one frame past the last real
// frame without a branch.
const guardFrames = 4

var (
	// ErrInvalidChannels indicates an unsupported channel count.
	ErrInvalidChannels = errors.New("asset: channels must be 1 or 2")
	// ErrEmptySamples indicates a zero-length sample sequence, or one whose
	// length is not a whole number of frames for the channel count.
	ErrEmptySamples = errors.New("asset: samples must be non-empty")
)

// Asset is an owned block of interleaved float PCM samples plus metadata.
// Equality is by identity (pointer), never by contents.
type Asset struct {
	frequency int
	channels  int
	samples   int
	data      []float32 // len == channels*(samples+guardFrames)
}

// Frequency returns the asset's sample rate in Hz.
func (a *Asset) Frequency() int { return a.frequency }

// Channels returns 1 (mono) or 2 (stereo).
func (a *Asset) Channels() int { return a.channels }

// Samples returns the number of real frames (excluding the guard frames).
func (a *Asset) Samples() int { return a.samples }

// Empty reports whether the asset carries no sample data.
func (a *Asset) Empty() bool { return a == nil || a.samples == 0 }

// Data returns the underlying interleaved sample buffer, including the
// trailing guard frame(s). Callers that mutate it must preserve the
// guard-frame invariant (see NewFromMono/NewFromStereo).
func (a *Asset) Data() []float32 { return a.data }

// Frame returns the interleaved sample(s) at input frame index i, reading
// into the guard region when i == a.samples. For mono assets both return
// values are the single channel's sample.
func (a *Asset) Frame(i int) (l, r float32) {
	base := i * a.channels
	l = a.data[base]
	if a.channels == 2 {
		r = a.data[base+1]
	} else {
		r = l
	}
	return l, r
}

// NewFromMono synthesizes a mono asset from a sequence of samples.
func NewFromMono(frequency int, samples []float32) (*Asset, error) {
	return newAsset(frequency, 1, samples)
}

// NewFromStereo synthesizes a stereo asset from interleaved L/R frames.
func NewFromStereo(frequency int, frames []float32) (*Asset, error) {
	return newAsset(frequency, 2, frames)
}

func newAsset(frequency, channels int, samples []float32) (*Asset, error) {
	if channels != 1 && channels != 2 {
		return nil, ErrInvalidChannels
	}
	if len(samples) == 0 || len(samples)%channels != 0 {
		return nil, ErrEmptySamples
	}
	frameCount := len(samples) / channels
	if frequency <= 0 {
		frequency = DefaultFrequency
	}

	a := &Asset{
		frequency: frequency,
		channels:  channels,
		samples:   frameCount,
		data:      make([]float32, channels*(frameCount+guardFrames)),
	}
	copy(a.data, samples)
	a.fixGuard()
	return a, nil
}

// fixGuard duplicates the first frame into the guard region, so that
// sample[ip] and sample[ip+1] are always valid for ip in [0, samples-1].
func (a *Asset) fixGuard() {
	for g := 0; g < guardFrames; g++ {
		for c := 0; c < a.channels; c++ {
			a.data[(a.samples+g)*a.channels+c] = a.data[c]
		}
	}
}

// SetSamples replaces the asset's sample data in place, preserving the
// frequency and channel count. The frame count may change.
func (a *Asset) SetSamples(samples []float32) error {
	if len(samples) == 0 || len(samples)%a.channels != 0 {
		return ErrEmptySamples
	}
	frameCount := len(samples) / a.channels
	a.samples = frameCount
	a.data = make([]float32, a.channels*(frameCount+guardFrames))
	copy(a.data, samples)
	a.fixGuard()
	return nil
}

// Clone returns a deep copy of the asset: a new, independently owned
// buffer with identical metadata.
func (a *Asset) Clone() *Asset {
	clone := &Asset{
		frequency: a.frequency,
		channels:  a.channels,
		samples:   a.samples,
		data:      make([]float32, len(a.data)),
	}
	copy(clone.data, a.data)
	return clone
}

// free releases the sample buffer. After free, the asset is empty and
// must not be read by any voice (the mixer's stop-on-delete rule keeps
// this safe: voices null their asset reference before this is called).
func (a *Asset) free() {
	a.data = nil
	a.samples = 0
}
