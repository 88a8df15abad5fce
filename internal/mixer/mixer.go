// Package mixer implements the real-time software audio mixer core: the
// per-callback mix routine, the control surface exposed to callers, and
// the critical-section discipline that keeps the audio callback thread
// and arbitrary control threads from corrupting shared voice state.
package mixer

import (
	"sync"
	"sync/atomic"

	"github.com/ColonelBlimp/soundmix/internal/asset"
	"github.com/ColonelBlimp/soundmix/internal/voice"
)

// OutputSampleRateHz is the fixed output rate the device adapter renders
// at; the mixer never negotiates sample rate with the backend.
const OutputSampleRateHz = 48000

// OutputChannels is the fixed output channel count (stereo).
const OutputChannels = 2

// step is the maximum number of output frames mixed per inner-loop chunk.
const step = 256

// Clamp bounds for Play/SetPitch/SetVolume/SetPan.
const (
	pitchMin  = 1e-5
	pitchMax  = 1000
	panMin    = -1
	panMax    = 1
	volumeMin = 0
	volumeMax = 1e5
)

// Handle and Invalid re-export the voice package's handle type so that
// callers of the mixer's control surface never need to import
// internal/voice directly.
type Handle = voice.Handle

const Invalid = voice.Invalid

// Logger is the minimal logging seam validation and backend failures are
// reported through. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// nopLogger discards everything; used when New is given a nil Logger.
type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Mixer owns the fixed voice pool and the asset registry, and produces
// mixed output on demand from Mix. All exported methods are safe for
// concurrent use from the audio callback and arbitrary caller goroutines.
type Mixer struct {
	mu    sync.Mutex
	table *voice.Table
	reg   *asset.Registry
	log   Logger

	masterVolume float32

	totalSamplesPlayed uint64
	totalTimePlayed    float64

	manualEntered atomic.Bool
}

// New creates a mixer with an empty voice table and asset registry.
// A nil logger discards log output.
func New(logger Logger) *Mixer {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Mixer{
		table:        voice.NewTable(),
		reg:          asset.NewRegistry(),
		log:          logger,
		masterVolume: 1,
	}
}

// SetMasterVolume sets the global gain. It takes effect on the next
// per-sample gain nudge inside Mix; there is no explicit ramp.
func (m *Mixer) SetMasterVolume(v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = v
}

// MasterVolume returns the current global gain.
func (m *Mixer) MasterVolume() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.masterVolume
}

// OutputSampleRate returns the fixed output rate in Hz.
func (m *Mixer) OutputSampleRate() int { return OutputSampleRateHz }

// TotalSamplesPlayed returns the cumulative number of output frames
// produced by Mix since the mixer was created.
func (m *Mixer) TotalSamplesPlayed() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalSamplesPlayed
}

// TotalTimePlayed returns the cumulative wall-clock duration, in seconds,
// of output produced by Mix since the mixer was created.
func (m *Mixer) TotalTimePlayed() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalTimePlayed
}

// EnterCriticalSection acquires the mixer's mutex for manual batching of
// several control-surface calls atomically with respect to Mix. It must
// be paired with exactly one LeaveCriticalSection call on the same
// goroutine, and must not be nested with other EnterCriticalSection
// calls or with internal acquires from other control-surface methods on
// the same goroutine. ok is false if a manual section is already open.
//
// sync.Mutex is not reentrant, so the public mutators (Play, Stop,
// SetPitch, SetVolume, SetPan, SetPlayPos) cannot themselves be called
// between Enter and Leave — each would try to re-lock m.mu and deadlock.
// Their *Locked counterparts (playLocked, stopLocked, setPitchLocked,
// setVolumeLocked, setPanLocked, setPlayPosLocked) assume the lock is
// already held and are what a manual section batches.
func (m *Mixer) EnterCriticalSection() (ok bool) {
	if !m.manualEntered.CompareAndSwap(false, true) {
		return false
	}
	m.mu.Lock()
	return true
}

// LeaveCriticalSection releases a section opened by EnterCriticalSection.
func (m *Mixer) LeaveCriticalSection() {
	m.mu.Unlock()
	m.manualEntered.Store(false)
}
