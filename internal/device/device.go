// Package device adapts a mixer to a real audio output device using
// malgo. It owns the device lifecycle; the mixer owns everything about
// what gets played.
package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gen2brain/malgo"
)

// BytesPerFloat32 is the byte width of one float32 sample.
const BytesPerFloat32 = 4

var (
	ErrNotInitialized = errors.New("device: not initialized")
	ErrAlreadyRunning = errors.New("device: already running")
	ErrNotRunning     = errors.New("device: not running")
)

// Config holds playback device configuration.
type Config struct {
	DeviceIndex int    // -1 for default device
	SampleRate  uint32 // must match the mixer's fixed output rate
	Channels    uint32 // 2 (stereo)
	BufferSize  uint32 // frames per callback
}

// DefaultConfig returns sensible defaults for stereo playback at the
// mixer's fixed 48kHz output rate.
func DefaultConfig() Config {
	return Config{
		DeviceIndex: -1,
		SampleRate:  48000,
		Channels:    2,
		BufferSize:  512,
	}
}

// MixFunc fills out with the next block of interleaved stereo samples.
// It is called directly from the audio callback thread and must not
// block.
type MixFunc func(out []float32)

// Device drives a real-time playback device, pulling mixed audio from a
// MixFunc on every callback.
type Device struct {
	config  Config
	ctx     *malgo.AllocatedContext
	dev     *malgo.Device
	running atomic.Bool
	mu      sync.Mutex // protects ctx and dev

	mixPtr atomic.Pointer[MixFunc]
}

// New creates a playback device adapter.
func New(cfg Config) *Device {
	return &Device{config: cfg}
}

// Init initializes the audio backend.
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx != nil {
		return errors.New("already initialized")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	d.ctx = ctx
	return nil
}

// ListDevices returns available playback devices.
func (d *Device) ListDevices() ([]malgo.DeviceInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx == nil {
		return nil, ErrNotInitialized
	}
	infos, err := d.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	return infos, nil
}

// Start begins playback, invoking mix on every callback until ctx is
// cancelled or Stop is called.
func (d *Device) Start(ctx context.Context, mix MixFunc) error {
	if mix == nil {
		return errors.New("device: nil MixFunc")
	}
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	d.mixPtr.Store(&mix)

	d.mu.Lock()
	if d.ctx == nil {
		d.mu.Unlock()
		d.running.Store(false)
		return ErrNotInitialized
	}
	audioCtx := d.ctx.Context

	var deviceID unsafe.Pointer
	if d.config.DeviceIndex >= 0 {
		devices, err := d.ctx.Devices(malgo.Playback)
		if err != nil {
			d.mu.Unlock()
			d.running.Store(false)
			return fmt.Errorf("enumerate devices: %w", err)
		}
		if d.config.DeviceIndex >= len(devices) {
			d.mu.Unlock()
			d.running.Store(false)
			return fmt.Errorf("device index %d out of range (have %d devices)",
				d.config.DeviceIndex, len(devices))
		}
		deviceID = devices[d.config.DeviceIndex].ID.Pointer()
	}
	d.mu.Unlock()

	deviceConfig := malgo.DeviceConfig{
		DeviceType:         malgo.Playback,
		SampleRate:         d.config.SampleRate,
		PeriodSizeInFrames: d.config.BufferSize,
		Playback: malgo.SubConfig{
			Format:   malgo.FormatF32,
			Channels: d.config.Channels,
		},
	}
	if deviceID != nil {
		deviceConfig.Playback.DeviceID = deviceID
	}

	onSendFrames := func(output, _ []byte, frameCount uint32) {
		out := bytesAsFloat32(output)
		if cbPtr := d.mixPtr.Load(); cbPtr != nil {
			(*cbPtr)(out)
		}
	}

	dev, err := malgo.InitDevice(audioCtx, deviceConfig, malgo.DeviceCallbacks{Data: onSendFrames})
	if err != nil {
		d.running.Store(false)
		return fmt.Errorf("init device: %w", err)
	}

	d.mu.Lock()
	d.dev = dev
	d.mu.Unlock()

	if err := dev.Start(); err != nil {
		d.mu.Lock()
		d.dev.Uninit()
		d.dev = nil
		d.mu.Unlock()
		d.running.Store(false)
		return fmt.Errorf("start device: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := d.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
			fmt.Printf("device: stop on context cancel: %v\n", err)
		}
	}()

	return nil
}

// Stop halts playback.
func (d *Device) Stop() error {
	if !d.running.CompareAndSwap(true, false) {
		return ErrNotRunning
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev != nil {
		if err := d.dev.Stop(); err != nil {
			return fmt.Errorf("device stop: %w", err)
		}
		d.dev.Uninit()
		d.dev = nil
	}
	return nil
}

// Close releases all device resources.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() && d.dev != nil {
		_ = d.dev.Stop()
		d.dev.Uninit()
		d.dev = nil
		d.running.Store(false)
	}

	if d.ctx != nil {
		if err := d.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		d.ctx.Free()
		d.ctx = nil
	}
	return nil
}

// IsRunning reports whether playback is active.
func (d *Device) IsRunning() bool { return d.running.Load() }

// bytesAsFloat32 reinterprets a malgo output buffer as float32 samples
// without copying, so Mix writes directly into the device's buffer.
func bytesAsFloat32(data []byte) []float32 {
	if len(data) < BytesPerFloat32 {
		return nil
	}
	n := len(data) / BytesPerFloat32
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), n)
}
