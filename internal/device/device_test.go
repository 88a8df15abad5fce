package device

import (
	"context"
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DeviceIndex != -1 {
		t.Errorf("DeviceIndex = %d, want -1", cfg.DeviceIndex)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", cfg.SampleRate)
	}
	if cfg.Channels != 2 {
		t.Errorf("Channels = %d, want 2", cfg.Channels)
	}
}

func TestNew_NotRunningInitially(t *testing.T) {
	d := New(DefaultConfig())
	if d.IsRunning() {
		t.Fatal("IsRunning() = true for a freshly created device")
	}
}

func TestStart_WithoutInit(t *testing.T) {
	d := New(DefaultConfig())
	err := d.Start(context.Background(), func(out []float32) {})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Start() error = %v, want ErrNotInitialized", err)
	}
	if d.IsRunning() {
		t.Fatal("IsRunning() = true after a failed Start")
	}
}

func TestStart_NilMixFunc(t *testing.T) {
	d := New(DefaultConfig())
	if err := d.Start(context.Background(), nil); err == nil {
		t.Fatal("Start(nil) want error, got nil")
	}
}

func TestStop_WhenNotRunning(t *testing.T) {
	d := New(DefaultConfig())
	if err := d.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop() error = %v, want ErrNotRunning", err)
	}
}

func TestListDevices_WithoutInit(t *testing.T) {
	d := New(DefaultConfig())
	if _, err := d.ListDevices(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("ListDevices() error = %v, want ErrNotInitialized", err)
	}
}
