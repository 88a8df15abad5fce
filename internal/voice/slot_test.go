package voice

import (
	"testing"

	"github.com/ColonelBlimp/soundmix/internal/asset"
)

func TestSlot_SetStopMode_SeedsFadeFromCurrentSample(t *testing.T) {
	a, _ := asset.NewFromStereo(48000, []float32{1.0, -1.0, 0.5, -0.5})
	s := &Slot{
		Asset:   a,
		Pos:     1,
		VolumeL: 1,
		VolumeR: 1,
	}

	s.SetStopMode()

	if !s.StopMode {
		t.Fatal("SetStopMode did not set StopMode")
	}
	if s.Asset != nil {
		t.Error("SetStopMode must null the asset reference")
	}
	if s.VolumeL != 0.5 {
		t.Errorf("VolumeL = %v, want 0.5 (seeded from frame 1's L sample)", s.VolumeL)
	}
	if s.VolumeR != -0.5 {
		t.Errorf("VolumeR = %v, want -0.5 (seeded from frame 1's R sample)", s.VolumeR)
	}
	if s.VolumeTrendL >= 0 {
		t.Errorf("VolumeTrendL = %v, want negative (positive gain decays downward)", s.VolumeTrendL)
	}
	if s.VolumeTrendR <= 0 {
		t.Errorf("VolumeTrendR = %v, want positive (negative gain decays upward)", s.VolumeTrendR)
	}
}

func TestSlot_SetStopMode_WaitingStart_NoFadeNeeded(t *testing.T) {
	a, _ := asset.NewFromMono(48000, []float32{1})
	s := &Slot{
		Asset:        a,
		WaitingStart: true,
	}

	s.SetStopMode()

	if s.StopMode {
		t.Error("a voice that never made a sound must not enter stop-fade")
	}
	if s.WaitingStart {
		t.Error("SetStopMode must clear WaitingStart")
	}
	if s.Asset != nil {
		t.Error("SetStopMode must null the asset reference")
	}
	if !s.Empty() {
		t.Error("slot should become empty immediately")
	}
}

func TestSlot_SetStopMode_AdvancesVersionByN(t *testing.T) {
	s := &Slot{}
	s.version = 5 * N
	s.SetStopMode()
	if s.version != 6*N {
		t.Errorf("version = %d, want %d", s.version, 6*N)
	}
}
