package asset

import "testing"

func TestRegistry_TrackAndLen(t *testing.T) {
	r := NewRegistry()
	a, _ := NewFromMono(48000, []float32{1})
	b, _ := NewFromMono(48000, []float32{1})

	r.Track(a)
	r.Track(b)
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry()
	a, _ := NewFromMono(48000, []float32{1, 2, 3})
	r.Track(a)

	r.Delete(a)
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Delete, want 0", r.Len())
	}
	if !a.Empty() {
		t.Error("asset should be empty after Delete")
	}
}

func TestRegistry_DeleteUnknown_NoOp(t *testing.T) {
	r := NewRegistry()
	a, _ := NewFromMono(48000, []float32{1})
	// Never tracked.
	r.Delete(a)
	if a.Empty() {
		t.Error("Delete on an untracked asset must not free it")
	}
}

func TestRegistry_FreeAll(t *testing.T) {
	r := NewRegistry()
	a, _ := NewFromMono(48000, []float32{1})
	b, _ := NewFromMono(48000, []float32{1})
	r.Track(a)
	r.Track(b)

	r.FreeAll()
	if r.Len() != 0 {
		t.Errorf("Len() = %d after FreeAll, want 0", r.Len())
	}
	if !a.Empty() || !b.Empty() {
		t.Error("FreeAll must free every tracked asset")
	}
}
