// Package voice implements the fixed-size voice-slot table and the
// versioned-handle scheme that keeps stale handles from ever addressing
// a different sound than the one that was originally played.
package voice

// N is the number of voice slots in the table. It must be a power of two;
// slot 0 is reserved so that a zero handle is always invalid.
const N = 128

// indexMask extracts the low bits of a handle/version value that encode
// the slot index, since N is a power of two.
const indexMask = N - 1

// Handle is an opaque 32-bit value packing a slot index in its low bits
// and a version counter in its high bits. Handle(0) is always invalid.
type Handle uint32

// Invalid is the zero handle: never valid, since slot 0 is reserved.
const Invalid Handle = 0

// makeHandle packs a slot index and its current version into a Handle.
// version is always a multiple of N, so its low bits are zero and OR-ing
// in the index is equivalent to addition.
func makeHandle(index int, version uint32) Handle {
	return Handle(version) | Handle(uint32(index)&indexMask)
}

// index returns the slot index a handle addresses, ignoring version bits.
func (h Handle) index() int {
	return int(h) & indexMask
}

// version returns the version bits of a handle, ignoring the index.
func (h Handle) version() uint32 {
	return uint32(h) &^ indexMask
}
