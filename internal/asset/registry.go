package asset

import "sync"

// Registry tracks every currently-live asset so that a caller can free
// everything still allocated in one pass. It is consulted only at
// creation/deletion time, never from the mixer's hot path.
type Registry struct {
	mu    sync.Mutex
	alive map[*Asset]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{alive: make(map[*Asset]struct{})}
}

// Track registers a newly created asset.
func (r *Registry) Track(a *Asset) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alive[a] = struct{}{}
}

// Untrack removes an asset from the registry without freeing it. Used
// after the caller has already force-stopped every referring voice and
// is about to free the buffer directly.
func (r *Registry) Untrack(a *Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.alive, a)
}

// Delete frees a's buffer and removes it from the registry. The caller
// must have already force-stopped every voice referencing a.
func (r *Registry) Delete(a *Asset) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alive[a]; !ok {
		return
	}
	delete(r.alive, a)
	a.free()
}

// FreeAll frees every buffer still tracked by the registry. This is the
// bulk teardown path; it does not stop any voices that might still
// reference the assets, so callers must stop all voices first.
func (r *Registry) FreeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for a := range r.alive {
		a.free()
		delete(r.alive, a)
	}
}

// Len reports how many assets are currently tracked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alive)
}
