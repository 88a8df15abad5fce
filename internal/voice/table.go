package voice

// Table is the fixed array of N voice slots plus the allocation and
// versioned-handle scheme built on top of it. Slot 0 is reserved and
// never allocated, so that Handle(0) is always invalid.
type Table struct {
	slots [N]Slot
}

// NewTable returns a table with every slot empty.
func NewTable() *Table {
	return &Table{}
}

// Slot returns a pointer to the slot at index, for direct use by the
// mixer's hot path. index must be in [0, N).
func (t *Table) Slot(index int) *Slot {
	return &t.slots[index]
}

// Allocate scans slots 1..N-1 for the first empty one, advances its
// version by N, and returns its index. ok is false if no slot is free;
// scan order is deterministic but not fair — starvation under overload
// is acceptable at this pool size.
func (t *Table) Allocate() (index int, ok bool) {
	for i := 1; i < N; i++ {
		if t.slots[i].Empty() {
			t.slots[i].version += N
			t.slots[i].reset()
			return i, true
		}
	}
	return 0, false
}

// HandleToIndex resolves a handle to its slot index. ok is false if the
// handle is stale (version mismatch) or addresses the reserved slot 0.
func (t *Table) HandleToIndex(h Handle) (index int, ok bool) {
	idx := h.index()
	if idx <= 0 || idx >= N {
		return 0, false
	}
	if t.slots[idx].version != uint32(h.version()) {
		return 0, false
	}
	return idx, true
}

// Resolve is a convenience combining HandleToIndex and Slot: it returns
// the slot addressed by h, or nil if h is stale.
func (t *Table) Resolve(h Handle) *Slot {
	idx, ok := t.HandleToIndex(h)
	if !ok {
		return nil
	}
	return &t.slots[idx]
}

// ForEach calls fn for every slot in the table, including slot 0 and
// empty slots; fn must check Slot.Empty() itself when relevant.
func (t *Table) ForEach(fn func(index int, s *Slot)) {
	for i := range t.slots {
		fn(i, &t.slots[i])
	}
}
