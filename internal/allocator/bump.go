package allocator

import "sync"

// Bump is a trivial O(1) allocator suited to workloads with LIFO or
// batch-free patterns. Allocation advances a cursor monotonically;
// deallocation only reclaims space when it frees the most recent block
// (LIFO reuse) or when the last live allocation is freed (full reset).
//
// Grounded on original_source/src/allocator/bump.rs.
type Bump struct {
	mu         sync.Mutex
	heapStart  uintptr
	heapEnd    uintptr
	next       uintptr
	liveCount  int
}

// NewBump returns an uninitialized bump allocator. Init must be called
// before use.
func NewBump() *Bump { return &Bump{} }

// Init hands the allocator ownership of [start, start+size). Must be
// called exactly once.
func (b *Bump) Init(start, size uintptr) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.heapStart = start
	b.heapEnd = start + size
	b.next = start
	b.liveCount = 0
}

// Alloc reserves size bytes aligned to align, advancing the bump cursor.
func (b *Bump) Alloc(size, align uintptr) (uintptr, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := AlignUp(b.next, align)

	end, ok := checkedAdd(start, size)
	if !ok {
		return 0, false
	}
	if end > b.heapEnd {
		return 0, false
	}

	b.next = end
	b.liveCount++
	return start, true
}

// Dealloc decrements the live count. Freeing the last live allocation
// resets the whole heap. Otherwise it attempts LIFO reuse: if the freed
// block is the most recently allocated one, the cursor rewinds to reclaim
// it immediately; any other block is only reclaimed once every live
// allocation has been freed — this means deallocation order, not
// allocation order, determines when next rewinds; that is safe precisely
// because liveCount == 0 implies there is nothing left to overwrite.
func (b *Bump) Dealloc(addr, size, _ uintptr) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.liveCount--

	if b.liveCount == 0 {
		b.next = b.heapStart
		return
	}
	if end, ok := checkedAdd(addr, size); ok && end == b.next {
		b.next = addr
	}
}
