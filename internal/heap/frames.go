package heap

import "github.com/nyx-systems/nyxkernel/internal/runtime/concurrency"

// CountingFrameAllocator hands out monotonically increasing frame tokens
// up to a fixed budget, then reports exhaustion — grounded on the
// teacher's kernel.PhysicalMemoryManager, whose free-page-list depletion
// check this mirrors. A real frame allocator would track individual
// physical page addresses; this one only needs to answer "is a frame
// available", since our Mapper implementations source real memory
// themselves (via mmap or a pinned buffer) rather than through the frame
// token's value.
type CountingFrameAllocator struct {
	count uint64
	limit uint64
}

// NewCountingFrameAllocator returns an allocator that can hand out limit
// frames before failing. A limit of 0 means unbounded.
func NewCountingFrameAllocator(limit uint64) *CountingFrameAllocator {
	return &CountingFrameAllocator{limit: limit}
}

// AllocateFrame returns the next frame token, or ok == false once limit
// frames have been handed out. The increment-only-if-under-budget check
// is a compare-and-swap loop rather than a bare atomic add, since "add
// unconditionally, then notice we overshot" cannot be undone once
// concurrent callers have already observed the bad value.
func (c *CountingFrameAllocator) AllocateFrame() (uintptr, bool) {
	limit := c.limit
	if limit == 0 {
		limit = ^uint64(0)
	}

	for {
		cur := concurrency.LoadUint64(&c.count)
		if cur >= limit {
			return 0, false
		}
		if concurrency.CASUint64(&c.count, cur, cur+1) {
			return uintptr(cur + 1), true
		}
	}
}

// Allocated returns how many frames have been handed out so far.
func (c *CountingFrameAllocator) Allocated() uint64 {
	return concurrency.LoadUint64(&c.count)
}
