package allocator

import "testing"

// TestBumpReclamation verifies invariant #4: after many allocate-and-
// immediately-free pairs whose combined size vastly exceeds the heap,
// every allocation still succeeds via LIFO reuse.
func TestBumpReclamation(t *testing.T) {
	start := newBackedHeap(t)
	b := NewBump()
	b.Init(start, testHeapSize)

	const iterations = 10_000
	const size = 64 // iterations*size >> testHeapSize
	for i := 0; i < iterations; i++ {
		addr, ok := b.Alloc(size, 8)
		if !ok {
			t.Fatalf("iteration %d: alloc failed", i)
		}
		b.Dealloc(addr, size, 8)
	}
}

// TestBumpOverflowRejected exercises the checked-overflow null-return
// path rather than panicking.
func TestBumpOverflowRejected(t *testing.T) {
	start := newBackedHeap(t)
	b := NewBump()
	b.Init(start, testHeapSize)

	_, ok := b.Alloc(^uintptr(0), 1)
	if ok {
		t.Fatal("expected overflow to be rejected")
	}
}

// TestBumpOutOfLIFOOrderLeaksUntilEmpty exercises the "only reclaimed when
// liveCount reaches zero" path (spec.md §4.2.1, §9 Open Question (b)).
func TestBumpOutOfLIFOOrderLeaksUntilEmpty(t *testing.T) {
	start := newBackedHeap(t)
	b := NewBump()
	b.Init(start, testHeapSize)

	a1, ok := b.Alloc(16, 8)
	if !ok {
		t.Fatal("alloc 1 failed")
	}
	a2, ok := b.Alloc(16, 8)
	if !ok {
		t.Fatal("alloc 2 failed")
	}

	// Freeing the first (non-tail) allocation does not rewind next.
	b.Dealloc(a1, 16, 8)
	if b.next != a2+16 {
		t.Fatalf("next rewound unexpectedly after non-tail free: next=0x%x", b.next)
	}

	// Freeing the last live allocation (liveCount hits zero) resets next
	// to heapStart, not merely back to a2 as a LIFO rewind of the tail
	// block alone would, so a1's leaked slot is reclaimed too.
	b.Dealloc(a2, 16, 8)
	if b.next != b.heapStart {
		t.Fatalf("next did not reset to heapStart once empty: next=0x%x, heapStart=0x%x", b.next, b.heapStart)
	}
}
