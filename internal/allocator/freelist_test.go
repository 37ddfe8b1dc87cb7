package allocator

import (
	"testing"
	"unsafe"
)

func setLongLived(addr uintptr, v uint64) { *(*uint64)(unsafe.Pointer(addr)) = v } //nolint:govet
func readLongLived(addr uintptr) uint64   { return *(*uint64)(unsafe.Pointer(addr)) } //nolint:govet

// TestFreeListLongLivedStability verifies invariant #5: a long-lived
// allocation coexists with a long run of short-lived allocate/free cycles
// without any cycle failing and without the long-lived value being
// overwritten.
func TestFreeListLongLivedStability(t *testing.T) {
	start := newBackedHeap(t)
	f := NewFreeList()
	f.Init(start, testHeapSize)

	longLived, ok := f.Alloc(8, 8)
	if !ok {
		t.Fatal("long-lived alloc failed")
	}
	setLongLived(longLived, 1)

	const iterations = 5_000
	const size = 32
	for i := 0; i < iterations; i++ {
		addr, ok := f.Alloc(size, 8)
		if !ok {
			t.Fatalf("cycle %d: alloc failed", i)
		}
		f.Dealloc(addr, size, 8)

		if got := readLongLived(longLived); got != 1 {
			t.Fatalf("cycle %d: long-lived value corrupted, got %d", i, got)
		}
	}
}

// TestFreeListNoSliverLeft verifies a remainder smaller than nodeSize
// disqualifies a candidate region rather than being left as an unusable
// sliver.
func TestFreeListNoSliverLeft(t *testing.T) {
	start := newBackedHeap(t)
	f := NewFreeList()
	// A region exactly two node-sizes big: one alloc that leaves less
	// than nodeSize free must not carve off the remainder.
	f.Init(start, uintptr(2*nodeSize))

	size := uintptr(nodeSize) + 1 // leaves < nodeSize remaining if it fit
	_, ok := f.Alloc(size, nodeAlign)
	if ok {
		t.Fatal("expected allocation leaving a sub-node sliver to be rejected")
	}
}

func TestFreeListDeallocReusesFreedRegion(t *testing.T) {
	start := newBackedHeap(t)
	f := NewFreeList()
	f.Init(start, testHeapSize)

	a, ok := f.Alloc(64, 8)
	if !ok {
		t.Fatal("alloc failed")
	}
	f.Dealloc(a, 64, 8)

	b, ok := f.Alloc(64, 8)
	if !ok {
		t.Fatal("second alloc failed")
	}
	if a != b {
		t.Fatalf("expected freed region to be reused: a=0x%x b=0x%x", a, b)
	}
}
