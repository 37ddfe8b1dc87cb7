package heap

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/nyx-systems/nyxkernel/internal/allocator"
)

// testHeapSize must be a multiple of PageSize so the mapping loop's
// bounds arithmetic in InitAt lines up exactly.
const testHeapSize = 16 * PageSize

// newBackedRange returns a real, GC-pinned address backing testHeapSize
// bytes, rounded up so its start is already page-aligned relative to
// itself — mirroring internal/allocator's newBackedHeap helper, since
// raw pointer arithmetic here is only safe over memory the Go runtime
// actually owns.
func newBackedRange(t *testing.T) uintptr {
	t.Helper()
	buf := make([]byte, testHeapSize+PageSize)
	t.Cleanup(func() { _ = buf })
	raw := uintptr(unsafe.Pointer(&buf[0])) //nolint:govet
	return (raw + PageSize - 1) &^ (PageSize - 1)
}

func TestInitAtMapsAndInitializesStrategy(t *testing.T) {
	start := newBackedRange(t)
	mapper := NewBufferMapper(start, testHeapSize)
	frames := NewCountingFrameAllocator(0)
	strategy := allocator.NewBump()

	if err := InitAt(mapper, frames, strategy, start, testHeapSize); err != nil {
		t.Fatalf("InitAt failed: %v", err)
	}

	addr, ok := strategy.Alloc(64, 8)
	if !ok {
		t.Fatal("alloc after InitAt failed")
	}
	if addr < start || addr+64 > start+testHeapSize {
		t.Fatalf("alloc out of initialized range: 0x%x", addr)
	}
}

func TestInitAtFrameExhaustion(t *testing.T) {
	start := newBackedRange(t)
	mapper := NewBufferMapper(start, testHeapSize)
	// Budget one fewer frame than the mapping loop needs.
	wantPages := testHeapSize / PageSize
	frames := NewCountingFrameAllocator(uint64(wantPages - 1))
	strategy := allocator.NewBump()

	err := InitAt(mapper, frames, strategy, start, testHeapSize)
	if err == nil {
		t.Fatal("expected frame exhaustion error")
	}
	if !errors.Is(err, ErrFrameAllocationFailed) {
		t.Fatalf("expected ErrFrameAllocationFailed, got %v", err)
	}
}

func TestInitAtMapperRejectsOutOfRangePage(t *testing.T) {
	start := newBackedRange(t)
	// Mapper configured for a smaller range than InitAt is asked to map.
	mapper := NewBufferMapper(start, PageSize)
	frames := NewCountingFrameAllocator(0)
	strategy := allocator.NewBump()

	err := InitAt(mapper, frames, strategy, start, testHeapSize)
	if err == nil {
		t.Fatal("expected mapping error for out-of-range page")
	}
}
