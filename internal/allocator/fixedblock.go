package allocator

import (
	"sync"
	"unsafe"

	"github.com/nyx-systems/nyxkernel/internal/runtime/kernel"
)

// blockSizes are the segregated size classes. They must be powers of two
// because each class's size also doubles as its alignment.
var blockSizes = [...]uintptr{8, 16, 32, 64, 128, 256, 512, 1024, 2048}

// blockNode is the free-list header stored at the start of a free block
// within a size class. Unlike freeNode it carries no size field: the
// class a block belongs to already fixes its size. It is read and
// written through kernel.ReadVolatile64/WriteVolatile64 rather than an
// unsafe.Pointer struct overlay, for the same reason freeNode is.
type blockNode struct {
	next uintptr
}

const blockNodeSize = unsafe.Sizeof(blockNode{})

func loadBlockNode(addr uintptr) blockNode {
	return blockNode{next: uintptr(kernel.ReadVolatile64(addr))}
}

func storeBlockNode(addr uintptr, n blockNode) {
	kernel.WriteVolatile64(addr, uint64(n.next))
}

// findBlockIndex returns the index of the smallest class able to satisfy
// size and align, or -1 if none (or the size class bound, 2048, is
// exceeded).
func findBlockIndex(size, align uintptr) int {
	required := size
	if align > required {
		required = align
	}
	for i, s := range blockSizes {
		if s >= required {
			return i
		}
	}
	return -1
}

// FixedBlock is a segregated-fits allocator: one free list per size class
// {8,16,32,64,128,256,512,1024,2048}, backed by a FreeList fallback for
// requests that exceed the largest class or whose alignment exceeds it.
// Allocation and deallocation into a hit class are both O(1); the
// fallback handles the long tail.
//
// Grounded on original_source/src/allocator/fixed_size_block.rs.
type FixedBlock struct {
	mu       sync.Mutex
	heads    [len(blockSizes)]uintptr // head of each class's free list, or 0
	fallback *FreeList
}

// NewFixedBlock returns an uninitialized fixed-size-block allocator.
func NewFixedBlock() *FixedBlock {
	return &FixedBlock{fallback: NewFreeList()}
}

// Init hands the allocator ownership of [start, start+size); the entire
// range starts in the fallback allocator's care.
func (fb *FixedBlock) Init(start, size uintptr) {
	fb.mu.Lock()
	for i := range fb.heads {
		fb.heads[i] = 0
	}
	fb.mu.Unlock()

	fb.fallback.Init(start, size)
}

// Alloc pops a free block of the smallest admissible class, requesting
// one more class_size-sized block from the fallback allocator when that
// class's free list is empty. Oversized or overaligned requests route
// straight to the fallback.
func (fb *FixedBlock) Alloc(size, align uintptr) (uintptr, bool) {
	idx := findBlockIndex(size, align)
	if idx < 0 {
		return fb.fallback.Alloc(size, align)
	}

	fb.mu.Lock()
	head := fb.heads[idx]
	if head != 0 {
		fb.heads[idx] = loadBlockNode(head).next
		fb.mu.Unlock()
		return head, true
	}
	fb.mu.Unlock()

	classSize := blockSizes[idx]
	return fb.fallback.Alloc(classSize, classSize)
}

// Dealloc pushes a freed block onto its class's free list — the class
// construction guarantees every class is large and aligned enough to
// hold a blockNode. Blocks that never matched a class go back to the
// fallback allocator.
func (fb *FixedBlock) Dealloc(addr, size, align uintptr) {
	idx := findBlockIndex(size, align)
	if idx < 0 {
		fb.fallback.Dealloc(addr, size, align)
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	storeBlockNode(addr, blockNode{next: fb.heads[idx]})
	fb.heads[idx] = addr
}
