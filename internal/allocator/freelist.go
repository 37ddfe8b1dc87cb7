package allocator

import (
	"sync"
	"unsafe"

	"github.com/nyx-systems/nyxkernel/internal/runtime/kernel"
)

// freeNode is the intrusive header written at the start of every free
// region. A pointer to a free region IS a pointer to a freeNode: there is
// no out-of-band index, because building one would itself require an
// allocation and create a bootstrapping cycle. The technique mirrors
// cznic/memory's page/node headers, which are likewise raw overlays on
// bytes rather than separately-allocated bookkeeping. Unlike a Go struct
// overlay, the two words are read and written individually through
// kernel.ReadVolatile64/WriteVolatile64, so the backing memory itself —
// not a cast *freeNode — is the authority on a node's contents.
type freeNode struct {
	size uintptr
	next uintptr // address of the next freeNode, or 0
}

const nodeSize = unsafe.Sizeof(freeNode{})
const nodeAlign = unsafe.Alignof(freeNode{})
const nodeWordSize = unsafe.Sizeof(uintptr(0))

func loadNode(addr uintptr) freeNode {
	return freeNode{
		size: uintptr(kernel.ReadVolatile64(addr)),
		next: uintptr(kernel.ReadVolatile64(addr + nodeWordSize)),
	}
}

func storeNode(addr uintptr, n freeNode) {
	kernel.WriteVolatile64(addr, uint64(n.size))
	kernel.WriteVolatile64(addr+nodeWordSize, uint64(n.next))
}

// FreeList is a first-fit free-list allocator. Free regions are linked
// in place; there is no coalescing of adjacent regions, trading
// fragmentation resistance for simplicity (see SPEC_FULL.md §9 / Open
// Question (a)).
//
// Grounded on original_source/src/allocator/linked_list.rs.
type FreeList struct {
	mu   sync.Mutex
	head uintptr // address of first freeNode, or 0 for an empty list
}

// NewFreeList returns an uninitialized free-list allocator.
func NewFreeList() *FreeList { return &FreeList{} }

// Init publishes a single free region covering the entire heap.
func (f *FreeList) Init(start, size uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.head = 0
	f.addFreeRegionLocked(start, size)
}

// addFreeRegionLocked links [addr, addr+size) onto the head of the free
// list. addr must already be aligned to nodeAlign and size must be at
// least nodeSize — both are guaranteed by callers in this file.
func (f *FreeList) addFreeRegionLocked(addr, size uintptr) {
	storeNode(addr, freeNode{size: size, next: f.head})
	f.head = addr
}

// sizeAlign adjusts a requested (size, align) so the resulting block can
// itself later store a freeNode.
func sizeAlign(size, align uintptr) (uintptr, uintptr) {
	if align < nodeAlign {
		align = nodeAlign
	}
	size = AlignUp(size, nodeAlign)
	if size < nodeSize {
		size = nodeSize
	}
	return size, align
}

// Alloc scans the free list first-fit: the first node whose aligned start
// admits the allocation is removed and returned. A tail remainder smaller
// than nodeSize would be an unusable sliver, so such a candidate is
// rejected outright rather than accepted with wasted bytes.
func (f *FreeList) Alloc(size, align uintptr) (uintptr, bool) {
	size, align = sizeAlign(size, align)

	f.mu.Lock()
	defer f.mu.Unlock()

	var prev uintptr // address of the freeNode preceding cur, or 0
	cur := f.head

	for cur != 0 {
		node := loadNode(cur)
		allocStart, ok := f.canHold(cur, node.size, size, align)
		if ok {
			next := node.next
			if prev == 0 {
				f.head = next
			} else {
				storeNode(prev, freeNode{size: loadNode(prev).size, next: next})
			}

			allocEnd := allocStart + size
			remaining := (cur + node.size) - allocEnd
			if remaining > 0 {
				f.addFreeRegionLocked(allocEnd, remaining)
			}
			return allocStart, true
		}
		prev = cur
		cur = node.next
	}

	return 0, false
}

// canHold reports whether the region [regionAddr, regionAddr+regionSize)
// can hold an aligned allocation of size bytes, leaving either zero bytes
// or at least nodeSize bytes in the tail.
func (f *FreeList) canHold(regionAddr, regionSize, size, align uintptr) (uintptr, bool) {
	allocStart := AlignUp(regionAddr, align)
	allocEnd, ok := checkedAdd(allocStart, size)
	if !ok {
		return 0, false
	}
	regionEnd := regionAddr + regionSize
	if allocEnd > regionEnd {
		return 0, false
	}
	remaining := regionEnd - allocEnd
	if remaining > 0 && remaining < nodeSize {
		return 0, false
	}
	return allocStart, true
}

// Dealloc re-adds (addr, size) as a free region at the head of the list.
// No coalescing is performed with adjacent regions.
func (f *FreeList) Dealloc(addr, size, align uintptr) {
	size, _ = sizeAlign(size, align)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.addFreeRegionLocked(addr, size)
}
