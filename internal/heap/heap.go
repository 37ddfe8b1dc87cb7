// Package heap owns the fixed virtual range that backs the kernel's
// general-purpose allocator: it maps every page of that range through a
// Mapper/FrameAllocator pair and hands the resulting byte range to one of
// the allocator strategies in package allocator.
package heap

import (
	"errors"
	"fmt"

	"github.com/nyx-systems/nyxkernel/internal/allocator"
)

const (
	// PageSize is the mapping granularity: one 4 KiB page per MapPage call.
	PageSize = 4096

	// Start is a fixed high virtual address, matching the reference kernel.
	Start uintptr = 0x0000_4444_4444_0000

	// Size is the total heap size: 100 KiB.
	Size uintptr = 100 * 1024
)

// ErrFrameAllocationFailed is returned by Init when no physical frame is
// available to back the next page of the heap.
var ErrFrameAllocationFailed = errors.New("heap: frame allocation failed")

// FrameAllocator hands out physical frames to back heap pages.
type FrameAllocator interface {
	AllocateFrame() (frame uintptr, ok bool)
}

// Mapper installs a present+writable mapping from a virtual page to a
// physical frame.
type Mapper interface {
	MapPage(virtualPage, frame uintptr) error
}

// Init maps every page of [start, start+size) present+writable via mapper
// and frames, then hands the resulting range to strategy's one-shot
// initializer. Must be called exactly once; a second call re-maps and
// re-initializes the strategy, which is undefined behavior in the
// reference kernel and merely wasteful here — callers are responsible for
// calling it only once.
func Init(mapper Mapper, frames FrameAllocator, strategy allocator.Allocator) error {
	return InitAt(mapper, frames, strategy, Start, Size)
}

// InitAt is Init generalized over an explicit range. Production code
// should call Init; InitAt exists so tests and the buffer-backed mapper
// (see mapper_buffer.go) can exercise the mapping loop over a real,
// GC-pinned address instead of the unmapped symbolic Start constant.
func InitAt(mapper Mapper, frames FrameAllocator, strategy allocator.Allocator, start, size uintptr) error {
	firstPage := start &^ (PageSize - 1)
	lastByte := start + size - 1
	lastPage := lastByte &^ (PageSize - 1)

	for page := firstPage; page <= lastPage; page += PageSize {
		frame, ok := frames.AllocateFrame()
		if !ok {
			return fmt.Errorf("%w: no frame for page 0x%x", ErrFrameAllocationFailed, page)
		}
		if err := mapper.MapPage(page, frame); err != nil {
			return fmt.Errorf("heap: map page 0x%x: %w", page, err)
		}
	}

	strategy.Init(start, size)
	return nil
}
