//go:build unix

package heap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapMapper maps each heap page as an anonymous, fixed-address mmap
// region — the production Mapper. Grounded on cznic/memory's raw-page
// mmap technique, reusing golang.org/x/sys (otherwise dropped from the
// module, see DESIGN.md). unix.Mmap itself has no way to request a
// specific address, so the fixed mapping goes through the raw SYS_MMAP
// syscall directly, the same way cznic/memory's mmap_unix.go drops to
// syscall.Syscall for the matching munmap call.
//
// A frame value has no meaning of its own here: unlike a real kernel,
// there is no physical-address space to map from, so MapPage ignores it
// beyond treating its presence as "a frame was reserved for this page"
// and maps fresh zeroed memory at the requested virtual page instead.
type MmapMapper struct{}

// NewMmapMapper returns the production mapper.
func NewMmapMapper() *MmapMapper { return &MmapMapper{} }

// MapPage establishes a PROT_READ|PROT_WRITE mapping at virtualPage. It
// always requests MAP_FIXED: a mapping placed at a different address
// than requested would silently break the invariant that the heap
// region is a single, predetermined, contiguous range, so failure to
// obtain the exact address is reported as an error rather than retried
// elsewhere.
func (m *MmapMapper) MapPage(virtualPage, _ uintptr) error {
	addr, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		virtualPage,
		PageSize,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE|unix.MAP_FIXED,
		^uintptr(0), // fd = -1
		0,
	)
	if errno != 0 {
		return fmt.Errorf("heap: mmap fixed at 0x%x: %w", virtualPage, errno)
	}
	if addr != virtualPage {
		return fmt.Errorf("heap: mmap returned 0x%x, wanted fixed address 0x%x", addr, virtualPage)
	}
	return nil
}

// Unmap releases a single page previously mapped by MapPage. Provided
// for symmetry and test teardown; the heap itself never unmaps live
// pages during normal operation.
func (m *MmapMapper) Unmap(virtualPage uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_MUNMAP, virtualPage, PageSize, 0)
	if errno != 0 {
		return fmt.Errorf("heap: munmap 0x%x: %w", virtualPage, errno)
	}
	return nil
}
