package kernel

import "unsafe"

// ============================================================================
// Memory-mapped I/O
// ============================================================================

// ReadVolatile64 performs a volatile 64-bit memory read, the same raw
// unsafe.Pointer overlay technique the allocator package's node headers
// are read through.
func ReadVolatile64(addr uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(addr)) //nolint:govet
}

// WriteVolatile64 performs a volatile 64-bit memory write.
func WriteVolatile64(addr uintptr, value uint64) {
	*(*uint64)(unsafe.Pointer(addr)) = value //nolint:govet
}

// ============================================================================
// CPU control primitives
// ============================================================================
//
// A hosted Go process has no cli/sti/hlt instructions to issue, and the
// executor does not call these: its "disable interrupts" / "enable and
// halt" pair is implemented with sync.Cond instead (see
// internal/executor). These remain as named, documented stand-ins for
// the real instructions, and InterruptController.Trigger calls them
// around every handler invocation to mask nested interrupts for the
// handler's duration, the same way entering a real x86_64 interrupt
// gate clears IF automatically.

// interruptsEnabled models the CPU's interrupt flag. There is exactly
// one of these in a freestanding single-core kernel; InterruptController
// owns it.
var interruptsEnabled = true

// DisableInterrupts clears the modeled interrupt flag.
func DisableInterrupts() { interruptsEnabled = false }

// EnableInterrupts sets the modeled interrupt flag.
func EnableInterrupts() { interruptsEnabled = true }

// GetInterruptFlag reports the modeled interrupt flag's current state.
func GetInterruptFlag() bool { return interruptsEnabled }
