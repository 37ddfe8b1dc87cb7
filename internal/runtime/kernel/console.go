package kernel

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Console is a mutex-guarded io.Writer wrapper used for every
// diagnostic message the runtime emits — dropped-scancode warnings,
// heap-exhaustion notes, demo output. There is no structured logging
// library here because the reference kernel has nowhere to put one: a
// freestanding binary's only outbound channel is its serial port, so
// the entire ambient logging story is "serialize writes to one
// io.Writer", the same shape as serial.rs's SERIAL1 singleton.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole wraps w for serialized access.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Printf writes a formatted diagnostic line.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

// Warnf writes a formatted diagnostic line prefixed to mark it as a
// warning rather than routine output.
func (c *Console) Warnf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "warning: "+format+"\n", args...)
}

// DefaultConsole is the process-wide console, writing to stderr as the
// host-visible stand-in for a serial port. Tests may swap it for a
// buffer to assert on emitted diagnostics.
var DefaultConsole = NewConsole(os.Stderr)
