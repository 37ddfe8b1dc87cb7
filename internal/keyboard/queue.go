// Package keyboard implements the interrupt-safe scancode stream: a
// wait-free queue an interrupt handler can push into without ever
// allocating or blocking, and a Future that drains it cooperatively on
// the executor side.
package keyboard

import (
	"sync/atomic"

	"github.com/nyx-systems/nyxkernel/internal/runtime/concurrency"
	"github.com/nyx-systems/nyxkernel/internal/runtime/kernel"
)

// scancodeQueueCapacity is the requested scancode queue size.
// NewMPMCQueue rounds it up to the next power of two, so the queue holds
// 128 scancodes before AddScancode starts dropping them.
const scancodeQueueCapacity = 100

var scancodeQueue atomic.Pointer[concurrency.MPMCQueue[byte]]

// initScancodeQueue installs the global scancode queue exactly once,
// matching ScancodeStream::new's "construct exactly once" contract: a
// second call panics rather than silently handing back the existing
// queue, because a second consumer racing the first over the same
// stream is a programming error, not a supported usage.
func initScancodeQueue() *concurrency.MPMCQueue[byte] {
	q := concurrency.NewMPMCQueue[byte](scancodeQueueCapacity)
	if !scancodeQueue.CompareAndSwap(nil, q) {
		panic("keyboard: scancode stream already constructed")
	}
	return q
}

// AddScancode is the interrupt-handler entry point: it pushes a raw
// scancode byte onto the queue and wakes whatever task is waiting on
// it. It must never allocate or block, since it runs on the interrupt
// path. A scancode arriving before any stream has been constructed, or
// arriving when the queue is already full, is dropped with a logged
// warning rather than blocking the interrupt handler — losing one
// keystroke is recoverable, stalling interrupts is not.
func AddScancode(b byte) {
	q := scancodeQueue.Load()
	if q == nil {
		kernel.DefaultConsole.Warnf("keyboard: scancode dropped, stream not initialized")
		return
	}
	if !q.Enqueue(b) {
		kernel.DefaultConsole.Warnf("keyboard: scancode queue full, scancode dropped")
		return
	}
	globalWaker.WakeStored()
}
