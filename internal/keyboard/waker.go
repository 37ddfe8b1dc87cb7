package keyboard

import (
	"sync/atomic"

	"github.com/nyx-systems/nyxkernel/internal/executor"
)

// AtomicWaker is a single-slot mailbox for the one task waker currently
// interested in new scancodes, matching futures_util::task::AtomicWaker's
// Register/Take/wake contract. The producer path (AddScancode) only
// ever calls WakeStored, never Register — it must stay wait-free and
// has nothing to register.
type AtomicWaker struct {
	slot atomic.Pointer[executor.Waker]
}

var globalWaker AtomicWaker

// Register stores w as the current waker, replacing whatever was
// previously registered. Called by ScancodeStream.Poll when it finds
// the queue empty, just before its second, double-checking pop.
func (a *AtomicWaker) Register(w *executor.Waker) {
	a.slot.Store(w)
}

// Take removes and returns the currently registered waker, or nil if
// none is registered.
func (a *AtomicWaker) Take() *executor.Waker {
	return a.slot.Swap(nil)
}

// WakeStored wakes and clears whatever waker is currently registered,
// if any. A no-op when nothing is registered — the common case when no
// task has polled the stream to emptiness yet.
func (a *AtomicWaker) WakeStored() {
	if w := a.Take(); w != nil {
		w.Wake()
	}
}
