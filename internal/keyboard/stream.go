package keyboard

import (
	"github.com/nyx-systems/nyxkernel/internal/executor"
	"github.com/nyx-systems/nyxkernel/internal/runtime/concurrency"
)

// ScancodeStream is a Future-compatible handle onto the global scancode
// queue. Constructing more than one is a programming error: there is
// only one keyboard, and two independent consumers racing to drain the
// same queue would each silently lose half the keystrokes.
type ScancodeStream struct {
	queue *concurrency.MPMCQueue[byte]
}

// NewScancodeStream constructs the one and only ScancodeStream for the
// process. Panics if called a second time.
func NewScancodeStream() *ScancodeStream {
	return &ScancodeStream{queue: initScancodeQueue()}
}

// Poll pops one scancode if available and reports Ready; otherwise it
// registers cx's waker and checks once more before reporting Pending.
// The second check closes the race where a scancode arrives between
// the first, empty pop and the waker registration: without it, that
// scancode's wake could be delivered to a waker that was registered too
// late to ever learn about it.
func (s *ScancodeStream) Poll(cx *executor.Context) (byte, executor.State) {
	var b byte
	if s.queue.Dequeue(&b) {
		globalWaker.Take() // a delivered scancode means no wake is owed
		return b, executor.Ready
	}

	globalWaker.Register(cx.Waker)

	if s.queue.Dequeue(&b) {
		globalWaker.Take()
		return b, executor.Ready
	}

	return 0, executor.Pending
}
