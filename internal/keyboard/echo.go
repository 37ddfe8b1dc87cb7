package keyboard

import "github.com/nyx-systems/nyxkernel/internal/executor"

// echoTask is the Go equivalent of print_keypresses: an infinite-loop
// future that drains every currently queued scancode on each poll,
// handing decoded characters to a callback, and always reports Pending
// — the stream never completes.
type echoTask struct {
	stream *ScancodeStream
	decode func(rune)
}

// NewEchoTask returns a Future that decodes every scancode arriving on
// the global stream and forwards each recognized key-down character to
// decode, forever. Break codes and unrecognized scancodes are dropped.
func NewEchoTask(stream *ScancodeStream, decode func(rune)) executor.Future {
	return &echoTask{stream: stream, decode: decode}
}

func (e *echoTask) Poll(cx *executor.Context) executor.State {
	for {
		b, state := e.stream.Poll(cx)
		if state == executor.Pending {
			return executor.Pending
		}
		if r, ok := decodeScancode(b); ok {
			e.decode(r)
		}
	}
}
