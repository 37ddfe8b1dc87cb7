// Package executor implements a single-threaded, cooperative task
// executor: tasks are polled to completion rather than preempted, and a
// task that has nothing to do registers a waker and yields control
// instead of busy-spinning.
package executor

import "sync/atomic"

// TaskID uniquely identifies a spawned task for the lifetime of the
// process. IDs are never reused.
type TaskID uint64

var nextTaskID atomic.Uint64

func newTaskID() TaskID {
	return TaskID(nextTaskID.Add(1))
}

// State is the result of polling a Future once.
type State int

const (
	// Pending means the future has not produced its output yet and must
	// be polled again after its waker fires.
	Pending State = iota
	// Ready means the future has completed and will not be polled again.
	Ready
)

// Context is handed to Poll so a future can register interest in being
// woken again. It carries nothing but the waker because this executor
// has no per-task cancellation or deadline story — polling stops only
// when Run stops.
type Context struct {
	Waker *Waker
}

// Future is the unit of cooperative work. Poll must never block: a
// future with nothing ready to do registers cx.Waker wherever it will
// be notified from (a queue, a channel, a completion callback) and
// returns Pending.
type Future interface {
	Poll(cx *Context) State
}

// task pairs a future with the identity its waker refers back to. The
// waker is built once at spawn time and cached here rather than
// reconstructed on every poll, since every poll of the same task would
// otherwise hand out an identical (taskID, exec) pair.
type task struct {
	id     TaskID
	future Future
	waker  *Waker
}
