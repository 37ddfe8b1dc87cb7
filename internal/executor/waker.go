package executor

// Waker is a handle a pending future stashes away and calls back once
// whatever it was waiting on becomes ready. Waking a task pushes its id
// onto the run queue and signals the executor's idle condition, rather
// than invoking any of the task's code directly — exactly the "wake
// just re-queues, it doesn't run anything" contract a cooperative
// executor needs to stay single-threaded in its own polling loop.
type Waker struct {
	taskID TaskID
	exec   *Executor
}

// Wake re-queues the task this waker belongs to so the executor polls
// it again on its next ready-tasks pass. Waking a task already queued,
// already completed, or already running is harmless: it queues another
// copy of the id, and the run queue tolerates duplicate entries
// (RunReadyTasks skips ids no longer in the registry), matching the "wake is always safe, even if spurious
// or racing completion" contract fulfilled by futures_util's
// ArcWake-style wakers.
//
// A full run queue is treated as fatal, matching the reference
// executor's queue_full panic: a bounded queue that's full is a sign
// the ready:idle ratio has gone wrong for a single-threaded poller, not
// a recoverable condition the task can reasonably continue past.
func (w *Waker) Wake() {
	w.exec.wake(w.taskID)
}
