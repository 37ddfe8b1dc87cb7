package executor

import (
	"fmt"
	"sync"

	"github.com/nyx-systems/nyxkernel/internal/runtime/concurrency"
)

// runQueueCapacity is the requested run queue size: a deliberately small
// bound that fatally panics on overflow rather than growing, so a run
// queue that's actually filling up shows up as a loud bug instead of
// quietly eating memory. NewMPMCQueue rounds it up to the next power of
// two, so the queue holds 128 pending wakes before the panic fires.
const runQueueCapacity = 100

// Executor polls a set of spawned futures to completion, parking
// between ready-task passes instead of spinning when there is nothing
// to do.
//
// The task registry is a lock-free hash map rather than a mutex-guarded
// one: RunReadyTasks looks a task up by id on every drain pass, and
// that lookup has nothing to do with the idle/wake condition the mutex
// in idle otherwise serializes, so giving it a separate, contention-free
// path keeps a busy run queue from fighting the park/wake protocol for
// the same lock.
type Executor struct {
	tasks *concurrency.LockFreeMap[TaskID, *task]
	queue *concurrency.MPMCQueue[TaskID]

	mu   sync.Mutex
	idle *sync.Cond
}

var taskIDHasher = func(id TaskID) uint64 { return uint64(id) }

// New returns an empty executor ready to accept spawned futures.
func New() *Executor {
	e := &Executor{
		tasks: concurrency.NewLockFreeMap[TaskID, *task](64, taskIDHasher),
		queue: concurrency.NewMPMCQueue[TaskID](runQueueCapacity),
	}
	e.idle = sync.NewCond(&e.mu)
	return e
}

// Spawn registers future as a new task and queues it for its first
// poll. Returns the assigned id.
//
// A duplicate id is fatal rather than silently overwriting the
// existing registration: newTaskID hands out ids from a monotonic
// counter that is never reused, so a collision here means the
// registry itself is corrupt.
func (e *Executor) Spawn(future Future) TaskID {
	id := newTaskID()
	if _, exists := e.tasks.Load(id); exists {
		panic(fmt.Sprintf("executor: duplicate task id %d", id))
	}
	t := &task{id: id, future: future}
	t.waker = &Waker{taskID: id, exec: e}
	e.tasks.Store(id, t)
	e.wake(id)
	return id
}

// wake pushes id onto the run queue and signals any goroutine parked in
// sleepIfIdle. Pushing is wait-free; only the signal touches the mutex.
func (e *Executor) wake(id TaskID) {
	if !e.queue.Enqueue(id) {
		panic(fmt.Sprintf("executor: run queue full waking task %d", id))
	}
	e.mu.Lock()
	e.idle.Signal()
	e.mu.Unlock()
}

// Run polls ready tasks to completion forever, parking between passes
// when the run queue is empty. It never returns under normal operation;
// callers that want a single bounded drain should call RunReadyTasks
// directly instead.
func (e *Executor) Run() {
	for {
		e.RunReadyTasks()
		e.sleepIfIdle()
	}
}

// RunReadyTasks drains every task id currently on the run queue, polling
// each one once. A task that returns Ready is removed from the
// registry; a task that returns Pending is left registered and relies
// on its own waker to re-queue it later. An id popped from the queue
// for a task no longer in the registry (already completed, e.g. a
// second wake queued before its completing poll) is silently skipped;
// a duplicate id for a task still pending simply polls it again —
// duplicate wakes are expected, not an error.
//
// Exported so tests can drive one bounded pass without entering Run's
// infinite loop.
func (e *Executor) RunReadyTasks() {
	var id TaskID
	for e.queue.Dequeue(&id) {
		t, ok := e.tasks.Load(id)
		if !ok {
			continue
		}

		cx := &Context{Waker: t.waker}
		if t.future.Poll(cx) == Ready {
			e.tasks.Delete(id)
			t.waker = nil
		}
	}
}

// sleepIfIdle is the Go-native analogue of the reference executor's
// cli; check-empty; sti; hlt pair. sync.Cond.Wait() atomically unlocks
// the mutex and parks the goroutine, which is exactly the guarantee
// that instruction pair exists to provide: no wakeup delivered between
// the emptiness check and the park is ever lost, because the check and
// the park happen while holding the same lock a concurrent wake must
// also acquire to signal.
func (e *Executor) sleepIfIdle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.queue.Empty() {
		e.idle.Wait()
	}
}

// Len reports how many tasks are currently registered (ready or
// pending). Intended for tests and diagnostics; O(buckets) since the
// underlying map has no maintained size counter.
func (e *Executor) Len() int {
	n := 0
	e.tasks.Range(func(TaskID, *task) bool {
		n++
		return true
	})
	return n
}
