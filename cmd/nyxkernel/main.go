// Command nyxkernel boots the heap, installs an allocator strategy,
// spawns the keyboard-echo task plus one allocate/free demonstration task,
// and runs the executor — the entry point an embedder would call from
// a freestanding _start.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nyx-systems/nyxkernel/internal/allocator"
	"github.com/nyx-systems/nyxkernel/internal/executor"
	"github.com/nyx-systems/nyxkernel/internal/heap"
	"github.com/nyx-systems/nyxkernel/internal/keyboard"
	"github.com/nyx-systems/nyxkernel/internal/runtime/kernel"
)

func selectStrategy(name string) (allocator.Allocator, error) {
	switch name {
	case "bump":
		return allocator.NewBump(), nil
	case "free-list":
		return allocator.NewFreeList(), nil
	case "fixed-block":
		return allocator.NewFixedBlock(), nil
	default:
		return nil, fmt.Errorf("unknown allocator strategy %q", name)
	}
}

// countTask allocates and frees a small value n times, then completes —
// a stand-in for the reference kernel's "simple allocation"/"many boxes"
// demonstration tasks.
type countTask struct {
	name      string
	strategy  allocator.Allocator
	remaining int
}

func (t *countTask) Poll(cx *executor.Context) executor.State {
	if t.remaining <= 0 {
		kernel.DefaultConsole.Printf("countTask %q finished\n", t.name)
		return executor.Ready
	}
	addr, ok := t.strategy.Alloc(8, 8)
	if ok {
		t.strategy.Dealloc(addr, 8, 8)
	}
	t.remaining--
	cx.Waker.Wake()
	return executor.Pending
}

func main() {
	strategyName := flag.String("allocator", "fixed-block", "allocator strategy: bump, free-list, or fixed-block")
	frameBudget := flag.Uint64("frame-budget", 0, "cap the number of frames available (0 = unbounded)")
	flag.Parse()

	strategy, err := selectStrategy(*strategyName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	interrupts := kernel.NewInterruptController()
	interrupts.SetHandler(kernel.VectorBreakpoint, func(ctx *kernel.InterruptContext) {
		kernel.DefaultConsole.Printf("breakpoint hit at RIP=0x%x\n", ctx.RIP)
	})

	mapper := heap.NewMmapMapper()
	frames := heap.NewCountingFrameAllocator(*frameBudget)

	if err := heap.Init(mapper, frames, strategy); err != nil {
		fmt.Fprintf(os.Stderr, "heap init failed: %v\n", err)
		os.Exit(1)
	}
	kernel.DefaultConsole.Printf("heap ready: strategy=%s start=0x%x size=%d\n", *strategyName, heap.Start, heap.Size)

	exec := executor.New()

	stream := keyboard.NewScancodeStream()
	exec.Spawn(keyboard.NewEchoTask(stream, func(r rune) {
		kernel.DefaultConsole.Printf("key: %q\n", r)
	}))

	exec.Spawn(&countTask{name: "warmup", strategy: strategy, remaining: 1000})

	exec.Run()
}
